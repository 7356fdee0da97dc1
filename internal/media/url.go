// Package media holds the request-scoped value types shared by the
// extraction client and the download orchestrator: validated source URLs
// and filesystem-safe filenames. Everything here is pure; no I/O.
package media

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrInvalidURL    = errors.New("provide a valid http(s) URL")
	ErrNotYouTubeURL = errors.New("this endpoint is only for YouTube URLs")
)

// SourceURL is an absolute http(s) URL that passed validation. It is only
// ever constructed by Validate or ValidateYouTube, so it is safe to hand
// to the yt-dlp command line and to logs.
type SourceURL string

func (s SourceURL) String() string { return string(s) }

// Validate accepts any well-formed absolute http(s) URL. Used by the
// endpoints that relay or resolve arbitrary media links.
func Validate(raw string) (SourceURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", ErrInvalidURL
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return "", ErrInvalidURL
	}
	if parsed.Hostname() == "" {
		return "", ErrInvalidURL
	}

	return SourceURL(trimmed), nil
}

// ValidateYouTube additionally requires the hostname to be youtube.com,
// a subdomain of it, or the youtu.be short-link domain. The check runs on
// the parsed hostname only, so user-info or path tricks in the raw string
// cannot bypass it.
func ValidateYouTube(raw string) (SourceURL, error) {
	src, err := Validate(raw)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(src.String())
	if err != nil {
		return "", ErrInvalidURL
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be" {
		return src, nil
	}

	return "", ErrNotYouTubeURL
}
