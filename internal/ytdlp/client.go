// Package ytdlp wraps the external yt-dlp command: building its argument
// lists, running it with bounded output capture, and mapping failures
// into typed errors. Nothing here touches the HTTP layer.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/observability"
)

// MaxOutputBytes caps captured stdout to keep a pathological or hostile
// response from growing memory without bound.
const MaxOutputBytes = 10 * 1024 * 1024

// ErrNoDirectURL is returned when yt-dlp exits cleanly but prints no
// usable media URL.
var ErrNoDirectURL = errors.New("no direct URL returned by yt-dlp")

// ExtractionError wraps a non-zero exit or spawn failure of yt-dlp.
// Details carries the command's trimmed diagnostic text for logs and the
// error envelope; raw process errors never leave this package.
type ExtractionError struct {
	Op      string
	Details string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("yt-dlp %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Client invokes yt-dlp for metadata extraction and direct-URL
// resolution. The zero value is not usable; construct with New.
type Client struct {
	binary      string
	cookiesFile string
}

func New(binary, cookiesFile string) *Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Client{binary: binary, cookiesFile: cookiesFile}
}

// BaseArgs is the fixed compatibility baseline passed on every
// invocation: force IPv4 and pin the player clients yt-dlp should
// emulate.
func BaseArgs() []string {
	return []string{
		"--force-ipv4",
		"--extractor-args", "youtube:player_client=android,web",
	}
}

// CookieArgs returns the --cookies flag when path names an existing
// file, and nothing otherwise. The existence check runs per call so an
// operator can drop a cookie jar in place without a restart.
func CookieArgs(path string) []string {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{"--cookies", path}
}

// ExtractInfo runs yt-dlp in JSON-dump mode and parses the result into a
// MediaInfo.
func (c *Client) ExtractInfo(ctx context.Context, src media.SourceURL) (*MediaInfo, error) {
	out, err := c.run(ctx, "extract_info", "-J", "--no-playlist", src.String())
	if err != nil {
		return nil, err
	}

	info, perr := ParseMediaInfo(out, src)
	if perr != nil {
		return nil, &ExtractionError{Op: "extract_info", Details: perr.Error(), Err: perr}
	}
	return info, nil
}

// ExtractProfile reuses the JSON dump but keeps only the uploader fields.
func (c *Client) ExtractProfile(ctx context.Context, src media.SourceURL) (*Profile, error) {
	out, err := c.run(ctx, "extract_profile", "-J", "--no-playlist", src.String())
	if err != nil {
		return nil, err
	}

	info, perr := ParseMediaInfo(out, src)
	if perr != nil {
		return nil, &ExtractionError{Op: "extract_profile", Details: perr.Error(), Err: perr}
	}
	return &Profile{Uploader: info.Uploader, Avatar: info.Avatar}, nil
}

// ResolveDirectURL asks yt-dlp for a directly fetchable media URL in
// print-URL mode and returns the first non-empty line. No output is an
// error, not an empty success.
func (c *Client) ResolveDirectURL(ctx context.Context, src media.SourceURL, format string) (string, error) {
	selector := "best[ext=mp4]/best"
	if format == "mp3" {
		selector = "bestaudio[ext=mp3]/bestaudio"
	}

	out, err := c.run(ctx, "resolve_direct", "-g", "-f", selector, "--no-playlist", src.String())
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(out), "\n") {
		if u := strings.TrimSpace(line); u != "" {
			return u, nil
		}
	}
	return "", ErrNoDirectURL
}

func (c *Client) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	final := BaseArgs()
	final = append(final, CookieArgs(c.cookiesFile)...)
	final = append(final, args...)

	cmd := exec.CommandContext(ctx, c.binary, final...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ExtractionError{Op: op, Details: err.Error(), Err: err}
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &ExtractionError{Op: op, Details: err.Error(), Err: err}
	}

	// Read one byte past the cap so overflow is detectable, then drain
	// the rest so Wait never blocks on a full pipe.
	out, readErr := io.ReadAll(io.LimitReader(stdoutPipe, MaxOutputBytes+1))
	_, _ = io.Copy(io.Discard, stdoutPipe)
	waitErr := cmd.Wait()
	observability.ExtractionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if waitErr != nil {
		details := strings.TrimSpace(stderr.String())
		if details == "" {
			details = strings.TrimSpace(string(out))
		}
		if details == "" {
			details = waitErr.Error()
		}
		observability.ExtractionsTotal.WithLabelValues(op, "error").Inc()
		return nil, &ExtractionError{Op: op, Details: details, Err: waitErr}
	}
	if readErr != nil {
		observability.ExtractionsTotal.WithLabelValues(op, "error").Inc()
		return nil, &ExtractionError{Op: op, Details: readErr.Error(), Err: readErr}
	}
	if len(out) > MaxOutputBytes {
		observability.ExtractionsTotal.WithLabelValues(op, "error").Inc()
		err := fmt.Errorf("output exceeded %d bytes", MaxOutputBytes)
		return nil, &ExtractionError{Op: op, Details: err.Error(), Err: err}
	}

	observability.ExtractionsTotal.WithLabelValues(op, "ok").Inc()
	return out, nil
}
