// Package dto defines the wire-level request and response shapes of the
// public API.
package dto

// ErrorResponse is the uniform error envelope. Details carries yt-dlp
// diagnostic text on execution failures and is omitted otherwise.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MediaInfo is the preview payload for one media item.
type MediaInfo struct {
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
	Thumbnail  string `json:"thumbnail"`
	Avatar     string `json:"avatar"`
	Extractor  string `json:"extractor"`
	WebpageURL string `json:"webpage_url"`
}

type PreviewRequest struct {
	URL string `json:"url"`
}

type PreviewResponse struct {
	OK   bool      `json:"ok"`
	Info MediaInfo `json:"info"`
}

type Profile struct {
	Uploader string `json:"uploader"`
	Avatar   string `json:"avatar"`
}

type ProfileResponse struct {
	OK      bool    `json:"ok"`
	Profile Profile `json:"profile"`
}

type DirectRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

type DirectResponse struct {
	OK         bool   `json:"ok"`
	DirectURL  string `json:"directUrl"`
	FormatUsed string `json:"formatUsed"`
	Note       string `json:"note"`
}

// ActivityEvent is broadcast over the websocket when a download changes
// state. Transient only; nothing is recorded server-side.
type ActivityEvent struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Format string `json:"format"`
	Detail string `json:"detail,omitempty"`
}
