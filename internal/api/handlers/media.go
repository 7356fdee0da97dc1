package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/ytdlp"
	"github.com/your-org/lilaloader/pkg/dto"
)

const mp3Note = "MP3 is only available when the source provides it. Otherwise you may get the original audio format."

// MediaHandler serves metadata previews, uploader profiles and direct
// media URL resolution.
type MediaHandler struct {
	yt *ytdlp.Client
}

func NewMediaHandler(yt *ytdlp.Client) *MediaHandler {
	return &MediaHandler{yt: yt}
}

func (h *MediaHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectInput(c, media.ErrInvalidURL)
		return
	}

	src, err := media.ValidateYouTube(req.URL)
	if err != nil {
		rejectInput(c, err)
		return
	}

	info, err := h.yt.ExtractInfo(c.Request.Context(), src)
	if err != nil {
		extractionFailed(c, "yt-dlp failed to read this URL.", err)
		return
	}

	c.JSON(http.StatusOK, dto.PreviewResponse{
		OK: true,
		Info: dto.MediaInfo{
			Title:      info.Title,
			Uploader:   info.Uploader,
			Thumbnail:  info.Thumbnail,
			Avatar:     info.Avatar,
			Extractor:  info.Extractor,
			WebpageURL: info.WebpageURL,
		},
	})
}

func (h *MediaHandler) Profile(c *gin.Context) {
	src, err := media.ValidateYouTube(c.Query("url"))
	if err != nil {
		rejectInput(c, err)
		return
	}

	profile, err := h.yt.ExtractProfile(c.Request.Context(), src)
	if err != nil {
		extractionFailed(c, "yt-dlp failed to read profile data.", err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		OK:      true,
		Profile: dto.Profile{Uploader: profile.Uploader, Avatar: profile.Avatar},
	})
}

func (h *MediaHandler) Direct(c *gin.Context) {
	var req dto.DirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectInput(c, media.ErrInvalidURL)
		return
	}

	src, err := media.Validate(req.URL)
	if err != nil {
		rejectInput(c, err)
		return
	}

	format := "mp4"
	if req.Format == "mp3" {
		format = "mp3"
	}

	directURL, err := h.yt.ResolveDirectURL(c.Request.Context(), src, format)
	if err != nil {
		if errors.Is(err, ytdlp.ErrNoDirectURL) {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "No direct URL returned by yt-dlp."})
			return
		}
		extractionFailed(c, "yt-dlp failed to resolve a direct media URL.", err)
		return
	}

	note := ""
	if format == "mp3" {
		note = mp3Note
	}
	c.JSON(http.StatusOK, dto.DirectResponse{
		OK:         true,
		DirectURL:  directURL,
		FormatUsed: format,
		Note:       note,
	})
}

// rejectInput writes the fixed 400 envelope for validation failures.
// These never reach yt-dlp.
func rejectInput(c *gin.Context, err error) {
	msg := "Provide a valid http(s) URL."
	if errors.Is(err, media.ErrNotYouTubeURL) {
		msg = "This endpoint is only for YouTube URLs."
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// extractionFailed maps a typed extraction error onto the 500 envelope,
// logging the diagnostic text regardless of what the client sees.
func extractionFailed(c *gin.Context, msg string, err error) {
	details := ""
	var exErr *ytdlp.ExtractionError
	if errors.As(err, &exErr) {
		details = exErr.Details
	}
	slog.Error("extraction failed", "path", c.Request.URL.Path, "details", details, "error", err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msg, Details: details})
}
