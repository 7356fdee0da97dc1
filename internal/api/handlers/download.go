package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lilaloader/internal/api/ws"
	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/stream"
	"github.com/your-org/lilaloader/pkg/dto"
)

// DownloadHandler streams transcoded media as a file attachment.
type DownloadHandler struct {
	streamer *stream.Orchestrator
	hub      *ws.Hub
}

func NewDownloadHandler(streamer *stream.Orchestrator, hub *ws.Hub) *DownloadHandler {
	return &DownloadHandler{streamer: streamer, hub: hub}
}

func (h *DownloadHandler) Download(c *gin.Context) {
	src, err := media.ValidateYouTube(c.Query("url"))
	if err != nil {
		rejectInput(c, err)
		return
	}

	req := stream.Request{
		URL:     src,
		Format:  stream.ParseFormat(c.Query("format")),
		Quality: stream.ParseQuality(c.Query("quality")),
		Title:   c.Query("title"),
	}

	h.notify("download_started", req, "")
	err = h.streamer.Stream(c.Request.Context(), req, c.Writer)
	if err == nil {
		h.notify("download_finished", req, "")
		return
	}

	var startErr *stream.StartError
	if errors.As(err, &startErr) {
		h.notify("download_failed", req, startErr.Reason)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start yt-dlp."})
		return
	}

	var exitErr *stream.ExitError
	if errors.As(err, &exitErr) {
		h.notify("download_failed", req, exitErr.Details)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "yt-dlp failed.", Details: exitErr.Details})
		return
	}

	// Unreachable with the current orchestrator contract; keep the
	// envelope shape anyway.
	h.notify("download_failed", req, "")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "yt-dlp failed."})
}

func (h *DownloadHandler) notify(event string, req stream.Request, detail string) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(&dto.ActivityEvent{
		Type:   event,
		URL:    req.URL.String(),
		Format: string(req.Format),
		Detail: detail,
	})
}
