package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/relay"
)

// ThumbnailHandler proxies remote thumbnail and avatar images so the
// browser never talks to the media CDN directly.
type ThumbnailHandler struct {
	relay *relay.Relay
}

func NewThumbnailHandler(r *relay.Relay) *ThumbnailHandler {
	return &ThumbnailHandler{relay: r}
}

func (h *ThumbnailHandler) Thumbnail(c *gin.Context) {
	src, err := media.Validate(c.Query("url"))
	if err != nil {
		rejectInput(c, err)
		return
	}

	h.relay.Stream(c.Request.Context(), src, c.Writer)
}
