// Package relay streams remote thumbnail bytes through to a client
// response without buffering the payload.
package relay

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/observability"
)

const defaultContentType = "image/jpeg"

// Relay fetches remote images over a shared HTTP client.
type Relay struct {
	client *http.Client
}

func New() *Relay {
	return &Relay{
		client: &http.Client{
			// Bounds connection setup and headers; the body copy is
			// governed by the request context instead.
			Timeout: 0,
			Transport: &http.Transport{
				ResponseHeaderTimeout: 15 * time.Second,
				Proxy:                 http.ProxyFromEnvironment,
			},
		},
	}
}

// Stream fetches src and copies it to w. Upstream error statuses are
// mirrored with an empty body; connection-level failures become 502.
func (r *Relay) Stream(ctx context.Context, src media.SourceURL, w http.ResponseWriter) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.String(), nil)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("thumbnail fetch failed", "url", src.String(), "error", err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		w.WriteHeader(resp.StatusCode)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)

	n, err := io.Copy(w, resp.Body)
	observability.ThumbnailRelayBytes.Add(float64(n))
	if err != nil {
		// Headers are already out; nothing left to do but log.
		slog.Debug("thumbnail relay interrupted", "url", src.String(), "bytes", n, "error", err)
	}
}
