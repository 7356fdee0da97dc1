package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/your-org/lilaloader/internal/relay"
	"github.com/your-org/lilaloader/internal/stream"
	"github.com/your-org/lilaloader/internal/ytdlp"
	"github.com/your-org/lilaloader/pkg/dto"
)

// newTestRouter wires the router against a stub yt-dlp script.
func newTestRouter(t *testing.T, script, apiKey string) http.Handler {
	t.Helper()
	stub := filepath.Join(t.TempDir(), "yt-dlp-stub")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	return NewRouter(RouterConfig{
		APIKey:   apiKey,
		YTDLP:    ytdlp.New(stub, ""),
		Streamer: stream.New(stub, "", t.TempDir(), 0),
		Relay:    relay.New(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "exit 0", "")
	rec := doJSON(t, r, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body["ok"] {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPreviewValidation(t *testing.T) {
	r := newTestRouter(t, "exit 0", "")

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "missing url", body: `{}`, wantMsg: "Provide a valid http(s) URL."},
		{name: "empty body", body: ``, wantMsg: "Provide a valid http(s) URL."},
		{name: "bad scheme", body: `{"url":"ftp://youtube.com/x"}`, wantMsg: "Provide a valid http(s) URL."},
		{name: "not youtube", body: `{"url":"https://vimeo.com/123"}`, wantMsg: "This endpoint is only for YouTube URLs."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/preview", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.OK || resp.Error != tt.wantMsg {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestPreviewSuccess(t *testing.T) {
	r := newTestRouter(t, `echo '{"title":"A Video","uploader":"Chan","thumbnail":"https://i.example/t.jpg","extractor_key":"Youtube"}'`, "")

	rec := doJSON(t, r, http.MethodPost, "/api/youtube/preview", `{"url":"https://youtu.be/abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Info.Title != "A Video" || resp.Info.Uploader != "Chan" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Info.WebpageURL != "https://youtu.be/abc" {
		t.Errorf("webpage_url fallback = %q", resp.Info.WebpageURL)
	}
}

func TestPreviewExtractionFailure(t *testing.T) {
	r := newTestRouter(t, `echo 'ERROR: sign in to confirm' >&2; exit 1`, "")

	rec := doJSON(t, r, http.MethodPost, "/api/preview", `{"url":"https://youtu.be/abc"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OK || resp.Details == "" {
		t.Errorf("resp = %+v, want non-empty details", resp)
	}
	if !strings.Contains(resp.Details, "sign in to confirm") {
		t.Errorf("details = %q", resp.Details)
	}
}

func TestProfile(t *testing.T) {
	r := newTestRouter(t, `echo '{"title":"x","channel":"Chan","channel_avatar":"https://i.example/a.jpg"}'`, "")

	rec := doJSON(t, r, http.MethodGet, "/api/profile?url=https%3A%2F%2Fyoutu.be%2Fabc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Profile.Uploader != "Chan" || resp.Profile.Avatar != "https://i.example/a.jpg" {
		t.Errorf("profile = %+v", resp.Profile)
	}
}

func TestDirect(t *testing.T) {
	t.Run("success with mp3 note", func(t *testing.T) {
		r := newTestRouter(t, `echo 'https://cdn.example/audio'`, "")
		rec := doJSON(t, r, http.MethodPost, "/api/direct", `{"url":"https://youtu.be/abc","format":"mp3"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp dto.DirectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.DirectURL != "https://cdn.example/audio" || resp.FormatUsed != "mp3" || resp.Note == "" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("empty output is an error not empty success", func(t *testing.T) {
		r := newTestRouter(t, "exit 0", "")
		rec := doJSON(t, r, http.MethodPost, "/api/direct", `{"url":"https://youtu.be/abc","format":"mp4"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp dto.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.OK {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("non-youtube hosts allowed", func(t *testing.T) {
		r := newTestRouter(t, `echo 'https://cdn.example/v'`, "")
		rec := doJSON(t, r, http.MethodPost, "/api/direct", `{"url":"https://vimeo.com/123","format":"mp4"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})
}

func TestThumbnailValidation(t *testing.T) {
	r := newTestRouter(t, "exit 0", "")
	rec := doJSON(t, r, http.MethodGet, "/api/thumbnail", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing url", rec.Code)
	}
}

func TestDownload(t *testing.T) {
	t.Run("streams attachment", func(t *testing.T) {
		r := newTestRouter(t, `printf 'bytes'`, "")
		rec := doJSON(t, r, http.MethodGet, "/api/download?url=https%3A%2F%2Fyoutu.be%2Fabc&format=mp3&title=Song", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Song.mp3"` {
			t.Errorf("disposition = %q", got)
		}
		if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
			t.Errorf("content-type = %q", got)
		}
		if rec.Body.String() != "bytes" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("rejects non-youtube url", func(t *testing.T) {
		r := newTestRouter(t, `printf 'bytes'`, "")
		rec := doJSON(t, r, http.MethodGet, "/api/youtube/download?url=https%3A%2F%2Fvimeo.com%2F1", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("failure before output yields JSON envelope", func(t *testing.T) {
		r := newTestRouter(t, `echo 'ERROR: drm protected' >&2; exit 1`, "")
		rec := doJSON(t, r, http.MethodGet, "/api/download?url=https%3A%2F%2Fyoutu.be%2Fabc", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var resp dto.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(resp.Details, "drm protected") {
			t.Errorf("details = %q", resp.Details)
		}
	})
}

func TestAPIKeyGate(t *testing.T) {
	r := newTestRouter(t, "exit 0", "sekrit")

	t.Run("health open", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing key rejected", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/preview", `{"url":"https://youtu.be/abc"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("valid key accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(`{"url":"https://vimeo.com/1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", "sekrit")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		// Past the gate; the non-YouTube URL now trips validation.
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
