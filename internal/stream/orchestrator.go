// Package stream owns the hard path of the service: one yt-dlp
// subprocess per download, its stdout piped live into the HTTP response,
// an exclusive scratch workspace per request, and a kill-plus-cleanup
// guarantee on every exit path including client disconnect.
package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/lilaloader/internal/observability"
)

// StartError reports a failure before any response bytes were written:
// workspace creation or subprocess spawn. The handler can still send a
// clean JSON error.
type StartError struct {
	Reason string
	Err    error
}

func (e *StartError) Error() string { return fmt.Sprintf("%s: %v", e.Reason, e.Err) }

func (e *StartError) Unwrap() error { return e.Err }

// ExitError reports a non-zero subprocess exit that happened before the
// response was committed, carrying the trimmed stderr diagnostics.
type ExitError struct {
	Details string
	Err     error
}

func (e *ExitError) Error() string { return fmt.Sprintf("yt-dlp failed: %v", e.Err) }

func (e *ExitError) Unwrap() error { return e.Err }

// Orchestrator spawns and supervises download subprocesses. Concurrent
// calls share nothing mutable: every request gets its own workspace
// directory and its own process, so no locking happens at this layer.
type Orchestrator struct {
	binary      string
	cookiesFile string
	tempRoot    string
	timeout     time.Duration
}

func New(binary, cookiesFile, tempRoot string, timeout time.Duration) *Orchestrator {
	if binary == "" {
		binary = "yt-dlp"
	}
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	return &Orchestrator{binary: binary, cookiesFile: cookiesFile, tempRoot: tempRoot, timeout: timeout}
}

// flushWriter pushes every chunk to the client immediately so the
// download starts flowing before the subprocess finishes.
type flushWriter struct {
	w http.ResponseWriter
	n int64
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	fw.n += int64(n)
	if f, ok := fw.w.(http.Flusher); ok && n > 0 {
		f.Flush()
	}
	return n, err
}

// Stream runs one download to completion. It returns a *StartError or
// *ExitError only while the response is still uncommitted; once bytes
// are out, failures are logged and the stream simply ends (the client
// sees a truncated file — inherent to streaming while transcoding).
//
// ctx must be the request context: its cancellation is the disconnect
// signal that kills the subprocess.
func (o *Orchestrator) Stream(ctx context.Context, req Request, w http.ResponseWriter) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	workspace := filepath.Join(o.tempRoot, "lilaloader-"+uuid.NewString())
	if err := os.MkdirAll(workspace, 0o700); err != nil {
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "error").Inc()
		return &StartError{Reason: "create workspace", Err: err}
	}
	defer func() {
		// Best effort on every exit path; never surfaces to the client.
		if err := os.RemoveAll(workspace); err != nil {
			slog.Warn("workspace cleanup failed", "dir", workspace, "error", err)
		}
	}()

	cmd := exec.CommandContext(ctx, o.binary, buildArgs(req, workspace, o.cookiesFile)...)
	// Confine every scratch file yt-dlp makes, including credential
	// caches, to the per-request workspace.
	cmd.Env = append(os.Environ(),
		"TMPDIR="+workspace,
		"TMP="+workspace,
		"TEMP="+workspace,
		"HOME="+workspace,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "error").Inc()
		return &StartError{Reason: "open stdout pipe", Err: err}
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "error").Inc()
		return &StartError{Reason: "start yt-dlp", Err: err}
	}

	observability.ActiveDownloads.Inc()
	defer observability.ActiveDownloads.Dec()

	// Headers go out before the first byte. If the subprocess dies
	// without producing output they are still uncommitted and the
	// handler can replace them with an error payload.
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename()))
	w.Header().Set("Content-Type", req.Format.ContentType())

	fw := &flushWriter{w: w}
	_, copyErr := io.Copy(fw, stdout)
	waitErr := cmd.Wait()

	observability.DownloadBytes.WithLabelValues(string(req.Format)).Add(float64(fw.n))

	if ctx.Err() != nil {
		// Client went away or the configured ceiling fired; the
		// CommandContext kill has already taken the process down.
		slog.Info("download cancelled", "url", req.URL.String(), "bytes", fw.n, "cause", ctx.Err())
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "cancelled").Inc()
		return nil
	}

	if waitErr != nil {
		details := strings.TrimSpace(stderr.String())
		slog.Error("yt-dlp download failed",
			"url", req.URL.String(), "format", string(req.Format), "bytes", fw.n, "details", details)
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "error").Inc()

		if fw.n == 0 {
			// Uncommitted: clear the attachment headers so the handler
			// can respond with a JSON error instead.
			w.Header().Del("Content-Disposition")
			w.Header().Del("Content-Type")
			return &ExitError{Details: details, Err: waitErr}
		}
		// Mid-stream failure: status is committed, the response just
		// ends short.
		return nil
	}

	if copyErr != nil {
		slog.Warn("download stream interrupted", "url", req.URL.String(), "bytes", fw.n, "error", copyErr)
		observability.DownloadsTotal.WithLabelValues(string(req.Format), "error").Inc()
		return nil
	}

	observability.DownloadsTotal.WithLabelValues(string(req.Format), "ok").Inc()
	return nil
}
