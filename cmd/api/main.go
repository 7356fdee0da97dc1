package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/lilaloader/internal/api"
	"github.com/your-org/lilaloader/internal/api/ws"
	"github.com/your-org/lilaloader/internal/config"
	"github.com/your-org/lilaloader/internal/observability"
	"github.com/your-org/lilaloader/internal/relay"
	"github.com/your-org/lilaloader/internal/stream"
	"github.com/your-org/lilaloader/internal/ytdlp"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting lilaloader", "port", cfg.Server.Port, "binary", cfg.Download.Binary)

	hub := ws.NewHub()
	go hub.Run()

	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		YTDLP:    ytdlp.New(cfg.Download.Binary, cfg.Download.CookiesFile),
		Streamer: stream.New(cfg.Download.Binary, cfg.Download.CookiesFile, cfg.Download.TempRoot, cfg.Download.Timeout),
		Relay:    relay.New(),
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: download responses stream for as long as the
		// transcode runs; the per-download ceiling lives in config.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// In-flight download subprocesses die with their request contexts
	// once the listener drains.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
