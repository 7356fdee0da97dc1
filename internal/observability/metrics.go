package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lila",
		Name:      "extractions_total",
		Help:      "Total number of yt-dlp metadata invocations",
	}, []string{"operation", "outcome"})

	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lila",
		Name:      "extraction_duration_seconds",
		Help:      "Duration of yt-dlp metadata invocations",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"operation"})

	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lila",
		Name:      "downloads_total",
		Help:      "Total number of streamed downloads",
	}, []string{"format", "outcome"})

	ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lila",
		Name:      "active_downloads",
		Help:      "Number of currently streaming download subprocesses",
	})

	DownloadBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lila",
		Name:      "download_bytes_total",
		Help:      "Bytes streamed to clients from download subprocesses",
	}, []string{"format"})

	ThumbnailRelayBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lila",
		Name:      "thumbnail_relay_bytes_total",
		Help:      "Bytes relayed from upstream thumbnail servers",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lila",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lila",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket activity listeners",
	})
)
