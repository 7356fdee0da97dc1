package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/lilaloader/internal/api/handlers"
	"github.com/your-org/lilaloader/internal/api/ws"
	"github.com/your-org/lilaloader/internal/auth"
	"github.com/your-org/lilaloader/internal/relay"
	"github.com/your-org/lilaloader/internal/stream"
	"github.com/your-org/lilaloader/internal/ytdlp"
)

type RouterConfig struct {
	APIKey   string
	YTDLP    *ytdlp.Client
	Streamer *stream.Orchestrator
	Relay    *relay.Relay
	Hub      *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler()
	r.GET("/api/health", systemH.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(auth.APIKeyMiddleware(cfg.APIKey))

	if cfg.Hub != nil {
		api.GET("/ws", cfg.Hub.HandleWS)
	}

	mediaH := handlers.NewMediaHandler(cfg.YTDLP)
	api.POST("/preview", mediaH.Preview)
	api.POST("/youtube/preview", mediaH.Preview)
	api.GET("/profile", mediaH.Profile)
	api.GET("/youtube/profile", mediaH.Profile)
	api.POST("/direct", mediaH.Direct)

	thumbH := handlers.NewThumbnailHandler(cfg.Relay)
	api.GET("/thumbnail", thumbH.Thumbnail)

	downloadH := handlers.NewDownloadHandler(cfg.Streamer, cfg.Hub)
	api.GET("/download", downloadH.Download)
	api.GET("/youtube/download", downloadH.Download)

	return r
}
