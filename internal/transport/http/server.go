package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/whitered-server/internal/config"
	"github.com/vovakirdan/whitered-server/internal/core"
)

// NewServer builds the HTTP server: health check plus the WebSocket
// endpoint all game traffic runs over.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	limiter := newRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, limiter, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "White & Red backend OK")
}

// LoggerMiddleware logs each HTTP request after it completes. WebSocket
// upgrades are logged on close.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
