package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelquery/config"
	"github.com/Domenick1991/travelquery/internal/service/travel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the travel API under /api/v1.
func NewRouter(cfg config.HTTPConfig, service travel.TravelUseCase, providerConfigured bool, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		provider := "configured"
		if !providerConfigured {
			provider = "not_configured"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": provider})
	})

	v1 := r.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RatePerMinute, logger))
	NewTravelHandler(service, logger).Register(v1)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
