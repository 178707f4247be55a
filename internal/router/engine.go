package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/container"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
)

// NewEngine builds the gin engine with global middleware.
func NewEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()
	if err := middleware.ConfigureClientIP(r, cfg.TrustedProxies()); err != nil {
		container.GetLogger().WithError(err).Warn("invalid TRUSTED_PROXIES; trusting no proxy")
		_ = middleware.ConfigureClientIP(r, nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	return r
}

// New builds the engine and mounts every module under /api.
func New(cfg *config.Config) (*gin.Engine, Deps) {
	r := NewEngine(cfg)
	reg := NewRegistry(r, container.GetLogger())
	deps := InitModules(reg)
	reg.RegisterAll()
	return r, deps
}
