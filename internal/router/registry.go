package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/pkg/response"
)

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Logger      logrus.FieldLogger
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts the /api group and answers unknown routes with the
// standard error envelope.
func NewRegistry(engine *gin.Engine, logger logrus.FieldLogger) *Registry {
	api := engine.Group("/api")
	engine.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "not found", gin.H{"route": "Route " + c.Request.Method + " " + c.Request.URL.Path + " not found"})
	})
	return &Registry{Engine: engine, API: api, Logger: logger}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		if r.Logger != nil {
			r.Logger.WithField("module", m.Name()).Debug("module registered")
		}
	}
}
