package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/internal/container"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Name() string { return "posts" }

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.GET("/test", m.Handler.Test)
	posts.GET("", m.Handler.List)
	posts.GET("/:id", m.Handler.Get)

	auth := posts.Group("")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Create)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.GET("/like/:id", m.Handler.Like)
		auth.GET("/unlike/:id", m.Handler.Unlike)
		auth.DELETE("/like/:id", m.Handler.Unlike)
		auth.POST("/comment/:id", m.Handler.Comment)
		auth.DELETE("/comment/:id/:comment_id", m.Handler.DeleteComment)
	}
}
