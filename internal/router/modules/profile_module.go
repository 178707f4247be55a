package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/internal/container"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// ProfileModule serves /api/profile. Account deletion lives here because it
// is addressed as DELETE /api/profile.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Users   *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, users *handlers.UserHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ProfileModule) Name() string { return "profile" }

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	profile := rg.Group("/profile")
	profile.GET("/test", m.Handler.Test)
	profile.GET("/all", m.Handler.All)
	profile.GET("/handle/:handle", m.Handler.ByHandle)
	profile.GET("/user/:user_id", m.Handler.ByUser)
	profile.GET("/search", searchLimiter, m.Handler.Search)

	auth := profile.Group("")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.GetOwn)
		auth.POST("", m.Handler.Upsert)
		auth.DELETE("", m.Users.DeleteAccount)
		auth.POST("/experience", m.Handler.AddExperience)
		auth.DELETE("/experience/:exp_id", m.Handler.RemoveExperience)
		auth.POST("/education", m.Handler.AddEducation)
		auth.DELETE("/education/:edu_id", m.Handler.RemoveEducation)
	}
}
