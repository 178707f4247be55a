package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/internal/container"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// UserModule wires account routes:
// Public: GET /api/users/test, POST /api/users/register, POST /api/users/login
// Protected: GET /api/users/current
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// 10 req/min per IP on credential endpoints
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	users.GET("/test", m.Handler.Test)
	users.POST("/register", registerLimiter, m.Handler.Register)
	users.POST("/login", loginLimiter, m.Handler.Login)

	auth := users.Group("")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/current", m.Handler.Current)
	}
}
