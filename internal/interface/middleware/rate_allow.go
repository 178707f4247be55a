package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/pkg/response"
)

// AllowPrivateIP reports whether the client address is loopback or in a
// private range (10/8, 172.16/12, 192.168/16, fc00::/7).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// Only lets a request through when allow accepts it and answers 404 otherwise,
// so internal endpoints stay invisible from outside.
func Only(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow == nil || !allow(c) {
			response.Error[any](c, http.StatusNotFound, "not found", nil)
			return
		}
		c.Next()
	}
}
