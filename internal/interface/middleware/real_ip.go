package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// RemoteIPHeaders are read, in order, when the peer is a trusted proxy.
var RemoteIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ConfigureClientIP makes c.ClientIP() honor RemoteIPHeaders only for requests
// whose peer address is in trusted. With no trusted proxies the peer address
// is the client.
func ConfigureClientIP(r *gin.Engine, trusted []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = RemoteIPHeaders
	return r.SetTrustedProxies(trusted)
}

// RealIP sets the client IP into the Gin context under "real_ip".
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	ip := c.ClientIP()
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}
	return ip
}
