package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"
)

// Auth requires "Authorization: Bearer <token>". On success the verified
// identity is stored under CtxIdentityKey and its id under CtxUserIDKey.
// Every failure gets the same 401 body.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := jwt.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", gin.H{"unauthorized": "Unauthorized"})
			return
		}
		c.Set(CtxIdentityKey, id)
		c.Set(CtxUserIDKey, id.ID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFrom returns the identity set by Auth.
func IdentityFrom(c *gin.Context) (*helpers.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*helpers.Identity)
	return id, ok && id != nil
}
