package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onestop/forum-service/internal/forum"
)

// Identity headers set by the gateway after token verification. This
// service trusts the resolved identity and never verifies tokens itself.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

const contextUserKey = "forum.user"

// Identity copies the resolved user identity from the request headers
// into the request context. It never rejects: endpoints that require
// authentication use RequireAuth.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(HeaderUserID); id != "" {
			c.Set(contextUserKey, forum.User{
				ID:    id,
				Email: c.GetHeader(HeaderUserEmail),
				Name:  c.GetHeader(HeaderUserName),
			})
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 before any persistence access when no
// identity is attached to the request.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
				Status:  "error",
				Message: "Authentication required",
			})
			return
		}
		c.Next()
	}
}

// currentUser returns the resolved identity attached to the request
func currentUser(c *gin.Context) (forum.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return forum.User{}, false
	}
	user, ok := v.(forum.User)
	return user, ok
}
