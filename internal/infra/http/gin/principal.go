package ginserver

import (
	"strings"

	gin "github.com/gin-gonic/gin"

	"eventspace/internal/app/middleware"
)

// Identity headers are set by the upstream gateway and trusted as-is.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	principalContextKey = "eventspace.principal"
)

// PrincipalMiddleware stores the caller taken from the gateway headers.
// Requests without an id proceed anonymously; the buses decide whether the
// operation needs one.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id != "" {
			c.Set(principalContextKey, middleware.Actor{
				ID:   id,
				Role: strings.ToLower(strings.TrimSpace(c.GetHeader(UserRoleHeader))),
			})
		}
		c.Next()
	}
}

func currentActor(c *gin.Context) middleware.Actor {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return middleware.Actor{}
	}
	actor, _ := val.(middleware.Actor)
	return actor
}
