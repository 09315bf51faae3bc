package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth is a middleware that ensures the user is authenticated. It
// rebuilds the Session value from the cookie store and hands it to
// downstream handlers via the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessions.Default(c)

		username, ok := store.Get(sessionKeyUsername).(string)
		if !ok || username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		permissions, _ := store.Get(sessionKeyPermissions).([]string)

		c.Set(contextKeySession, &Session{
			Username:    username,
			Permissions: permissions,
		})

		c.Next()
	}
}

// RequirePermission gates a route on a capability token. Run after
// RequireAuth.
func RequirePermission(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).HasPermission(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route on the administrator identity. Run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}
