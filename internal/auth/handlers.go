package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"eventsnap/internal/users"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin validates the submitted credentials and establishes the
// session identity. A failed login never says whether the username or the
// password was wrong.
func HandleLogin(store *users.Store, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		info, ok := store.Authenticate(req.Username, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}

		session := sessions.Default(c)
		session.Set(sessionKeyUsername, info.Username)
		session.Set(sessionKeyPermissions, info.Permissions)

		if err := session.Save(); err != nil {
			log.Error("session save failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
			return
		}

		log.Info("user authenticated", "username", info.Username)
		c.JSON(http.StatusOK, Session{
			Username:    info.Username,
			Permissions: info.Permissions,
		})
	}
}

// HandleLogout destroys all session state unconditionally.
func HandleLogout(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Clear()

		if err := session.Save(); err != nil {
			log.Error("session clear failed", "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}
