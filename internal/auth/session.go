// Package auth establishes and checks the session identity. Permission-gated
// routes use capability membership; admin-gated routes use the username
// itself. The two checks are intentionally not composable: revoking all of
// admin's stored permissions does not revoke admin-only access.
package auth

import (
	"encoding/gob"
	"slices"

	"github.com/gin-gonic/gin"

	"eventsnap/internal/models"
)

const (
	sessionKeyUsername    = "username"
	sessionKeyPermissions = "permissions"
	contextKeySession     = "auth.session"
)

func init() {
	// The cookie store serializes session values with gob.
	gob.Register([]string{})
}

// Session is the identity established at login and carried through every
// handler for the duration of one logical session.
type Session struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the session carries the capability token.
// There is no admin bypass here; admin reaches permission-gated pages only
// through its stored grants.
func (s *Session) HasPermission(capability string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Permissions, capability)
}

// IsAdmin reports whether the session belongs to the administrator account.
// Identity check only; the stored permission set plays no part.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Username == models.AdminUsername
}

// CurrentSession returns the session set by RequireAuth, or nil when the
// request is unauthenticated.
func CurrentSession(c *gin.Context) *Session {
	value, exists := c.Get(contextKeySession)
	if !exists {
		return nil
	}
	session, ok := value.(*Session)
	if !ok {
		return nil
	}
	return session
}
