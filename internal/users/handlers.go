package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventsnap/internal/models"
)

type createUserRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// ListUsersHandler returns every account, username ascending.
func ListUsersHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := store.ListUsers()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// CreateUserHandler adds an account. Password policy lives here, not in the
// store: the admin panel requires at least six characters and at least one
// capability.
func CreateUserHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
			return
		}
		if len(req.Permissions) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one permission must be selected"})
			return
		}
		for _, token := range req.Permissions {
			if !models.ValidCapability(token) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission: " + token})
				return
			}
		}

		if err := store.AddUser(req.Username, req.Password, req.Permissions); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "user created", "username": req.Username})
	}
}

// UpdatePermissionsHandler replaces an account's capability grants. The
// empty set is allowed and revokes every page.
func UpdatePermissionsHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		var req updatePermissionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		for _, token := range req.Permissions {
			if !models.ValidCapability(token) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission: " + token})
				return
			}
		}

		if err := store.UpdatePermissions(username, req.Permissions); err != nil {
			if errors.Is(err, ErrUnknownUser) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update permissions"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "permissions updated", "username": username})
	}
}

// DeleteUserHandler removes an account. Deleting admin always fails.
func DeleteUserHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		if err := store.DeleteUser(username); err != nil {
			if errors.Is(err, ErrProtectedUser) {
				c.JSON(http.StatusForbidden, gin.H{"error": "admin user cannot be deleted"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "user deleted", "username": username})
	}
}
