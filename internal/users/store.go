// Package users implements the credential store: account records, password
// verification, and the per-user capability grants backing page access.
package users

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"gorm.io/gorm"

	"eventsnap/internal/crypto"
	"eventsnap/internal/models"
)

var (
	// ErrUsernameTaken is returned when adding a user whose name exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrProtectedUser is returned when deleting the admin account.
	ErrProtectedUser = errors.New("admin user cannot be deleted")
	// ErrUnknownUser is returned when updating a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// UserInfo is the view of an account exposed to handlers and the session
// layer. The password hash never leaves the store.
type UserInfo struct {
	Username    string     `json:"username"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login"`
}

// Store persists user accounts and capability grants.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewStore creates a credential store on the shared database handle.
func NewStore(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// EnsureAdmin creates the admin account from the bootstrap secret if it does
// not exist yet. An empty secret leaves the system without an administrator;
// that is logged as a warning, not an error, since the app stays up either
// way and is simply unusable until the secret is provided.
func (s *Store) EnsureAdmin(adminPassword string) error {
	var admin models.User
	err := s.db.Where("username = ?", models.AdminUsername).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if adminPassword == "" {
		s.log.Warn("no admin user found and ADMIN_PASSWORD not set; set ADMIN_PASSWORD to create the admin user automatically")
		return nil
	}

	user := models.User{
		Username:     models.AdminUsername,
		PasswordHash: crypto.HashPassword(adminPassword),
	}
	for _, capability := range models.AllCapabilities() {
		user.Permissions = append(user.Permissions, models.Permission{
			Username:   models.AdminUsername,
			Capability: capability,
		})
	}

	if err := s.db.Create(&user).Error; err != nil {
		return err
	}

	s.log.Info("admin user created from ADMIN_PASSWORD")
	return nil
}

// Authenticate verifies the credentials and, on success, records the login
// time and returns the account view. The caller cannot tell an unknown
// username from a wrong password.
func (s *Store) Authenticate(username, password string) (*UserInfo, bool) {
	var user models.User
	err := s.db.Preload("Permissions").
		Where("username = ? AND password_hash = ?", username, crypto.HashPassword(password)).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("authenticate query failed", "error", err)
		}
		return nil, false
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		s.log.Error("failed to update last_login", "username", username, "error", err)
	}
	user.LastLogin = &now

	info := toUserInfo(user)
	return &info, true
}

// AddUser creates an account with the given capability grants. Password
// strength policy is a handler concern; the store only hashes and inserts.
func (s *Store) AddUser(username, password string, permissions []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", username).First(&existing).Error
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := models.User{
			Username:     username,
			PasswordHash: crypto.HashPassword(password),
		}
		for _, capability := range permissions {
			user.Permissions = append(user.Permissions, models.Permission{
				Username:   username,
				Capability: capability,
			})
		}

		return tx.Create(&user).Error
	})
}

// UpdatePermissions replaces the user's capability grants. The empty set is
// valid and revokes everything.
func (s *Store) UpdatePermissions(username string, permissions []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownUser
			}
			return err
		}

		if err := tx.Where("username = ?", username).Delete(&models.Permission{}).Error; err != nil {
			return err
		}

		for _, capability := range permissions {
			grant := models.Permission{Username: username, Capability: capability}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteUser removes an account and its grants. The admin account is
// protected and always fails. Deleting an absent user is a no-op success.
func (s *Store) DeleteUser(username string) error {
	if username == models.AdminUsername {
		return ErrProtectedUser
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.Permission{}).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", username).Delete(&models.User{}).Error
	})
}

// ListUsers returns every account ordered by username ascending.
func (s *Store) ListUsers() ([]UserInfo, error) {
	var users []models.User
	if err := s.db.Preload("Permissions").Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}
	return infos, nil
}

func toUserInfo(user models.User) UserInfo {
	permissions := make([]string, 0, len(user.Permissions))
	for _, grant := range user.Permissions {
		permissions = append(permissions, grant.Capability)
	}
	sort.Strings(permissions)

	return UserInfo{
		Username:    user.Username,
		Permissions: permissions,
		CreatedAt:   user.CreatedAt,
		LastLogin:   user.LastLogin,
	}
}
