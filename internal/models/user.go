package models

import (
	"time"
)

// AdminUsername is the distinguished administrator account. Admin-gated
// pages key off this exact name, not off the stored permission set.
const AdminUsername = "admin"

// Capability tokens understood by the permission system.
const (
	CapabilityCalendar       = "calendar"
	CapabilityImageGenerator = "image_generator"
)

// AllCapabilities returns the closed set of grantable capability tokens.
func AllCapabilities() []string {
	return []string{CapabilityCalendar, CapabilityImageGenerator}
}

// ValidCapability reports whether token is a known capability.
func ValidCapability(token string) bool {
	return token == CapabilityCalendar || token == CapabilityImageGenerator
}

// User represents an application account. The username is the primary key
// and immutable once created.
type User struct {
	Username     string     `gorm:"primaryKey" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`

	Permissions []Permission `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE;" json:"-"`
}

// Permission is a single capability grant, one row per (user, capability).
type Permission struct {
	Username   string `gorm:"primaryKey"`
	Capability string `gorm:"primaryKey"`
}

// TableName overrides GORM's pluralization for the join table.
func (Permission) TableName() string {
	return "user_permissions"
}
