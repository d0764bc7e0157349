package domain

import (
	"regexp"
	"time"
)

// Roles a user account can carry. Stored as plain strings in the users table.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UsernamePattern constrains login handles: 3 to 30 word characters. Usernames
// also feed the derived resource id, so the character set stays narrow.
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// EmailPattern is a light sanity check, not full address validation.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string // argon2 encoded
	Role         string // RoleAdmin or RoleUser
	Active       bool
	Resources    ResourceBundle
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
