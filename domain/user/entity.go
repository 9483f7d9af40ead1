package user

import (
	"time"
)

// Roles assignable to a user account. Admin unlocks the catalog write routes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user account.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// AccessToken is the registry row behind an issued bearer token. A token is
// only accepted while its row exists; logout deletes the row.
type AccessToken struct {
	JTI       string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for the AccessToken entity.
func (AccessToken) TableName() string {
	return "access_tokens"
}

// Claims is the authenticated identity threaded through a request.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the claims carry the admin capability.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
