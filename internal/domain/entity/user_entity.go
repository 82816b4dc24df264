package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the identity domain.
// Email is the login key; username is a secondary unique identifier.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID          string
	Email       string
	Username    string
	FirstName   string
	LastName    string
	Password    string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
	DateJoined  time.Time
}

// FullName joins first and last name, trimming when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile holds the free-form data attached 1:1 to a user.
// A profile row is created in the same transaction as its user
// and never exists independently.
type Profile struct {
	ID        string
	UserID    string
	Bio       string
	AvatarURL string
	Phone     string
	Location  string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
