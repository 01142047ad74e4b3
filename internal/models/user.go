package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// User is the profile row associated with a Casdoor identity. The role is
// authoritative only as fetched from the identity provider, never inferred
// locally from anything else.
type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:255"`
	FirstName string   `json:"first_name" gorm:"not null;size:100"`
	LastName  string   `json:"last_name" gorm:"not null;size:100"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole `json:"role" gorm:"not null;size:20;index"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "user_profiles"
}

// FullName joins first and last name for display contexts.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session is the authenticated identity of the current user. It is owned by
// the session store; Session and the fetched User profile are 1:1 and are
// cleared together.
type Session struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	IsAuthenticated bool      `json:"is_authenticated"`
	ExpiresAt       time.Time `json:"expires_at"`
}
