package models

import "time"

// Role values assignable to a user account.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User is an account in the platform. Role decides which side of the
// catalog the account may touch.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:student" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStudent reports whether the account holds the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsInstructor reports whether the account holds the instructor role.
func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}
