package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account known to the auth provider.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Disabled     bool      `json:"disabled" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the GORM table name.
func (User) TableName() string {
	return "users"
}

// Credential is what a successful sign-up or sign-in hands back to the client.
type Credential struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Email  string `json:"email" yaml:"email"`
	Token  string `json:"token" yaml:"token"`
}

// AuthUser is the signed-in identity reported to auth-state listeners.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
