package domain

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateCredential rejects registration with a username or email
	// that is already taken. No partial state is written.
	ErrDuplicateCredential = errors.New("username or email already registered")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so a login failure never reveals which part was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrInvalidToken = errors.New("invalid or expired token")
)

// User is a login identity. The database is the single source of truth for
// credentials; profile fields are set at registration and never updated here.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
