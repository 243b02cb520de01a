package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique, stored lower-cased).
	// Used for login.
	Email string

	// Avatar is an optional profile picture URL.
	Avatar string

	// PasswordHash is the bcrypt digest of the user's password.
	// It never leaves the auth package in any response.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a generated ID and creation timestamp.
func NewUser(email, name, avatar, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Avatar:       avatar,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
