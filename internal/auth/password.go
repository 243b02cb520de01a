package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// HashPassword produces a salted bcrypt digest of the plaintext password.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the bcrypt digest.
// Malformed digests fail closed: the result is false, never an error.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
// Emails are stored lower-cased; the case policy is fixed at creation.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, avatar, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)

	// Friendly pre-check; the unique index on email is the real guard.
	existing, err := a.storage.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	digest, err := HashPassword(credential)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(email, name, avatar, digest)

	if err := a.storage.CreateUser(ctx, user); err != nil {
		// Two racing sign-ups: the unique index decides, not the pre-check.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Unknown email and wrong password produce the same error so callers cannot
// tell which field was wrong.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(credential, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// NormalizeEmail applies the fixed email case policy.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
