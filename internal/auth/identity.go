package auth

import (
	"context"
	"strings"

	"github.com/taskhive/taskhive/internal/models"
)

// Identity is the per-request authentication result: either anonymous or a
// specific user. The zero value is anonymous.
type Identity struct {
	user *models.User
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of the given user.
func Authenticated(user *models.User) Identity {
	return Identity{user: user}
}

// IsAnonymous reports whether no user is attached.
func (id Identity) IsAnonymous() bool {
	return id.user == nil
}

// User returns the authenticated user, or nil for an anonymous identity.
func (id Identity) User() *models.User {
	return id.user
}

// UserID returns the authenticated user's ID, or "" for an anonymous identity.
func (id Identity) UserID() string {
	if id.user == nil {
		return ""
	}
	return id.user.ID
}

// Resolver turns a raw Authorization header into an Identity.
type Resolver struct {
	tokens *JWTManager
	users  UserStorage
}

// NewResolver creates an identity resolver backed by the given token manager
// and user storage.
func NewResolver(tokens *JWTManager, users UserStorage) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve never fails: an absent header, malformed or expired token, and a
// token whose subject no longer exists all degrade to the anonymous identity.
// Malformed auth means "not logged in", it does not abort the request.
func (r *Resolver) Resolve(ctx context.Context, authHeader string) Identity {
	tokenString := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authHeader), "Bearer "))
	if tokenString == "" {
		return Anonymous()
	}

	userID, err := r.tokens.Verify(tokenString)
	if err != nil {
		return Anonymous()
	}

	user, err := r.users.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return Anonymous()
	}

	return Authenticated(user)
}
