package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueVerifyRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key", TokenValidity)

	token, err := manager.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", -time.Minute)

	token, err := manager.Issue("user-123")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_MalformedToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", TokenValidity)

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := manager.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestJWTManager_SignatureMismatch(t *testing.T) {
	issuer := NewJWTManager("key-one", TokenValidity)
	verifier := NewJWTManager("key-two", TokenValidity)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
