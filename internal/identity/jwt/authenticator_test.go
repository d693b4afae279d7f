package jwt

import (
	"testing"
	"time"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret", TokenDuration: time.Hour})

	token, err := auth.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerify_WrongSecret(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})
	other := NewAuthenticator(Config{SecretKey: "other-secret"})

	token, err := auth.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	_, err := auth.Verify("not-a-token")
	assert.Error(t, err)
}

func TestIssue_NoExpiryByDefault(t *testing.T) {
	// TokenDuration of zero must produce a token that never expires.
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	token, err := auth.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	userID, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}
