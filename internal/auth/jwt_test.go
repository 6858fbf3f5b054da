package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute)

	token, err := m.GenerateAccessToken("pastor-123", "john@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "pastor-123", claims.PastorID)
	assert.Equal(t, "john@example.com", claims.Email)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -1*time.Minute)

	token, err := m.GenerateAccessToken("pastor-123", "john@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", 15*time.Minute)
	other := NewJWTManager("secret-b", 15*time.Minute)

	token, err := m.GenerateAccessToken("pastor-123", "john@example.com")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}
