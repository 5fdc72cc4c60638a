package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepup-idm/stepup-idm/pkg/login"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	svc, err := NewService("test-signing-secret")
	require.NoError(t, err)

	user := login.User{ID: uuid.New(), Username: "alice"}
	tokenStr, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTokenExpiry), expiresAt, time.Minute)

	claims, err := svc.ParseAccessToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, defaultIssuer, claims["iss"])
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	svc, err := NewService("test-signing-secret")
	require.NoError(t, err)
	other, err := NewService("different-secret")
	require.NoError(t, err)

	tokenStr, _, err := svc.GenerateAccessToken(login.User{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = other.ParseAccessToken(tokenStr)
	assert.Error(t, err)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("")
	assert.Error(t, err)
}

func TestServiceOptions(t *testing.T) {
	svc, err := NewService("test-signing-secret", WithExpiry(time.Hour), WithIssuer("custom"))
	require.NoError(t, err)

	tokenStr, expiresAt, err := svc.GenerateAccessToken(login.User{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ParseAccessToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "custom", claims["iss"])
}
