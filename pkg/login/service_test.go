package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *LoginService {
	t.Helper()

	svc := NewLoginService(NewInMemLoginRepository())
	_, err := svc.RegisterUser(context.Background(), RegisterUserParams{
		Username: "alice",
		Password: "s3cret!",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	return svc
}

func TestFindUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, ok := svc.FindUser(ctx, "alice", "s3cret!")
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
}

func TestFindUserWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, ok := svc.FindUser(ctx, "alice", "wrong")
	assert.False(t, ok)
}

func TestFindUserUnknownUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, ok := svc.FindUser(ctx, "mallory", "s3cret!")
	assert.False(t, ok)
}

func TestFindUserEmptyPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, ok := svc.FindUser(ctx, "alice", "")
	assert.False(t, ok)
}

func TestRegisterUserDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.RegisterUser(ctx, RegisterUserParams{Username: "alice", Password: "other"})
	assert.Error(t, err)
}

func TestEnableTwoFactor(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	err := svc.EnableTwoFactor(ctx, "alice", "JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	user, ok := svc.FindUser(ctx, "alice", "s3cret!")
	require.True(t, ok)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", user.Secret)
}

func TestEnableTwoFactorUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	assert.Error(t, svc.EnableTwoFactor(ctx, "mallory", "JBSWY3DPEHPK3PXP"))
	assert.Error(t, svc.EnableTwoFactor(ctx, "alice", ""))
}

func TestStripSecret(t *testing.T) {
	user := User{Username: "alice", Secret: "JBSWY3DPEHPK3PXP"}

	stripped := user.StripSecret()
	assert.Empty(t, stripped.Secret)
	assert.Equal(t, "alice", stripped.Username)

	// Original is untouched
	assert.Equal(t, "JBSWY3DPEHPK3PXP", user.Secret)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	valid, err := CheckPasswordHash("s3cret!", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, _ = CheckPasswordHash("wrong", hash)
	assert.False(t, valid)

	_, err = HashPassword("")
	assert.Error(t, err)
}
