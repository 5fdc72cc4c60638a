package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileLoginRepository(t.TempDir())
	require.NoError(t, err)

	created, err := repo.CreateUser(ctx, User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestFileRepositoryDuplicateUser(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileLoginRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestFileRepositoryPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	repo, err := NewFileLoginRepository(dataDir)
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, User{Username: "alice", PasswordHash: "hash", Secret: "JBSWY3DPEHPK3PXP"})
	require.NoError(t, err)

	reloaded, err := NewFileLoginRepository(dataDir)
	require.NoError(t, err)

	user, err := reloaded.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", user.Secret)
}

func TestFileRepositoryUpdateSecret(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileLoginRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateSecret(ctx, "alice", "JBSWY3DPEHPK3PXP"))

	user, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", user.Secret)

	assert.ErrorIs(t, repo.UpdateSecret(ctx, "mallory", "x"), ErrUserNotFound)
}

func TestFileRepositoryUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileLoginRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.GetUserByUsername(ctx, "mallory")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
