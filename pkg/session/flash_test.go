package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashPopConsumes(t *testing.T) {
	flash := NewFlash(NewInMemStore(time.Hour))
	ctx := context.Background()

	require.NoError(t, flash.Set(ctx, "sid-1", "Invalid two-step verification code."))

	message, ok := flash.Pop(ctx, "sid-1")
	require.True(t, ok)
	assert.Equal(t, "Invalid two-step verification code.", message)

	_, ok = flash.Pop(ctx, "sid-1")
	assert.False(t, ok, "flash is one-shot")
}

func TestFlashPopEmpty(t *testing.T) {
	flash := NewFlash(NewInMemStore(time.Hour))

	_, ok := flash.Pop(context.Background(), "sid-1")
	assert.False(t, ok)
}

func TestFlashSetReplaces(t *testing.T) {
	flash := NewFlash(NewInMemStore(time.Hour))
	ctx := context.Background()

	require.NoError(t, flash.Set(ctx, "sid-1", "first"))
	require.NoError(t, flash.Set(ctx, "sid-1", "second"))

	message, ok := flash.Pop(ctx, "sid-1")
	require.True(t, ok)
	assert.Equal(t, "second", message)
}
