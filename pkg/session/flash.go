package session

import (
	"context"
	"fmt"
)

const flashKey = "Flash.flash"

// Flash stores one-shot messages in the session; reading consumes them
type Flash struct {
	store Store
}

// NewFlash creates a flash message helper over the given store
func NewFlash(store Store) *Flash {
	return &Flash{store: store}
}

// Set stores the message, replacing any unread one
func (f *Flash) Set(ctx context.Context, sessionID, message string) error {
	if err := f.store.Set(ctx, sessionID, flashKey, message); err != nil {
		return fmt.Errorf("failed to set flash message: %w", err)
	}
	return nil
}

// Pop reads and consumes the pending message, if any
func (f *Flash) Pop(ctx context.Context, sessionID string) (string, bool) {
	message, err := f.store.Get(ctx, sessionID, flashKey)
	if err != nil {
		return "", false
	}
	_ = f.store.Delete(ctx, sessionID, flashKey)
	return message, message != ""
}
