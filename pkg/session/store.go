package session

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a session key has no value
var ErrKeyNotFound = errors.New("session key not found")

// DefaultTTL is how long an idle session survives when no TTL is configured
const DefaultTTL = 2 * time.Hour

// Store defines the interface for server-side session storage.
// Values are scoped to a session id; Delete of a missing key is a no-op.
type Store interface {
	// Get reads a value; returns ErrKeyNotFound when absent or expired
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set writes a value and refreshes the session's idle expiry
	Set(ctx context.Context, sessionID, key, value string) error

	// Delete removes a value; missing keys are not an error
	Delete(ctx context.Context, sessionID, key string) error
}
