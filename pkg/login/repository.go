package login

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user record matches
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when creating a user whose username is taken
var ErrUserExists = errors.New("user already exists")

// User is a stored user record. Secret is the second-factor secret; empty
// means two-factor is not enabled for the user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email,omitempty"`
	Secret       string    `json:"secret,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StripSecret returns a copy of the user with the second-factor secret
// removed. Records handed back to callers never carry the secret.
func (u User) StripSecret() User {
	u.Secret = ""
	return u
}

// LoginRepository defines the interface for user record storage
type LoginRepository interface {
	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateSecret(ctx context.Context, username, secret string) error
}
