package login

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemLoginRepository implements LoginRepository using an in-memory map
type InMemLoginRepository struct {
	users map[string]User // keyed by username
	mu    sync.Mutex
}

// NewInMemLoginRepository creates a new in-memory login repository
func NewInMemLoginRepository() *InMemLoginRepository {
	return &InMemLoginRepository{
		users: make(map[string]User),
	}
}

// GetUserByUsername retrieves a user by username
func (r *InMemLoginRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[username]
	if !exists {
		slog.Debug("User not found", "username", username)
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// CreateUser creates a new user record
func (r *InMemLoginRepository) CreateUser(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return User{}, ErrUserExists
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.users[user.Username] = user
	slog.Debug("User created", "username", user.Username)
	return user, nil
}

// UpdateSecret sets the user's second-factor secret
func (r *InMemLoginRepository) UpdateSecret(ctx context.Context, username, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[username]
	if !exists {
		return ErrUserNotFound
	}
	user.Secret = secret
	r.users[username] = user
	return nil
}
