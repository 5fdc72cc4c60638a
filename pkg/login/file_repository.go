package login

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const loginDataFile = "users.json"

// FileLoginRepository implements LoginRepository using file-based storage
type FileLoginRepository struct {
	dataDir string
	users   map[string]*User // keyed by username
	mutex   sync.RWMutex
}

// loginData represents the structure of data stored in the JSON file
type loginData struct {
	Users []*User `json:"users"`
}

// NewFileLoginRepository creates a new file-based login repository
func NewFileLoginRepository(dataDir string) (*FileLoginRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileLoginRepository{
		dataDir: dataDir,
		users:   make(map[string]*User),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// GetUserByUsername retrieves a user by username
func (r *FileLoginRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return User{}, ErrUserNotFound
	}
	return *user, nil
}

// CreateUser creates a new user record
func (r *FileLoginRepository) CreateUser(ctx context.Context, user User) (User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return User{}, ErrUserExists
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	userCopy := user
	r.users[user.Username] = &userCopy

	if err := r.save(); err != nil {
		delete(r.users, user.Username)
		return User{}, fmt.Errorf("failed to save: %w", err)
	}

	return user, nil
}

// UpdateSecret sets the user's second-factor secret
func (r *FileLoginRepository) UpdateSecret(ctx context.Context, username, secret string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, exists := r.users[username]
	if !exists {
		return ErrUserNotFound
	}

	previous := user.Secret
	user.Secret = secret

	if err := r.save(); err != nil {
		user.Secret = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (r *FileLoginRepository) filePath() string {
	return filepath.Join(r.dataDir, loginDataFile)
}

func (r *FileLoginRepository) load() error {
	data, err := os.ReadFile(r.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var stored loginData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}

	for _, user := range stored.Users {
		r.users[user.Username] = user
	}
	return nil
}

func (r *FileLoginRepository) save() error {
	stored := loginData{Users: make([]*User, 0, len(r.users))}
	for _, user := range r.users {
		stored.Users = append(stored.Users, user)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	if err := os.WriteFile(r.filePath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}
