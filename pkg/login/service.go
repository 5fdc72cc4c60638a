package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// LoginService matches primary credentials against stored user records
type LoginService struct {
	repository LoginRepository
}

// NewLoginService creates a new login service with the given repository
func NewLoginService(repository LoginRepository) *LoginService {
	return &LoginService{
		repository: repository,
	}
}

// FindUser looks up a user by username and verifies the password against the
// stored hash. ok=false covers both unknown usernames and wrong passwords;
// callers get no further detail.
func (s *LoginService) FindUser(ctx context.Context, username, password string) (User, bool) {
	user, err := s.repository.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			slog.Error("Failed to look up user", "username", username, "error", err)
		}
		return User{}, false
	}

	valid, err := CheckPasswordHash(password, user.PasswordHash)
	if err != nil || !valid {
		slog.Debug("Password mismatch", "username", username)
		return User{}, false
	}

	return user, true
}

// RegisterUserParams describes a new user record
type RegisterUserParams struct {
	Username string
	Password string
	Email    string
	Secret   string
}

// RegisterUser hashes the password and creates the user record
func (s *LoginService) RegisterUser(ctx context.Context, params RegisterUserParams) (User, error) {
	hash, err := HashPassword(params.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repository.CreateUser(ctx, User{
		Username:     params.Username,
		PasswordHash: hash,
		Email:        params.Email,
		Secret:       params.Secret,
	})
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "username", user.Username, "twoFactorEnabled", user.Secret != "")
	return user, nil
}

// EnableTwoFactor sets the user's second-factor secret
func (s *LoginService) EnableTwoFactor(ctx context.Context, username, secret string) error {
	if secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}
	if err := s.repository.UpdateSecret(ctx, username, secret); err != nil {
		return fmt.Errorf("failed to enable two-factor: %w", err)
	}
	return nil
}

// HashPassword hashes the plain-text password using bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPasswordHash compares the plain-text password with the stored hashed password.
func CheckPasswordHash(password, hashedPassword string) (bool, error) {
	if password == "" || hashedPassword == "" {
		return false, fmt.Errorf("password and hashed password cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return false, err
	}
	return true, nil
}
