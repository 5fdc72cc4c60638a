package credstage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stepup-idm/stepup-idm/pkg/encryption"
	"github.com/stepup-idm/stepup-idm/pkg/session"
)

// Session keys for the staged credential payload. A second-factor attempt is
// in progress exactly when both are present.
const (
	SessionKeyUsername = "TwoFactorAuth.credentials.username"
	SessionKeyPassword = "TwoFactorAuth.credentials.password"
)

// Credentials is the primary credential pair. Transient; never persisted
// beyond the flow's completion or abandonment.
type Credentials struct {
	Username string
	Password string
}

// Service stages encrypted primary credentials in session storage so they
// survive the redirect round-trip to the second-factor step.
type Service struct {
	store      session.Store
	encryption *encryption.EncryptionService
}

// NewService creates a new credential staging service
func NewService(store session.Store, encryptionService *encryption.EncryptionService) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if encryptionService == nil {
		return nil, fmt.Errorf("encryption service is required")
	}
	return &Service{
		store:      store,
		encryption: encryptionService,
	}, nil
}

// Stage encrypts each credential field independently and writes both to the
// session, overwriting any previous payload
func (s *Service) Stage(ctx context.Context, sessionID string, credentials Credentials) error {
	encryptedUsername, err := s.encryption.Encrypt(credentials.Username)
	if err != nil {
		return fmt.Errorf("failed to encrypt username: %w", err)
	}
	encryptedPassword, err := s.encryption.Encrypt(credentials.Password)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	if err := s.store.Set(ctx, sessionID, SessionKeyUsername, encryptedUsername); err != nil {
		return fmt.Errorf("failed to stage username: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, SessionKeyPassword, encryptedPassword); err != nil {
		return fmt.Errorf("failed to stage password: %w", err)
	}
	return nil
}

// Unstage reads and decrypts the staged credentials. The read is idempotent;
// deletion is Clear's job. A missing or malformed payload yields ok=false,
// indistinguishable from "never staged".
func (s *Service) Unstage(ctx context.Context, sessionID string) (Credentials, bool) {
	username, ok := s.readField(ctx, sessionID, SessionKeyUsername)
	if !ok {
		return Credentials{}, false
	}
	password, ok := s.readField(ctx, sessionID, SessionKeyPassword)
	if !ok {
		return Credentials{}, false
	}
	return Credentials{Username: username, Password: password}, true
}

// Clear removes the staged payload from the session. Clearing an already
// empty payload is a no-op.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID, SessionKeyUsername); err != nil {
		return fmt.Errorf("failed to clear staged username: %w", err)
	}
	if err := s.store.Delete(ctx, sessionID, SessionKeyPassword); err != nil {
		return fmt.Errorf("failed to clear staged password: %w", err)
	}
	return nil
}

func (s *Service) readField(ctx context.Context, sessionID, key string) (string, bool) {
	stored, err := s.store.Get(ctx, sessionID, key)
	if err != nil {
		if !errors.Is(err, session.ErrKeyNotFound) {
			slog.Error("Failed to read staged credential", "key", key, "error", err)
		}
		return "", false
	}

	plaintext, err := s.encryption.Decrypt(stored)
	if err != nil {
		// A payload that cannot be decrypted folds into "absent"
		slog.Warn("Failed to decrypt staged credential", "key", key, "error", err)
		return "", false
	}
	if plaintext == "" {
		return "", false
	}
	return plaintext, true
}
