package device

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultCookieName is the remembered-device cookie name
	DefaultCookieName = "TwoFactorAuth"

	// DefaultExpiry is how long a remembered device stays trusted
	DefaultExpiry = 30 * 24 * time.Hour
)

// rememberedDevice is the cookie payload binding a device to a user's
// second-factor secret
type rememberedDevice struct {
	Secret string `json:"secret"`
}

// Store issues and reads the remembered-device cookie. Forgetting a device is
// not supported; the cookie's own expiry handles that.
type Store struct {
	cookieName string
	expiry     time.Duration
	setter     CookieSetter
}

// StoreOptions configures a remembered-device store
type StoreOptions struct {
	CookieName string
	HttpOnly   bool
	Secure     bool
	Expiry     time.Duration
}

// DefaultStoreOptions returns StoreOptions with sensible defaults
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		CookieName: DefaultCookieName,
		HttpOnly:   true,
		Secure:     false,
		Expiry:     DefaultExpiry,
	}
}

// NewStore creates a new remembered-device store
func NewStore(options StoreOptions) *Store {
	if options.CookieName == "" {
		options.CookieName = DefaultCookieName
	}
	if options.Expiry <= 0 {
		options.Expiry = DefaultExpiry
	}
	return &Store{
		cookieName: options.CookieName,
		expiry:     options.Expiry,
		setter:     NewCookieSetter(options.HttpOnly, options.Secure),
	}
}

// ReadSecret extracts the remembered secret from the request's cookie.
// A missing or malformed cookie yields ok=false.
func (s *Store) ReadSecret(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return "", false
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		slog.Debug("Malformed remembered-device cookie", "name", s.cookieName, "error", err)
		return "", false
	}

	var device rememberedDevice
	if err := json.Unmarshal(payload, &device); err != nil {
		slog.Debug("Malformed remembered-device payload", "name", s.cookieName, "error", err)
		return "", false
	}
	if device.Secret == "" {
		return "", false
	}
	return device.Secret, true
}

// RememberSecret writes the remembered-device cookie, overwriting any prior
// value unconditionally
func (s *Store) RememberSecret(w http.ResponseWriter, secret string) error {
	if secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}

	payload, err := json.Marshal(rememberedDevice{Secret: secret})
	if err != nil {
		return fmt.Errorf("failed to encode remembered device: %w", err)
	}

	value := base64.RawURLEncoding.EncodeToString(payload)
	expire := time.Now().UTC().Add(s.expiry)
	if err := s.setter.SetCookie(w, s.cookieName, value, expire); err != nil {
		return fmt.Errorf("failed to set remembered-device cookie: %w", err)
	}

	slog.Info("Device remembered", "cookie", s.cookieName, "expires", expire.Format(time.RFC3339))
	return nil
}
