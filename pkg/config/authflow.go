package config

import (
	"fmt"
	"time"
)

// AuthFlowConfig contains two-step authentication flow settings.
// Fields have no env tags - populate manually or use NewAuthFlowConfigFromEnv() for standard env var names.
type AuthFlowConfig struct {
	// RememberEnabled controls whether the remembered-device bypass is honored at all
	RememberEnabled bool

	// CookieName is the name of the remembered-device cookie
	CookieName string

	// CookieHTTPOnly controls the httpOnly flag on the remembered-device cookie
	CookieHTTPOnly bool

	// CookieSecure controls the secure flag on the remembered-device cookie
	CookieSecure bool

	// CookieExpires is the remembered-device cookie lifetime (ISO 8601 format, e.g., "P30D")
	CookieExpires string

	// VerifyPrefix, VerifyController and VerifyAction describe the step-up destination route
	VerifyPrefix     string
	VerifyController string
	VerifyAction     string

	// BaseURL makes step-up redirects absolute when set (e.g., "https://id.example.com");
	// empty means relative redirects
	BaseURL string

	// EncryptionKey overrides the key used for credential staging encryption.
	// When empty, SecretSalt is used instead.
	EncryptionKey string

	// SecretSalt is the application-wide secret salt, the fallback key material
	// for credential staging encryption
	SecretSalt string
}

// DefaultAuthFlowConfig returns an AuthFlowConfig with sensible defaults
func DefaultAuthFlowConfig() AuthFlowConfig {
	return AuthFlowConfig{
		RememberEnabled:  false,
		CookieName:       "TwoFactorAuth",
		CookieHTTPOnly:   true,
		CookieSecure:     false,
		CookieExpires:    "P30D",
		VerifyPrefix:     "",
		VerifyController: "Users",
		VerifyAction:     "verify",
		BaseURL:          "",
	}
}

// NewAuthFlowConfigFromEnv loads AuthFlowConfig from standard environment variables.
// This is an optional convenience function - you can also populate the struct manually.
//
// Environment variables:
//   - AUTH_REMEMBER_ENABLED: Honor the remembered-device bypass (default: false)
//   - AUTH_COOKIE_NAME: Remembered-device cookie name (default: "TwoFactorAuth")
//   - AUTH_COOKIE_HTTP_ONLY: httpOnly flag on the cookie (default: true)
//   - AUTH_COOKIE_SECURE: secure flag on the cookie (default: false)
//   - AUTH_COOKIE_EXPIRES: Cookie lifetime in ISO 8601 format (default: "P30D")
//   - AUTH_VERIFY_PREFIX: Step-up route prefix (default: "")
//   - AUTH_VERIFY_CONTROLLER: Step-up route controller (default: "Users")
//   - AUTH_VERIFY_ACTION: Step-up route action (default: "verify")
//   - AUTH_BASE_URL: Base URL for absolute step-up redirects (default: "", relative)
//   - AUTH_ENCRYPTION_KEY: Credential staging encryption key override (default: "")
//   - AUTH_SECRET_SALT: Application-wide secret salt (default: "")
func NewAuthFlowConfigFromEnv() AuthFlowConfig {
	return AuthFlowConfig{
		RememberEnabled:  GetEnvBool("AUTH_REMEMBER_ENABLED", false),
		CookieName:       GetEnvOrDefault("AUTH_COOKIE_NAME", "TwoFactorAuth"),
		CookieHTTPOnly:   GetEnvBool("AUTH_COOKIE_HTTP_ONLY", true),
		CookieSecure:     GetEnvBool("AUTH_COOKIE_SECURE", false),
		CookieExpires:    GetEnvOrDefault("AUTH_COOKIE_EXPIRES", "P30D"),
		VerifyPrefix:     GetEnvOrDefault("AUTH_VERIFY_PREFIX", ""),
		VerifyController: GetEnvOrDefault("AUTH_VERIFY_CONTROLLER", "Users"),
		VerifyAction:     GetEnvOrDefault("AUTH_VERIFY_ACTION", "verify"),
		BaseURL:          GetEnvOrDefault("AUTH_BASE_URL", ""),
		EncryptionKey:    GetEnvOrDefault("AUTH_ENCRYPTION_KEY", ""),
		SecretSalt:       GetEnvOrDefault("AUTH_SECRET_SALT", ""),
	}
}

// ParseCookieExpires parses the CookieExpires field as a time.Duration.
// Supports ISO 8601 duration format (e.g., "P30D") and Go duration format (e.g., "720h").
func (c *AuthFlowConfig) ParseCookieExpires() (time.Duration, error) {
	return ParseISO8601OrGoDuration(c.CookieExpires)
}

// ResolveEncryptionKey returns the key material for credential staging encryption.
// The override key wins when configured, otherwise the application-wide secret salt.
// Resolve once at startup; an empty result is a configuration error.
func (c *AuthFlowConfig) ResolveEncryptionKey() (string, error) {
	if c.EncryptionKey != "" {
		return c.EncryptionKey, nil
	}
	if c.SecretSalt != "" {
		return c.SecretSalt, nil
	}
	return "", fmt.Errorf("no encryption key configured: set AUTH_ENCRYPTION_KEY or AUTH_SECRET_SALT")
}

// Validate checks if the configuration is valid
func (c *AuthFlowConfig) Validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("cookie name cannot be empty")
	}
	if _, err := c.ParseCookieExpires(); err != nil {
		return fmt.Errorf("invalid cookie expires %q: %w", c.CookieExpires, err)
	}
	if c.VerifyController == "" || c.VerifyAction == "" {
		return fmt.Errorf("verify action route requires controller and action")
	}
	return nil
}
