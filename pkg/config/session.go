package config

import "time"

// SessionConfig contains server-side session store settings.
// Fields have no env tags - populate manually or use NewSessionConfigFromEnv() for standard env var names.
type SessionConfig struct {
	// Backend selects the session store implementation ("inmem" or "redis")
	Backend string

	// CookieName is the name of the session-id cookie
	CookieName string

	// TTL is how long an idle session survives (ISO 8601 format, e.g., "PT2H")
	TTL string

	// Redis connection settings, used when Backend is "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Backend:    "inmem",
		CookieName: "session_id",
		TTL:        "PT2H",
		RedisAddr:  "localhost:6379",
	}
}

// NewSessionConfigFromEnv loads SessionConfig from standard environment variables.
// This is an optional convenience function - you can also populate the struct manually.
//
// Environment variables:
//   - SESSION_BACKEND: Session store backend, "inmem" or "redis" (default: "inmem")
//   - SESSION_COOKIE_NAME: Session-id cookie name (default: "session_id")
//   - SESSION_TTL: Idle session lifetime in ISO 8601 format (default: "PT2H")
//   - SESSION_REDIS_ADDR: Redis address (default: "localhost:6379")
//   - SESSION_REDIS_PASSWORD: Redis password (default: "")
//   - SESSION_REDIS_DB: Redis database number (default: 0)
func NewSessionConfigFromEnv() SessionConfig {
	return SessionConfig{
		Backend:       GetEnvOrDefault("SESSION_BACKEND", "inmem"),
		CookieName:    GetEnvOrDefault("SESSION_COOKIE_NAME", "session_id"),
		TTL:           GetEnvOrDefault("SESSION_TTL", "PT2H"),
		RedisAddr:     GetEnvOrDefault("SESSION_REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("SESSION_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("SESSION_REDIS_DB", 0),
	}
}

// ParseTTL parses the TTL field as a time.Duration.
// Supports ISO 8601 duration format (e.g., "PT2H") and Go duration format (e.g., "2h").
func (c *SessionConfig) ParseTTL() (time.Duration, error) {
	return ParseISO8601OrGoDuration(c.TTL)
}
