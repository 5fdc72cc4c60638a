package session

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreConfig contains configuration for creating a session store
type StoreConfig struct {
	// TTL is the idle session lifetime; zero means DefaultTTL
	TTL time.Duration
	// RedisClient is required for the redis backend
	RedisClient *redis.Client
}

// NewStore creates a session store based on the backend type
func NewStore(backend string, config StoreConfig) (Store, error) {
	switch backend {
	case "inmem", "memory":
		return NewInMemStore(config.TTL), nil
	case "redis":
		if config.RedisClient == nil {
			return nil, fmt.Errorf("redis client required for redis session store")
		}
		return NewRedisStore(config.RedisClient, config.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s (supported: inmem, redis)", backend)
	}
}
