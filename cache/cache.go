package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds keys. HashKeyer output is far shorter.
const MaxKeyLength = 512

var (
	ErrInvalidKey = errors.New("cache: blank key or key with line breaks")
	ErrKeyTooLong = errors.New("cache: key longer than MaxKeyLength")
)

// Cache holds encoded results until their TTL passes. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true, or nil and false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A ttl of zero or less is a no-op.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete drops key. An absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey reports ErrInvalidKey or ErrKeyTooLong for unusable keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}
