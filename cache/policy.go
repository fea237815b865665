package cache

import "time"

// Policy configures TTLs.
type Policy struct {
	// DefaultTTL applies when no TTL is requested. Zero disables caching.
	DefaultTTL time.Duration

	// MaxTTL caps every TTL. Zero means no cap.
	MaxTTL time.Duration
}

// DefaultPolicy caches for 5 minutes, at most 1 hour.
func DefaultPolicy() Policy {
	return Policy{DefaultTTL: 5 * time.Minute, MaxTTL: time.Hour}
}

// Enabled reports whether the policy caches anything.
func (p Policy) Enabled() bool {
	return p.DefaultTTL > 0
}

// TTL returns override, or DefaultTTL when override is not positive,
// clamped to MaxTTL.
func (p Policy) TTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
