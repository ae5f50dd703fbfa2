package domain

import "time"

// TTL bounds in seconds.
const (
	MinTTL     = 1
	MaxTTL     = 86400
	DefaultTTL = 60
)

// TTLPolicy resolves the lifetime requested by a client into the effective one.
// Out-of-range values are clamped, never rejected.
type TTLPolicy struct {
	Default int
	Max     int
}

// DefaultTTLPolicy returns the policy used when nothing is configured.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{Default: DefaultTTL, Max: MaxTTL}
}

// Resolve returns the effective ttl in seconds for requested (nil means absent).
// The result always lies in [MinTTL, min(p.Max, MaxTTL)].
func (p TTLPolicy) Resolve(requested *int) int {
	upper := p.Max
	if upper < MinTTL || upper > MaxTTL {
		upper = MaxTTL
	}

	ttl := p.Default
	if requested != nil {
		ttl = *requested
	}
	return ClampTTL(ttl, upper)
}

// ClampTTL clamps ttl to [MinTTL, upper].
func ClampTTL(ttl, upper int) int {
	if ttl < MinTTL {
		return MinTTL
	}
	if ttl > upper {
		return upper
	}
	return ttl
}

// Duration converts a ttl in seconds to a time.Duration.
func Duration(ttl int) time.Duration {
	return time.Duration(ttl) * time.Second
}
