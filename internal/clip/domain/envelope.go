// Package domain defines the core types of the ephemeral blob store: the opaque
// secret envelope, its identifier and its time-to-live policy.
package domain

import "time"

// MaxIVLength caps the encoded iv. A 12-byte nonce encodes to 16 characters;
// the server checks only the upper bound.
const MaxIVLength = 64

// Envelope is the stored {ciphertext, iv} pair. Both fields are the base64
// strings received from the client and are never interpreted by the server.
type Envelope struct {
	// Ciphertext is the base64 AEAD output.
	Ciphertext string
	// IV is the base64 nonce used for the encryption.
	IV string
}

// StoredEnvelope is an envelope together with its lifetime, as kept by a store.
type StoredEnvelope struct {
	ID SecretID
	Envelope
	// CreatedAt is the UTC instant the envelope was received.
	CreatedAt time.Time
	// ExpiresAt is CreatedAt plus the clamped ttl.
	ExpiresAt time.Time
}

// Expired reports whether the envelope is unreadable at now.
func (s *StoredEnvelope) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CreateResult is returned by a successful create.
type CreateResult struct {
	ID SecretID
	// TTL is the effective lifetime in seconds after clamping.
	TTL int
}

// Durability classifies a store by whether entries survive a process restart.
type Durability string

const (
	// DurabilityDurable marks an external expiring store (redis, postgres, mysql).
	DurabilityDurable Durability = "durable"
	// DurabilityFallback marks the in-process memory store.
	DurabilityFallback Durability = "fallback"
)

// Health is reported by the health endpoint.
type Health struct {
	Status    string
	Backend   Durability
	Driver    string
	Timestamp time.Time
}
