// Package usecase defines the interfaces and implementations of the ephemeral
// blob store use cases: create, fetch and delete opaque envelopes, and report
// which kind of backend is serving them.
package usecase

import (
	"context"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
)

// EnvelopeStore is the storage capability selected once at startup. Durable
// implementations enforce expiry in the engine itself; the memory fallback
// enforces it in-process.
type EnvelopeStore interface {
	// Put writes the envelope so that it becomes unreadable at stored.ExpiresAt.
	Put(ctx context.Context, stored *clipDomain.StoredEnvelope) error
	// Get returns the envelope or ErrSecretNotFound if absent or expired.
	Get(ctx context.Context, id clipDomain.SecretID) (*clipDomain.StoredEnvelope, error)
	// Delete removes the envelope. Deleting an absent id is not an error.
	Delete(ctx context.Context, id clipDomain.SecretID) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	// Durability reports whether entries survive a process restart.
	Durability() clipDomain.Durability
	// Driver names the backend (redis, postgres, mysql, memory).
	Driver() string
	// Close releases the backend's resources.
	Close() error
}

// ExpiredPurger is implemented by stores whose engine keeps expired rows around
// until they are removed explicitly.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// EnvelopeUseCase defines the business logic of the blob store.
type EnvelopeUseCase interface {
	// Create stores envelope under a new random id with the clamped ttl (nil means default).
	Create(ctx context.Context, envelope clipDomain.Envelope, ttl *int) (*clipDomain.CreateResult, error)
	// Fetch returns the envelope, or ErrSecretNotFound for absent, expired or deleted ids.
	// Malformed ids fail with ErrInvalidSecretID before the store is touched.
	Fetch(ctx context.Context, id string) (*clipDomain.Envelope, error)
	// Delete removes the envelope idempotently.
	Delete(ctx context.Context, id string) error
	// Health reports the backend kind serving requests.
	Health(ctx context.Context) *clipDomain.Health
	// Ready pings the backend.
	Ready(ctx context.Context) error
	// PurgeExpired physically removes expired envelopes where the store keeps them.
	PurgeExpired(ctx context.Context) (int64, error)
}
