package usecase

import (
	"context"
	"fmt"
	"time"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// Config holds the limits applied by the envelope use case.
type Config struct {
	// TTLPolicy resolves requested lifetimes.
	TTLPolicy clipDomain.TTLPolicy
	// MaxCiphertextBytes caps the encoded ciphertext length. Zero disables the check.
	MaxCiphertextBytes int
	// OperationTimeout bounds each store call. Zero disables the bound.
	OperationTimeout time.Duration
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// envelopeUseCase implements EnvelopeUseCase over a single EnvelopeStore.
type envelopeUseCase struct {
	store EnvelopeStore
	cfg   Config
	newID func() (clipDomain.SecretID, error)
}

// Create validates the envelope, clamps the ttl and writes it under a fresh id.
func (e *envelopeUseCase) Create(
	ctx context.Context,
	envelope clipDomain.Envelope,
	ttl *int,
) (*clipDomain.CreateResult, error) {
	if envelope.Ciphertext == "" || envelope.IV == "" {
		return nil, clipDomain.ErrMissingFields
	}
	if e.cfg.MaxCiphertextBytes > 0 && len(envelope.Ciphertext) > e.cfg.MaxCiphertextBytes {
		return nil, clipDomain.ErrEnvelopeTooLarge
	}
	if len(envelope.IV) > clipDomain.MaxIVLength {
		return nil, clipDomain.ErrIVTooLong
	}

	effectiveTTL := e.cfg.TTLPolicy.Resolve(ttl)

	id, err := e.newID()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate secret id")
	}

	now := e.cfg.Clock().UTC()
	stored := &clipDomain.StoredEnvelope{
		ID:        id,
		Envelope:  envelope,
		CreatedAt: now,
		ExpiresAt: now.Add(clipDomain.Duration(effectiveTTL)),
	}

	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.store.Put(opCtx, stored); err != nil {
		return nil, unavailable(err)
	}

	return &clipDomain.CreateResult{ID: id, TTL: effectiveTTL}, nil
}

// Fetch rejects malformed ids before any lookup and collapses every miss into
// ErrSecretNotFound.
func (e *envelopeUseCase) Fetch(ctx context.Context, id string) (*clipDomain.Envelope, error) {
	secretID, err := clipDomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	stored, err := e.store.Get(opCtx, secretID)
	if err != nil {
		if apperrors.Is(err, clipDomain.ErrSecretNotFound) {
			return nil, clipDomain.ErrSecretNotFound
		}
		return nil, unavailable(err)
	}

	// Backends checking expiry at second granularity get a final check here
	if stored.Expired(e.cfg.Clock()) {
		return nil, clipDomain.ErrSecretNotFound
	}

	envelope := stored.Envelope
	return &envelope, nil
}

// Delete validates the id and removes the envelope. Absent ids succeed.
func (e *envelopeUseCase) Delete(ctx context.Context, id string) error {
	secretID, err := clipDomain.ParseID(id)
	if err != nil {
		return err
	}

	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.store.Delete(opCtx, secretID); err != nil {
		return unavailable(err)
	}
	return nil
}

// Health reports the backend kind. It never fails: the backend kind is fixed
// at startup and does not depend on the backend answering.
func (e *envelopeUseCase) Health(ctx context.Context) *clipDomain.Health {
	return &clipDomain.Health{
		Status:    "ok",
		Backend:   e.store.Durability(),
		Driver:    e.store.Driver(),
		Timestamp: e.cfg.Clock().UTC(),
	}
}

// Ready pings the store within the operation timeout.
func (e *envelopeUseCase) Ready(ctx context.Context) error {
	opCtx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.store.Ping(opCtx); err != nil {
		return unavailable(err)
	}
	return nil
}

// PurgeExpired removes expired envelopes from stores implementing ExpiredPurger.
// Stores that expire entries on their own report zero.
func (e *envelopeUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	purger, ok := e.store.(ExpiredPurger)
	if !ok {
		return 0, nil
	}

	count, err := purger.PurgeExpired(ctx, e.cfg.Clock().UTC())
	if err != nil {
		return 0, unavailable(err)
	}
	return count, nil
}

func (e *envelopeUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.OperationTimeout)
}

// unavailable marks a backend failure as retryable while keeping the cause.
func unavailable(err error) error {
	if apperrors.Is(err, clipDomain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", clipDomain.ErrStoreUnavailable, err)
}

// NewEnvelopeUseCase creates an EnvelopeUseCase backed by store.
func NewEnvelopeUseCase(store EnvelopeStore, cfg Config) EnvelopeUseCase {
	return newEnvelopeUseCase(store, cfg, clipDomain.NewID)
}

func newEnvelopeUseCase(
	store EnvelopeStore,
	cfg Config,
	newID func() (clipDomain.SecretID, error),
) *envelopeUseCase {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.TTLPolicy == (clipDomain.TTLPolicy{}) {
		cfg.TTLPolicy = clipDomain.DefaultTTLPolicy()
	}
	return &envelopeUseCase{store: store, cfg: cfg, newID: newID}
}
