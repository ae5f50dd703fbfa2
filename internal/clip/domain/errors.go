package domain

import (
	"github.com/allisson/clip/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound covers absent, expired and deleted envelopes alike.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found or expired")

	// ErrInvalidSecretID indicates an identifier that is not 32 lowercase hex characters.
	ErrInvalidSecretID = errors.Wrap(errors.ErrInvalidInput, "invalid secret id")

	// ErrMissingFields indicates a create request without ciphertext or iv.
	ErrMissingFields = errors.Wrap(errors.ErrInvalidInput, "missing required fields: ciphertext and iv")

	// ErrEnvelopeTooLarge indicates a ciphertext over the configured ceiling.
	ErrEnvelopeTooLarge = errors.Wrap(errors.ErrInvalidInput, "ciphertext too large")

	// ErrIVTooLong indicates an iv over MaxIVLength characters.
	ErrIVTooLong = errors.Wrap(errors.ErrInvalidInput, "iv too long")

	// ErrInvalidTTL indicates a ttl that is not a JSON integer.
	ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "ttl must be an integer number of seconds")

	// ErrStoreUnavailable indicates the backing store failed or timed out.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "secret store unavailable")

	// ErrInvalidLink indicates a share URL without a valid id or key fragment.
	ErrInvalidLink = errors.Wrap(errors.ErrInvalidInput, "invalid share link")
)
