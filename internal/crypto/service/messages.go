package service

import (
	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// User-facing messages for encryption endpoint failures.
const (
	MessageDecryptionFailed = "Unable to decrypt the secret. The link may be corrupted or the secret may have been tampered with."
	MessageUnsupported      = "Your environment does not support the required encryption features."
	MessageTooLarge         = "The secret is too large. Please keep it under 10,000 characters."
	MessageGeneric          = "An encryption error occurred. Please try again."
)

// UserMessage maps an encryption endpoint error to a message safe to show the user.
func UserMessage(err error) string {
	switch {
	case apperrors.Is(err, cryptoDomain.ErrDecryptionFailed),
		apperrors.Is(err, cryptoDomain.ErrInvalidKey),
		apperrors.Is(err, cryptoDomain.ErrInvalidKeySize):
		return MessageDecryptionFailed
	case apperrors.Is(err, cryptoDomain.ErrUnsupportedEnvironment):
		return MessageUnsupported
	case apperrors.Is(err, cryptoDomain.ErrPlaintextTooLarge):
		return MessageTooLarge
	default:
		return MessageGeneric
	}
}
