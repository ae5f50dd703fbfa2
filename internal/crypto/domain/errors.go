package domain

import (
	"github.com/allisson/clip/internal/errors"
)

// Client-side cryptographic error definitions.
//
// None of these carry key material or plaintext in their message.
var (
	// ErrInvalidKeySize indicates key material is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKey indicates an exported key string could not be decoded.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid key encoding")

	// ErrKeyNotExportable indicates an attempt to export an imported key.
	ErrKeyNotExportable = errors.New("key is not exportable")

	// ErrKeyUsage indicates the key is not allowed for the requested operation,
	// e.g. encrypting with a decrypt-only key.
	ErrKeyUsage = errors.New("key usage not permitted")

	// ErrPlaintextTooLarge indicates the plaintext exceeds MaxPlaintextLength characters.
	ErrPlaintextTooLarge = errors.Wrap(errors.ErrInvalidInput, "plaintext too large")

	// ErrDecryptionFailed indicates the ciphertext could not be authenticated.
	//
	// Causes are a wrong key, tampered ciphertext, a corrupted or wrongly sized iv,
	// or bad encoding. They are deliberately not distinguished. Retrying cannot succeed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnsupportedEnvironment indicates the host lacks a required primitive.
	ErrUnsupportedEnvironment = errors.New("required cryptographic primitives not supported")
)
