// Package service implements the client-side encryption endpoint: key generation,
// key export and import, and AES-256-GCM encryption of secrets before they are
// handed to the server.
package service

import (
	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// EncryptionEndpoint is the contract used by code that shares or opens secrets.
type EncryptionEndpoint interface {
	// GenerateKey returns a fresh exportable key usable for encrypt and decrypt.
	GenerateKey() (*cryptoDomain.Key, error)

	// ExportKey serializes the raw key as base64 for a URL fragment.
	ExportKey(key *cryptoDomain.Key) (string, error)

	// ImportKey parses an exported key. The result is decrypt-only and not exportable.
	ImportKey(encoded string) (*cryptoDomain.Key, error)

	// Encrypt seals plaintext under key with a fresh iv.
	Encrypt(plaintext string, key *cryptoDomain.Key) (*cryptoDomain.Payload, error)

	// Decrypt opens a payload produced by Encrypt.
	Decrypt(ciphertext, iv string, key *cryptoDomain.Key) (string, error)

	// IsSupported reports whether the required primitives are available.
	IsSupported() bool
}
