package service

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// Encryptor implements EncryptionEndpoint on AES-256-GCM.
//
// Both outputs use standard padded base64, matching btoa/atob in the browser
// page, so links created by either side open on the other.
type Encryptor struct {
	rand io.Reader
}

// NewEncryptor creates an Encryptor reading keys and nonces from crypto/rand.
func NewEncryptor() *Encryptor {
	return &Encryptor{rand: rand.Reader}
}

// NewEncryptorWithReader creates an Encryptor drawing randomness from r.
// Intended for tests that need a failing or deterministic source.
func NewEncryptorWithReader(r io.Reader) *Encryptor {
	return &Encryptor{rand: r}
}

// GenerateKey returns a fresh random 256-bit key, exportable and usable for
// both encrypt and decrypt.
func (e *Encryptor) GenerateKey() (*cryptoDomain.Key, error) {
	material := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(material)

	if _, err := io.ReadFull(e.rand, material); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate key")
	}

	return cryptoDomain.NewKey(material, cryptoDomain.UsageEncrypt|cryptoDomain.UsageDecrypt, true)
}

// ExportKey returns the raw key bytes as base64.
func (e *Encryptor) ExportKey(key *cryptoDomain.Key) (string, error) {
	if key == nil || !key.Exportable() {
		return "", cryptoDomain.ErrKeyNotExportable
	}
	return base64.StdEncoding.EncodeToString(key.Material()), nil
}

// ImportKey decodes a key produced by ExportKey. The imported key may only decrypt.
func (e *Encryptor) ImportKey(encoded string) (*cryptoDomain.Key, error) {
	material, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKey
	}
	defer cryptoDomain.Zero(material)

	if len(material) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKey
	}

	return cryptoDomain.NewKey(material, cryptoDomain.UsageDecrypt, false)
}

// Encrypt rejects plaintext longer than MaxPlaintextLength before doing any
// cryptographic work, then seals it under a fresh 12-byte iv.
func (e *Encryptor) Encrypt(plaintext string, key *cryptoDomain.Key) (*cryptoDomain.Payload, error) {
	if cryptoDomain.PlaintextLength(plaintext) > cryptoDomain.MaxPlaintextLength {
		return nil, cryptoDomain.ErrPlaintextTooLarge
	}
	if key == nil || !key.Allows(cryptoDomain.UsageEncrypt) {
		return nil, cryptoDomain.ErrKeyUsage
	}

	cipher, err := NewAESGCM(key.Material(), e.rand)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.Payload{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Decrypt reverses Encrypt. Every failure, including bad base64 and a wrongly
// sized iv, is reported as ErrDecryptionFailed.
func (e *Encryptor) Decrypt(ciphertext, iv string, key *cryptoDomain.Key) (string, error) {
	if key == nil || !key.Allows(cryptoDomain.UsageDecrypt) {
		return "", cryptoDomain.ErrKeyUsage
	}

	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	cipher, err := NewAESGCM(key.Material(), e.rand)
	if err != nil {
		return "", err
	}

	plaintext, err := cipher.Decrypt(rawCiphertext, nonce, nil)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// IsSupported probes the random source and encrypts then decrypts a UTF-8
// sample through the base64 transport encoding. Callers must refuse to operate when it returns false.
func (e *Encryptor) IsSupported() bool {
	probe := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(e.rand, probe); err != nil {
		return false
	}
	defer cryptoDomain.Zero(probe)

	cipher, err := NewAESGCM(probe, e.rand)
	if err != nil {
		return false
	}

	const sample = "ütf-8 ✓"
	ciphertext, nonce, err := cipher.Encrypt([]byte(sample), nil)
	if err != nil {
		return false
	}

	rawCiphertext, err := base64.StdEncoding.DecodeString(base64.StdEncoding.EncodeToString(ciphertext))
	if err != nil {
		return false
	}
	rawNonce, err := base64.StdEncoding.DecodeString(base64.StdEncoding.EncodeToString(nonce))
	if err != nil {
		return false
	}

	plaintext, err := cipher.Decrypt(rawCiphertext, rawNonce, nil)
	if err != nil {
		return false
	}
	return utf8.Valid(plaintext) && string(plaintext) == sample
}

// Compile-time check that Encryptor implements EncryptionEndpoint.
var _ EncryptionEndpoint = (*Encryptor)(nil)
