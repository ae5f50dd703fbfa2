package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
)

func TestEncryptor_GenerateKey(t *testing.T) {
	enc := NewEncryptor()

	key, err := enc.GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key.Material(), cryptoDomain.KeySize)
	assert.True(t, key.Exportable())
	assert.True(t, key.Allows(cryptoDomain.UsageEncrypt|cryptoDomain.UsageDecrypt))

	other, err := enc.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key.Material(), other.Material())
}

func TestEncryptor_GenerateKey_RandomFailure(t *testing.T) {
	enc := NewEncryptorWithReader(bytes.NewReader(nil))

	key, err := enc.GenerateKey()
	assert.Error(t, err)
	assert.Nil(t, key)
}

func TestEncryptor_ExportImportKey(t *testing.T) {
	enc := NewEncryptor()

	t.Run("export then import", func(t *testing.T) {
		key, err := enc.GenerateKey()
		require.NoError(t, err)

		exported, err := enc.ExportKey(key)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(exported)
		require.NoError(t, err)
		assert.Equal(t, key.Material(), raw)

		imported, err := enc.ImportKey(exported)
		require.NoError(t, err)
		assert.Equal(t, key.Material(), imported.Material())
		assert.False(t, imported.Exportable())
		assert.True(t, imported.Allows(cryptoDomain.UsageDecrypt))
		assert.False(t, imported.Allows(cryptoDomain.UsageEncrypt))
	})

	t.Run("imported key cannot be exported again", func(t *testing.T) {
		key, err := enc.GenerateKey()
		require.NoError(t, err)
		exported, err := enc.ExportKey(key)
		require.NoError(t, err)

		imported, err := enc.ImportKey(exported)
		require.NoError(t, err)

		_, err = enc.ExportKey(imported)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotExportable)
	})

	t.Run("export nil key", func(t *testing.T) {
		_, err := enc.ExportKey(nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotExportable)
	})

	t.Run("import invalid base64", func(t *testing.T) {
		_, err := enc.ImportKey("not base64!!")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})

	t.Run("import wrong length", func(t *testing.T) {
		_, err := enc.ImportKey(base64.StdEncoding.EncodeToString(make([]byte, 16)))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})
}

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	enc := NewEncryptor()

	key, err := enc.GenerateKey()
	require.NoError(t, err)

	plaintexts := []string{
		"",
		"hello",
		"multi\nline\nsecret",
		"unicode: 日本語 🔒 ü",
		strings.Repeat("a", cryptoDomain.MaxPlaintextLength),
		strings.Repeat("日", cryptoDomain.MaxPlaintextLength),
		strings.Repeat("🔒", cryptoDomain.MaxPlaintextLength/2),
	}

	for _, plaintext := range plaintexts {
		payload, err := enc.Encrypt(plaintext, key)
		require.NoError(t, err)

		iv, err := base64.StdEncoding.DecodeString(payload.IV)
		require.NoError(t, err)
		assert.Len(t, iv, cryptoDomain.NonceSize)

		decrypted, err := enc.Decrypt(payload.Ciphertext, payload.IV, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptor_Decrypt_WithImportedKey(t *testing.T) {
	enc := NewEncryptor()

	key, err := enc.GenerateKey()
	require.NoError(t, err)
	exported, err := enc.ExportKey(key)
	require.NoError(t, err)

	payload, err := enc.Encrypt("shared secret", key)
	require.NoError(t, err)

	imported, err := enc.ImportKey(exported)
	require.NoError(t, err)

	decrypted, err := enc.Decrypt(payload.Ciphertext, payload.IV, imported)
	require.NoError(t, err)
	assert.Equal(t, "shared secret", decrypted)

	// Decrypt-only key refuses to encrypt
	_, err = enc.Encrypt("new secret", imported)
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyUsage)
}

func TestEncryptor_Decrypt_WrongKey(t *testing.T) {
	enc := NewEncryptor()

	key1, err := enc.GenerateKey()
	require.NoError(t, err)
	key2, err := enc.GenerateKey()
	require.NoError(t, err)

	payload, err := enc.Encrypt("for key1 only", key1)
	require.NoError(t, err)

	_, err = enc.Decrypt(payload.Ciphertext, payload.IV, key2)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestEncryptor_Encrypt_DistinctIVs(t *testing.T) {
	enc := NewEncryptor()

	key, err := enc.GenerateKey()
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		payload, err := enc.Encrypt("same plaintext", key)
		require.NoError(t, err)

		_, dup := seen[payload.IV]
		require.False(t, dup, "iv reused")
		seen[payload.IV] = struct{}{}
	}
}

func TestEncryptor_Encrypt_TooLarge(t *testing.T) {
	// A reader that fails proves no random bytes are consumed before the size check
	enc := NewEncryptorWithReader(bytes.NewReader(nil))

	key, err := cryptoDomain.NewKey(make([]byte, cryptoDomain.KeySize), cryptoDomain.UsageEncrypt, true)
	require.NoError(t, err)

	_, err = enc.Encrypt(strings.Repeat("x", cryptoDomain.MaxPlaintextLength+1), key)
	assert.ErrorIs(t, err, cryptoDomain.ErrPlaintextTooLarge)

	// Astral characters count as two units, so half as many fit
	_, err = enc.Encrypt(strings.Repeat("🔒", cryptoDomain.MaxPlaintextLength/2+1), key)
	assert.ErrorIs(t, err, cryptoDomain.ErrPlaintextTooLarge)
}

func TestEncryptor_Decrypt_Failures(t *testing.T) {
	enc := NewEncryptor()

	key, err := enc.GenerateKey()
	require.NoError(t, err)

	payload, err := enc.Encrypt("tamper target", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	shortIV := base64.StdEncoding.EncodeToString(make([]byte, 8))

	tests := []struct {
		name       string
		ciphertext string
		iv         string
	}{
		{"tampered tag", tampered, payload.IV},
		{"short iv", payload.Ciphertext, shortIV},
		{"bad ciphertext encoding", "***", payload.IV},
		{"bad iv encoding", payload.Ciphertext, "***"},
		{"empty ciphertext", "", payload.IV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Decrypt(tt.ciphertext, tt.iv, key)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})
	}
}

func TestEncryptor_Decrypt_KnownVector(t *testing.T) {
	// AES-256-GCM, zero key, zero iv, empty plaintext.
	enc := NewEncryptor()

	key, err := enc.ImportKey("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")
	require.NoError(t, err)

	plaintext, err := enc.Decrypt("Uw+K+8dFNrmpY7TxxMtziw==", "AAAAAAAAAAAAAAAA", key)
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestEncryptor_IsSupported(t *testing.T) {
	assert.True(t, NewEncryptor().IsSupported())
	assert.False(t, NewEncryptorWithReader(bytes.NewReader(nil)).IsSupported())

	// Enough randomness for the key but none left for the nonce.
	keyOnly := bytes.NewReader(make([]byte, cryptoDomain.KeySize))
	assert.False(t, NewEncryptorWithReader(keyOnly).IsSupported())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{cryptoDomain.ErrDecryptionFailed, MessageDecryptionFailed},
		{cryptoDomain.ErrInvalidKey, MessageDecryptionFailed},
		{cryptoDomain.ErrUnsupportedEnvironment, MessageUnsupported},
		{cryptoDomain.ErrPlaintextTooLarge, MessageTooLarge},
		{errors.New("boom"), MessageGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserMessage(tt.err))
	}
}
