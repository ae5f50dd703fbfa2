package domain

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

// SecretIDLength is the length of a rendered SecretID.
const SecretIDLength = 32

// SecretID identifies a stored envelope: 128 random bits as 32 lowercase hex characters.
type SecretID string

// NewID generates a SecretID from crypto/rand. No uniqueness check is performed.
func NewID() (SecretID, error) {
	return NewIDFromReader(rand.Reader)
}

// NewIDFromReader generates a SecretID from r.
func NewIDFromReader(r io.Reader) (SecretID, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", err
	}
	return SecretID(hex.EncodeToString(b[:])), nil
}

// ParseID validates s and returns it as a SecretID, or ErrInvalidSecretID.
func ParseID(s string) (SecretID, error) {
	if !isValidID(s) {
		return "", ErrInvalidSecretID
	}
	return SecretID(s), nil
}

// String returns the string form of the SecretID.
func (id SecretID) String() string { return string(id) }

// Valid reports whether the ID satisfies the same rules as ParseID.
func (id SecretID) Valid() bool { return isValidID(string(id)) }

func isValidID(s string) bool {
	if len(s) != SecretIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
