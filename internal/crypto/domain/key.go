// Package domain defines the key and payload types of the client-side encryption
// endpoint. Keys never leave the client except as a URL fragment, and the server
// only ever sees Payload values.
package domain

import "unicode/utf16"

// Parameters fixed by AES-256-GCM.
const (
	// KeySize is the raw key length in bytes (256 bits).
	KeySize = 32
	// NonceSize is the iv length in bytes (96 bits).
	NonceSize = 12
	// TagSize is the authentication tag appended to every ciphertext (128 bits).
	TagSize = 16
	// MaxPlaintextLength is the largest plaintext accepted, in characters.
	MaxPlaintextLength = 10000
)

// KeyUsage is a bit set of operations a Key may perform.
type KeyUsage uint8

const (
	// UsageEncrypt allows Encrypt.
	UsageEncrypt KeyUsage = 1 << iota
	// UsageDecrypt allows Decrypt.
	UsageDecrypt
)

// Key is a symmetric AES-256-GCM key together with the operations it permits.
//
// Generated keys are exportable and can both encrypt and decrypt. Imported keys
// are decrypt-only and cannot be exported again.
type Key struct {
	material   []byte
	usages     KeyUsage
	exportable bool
}

// NewKey wraps a copy of material. Returns ErrInvalidKeySize unless len(material) == KeySize.
func NewKey(material []byte, usages KeyUsage, exportable bool) (*Key, error) {
	if len(material) != KeySize {
		return nil, ErrInvalidKeySize
	}
	buf := make([]byte, KeySize)
	copy(buf, material)
	return &Key{material: buf, usages: usages, exportable: exportable}, nil
}

// Material returns the raw key bytes. Callers must not retain or modify the slice.
func (k *Key) Material() []byte {
	return k.material
}

// Exportable reports whether the key may be serialized.
func (k *Key) Exportable() bool {
	return k.exportable
}

// Allows reports whether every usage in u is permitted.
func (k *Key) Allows(u KeyUsage) bool {
	return k.usages&u == u
}

// Destroy zeroes the key material. The key is unusable afterwards.
func (k *Key) Destroy() {
	Zero(k.material)
	k.material = nil
	k.usages = 0
}

// Payload is the ciphertext and iv pair sent to the server, both base64-encoded.
type Payload struct {
	Ciphertext string
	IV         string
}

// PlaintextLength returns the length of s in UTF-16 code units, the unit the
// browser page counts against MaxPlaintextLength. Characters outside the
// Basic Multilingual Plane count twice.
func PlaintextLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
