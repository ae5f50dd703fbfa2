package commands

import (
	"errors"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
	cryptoService "github.com/allisson/clip/internal/crypto/service"
)

// RunKeygen prints a fresh base64 AES-256 key in the form used by share link
// fragments. It refuses to run when the encryption primitives are unavailable.
func RunKeygen(encryptor cryptoService.EncryptionEndpoint, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if !encryptor.IsSupported() {
		return errors.New(cryptoService.MessageUnsupported)
	}

	key, err := encryptor.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer key.Destroy()

	exported, err := encryptor.ExportKey(key)
	if err != nil {
		return fmt.Errorf("failed to export key: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"key":       exported,
			"algorithm": "AES-256-GCM",
			"bits":      cryptoDomain.KeySize * 8,
		})
	}

	_, _ = fmt.Fprintln(writer, exported)
	return nil
}
