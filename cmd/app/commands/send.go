package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/clip/internal/crypto/domain"
	cryptoService "github.com/allisson/clip/internal/crypto/service"
	apperrors "github.com/allisson/clip/internal/errors"
)

// RunSend encrypts a secret locally, stores the ciphertext on the server and
// prints the share link. The secret is read from text, or from io.Reader when
// text is empty. A ttl of zero lets the server apply its default.
func RunSend(
	ctx context.Context,
	sharer Sharer,
	logger *slog.Logger,
	io IOTuple,
	text string,
	ttl int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plaintext := text
	if plaintext == "" {
		var err error
		plaintext, err = readAllInput(io.Reader)
		if err != nil {
			return err
		}
	}
	if plaintext == "" {
		return errors.New("secret is empty: pass --text or pipe it on stdin")
	}

	var requestedTTL *int
	if ttl != 0 {
		requestedTTL = &ttl
	}

	result, err := sharer.Send(ctx, plaintext, requestedTTL)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrUnavailable), apperrors.Is(err, apperrors.ErrTooManyRequests):
			return fmt.Errorf("failed to store secret, try again later: %w", err)
		case apperrors.Is(err, cryptoDomain.ErrPlaintextTooLarge),
			apperrors.Is(err, cryptoDomain.ErrUnsupportedEnvironment):
			return errors.New(cryptoService.UserMessage(err))
		default:
			return fmt.Errorf("failed to share secret: %w", err)
		}
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"link": result.Link,
			"id":   result.ID.String(),
			"ttl":  result.TTL,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, result.Link)
		_, _ = fmt.Fprintf(io.Writer, "Expires in %d second(s)\n", result.TTL)
	}

	// The link carries the key, so only the id is logged
	logger.Info("secret shared", slog.String("id", result.ID.String()), slog.Int("ttl", result.TTL))
	return nil
}
