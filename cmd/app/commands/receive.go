package commands

import (
	"context"
	"errors"
	"fmt"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	cryptoService "github.com/allisson/clip/internal/crypto/service"
	apperrors "github.com/allisson/clip/internal/errors"
)

// RunReceive fetches and decrypts the secret behind a share link. The link is
// taken from link, or from the first line of io.Reader when empty. With burn
// the secret is deleted from the server after a successful decrypt.
func RunReceive(
	ctx context.Context,
	sharer Sharer,
	io IOTuple,
	link string,
	burn bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if link == "" {
		var err error
		link, err = readLine(io.Reader)
		if err != nil {
			return err
		}
	}
	if link == "" {
		return errors.New("share link is empty: pass it as an argument or on stdin")
	}

	plaintext, err := sharer.Receive(ctx, link)
	if err != nil {
		return receiveError(err)
	}

	if burn {
		if err := sharer.Burn(ctx, link); err != nil {
			return fmt.Errorf("secret decrypted but could not be deleted: %w", err)
		}
	}

	if format == "json" {
		return writeJSON(io.Writer, map[string]any{
			"secret": plaintext,
			"burned": burn,
		})
	}

	_, _ = fmt.Fprintln(io.Writer, plaintext)
	return nil
}

// receiveError turns a share failure into a message fit for the terminal.
func receiveError(err error) error {
	switch {
	case apperrors.Is(err, clipDomain.ErrSecretNotFound):
		return errors.New("secret not found or expired")
	case apperrors.Is(err, clipDomain.ErrInvalidLink):
		return err
	case apperrors.Is(err, apperrors.ErrUnavailable), apperrors.Is(err, apperrors.ErrTooManyRequests):
		return fmt.Errorf("server unavailable, try again later: %w", err)
	default:
		return errors.New(cryptoService.UserMessage(err))
	}
}
