package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	clipUseCase "github.com/allisson/clip/internal/clip/usecase"
)

// RunPurgeExpired physically removes expired envelopes from the SQL stores.
// Expired rows are already unreadable; this only reclaims space. Stores that
// expire entries themselves report zero.
func RunPurgeExpired(
	ctx context.Context,
	envelopeUseCase clipUseCase.EnvelopeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging expired envelopes")

	count, err := envelopeUseCase.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired envelopes: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"count": count}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully purged %d expired secret(s)\n", count)
	}

	logger.Info("purge completed", slog.Int64("count", count))
	return nil
}
