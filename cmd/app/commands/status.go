package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/allisson/clip/internal/client"
	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
)

// HealthChecker reports which kind of store the server is running on.
type HealthChecker interface {
	Health(ctx context.Context) (*clipDomain.Health, error)
}

var _ HealthChecker = (*client.Client)(nil)

// RunStatus prints the server's backend so operators can tell a durable store
// from the in-memory fallback.
func RunStatus(ctx context.Context, checker HealthChecker, writer io.Writer, serverURL, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	health, err := checker.Health(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnavailable) {
			return fmt.Errorf("server unavailable at %s: %w", serverURL, err)
		}
		return fmt.Errorf("failed to check server status: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"server":    serverURL,
			"status":    health.Status,
			"backend":   health.Backend,
			"driver":    health.Driver,
			"timestamp": health.Timestamp,
		})
	}

	_, _ = fmt.Fprintf(writer, "Server:  %s\n", serverURL)
	_, _ = fmt.Fprintf(writer, "Status:  %s\n", health.Status)
	_, _ = fmt.Fprintf(writer, "Backend: %s (%s)\n", health.Backend, health.Driver)
	if health.Backend == clipDomain.DurabilityFallback {
		_, _ = fmt.Fprintln(writer, "Warning: secrets are kept in process memory and are lost on restart")
	}
	return nil
}
