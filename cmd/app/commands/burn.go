package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// RunBurn deletes the secret behind a share link. Deleting an absent or
// expired secret succeeds.
func RunBurn(ctx context.Context, sharer Sharer, writer io.Writer, link string) error {
	if link == "" {
		return errors.New("share link is empty")
	}

	if err := sharer.Burn(ctx, link); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "Secret deleted successfully")
	return nil
}
