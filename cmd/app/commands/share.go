package commands

import (
	"context"

	"github.com/allisson/clip/internal/share"
)

// Sharer is the share flow used by the send, receive and burn commands.
type Sharer interface {
	Send(ctx context.Context, plaintext string, ttl *int) (*share.Result, error)
	Receive(ctx context.Context, rawLink string) (string, error)
	Burn(ctx context.Context, rawLink string) error
}

var _ Sharer = (*share.Service)(nil)
