package auth

import (
	"context"

	"github.com/yourname/sleepdash/internal"
)

// Provider validates API bearer tokens for the dashboard itself. This is
// separate from the sleep data providers' OAuth flows.
type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
