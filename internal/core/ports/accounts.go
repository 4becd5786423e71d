package ports

import (
	"context"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// AccountRegistry manages credential records. The actor on mutating calls is
// the authenticated identity performing the change (nil when anonymous); it
// only drives audit emission, never authorization, which the transport layer
// enforces before the call.
type AccountRegistry interface {
	// Add appends a new account. Duplicate usernames fail with
	// domain.ErrAccountExists and leave the registry unchanged.
	Add(ctx context.Context, actor *domain.Identity, username, secret string, role domain.Role) (*domain.Account, error)

	// Remove deletes an account. Removing the last remaining root account
	// fails with domain.ErrLastRoot and leaves the registry unchanged.
	Remove(ctx context.Context, actor *domain.Identity, username string) error

	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}
