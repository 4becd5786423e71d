package ports

import (
	"context"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// SessionStore holds the single active identity for the process and keeps it
// persisted across restarts.
type SessionStore interface {
	// Restore loads the persisted identity at startup. Absent or malformed
	// state leaves the session empty; Restore never fails the caller.
	Restore(ctx context.Context)

	// Login matches credentials against the registry. On success it sets and
	// persists the current identity and returns a signed bearer token. On
	// mismatch it returns domain.ErrInvalidCredentials and the session is
	// left unchanged.
	Login(ctx context.Context, username, secret string) (string, *domain.Identity, error)

	// Logout clears the current identity and removes the persisted record.
	Logout(ctx context.Context)

	// Current returns the active identity, or nil when unauthenticated.
	Current() *domain.Identity
}
