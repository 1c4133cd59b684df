// Package auth defines the authentication provider contract consumed by the
// core. Session lifecycle and the sign-in flow live outside this module; the
// core only needs "current signed-in identity or none".
package auth

import (
	"context"

	domainerrors "github.com/catability/menu-rouletti/internal/errors"
)

// Identity describes the signed-in user.
type Identity struct {
	UserID      string
	DisplayName string
}

// Provider exposes the current signed-in identity, if any.
type Provider interface {
	// Current returns the signed-in identity, or ok=false when nobody is
	// signed in. Implementations must not return an error for the
	// signed-out case.
	Current(ctx context.Context) (identity Identity, ok bool, err error)
}

// RequireUser resolves the current identity from the provider and fails with
// a NotAuthenticated error when there is none. Components call this before
// any store access so unauthenticated operations fail fast with no partial
// writes.
func RequireUser(ctx context.Context, p Provider) (Identity, error) {
	identity, ok, err := p.Current(ctx)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, domainerrors.NotAuthenticated("no signed-in user")
	}
	return identity, nil
}
