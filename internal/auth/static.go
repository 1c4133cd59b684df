package auth

import (
	"context"
	"sync"
)

// StaticProvider is a Provider backed by an in-memory identity. The UI shell
// sets the identity after its sign-in flow completes and clears it on
// sign-out. Also used directly in tests.
type StaticProvider struct {
	mu       sync.RWMutex
	identity Identity
	signedIn bool
}

// NewStaticProvider creates a signed-out provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// SignedIn returns a provider with the given identity already signed in.
func SignedIn(userID, displayName string) *StaticProvider {
	p := NewStaticProvider()
	p.SignIn(Identity{UserID: userID, DisplayName: displayName})
	return p
}

// SignIn sets the current identity.
func (p *StaticProvider) SignIn(identity Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = identity
	p.signedIn = true
}

// SignOut clears the current identity.
func (p *StaticProvider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = Identity{}
	p.signedIn = false
}

// Current implements Provider.
func (p *StaticProvider) Current(_ context.Context) (Identity, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identity, p.signedIn, nil
}
