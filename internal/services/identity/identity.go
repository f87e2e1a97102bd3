// Package identity tracks who is signed in and tells listeners when it changes
package identity

//go:generate mockgen -destination=mock/mock_provider.go -package=identitymock github.com/KirkDiggler/rpg-sheet/internal/services/identity Provider

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Identity is the current user. The zero value is anonymous.
type Identity struct {
	UID string
}

// Anonymous is the signed-out identity
var Anonymous = Identity{}

// IsAnonymous reports whether nobody is signed in
func (i Identity) IsAnonymous() bool {
	return i.UID == ""
}

// Listener is called after every identity change
type Listener func(ctx context.Context, previous, current Identity)

// Provider exposes the current identity and its changes
type Provider interface {
	// Current returns the signed-in identity, or Anonymous
	Current() Identity

	// Subscribe registers fn for future changes; call cancel to remove it
	Subscribe(fn Listener) (cancel func())
}

// Static is an in-process Provider changed explicitly by SignIn and SignOut
type Static struct {
	mu        sync.RWMutex
	current   Identity
	listeners map[int]Listener
	nextID    int
}

var _ Provider = (*Static)(nil)

// NewStatic creates a provider starting at the given identity
func NewStatic(initial Identity) *Static {
	return &Static{
		current:   initial,
		listeners: make(map[int]Listener),
	}
}

// Current returns the signed-in identity
func (s *Static) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn for future changes
func (s *Static) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn switches to uid and notifies listeners synchronously. Signing in
// as the current identity is a no-op.
func (s *Static) SignIn(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errors.InvalidArgument("uid cannot be empty")
	}
	s.set(ctx, Identity{UID: uid})
	return nil
}

// SignOut switches to the anonymous identity
func (s *Static) SignOut(ctx context.Context) {
	s.set(ctx, Anonymous)
}

func (s *Static) set(ctx context.Context, next Identity) {
	s.mu.Lock()
	previous := s.current
	if previous == next {
		s.mu.Unlock()
		return
	}
	s.current = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	slog.InfoContext(ctx, "identity changed",
		"signed_in", !next.IsAnonymous())

	for _, fn := range listeners {
		fn(ctx, previous, next)
	}
}
