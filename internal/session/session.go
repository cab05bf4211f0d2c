// Package session holds the single logged-in identity, mirrored between
// memory and the local cache.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zarlcorp/zattend/internal/cache"
	"github.com/zarlcorp/zattend/internal/identity"
)

// Store is the session context handed to the login flow and the views.
// The in-memory copy only changes after the cache write it mirrors succeeds.
type Store struct {
	cache cache.Cache

	mu      sync.Mutex
	current *identity.Identity
}

// Open creates a store and rehydrates the in-memory identity from the cache.
// A missing entry means nobody is logged in.
func Open(c cache.Cache) (*Store, error) {
	s := &Store{cache: c}

	id, err := cache.GetJSON[identity.Identity](c, cache.KeyUser)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.current = &id
	return s, nil
}

// Get returns the current identity, or false when nobody is logged in.
func (s *Store) Get() (identity.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// Set overwrites the persisted and in-memory identity.
func (s *Store) Set(id identity.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cache.PutJSON(s.cache, cache.KeyUser, id); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	s.current = &id
	return nil
}

// SetDemoMode writes the demo mode flag.
func (s *Store) SetDemoMode(on bool) error {
	if err := cache.PutJSON(s.cache, cache.KeyDemoMode, on); err != nil {
		return fmt.Errorf("set demo mode: %w", err)
	}
	return nil
}

// DemoMode reports whether the demo mode flag is set.
// A missing or unreadable flag counts as off.
func (s *Store) DemoMode() bool {
	on, err := cache.GetJSON[bool](s.cache, cache.KeyDemoMode)
	if err != nil {
		return false
	}
	return on
}

// Clear removes the session and demo mode entries. The in-memory identity is
// dropped regardless; errors from the cache are joined and returned.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	var errs []error
	for _, key := range []string{cache.KeyUser, cache.KeyDemoMode} {
		if err := s.cache.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
