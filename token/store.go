package token

import (
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Store holds the current access credential in memory only. It is never
// written to disk; a restarted process recovers a credential through the
// refresh cookie instead.
type Store struct {
	mu     sync.RWMutex
	raw    string
	expiry time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the current credential
func (s *Store) Set(raw string) {
	s.SetWithExpiry(raw, time.Time{})
}

// SetWithExpiry replaces the current credential and records the expiry
// decoded from its claims. A zero expiry means unknown.
func (s *Store) SetWithExpiry(raw string, expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	s.expiry = expiry
}

// Get returns the credential and whether one is held
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw, s.raw != ""
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = ""
	s.expiry = time.Time{}
}

// Token returns the credential as a bearer oauth2.Token, or nil when none is held
func (s *Store) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken: s.raw,
		TokenType:   "Bearer",
		Expiry:      s.expiry,
	}
}
