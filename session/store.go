package session

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/go-warehouse-console/models"
)

// Subscriber receives every state a Store moves through, in transition order.
// Subscribers may call Snapshot but must not call transition methods.
type Subscriber func(State)

// Store owns the session State. Transitions are serialised and every
// subscriber sees them in the order they were applied.
type Store struct {
	mu    sync.RWMutex
	state State
	subs  map[int]Subscriber
	next  int

	// publishMu keeps mutation and delivery of one transition ahead of the next
	publishMu sync.Mutex
}

func NewStore() *Store {
	return &Store{subs: make(map[int]Subscriber)}
}

// Snapshot returns the current state. Route guards use it for one-shot decisions.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and immediately delivers the current state to it.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// LoginStarted moves to Authenticating. Any previous error is cleared.
func (s *Store) LoginStarted() {
	s.apply(func(State) (State, bool) {
		return State{Loading: true}, true
	})
}

// LoginSucceeded populates the identity triple from decoded claims
func (s *Store) LoginSucceeded(user string, role models.Role, token string) error {
	if user == "" || role == "" || token == "" {
		return fmt.Errorf("[session LoginSucceeded] user, role and token are all required")
	}
	s.apply(func(State) (State, bool) {
		return State{User: user, Role: role, Token: token}, true
	})
	return nil
}

// LoginFailed records message and leaves the identity triple empty
func (s *Store) LoginFailed(message string) {
	s.apply(func(State) (State, bool) {
		return State{Error: message}, true
	})
}

// TokenRefreshed swaps the mirrored credential after a silent refresh.
// It only applies to an authenticated session for the same user.
func (s *Store) TokenRefreshed(user string, role models.Role, token string) bool {
	applied := false
	s.apply(func(cur State) (State, bool) {
		if !cur.Authenticated() || cur.Loading || cur.User != user || token == "" || role == "" {
			return cur, false
		}
		applied = true
		return State{User: user, Role: role, Token: token}, true
	})
	return applied
}

// Reset returns to the initial anonymous record. It reports whether
// anything changed so logout on an anonymous session stays a no-op.
func (s *Store) Reset() bool {
	changed := false
	s.apply(func(cur State) (State, bool) {
		if cur == (State{}) {
			return cur, false
		}
		changed = true
		return State{}, true
	})
	return changed
}

func (s *Store) apply(transition func(State) (State, bool)) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	next, changed := transition(s.state)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.state = next
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
