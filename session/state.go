package session

import "github.com/jrsteele09/go-warehouse-console/models"

// Phase is the controller state derived from a State record
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseFailed         Phase = "failed"
)

// State is the single authoritative record of who is signed in.
// User, Role and Token are set and cleared together; the only time they
// are empty with an active login is while Loading is true.
type State struct {
	User    string      `json:"user,omitempty"`
	Role    models.Role `json:"role,omitempty"`
	Token   string      `json:"-"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
}

// Authenticated reports whether a credential is held
func (s State) Authenticated() bool {
	return s.Token != ""
}

func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseAuthenticating
	case s.Token != "":
		return PhaseAuthenticated
	case s.Error != "":
		return PhaseFailed
	default:
		return PhaseAnonymous
	}
}

// Consistent checks the user/role/token invariant
func (s State) Consistent() bool {
	hasUser, hasRole, hasToken := s.User != "", s.Role != "", s.Token != ""
	if s.Loading {
		return !hasUser && !hasRole && !hasToken
	}
	return hasUser == hasToken && hasRole == hasToken
}
