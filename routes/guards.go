package routes

import (
	"fmt"

	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/rs/zerolog/log"
)

// SnapshotReader is the read side of the session store
type SnapshotReader interface {
	Snapshot() session.State
}

// SessionGuard admits a state holding a credential and otherwise sends the user to login
type SessionGuard struct {
	Navigator Navigator
	LoginView string
}

func (g SessionGuard) Check(state session.State) bool {
	if state.Authenticated() {
		return true
	}
	g.Navigator.Navigate(g.LoginView)
	return false
}

// RoleGuard admits a state whose role is in allowed and otherwise sends the
// user back to the default view. An empty allow-list admits any role.
type RoleGuard struct {
	Navigator   Navigator
	DefaultView string
}

func (g RoleGuard) Check(state session.State, allowed []models.Role) bool {
	if len(allowed) == 0 || state.Role.In(allowed) {
		return true
	}
	g.Navigator.Navigate(g.DefaultView)
	return false
}

// Router evaluates a route's gates against one session snapshot and
// navigates to the route when they pass. It never mutates session state.
type Router struct {
	table    *Table
	sessions SnapshotReader
	nav      Navigator
	session  SessionGuard
	role     RoleGuard
}

func NewRouter(table *Table, sessions SnapshotReader, nav Navigator, loginView, defaultView string) *Router {
	return &Router{
		table:    table,
		sessions: sessions,
		nav:      nav,
		session:  SessionGuard{Navigator: nav, LoginView: loginView},
		role:     RoleGuard{Navigator: nav, DefaultView: defaultView},
	}
}

// Enter attempts to open path. Denials have already redirected when the
// returned error matches errors.ErrNotAuthenticated or errors.ErrForbidden.
func (r *Router) Enter(path string) error {
	route, ok := r.table.Lookup(path)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "route %s", path)
	}

	if !route.Public {
		state := r.sessions.Snapshot()
		if !r.session.Check(state) {
			log.Debug().Str("route", path).Msg("no session, redirected to login")
			return errors.Wrapf(errors.ErrNotAuthenticated, "route %s", path)
		}
		if !r.role.Check(state, route.Roles) {
			log.Debug().Str("route", path).Str("role", string(state.Role)).Msg("role not allowed, redirected")
			return fmt.Errorf("%w: role %s may not enter %s", errors.ErrForbidden, state.Role, path)
		}
	}

	r.nav.Navigate(path)
	return nil
}

// Can reports whether the current session could enter path, without navigating
func (r *Router) Can(path string) bool {
	route, ok := r.table.Lookup(path)
	if !ok {
		return false
	}
	if route.Public {
		return true
	}
	state := r.sessions.Snapshot()
	return state.Authenticated() && route.Allows(state.Role)
}

func (r *Router) Table() *Table {
	return r.table
}
