package routes

import (
	"fmt"

	"github.com/jrsteele09/go-warehouse-console/models"
)

// Route is one console view. Roles is its allow-list; an empty list admits
// any authenticated role. Public routes skip both gates.
type Route struct {
	Path   string
	Name   string
	Public bool
	Roles  []models.Role
}

// Allows reports whether role may enter r
func (r Route) Allows(role models.Role) bool {
	return len(r.Roles) == 0 || role.In(r.Roles)
}

// Table is read-only once built
type Table struct {
	routes map[string]Route
	order  []string
}

func NewTable(routes ...Route) (*Table, error) {
	t := &Table{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		if r.Path == "" {
			return nil, fmt.Errorf("[routes NewTable] route %q has no path", r.Name)
		}
		if _, exists := t.routes[r.Path]; exists {
			return nil, fmt.Errorf("[routes NewTable] duplicate route %s", r.Path)
		}
		r.Roles = append([]models.Role(nil), r.Roles...)
		t.routes[r.Path] = r
		t.order = append(t.order, r.Path)
	}
	return t, nil
}

func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.routes[path]
	return r, ok
}

// Routes returns every route in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

// Visible returns the non-public routes role may enter, for building menus
func (t *Table) Visible(role models.Role) []Route {
	var out []Route
	for _, r := range t.Routes() {
		if !r.Public && r.Allows(role) {
			out = append(out, r)
		}
	}
	return out
}
