package models

// Role is the single role claim carried by an access credential
type Role string

const (
	RoleAdmin   Role = "ADMIN"             // Manages users and every warehouse
	RoleManager Role = "WAREHOUSE_MANAGER" // Manages warehouses, products and stock
	RoleStaff   Role = "STAFF"             // Picks, packs and ships orders
)

// Roles lists every role the backend issues
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// In reports whether r is a member of allowed
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
