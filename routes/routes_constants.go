package routes

import "github.com/jrsteele09/go-warehouse-console/models"

// Route path constants
// All console views are defined here to ensure consistency and prevent typos
const (
	// Public
	RouteLogin = "/login"

	// Any authenticated role
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"

	// Admin
	RouteAdminUsers = "/admin/users"

	// Catalogue management
	RouteWarehouses = "/warehouses"
	RouteProducts   = "/products"

	// Operations
	RouteInventory     = "/inventory"
	RouteOrders        = "/orders"
	RouteOrderCreate   = "/orders/new"
	RouteOrderTracking = "/orders/tracking"
)

var (
	adminOnly    = []models.Role{models.RoleAdmin}
	management   = []models.Role{models.RoleAdmin, models.RoleManager}
	allOperators = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleStaff}
)

// DefaultTable is the console's view table
func DefaultTable() *Table {
	t, err := NewTable(
		Route{Path: RouteLogin, Name: "Login", Public: true},
		Route{Path: RouteDashboard, Name: "Dashboard"},
		Route{Path: RouteProfile, Name: "Profile"},
		Route{Path: RouteAdminUsers, Name: "Users", Roles: adminOnly},
		Route{Path: RouteWarehouses, Name: "Warehouses", Roles: management},
		Route{Path: RouteProducts, Name: "Products", Roles: management},
		Route{Path: RouteInventory, Name: "Inventory", Roles: allOperators},
		Route{Path: RouteOrders, Name: "Orders", Roles: allOperators},
		Route{Path: RouteOrderCreate, Name: "New order", Roles: management},
		Route{Path: RouteOrderTracking, Name: "Order tracking", Roles: allOperators},
	)
	if err != nil {
		panic(err)
	}
	return t
}
