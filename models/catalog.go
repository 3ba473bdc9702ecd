package models

// UserResponse is a backend user as listed by the admin endpoints
type UserResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    Role   `json:"role"`
	Enabled bool   `json:"enabled"`
}

// CreateWarehouseRequest is used for create and update. A nil ManagerID
// on update leaves the manager unchanged.
type CreateWarehouseRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity"`
	Code      string `json:"code"`
	ManagerID *int64 `json:"managerId"`
}

type WarehouseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Code        string `json:"code"`
	Capacity    int    `json:"capacity"`
	ManagerName string `json:"managerName"`
}

type ProductRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

type InventoryRequest struct {
	WarehouseID      int64 `json:"warehouseId"`
	ProductID        int64 `json:"productId"`
	Quantity         int   `json:"quantity"`
	ReorderThreshold int   `json:"reorderThreshold"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type InventoryResponse struct {
	ID               int64  `json:"id"`
	WarehouseID      int64  `json:"warehouseId"`
	ProductID        int64  `json:"productId"`
	ProductName      string `json:"productName"`
	SKU              string `json:"sku"`
	Quantity         int    `json:"quantity"`
	ReorderThreshold int    `json:"reorderThreshold"`
}

// NeedsReorder reports whether stock is at or below the reorder threshold
func (i InventoryResponse) NeedsReorder() bool {
	return i.Quantity <= i.ReorderThreshold
}
