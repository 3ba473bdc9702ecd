package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/models"
)

// Users (ADMIN)

func (c *Client) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	var out []models.UserResponse
	return out, c.do(ctx, http.MethodGet, "/api/admin/users", nil, &out)
}

func (c *Client) EnableUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, pathf("/api/admin/users/%s/enable", id), nil, nil)
}

func (c *Client) DisableUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, pathf("/api/admin/users/%s/disable", id), nil, nil)
}

// Warehouses

func (c *Client) ListWarehouses(ctx context.Context) ([]models.WarehouseResponse, error) {
	var out []models.WarehouseResponse
	return out, c.do(ctx, http.MethodGet, "/api/warehouses", nil, &out)
}

func (c *Client) GetWarehouse(ctx context.Context, id int64) (models.WarehouseResponse, error) {
	var out models.WarehouseResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/warehouses/%s", id), nil, &out)
}

func (c *Client) CreateWarehouse(ctx context.Context, req models.CreateWarehouseRequest) (models.WarehouseResponse, error) {
	var out models.WarehouseResponse
	return out, c.do(ctx, http.MethodPost, "/api/warehouses", req, &out)
}

func (c *Client) UpdateWarehouse(ctx context.Context, id int64, req models.CreateWarehouseRequest) (models.WarehouseResponse, error) {
	var out models.WarehouseResponse
	return out, c.do(ctx, http.MethodPut, pathf("/api/warehouses/%s", id), req, &out)
}

func (c *Client) DeleteWarehouse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/warehouses/%s", id), nil, nil)
}

// Products

func (c *Client) ListProducts(ctx context.Context) ([]models.ProductResponse, error) {
	var out []models.ProductResponse
	return out, c.do(ctx, http.MethodGet, "/api/products", nil, &out)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.ProductResponse, error) {
	var out models.ProductResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/products/%s", id), nil, &out)
}

func (c *Client) CreateProduct(ctx context.Context, req models.ProductRequest) (models.ProductResponse, error) {
	var out models.ProductResponse
	return out, c.do(ctx, http.MethodPost, "/api/products", req, &out)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (models.ProductResponse, error) {
	var out models.ProductResponse
	return out, c.do(ctx, http.MethodPut, pathf("/api/products/%s", id), req, &out)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/products/%s", id), nil, nil)
}

// Inventory

func (c *Client) ListInventory(ctx context.Context, warehouseID int64) ([]models.InventoryResponse, error) {
	var out []models.InventoryResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/inventory/warehouse/%s", warehouseID), nil, &out)
}

func (c *Client) AddInventory(ctx context.Context, req models.InventoryRequest) (models.InventoryResponse, error) {
	var out models.InventoryResponse
	return out, c.do(ctx, http.MethodPost, "/api/inventory", req, &out)
}

func (c *Client) UpdateInventoryQuantity(ctx context.Context, warehouseID, productID int64, quantity int) (models.InventoryResponse, error) {
	var out models.InventoryResponse
	path := pathf("/api/inventory/warehouse/%s/product/%s", warehouseID, productID)
	return out, c.do(ctx, http.MethodPatch, path, models.QuantityRequest{Quantity: quantity}, &out)
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.OrderResponse, error) {
	var out models.OrderResponse
	return out, c.do(ctx, http.MethodPost, "/api/orders", req, &out)
}

func (c *Client) ListOrdersByWarehouse(ctx context.Context, warehouseID int64) ([]models.OrderResponse, error) {
	var out []models.OrderResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/orders/warehouse/%s", warehouseID), nil, &out)
}

func (c *Client) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderResponse, error) {
	if !status.Valid() {
		return nil, errors.Wrapf(errors.ErrInvalidOrderStatus, "%q", status)
	}
	var out []models.OrderResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/orders/status/%s", status), nil, &out)
}

func (c *Client) AssignOrder(ctx context.Context, orderID, staffID int64) (models.OrderResponse, error) {
	var out models.OrderResponse
	return out, c.do(ctx, http.MethodPut, pathf("/api/orders/%s/assign/%s", orderID, staffID), nil, &out)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (models.OrderResponse, error) {
	if !status.Valid() {
		return models.OrderResponse{}, errors.Wrapf(errors.ErrInvalidOrderStatus, "%q", status)
	}
	var out models.OrderResponse
	return out, c.do(ctx, http.MethodPut, pathf("/api/orders/%s/status", orderID), models.UpdateOrderStatusRequest{Status: status}, &out)
}

func (c *Client) GetOrderTracking(ctx context.Context, orderID int64) (models.OrderTrackingResponse, error) {
	var out models.OrderTrackingResponse
	return out, c.do(ctx, http.MethodGet, pathf("/api/orders/%s/tracking", orderID), nil, &out)
}
