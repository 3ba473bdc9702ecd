package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPicking   OrderStatus = "PICKING"
	OrderPacked    OrderStatus = "PACKED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses is in fulfilment order
var OrderStatuses = []OrderStatus{
	OrderCreated,
	OrderConfirmed,
	OrderPicking,
	OrderPacked,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus accepts any letter case
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	WarehouseID     int64              `json:"warehouseId"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerAddress string             `json:"customerAddress"`
	CustomerPhone   string             `json:"customerPhone"`
	Items           []OrderItemRequest `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponse struct {
	ID                int64               `json:"id"`
	Status            OrderStatus         `json:"status"`
	CustomerName      string              `json:"customerName"`
	TotalAmount       float64             `json:"totalAmount"`
	WarehouseID       int64               `json:"warehouseId"`
	AssignedStaffName string              `json:"assignedStaffName,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	Items             []OrderItemResponse `json:"items"`
}

// OrderTrackingResponse carries the time each fulfilment step was reached.
// Steps not yet reached are nil.
type OrderTrackingResponse struct {
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	PickingAt   *time.Time `json:"pickingAt,omitempty"`
	PackedAt    *time.Time `json:"packedAt,omitempty"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

type TrackingStep struct {
	Status OrderStatus
	At     time.Time
}

func (t *OrderTrackingResponse) field(status OrderStatus) **time.Time {
	switch status {
	case OrderCreated:
		return &t.CreatedAt
	case OrderConfirmed:
		return &t.ConfirmedAt
	case OrderPicking:
		return &t.PickingAt
	case OrderPacked:
		return &t.PackedAt
	case OrderShipped:
		return &t.ShippedAt
	case OrderDelivered:
		return &t.DeliveredAt
	case OrderCancelled:
		return &t.CancelledAt
	}
	return nil
}

// Mark records that status was reached at at
func (t *OrderTrackingResponse) Mark(status OrderStatus, at time.Time) {
	if f := t.field(status); f != nil {
		*f = &at
	}
}

// Steps lists the reached steps in fulfilment order
func (t OrderTrackingResponse) Steps() []TrackingStep {
	var steps []TrackingStep
	for _, status := range OrderStatuses {
		if at := *t.field(status); at != nil {
			steps = append(steps, TrackingStep{Status: status, At: *at})
		}
	}
	return steps
}

// Current is the furthest step reached, CANCELLED taking precedence.
// It is empty when no step has a timestamp.
func (t OrderTrackingResponse) Current() OrderStatus {
	steps := t.Steps()
	if len(steps) == 0 {
		return ""
	}
	return steps[len(steps)-1].Status
}
