package backendfake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-warehouse-console/models"
)

type catalog struct {
	catMu      sync.Mutex
	nextID     int64
	warehouses map[int64]models.WarehouseResponse
	products   map[int64]models.ProductResponse
	inventory  map[int64]*models.InventoryResponse
	orders     map[int64]*models.OrderResponse
	tracking   map[int64]*models.OrderTrackingResponse
}

func newCatalog() *catalog {
	return &catalog{
		warehouses: make(map[int64]models.WarehouseResponse),
		products:   make(map[int64]models.ProductResponse),
		inventory:  make(map[int64]*models.InventoryResponse),
		orders:     make(map[int64]*models.OrderResponse),
		tracking:   make(map[int64]*models.OrderTrackingResponse),
	}
}

func (c *catalog) id() int64 {
	c.nextID++
	return c.nextID
}

func (b *Backend) catalogRoutes(r chi.Router) {
	r.Get("/warehouses", b.listWarehouses)
	r.Post("/warehouses", b.saveWarehouse)
	r.Get("/warehouses/{id}", b.getWarehouse)
	r.Put("/warehouses/{id}", b.saveWarehouse)
	r.Delete("/warehouses/{id}", b.deleteWarehouse)

	r.Get("/products", b.listProducts)
	r.Post("/products", b.saveProduct)
	r.Get("/products/{id}", b.getProduct)
	r.Put("/products/{id}", b.saveProduct)
	r.Delete("/products/{id}", b.deleteProduct)

	r.Get("/inventory/warehouse/{id}", b.listInventory)
	r.Post("/inventory", b.addInventory)
	r.Patch("/inventory/warehouse/{w}/product/{p}", b.updateQuantity)

	r.Post("/orders", b.createOrder)
	r.Get("/orders/warehouse/{id}", b.ordersByWarehouse)
	r.Get("/orders/status/{status}", b.ordersByStatus)
	r.Put("/orders/{id}/assign/{staffId}", b.assignOrder)
	r.Put("/orders/{id}/status", b.updateOrderStatus)
	r.Get("/orders/{id}/tracking", b.orderTracking)
}

func (b *Backend) listWarehouses(w http.ResponseWriter, r *http.Request) {
	b.catMu.Lock()
	defer b.catMu.Unlock()
	out := make([]models.WarehouseResponse, 0, len(b.warehouses))
	for _, wh := range b.warehouses {
		out = append(out, wh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	wh, found := b.warehouses[id]
	if !found {
		writeError(w, http.StatusNotFound, "Warehouse not found")
		return
	}
	writeJSON(w, http.StatusOK, wh)
}

func (b *Backend) saveWarehouse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWarehouseRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	var managerName string
	if req.ManagerID != nil {
		name, found := b.accountName(*req.ManagerID)
		if !found {
			writeError(w, http.StatusBadRequest, "Manager not found")
			return
		}
		managerName = name
	}

	b.catMu.Lock()
	defer b.catMu.Unlock()
	status := http.StatusCreated
	var id int64
	if chi.URLParam(r, "id") != "" {
		var ok bool
		if id, ok = pathID(w, r, "id"); !ok {
			return
		}
		existing, found := b.warehouses[id]
		if !found {
			writeError(w, http.StatusNotFound, "Warehouse not found")
			return
		}
		if req.ManagerID == nil {
			managerName = existing.ManagerName
		}
		status = http.StatusOK
	} else {
		id = b.id()
	}
	wh := models.WarehouseResponse{
		ID:          id,
		Name:        req.Name,
		Location:    req.Location,
		Code:        req.Code,
		Capacity:    req.Capacity,
		ManagerName: managerName,
	}
	b.warehouses[id] = wh
	writeJSON(w, status, wh)
}

func (b *Backend) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	if _, found := b.warehouses[id]; !found {
		writeError(w, http.StatusNotFound, "Warehouse not found")
		return
	}
	delete(b.warehouses, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listProducts(w http.ResponseWriter, r *http.Request) {
	b.catMu.Lock()
	defer b.catMu.Unlock()
	out := make([]models.ProductResponse, 0, len(b.products))
	for _, p := range b.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	p, found := b.products[id]
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) saveProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SKU == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "SKU and name are required")
		return
	}

	b.catMu.Lock()
	defer b.catMu.Unlock()
	status := http.StatusCreated
	var id int64
	if chi.URLParam(r, "id") != "" {
		var ok bool
		if id, ok = pathID(w, r, "id"); !ok {
			return
		}
		if _, found := b.products[id]; !found {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		status = http.StatusOK
	} else {
		id = b.id()
	}
	p := models.ProductResponse{ID: id, SKU: req.SKU, Name: req.Name, Description: req.Description, Price: req.Price}
	b.products[id] = p
	writeJSON(w, status, p)
}

func (b *Backend) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	if _, found := b.products[id]; !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	delete(b.products, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	out := make([]models.InventoryResponse, 0)
	for _, inv := range b.inventory {
		if inv.WarehouseID == id {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addInventory(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryRequest
	if !decode(w, r, &req) {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	wh, whFound := b.warehouses[req.WarehouseID]
	p, pFound := b.products[req.ProductID]
	if !whFound || !pFound {
		writeError(w, http.StatusNotFound, "Warehouse or product not found")
		return
	}
	inv := &models.InventoryResponse{
		ID:               b.id(),
		WarehouseID:      wh.ID,
		ProductID:        p.ID,
		ProductName:      p.Name,
		SKU:              p.SKU,
		Quantity:         req.Quantity,
		ReorderThreshold: req.ReorderThreshold,
	}
	b.inventory[inv.ID] = inv
	writeJSON(w, http.StatusCreated, inv)
}

func (b *Backend) updateQuantity(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r, "w")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "p")
	if !ok {
		return
	}
	var req models.QuantityRequest
	if !decode(w, r, &req) {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	for _, inv := range b.inventory {
		if inv.WarehouseID == warehouseID && inv.ProductID == productID {
			inv.Quantity = req.Quantity
			writeJSON(w, http.StatusOK, inv)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Inventory not found")
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Order has no items")
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	if _, found := b.warehouses[req.WarehouseID]; !found {
		writeError(w, http.StatusNotFound, "Warehouse not found")
		return
	}
	order := &models.OrderResponse{
		ID:           b.id(),
		WarehouseID:  req.WarehouseID,
		CustomerName: req.CustomerName,
		Status:       models.OrderCreated,
		CreatedAt:    time.Now().UTC(),
	}
	for _, item := range req.Items {
		p, found := b.products[item.ProductID]
		if !found {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		order.Items = append(order.Items, models.OrderItemResponse{
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       p.Price,
		})
		order.TotalAmount += p.Price * float64(item.Quantity)
	}
	b.orders[order.ID] = order
	tracking := &models.OrderTrackingResponse{}
	tracking.Mark(models.OrderCreated, order.CreatedAt)
	b.tracking[order.ID] = tracking
	writeJSON(w, http.StatusCreated, order)
}

func (b *Backend) ordersWhere(match func(*models.OrderResponse) bool) []models.OrderResponse {
	b.catMu.Lock()
	defer b.catMu.Unlock()
	out := make([]models.OrderResponse, 0)
	for _, o := range b.orders {
		if match(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) ordersByWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.ordersWhere(func(o *models.OrderResponse) bool { return o.WarehouseID == id }))
}

func (b *Backend) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(chi.URLParam(r, "status"))
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown status")
		return
	}
	writeJSON(w, http.StatusOK, b.ordersWhere(func(o *models.OrderResponse) bool { return o.Status == status }))
}

func (b *Backend) assignOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	staffID, ok := pathID(w, r, "staffId")
	if !ok {
		return
	}
	staffName, found := b.accountName(staffID)
	if !found {
		writeError(w, http.StatusNotFound, "Staff member not found")
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	order, found := b.orders[id]
	if !found {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	order.AssignedStaffName = staffName
	writeJSON(w, http.StatusOK, order)
}

func (b *Backend) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown status")
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	order, found := b.orders[id]
	if !found {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	order.Status = req.Status
	b.tracking[id].Mark(req.Status, time.Now().UTC())
	writeJSON(w, http.StatusOK, order)
}

func (b *Backend) orderTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b.catMu.Lock()
	defer b.catMu.Unlock()
	tracking, found := b.tracking[id]
	if !found {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, tracking)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
