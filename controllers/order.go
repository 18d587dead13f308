// controllers/order.go
package controllers

import (
	"context"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/models"
)

const maxListLimit = 200

type OrderStore interface {
	List(ctx context.Context, status models.OrderStatus, limit int64) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

// OrderController exposes orders to the admin dashboard
type OrderController struct {
	Orders OrderStore
}

func NewOrderController(orders OrderStore) *OrderController {
	return &OrderController{Orders: orders}
}

// GetOrders lists orders, optionally filtered with ?status=
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}
	limit, ok := parseLimit(w, r, 50)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := oc.Orders.List(ctx, status, limit)
	if err != nil {
		logger.Log.Error("failed to list orders", zap.Error(err))
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrderByID returns one order
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := oc.Orders.FindByID(ctx, id)
	if err != nil {
		logger.Log.Error("failed to load order", zap.Error(err))
		http.Error(w, "Failed to retrieve order", http.StatusInternalServerError)
		return
	}
	if order == nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func parseLimit(w http.ResponseWriter, r *http.Request, def int64) (int64, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}
