package http

import (
	"context"
	"net/http"
	"time"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/internal/service"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

type OrderService interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, id int64, draft domain.OrderDraft) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrdersHandler struct {
	orders      OrderService
	timeout     time.Duration
	maxBodySize int64
	log         *logger.Logger
}

func NewOrdersHandler(orders OrderService, timeout time.Duration, maxBodySize int64, log *logger.Logger) *OrdersHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &OrdersHandler{
		orders:      orders,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		log:         log,
	}
}

// POST /api/v1/orders/
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var draft domain.OrderDraft
	if err := decodeJSON(w, r, h.maxBodySize, &draft, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orders.Create(ctx, draft)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders/?skip=0&limit=100
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultListLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	orders, err := h.orders.List(ctx, skip, limit)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	if orders == nil {
		orders = make([]*domain.Order, 0)
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// PUT /api/v1/orders/{id}
func (h *OrdersHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var draft domain.OrderDraft
	if err := decodeJSON(w, r, h.maxBodySize, &draft, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orders.Update(ctx, id, draft)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// DELETE /api/v1/orders/{id}
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := h.orders.Delete(ctx, id); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
