package http

import (
	"context"
	"net/http"
	"time"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

type ProductService interface {
	List(ctx context.Context, category string) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	Patch(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	SyncFromExternalSource(ctx context.Context) (int, error)
}

type ProductHandler struct {
	products    ProductService
	timeout     time.Duration
	syncTimeout time.Duration
	maxBodySize int64
	log         *logger.Logger
}

func NewProductHandler(products ProductService, timeout, syncTimeout time.Duration, maxBodySize int64, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{
		products:    products,
		timeout:     timeout,
		syncTimeout: syncTimeout,
		maxBodySize: maxBodySize,
		log:         log,
	}
}

type SyncResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// GET /products/?category=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	if products == nil {
		products = make([]*domain.Product, 0)
	}

	respondJSON(w, http.StatusOK, products)
}

// POST /products/
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var draft domain.ProductDraft
	if err := decodeJSON(w, r, h.maxBodySize, &draft, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.products.Create(ctx, draft)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	product, err := h.products.Get(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// PUT /products/{id} applies a partial update. Only the fields of
// domain.ProductPatch are accepted.
func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var patch domain.ProductPatch
	if err := decodeJSON(w, r, h.maxBodySize, &patch, true); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	product, err := h.products.Patch(ctx, id, patch)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GET /sync-products/
func (h *ProductHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.syncTimeout)
	defer cancel()

	count, err := h.products.SyncFromExternalSource(ctx)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, SyncResponse{
		Message: "Products synchronized successfully",
		Count:   count,
	})
}
