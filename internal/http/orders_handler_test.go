package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/internal/service"
)

// --- Mock ---

type OrderServiceMock struct {
	order  *domain.Order
	orders []*domain.Order
	err    error

	gotDraft  domain.OrderDraft
	gotID     int64
	gotOffset int
	gotLimit  int
}

func (m *OrderServiceMock) Create(_ context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	m.gotDraft = draft
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) List(_ context.Context, offset, limit int) ([]*domain.Order, error) {
	m.gotOffset, m.gotLimit = offset, limit
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

func (m *OrderServiceMock) Get(_ context.Context, id int64) (*domain.Order, error) {
	m.gotID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) Update(_ context.Context, id int64, draft domain.OrderDraft) (*domain.Order, error) {
	m.gotID, m.gotDraft = id, draft
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) Delete(_ context.Context, id int64) error {
	m.gotID = id
	return m.err
}

// --- helper ---

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID: 7,
		Items: []domain.OrderItem{
			{ProductID: 1, Title: "Backpack", Price: 109.95, Quantity: 1},
		},
		Total:         109.95,
		CustomerEmail: "ana@example.com",
		Status:        domain.OrderStatusPending,
		CreatedAt:     time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC),
	}
}

func newOrdersHandler(mock *OrderServiceMock) *OrdersHandler {
	return NewOrdersHandler(mock, 5*time.Second, 0, nil)
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

// --- CreateOrder tests ---

func TestCreateOrder_Success(t *testing.T) {
	mock := &OrderServiceMock{order: sampleOrder()}
	handler := newOrdersHandler(mock)

	body := `{"items":[{"product_id":1,"title":"Backpack","price":109.95,"quantity":1}],
		"total":109.95,"customer_email":"ana@example.com","status":"pendente"}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/orders/", strings.NewReader(body))

	handler.CreateOrder(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if mock.gotDraft.Status != "pendente" {
		t.Errorf("expected raw status to reach the service, got %q", mock.gotDraft.Status)
	}
	if len(mock.gotDraft.Items) != 1 || mock.gotDraft.Items[0].Title != "Backpack" {
		t.Errorf("unexpected items passed to service: %+v", mock.gotDraft.Items)
	}

	var response domain.Order
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != 7 {
		t.Errorf("expected id 7, got %d", response.ID)
	}
	if response.Status != domain.OrderStatusPending {
		t.Errorf("expected status PENDING, got %s", response.Status)
	}
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	handler := newOrdersHandler(&OrderServiceMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/orders/", strings.NewReader(`{"items": [`))

	handler.CreateOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if resp := decodeError(t, recorder); resp.Code != "invalid_request" {
		t.Errorf("expected code 'invalid_request', got '%s'", resp.Code)
	}
}

func TestCreateOrder_WrongFieldType(t *testing.T) {
	handler := newOrdersHandler(&OrderServiceMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/orders/", strings.NewReader(`{"total":"a lot"}`))

	handler.CreateOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if resp := decodeError(t, recorder); !strings.Contains(resp.Error, "total") {
		t.Errorf("expected error to name the field, got '%s'", resp.Error)
	}
}

func TestCreateOrder_ValidationError(t *testing.T) {
	mock := &OrderServiceMock{
		err: fmt.Errorf("%w: %w", service.ErrValidation, domain.ErrTotalMismatch),
	}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/orders/", strings.NewReader(`{"total": 1}`))

	handler.CreateOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	resp := decodeError(t, recorder)
	if resp.Code != "validation_error" {
		t.Errorf("expected code 'validation_error', got '%s'", resp.Code)
	}
	if !strings.Contains(resp.Error, "does not match") {
		t.Errorf("expected mismatch message, got '%s'", resp.Error)
	}
}

func TestCreateOrder_InternalErrorHidesCause(t *testing.T) {
	mock := &OrderServiceMock{
		err: fmt.Errorf("%w: create order: %w", service.ErrInternal, errors.New("disk I/O error")),
	}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/orders/", strings.NewReader(`{}`))

	handler.CreateOrder(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
	if resp := decodeError(t, recorder); strings.Contains(resp.Error, "disk") {
		t.Errorf("internal cause leaked to client: '%s'", resp.Error)
	}
}

// --- ListOrders tests ---

func TestListOrders_Success(t *testing.T) {
	mock := &OrderServiceMock{orders: []*domain.Order{sampleOrder()}}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/orders/?skip=5&limit=20", nil)

	handler.ListOrders(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.gotOffset != 5 || mock.gotLimit != 20 {
		t.Errorf("expected skip=5 limit=20, got skip=%d limit=%d", mock.gotOffset, mock.gotLimit)
	}

	var response []domain.Order
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("expected 1 order, got %d", len(response))
	}
	if response[0].Items[0].Title != "Backpack" {
		t.Errorf("expected item title 'Backpack', got '%s'", response[0].Items[0].Title)
	}
}

func TestListOrders_DefaultPaging(t *testing.T) {
	mock := &OrderServiceMock{}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest("GET", "/api/v1/orders/", nil))

	if mock.gotOffset != 0 || mock.gotLimit != service.DefaultListLimit {
		t.Errorf("expected defaults 0/%d, got %d/%d", service.DefaultListLimit, mock.gotOffset, mock.gotLimit)
	}

	// Must be a JSON array, not null
	if body := strings.TrimSpace(recorder.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array [], got %s", body)
	}
}

func TestListOrders_BadQuery(t *testing.T) {
	handler := newOrdersHandler(&OrderServiceMock{})

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest("GET", "/api/v1/orders/?limit=ten", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if resp := decodeError(t, recorder); resp.Code != "invalid_query" {
		t.Errorf("expected code 'invalid_query', got '%s'", resp.Code)
	}
}

func TestListOrders_NegativeSkip(t *testing.T) {
	mock := &OrderServiceMock{err: fmt.Errorf("%w: skip must not be negative", service.ErrValidation)}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest("GET", "/api/v1/orders/?skip=-1", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if mock.gotOffset != -1 {
		t.Errorf("expected skip to be passed through, got %d", mock.gotOffset)
	}
}

// --- GetOrder tests ---

func TestGetOrder_Success(t *testing.T) {
	mock := &OrderServiceMock{order: sampleOrder()}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("GET", "/api/v1/orders/7", nil), "7")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.gotID != 7 {
		t.Errorf("expected id 7, got %d", mock.gotID)
	}
}

func TestGetOrder_InvalidID(t *testing.T) {
	handler := newOrdersHandler(&OrderServiceMock{})

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("GET", "/api/v1/orders/abc", nil), "abc")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if resp := decodeError(t, recorder); resp.Code != "invalid_id" {
		t.Errorf("expected code 'invalid_id', got '%s'", resp.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	mock := &OrderServiceMock{err: fmt.Errorf("order 99: %w", service.ErrNotFound)}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("GET", "/api/v1/orders/99", nil), "99")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
	if resp := decodeError(t, recorder); resp.Code != "not_found" {
		t.Errorf("expected code 'not_found', got '%s'", resp.Code)
	}
}

func TestGetOrder_Timeout(t *testing.T) {
	mock := &OrderServiceMock{err: fmt.Errorf("%w: get order: %w", service.ErrInternal, context.DeadlineExceeded)}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("GET", "/api/v1/orders/1", nil), "1")

	handler.GetOrder(recorder, request)

	if recorder.Code != http.StatusGatewayTimeout {
		t.Errorf("expected %d, got %d", http.StatusGatewayTimeout, recorder.Code)
	}
}

// --- UpdateOrder tests ---

func TestUpdateOrder_Success(t *testing.T) {
	updated := sampleOrder()
	updated.Status = domain.OrderStatusShipped
	mock := &OrderServiceMock{order: updated}
	handler := newOrdersHandler(mock)

	body := `{"items":[{"product_id":1,"title":"Backpack","price":109.95,"quantity":1}],
		"total":109.95,"customer_email":"ana@example.com","status":"SHIPPED"}`
	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("PUT", "/api/v1/orders/7", strings.NewReader(body)), "7")

	handler.UpdateOrder(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if mock.gotID != 7 || mock.gotDraft.Status != "SHIPPED" {
		t.Errorf("unexpected call: id=%d status=%q", mock.gotID, mock.gotDraft.Status)
	}
}

func TestUpdateOrder_NotFound(t *testing.T) {
	mock := &OrderServiceMock{err: fmt.Errorf("order 8: %w", service.ErrNotFound)}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("PUT", "/api/v1/orders/8", strings.NewReader(`{}`)), "8")

	handler.UpdateOrder(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

// --- DeleteOrder tests ---

func TestDeleteOrder_Success(t *testing.T) {
	mock := &OrderServiceMock{}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("DELETE", "/api/v1/orders/7", nil), "7")

	handler.DeleteOrder(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("expected %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", recorder.Body.String())
	}
}

func TestDeleteOrder_NotFound(t *testing.T) {
	mock := &OrderServiceMock{err: fmt.Errorf("order 7: %w", service.ErrNotFound)}
	handler := newOrdersHandler(mock)

	recorder := httptest.NewRecorder()
	request := withID(httptest.NewRequest("DELETE", "/api/v1/orders/7", nil), "7")

	handler.DeleteOrder(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}
