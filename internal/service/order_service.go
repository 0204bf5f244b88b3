package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/internal/repository"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

type OrderService struct {
	store repository.Gateway
	log   *logger.Logger
	now   func() time.Time
}

func NewOrderService(store repository.Gateway, log *logger.Logger) *OrderService {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderService{
		store: store,
		log:   log.WithComponent("order-service"),
		now:   utcNow,
	}
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create validates draft, checks its total against the items and stores it
// as a new order.
func (s *OrderService) Create(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	status, err := prepareDraft(draft)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{CreatedAt: s.now()}
	draft.Apply(order, status)

	err = s.store.WithSession(ctx, func(q *repository.Queries) error {
		return q.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, s.internal(ctx, "create order", err)
	}

	s.log.Ctx(ctx).Info("order created", "order_id", order.ID, "total", order.Total, "status", order.Status)
	return order, nil
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", ErrValidation)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	if limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be at most %d", ErrValidation, MaxListLimit)
	}

	var orders []*domain.Order
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		var err error
		orders, err = q.ListOrders(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, s.internal(ctx, "list orders", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		var err error
		order, err = q.GetOrder(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, orderNotFound(id)
	}
	if err != nil {
		return nil, s.internal(ctx, "get order", err)
	}
	return order, nil
}

// Update replaces the client-owned content of order id with draft. Nothing
// is merged; created_at is kept. A missing order is reported as not found
// before the draft is looked at.
func (s *OrderService) Update(ctx context.Context, id int64, draft domain.OrderDraft) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		existing, err := q.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		status, err := prepareDraft(draft)
		if err != nil {
			return err
		}
		draft.Apply(existing, status)
		if err := q.UpdateOrder(ctx, existing); err != nil {
			return err
		}
		order = existing
		return nil
	})
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, orderNotFound(id)
	}
	if errors.Is(err, ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, s.internal(ctx, "update order", err)
	}

	s.log.Ctx(ctx).Info("order updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		return q.DeleteOrder(ctx, id)
	})
	if errors.Is(err, repository.ErrOrderNotFound) {
		return orderNotFound(id)
	}
	if err != nil {
		return s.internal(ctx, "delete order", err)
	}

	s.log.Ctx(ctx).Info("order deleted", "order_id", id)
	return nil
}

func prepareDraft(draft domain.OrderDraft) (domain.OrderStatus, error) {
	if err := domain.Validate(draft); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	status, err := domain.ParseOrderStatus(draft.Status)
	if err != nil {
		return "", fmt.Errorf("%w: status %q: %w", ErrValidation, draft.Status, err)
	}
	if err := draft.Reconcile(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return status, nil
}

func orderNotFound(id int64) error {
	return fmt.Errorf("order %d: %w", id, ErrNotFound)
}

func (s *OrderService) internal(ctx context.Context, op string, err error) error {
	s.log.Ctx(ctx).Error(op+" failed", "error", err)
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
