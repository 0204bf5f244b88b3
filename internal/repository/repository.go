package repository

import (
	"context"
	"errors"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

type ProductRepository interface {
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	UpsertCatalogProduct(ctx context.Context, p *domain.Product) error
	SyncProductSequence(ctx context.Context) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	ListOrders(ctx context.Context, offset, limit int) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

var (
	_ ProductRepository = (*Queries)(nil)
	_ OrderRepository   = (*Queries)(nil)
)
