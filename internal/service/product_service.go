package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/victorazevedo0/loja-virtual/internal/catalog"
	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/internal/repository"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

type CatalogFetcher interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

type ProductService struct {
	store   repository.Gateway
	catalog CatalogFetcher
	log     *logger.Logger
	now     func() time.Time
	sfg     singleflight.Group // collapses concurrent sync runs
}

func NewProductService(store repository.Gateway, fetcher CatalogFetcher, log *logger.Logger) *ProductService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductService{
		store:   store,
		catalog: fetcher,
		log:     log.WithComponent("product-service"),
		now:     utcNow,
	}
}

// List returns every product ordered by id, restricted to an exact category
// match when category is not empty.
func (s *ProductService) List(ctx context.Context, category string) ([]*domain.Product, error) {
	var products []*domain.Product
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		var err error
		products, err = q.ListProducts(ctx, category)
		return err
	})
	if err != nil {
		return nil, s.internal(ctx, "list products", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		var err error
		product, err = q.GetProduct(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, productNotFound(id)
	}
	if err != nil {
		return nil, s.internal(ctx, "get product", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	if err := domain.Validate(draft); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	product := draft.Product(s.now())
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		return q.CreateProduct(ctx, product)
	})
	if err != nil {
		return nil, s.internal(ctx, "create product", err)
	}

	s.log.Ctx(ctx).Info("product created", "product_id", product.ID)
	return product, nil
}

// Patch applies the supplied fields to product id. A patch that changes
// nothing leaves the stored row, updated_at included, untouched.
func (s *ProductService) Patch(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var product *domain.Product
	changed := false
	err := s.store.WithSession(ctx, func(q *repository.Queries) error {
		p, err := q.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if patch.ApplyTo(p) {
			changed = true
			p.UpdatedAt = s.now()
			if err := q.UpdateProduct(ctx, p); err != nil {
				return err
			}
		}
		product = p
		return nil
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, productNotFound(id)
	}
	if err != nil {
		return nil, s.internal(ctx, "update product", err)
	}

	if changed {
		s.log.Ctx(ctx).Info("product updated", "product_id", id)
	}
	return product, nil
}

// SyncFromExternalSource pulls the remote catalog and upserts every item by
// its external id in a single session. The batch is all-or-nothing. Calls
// arriving while a sync is running share its result.
func (s *ProductService) SyncFromExternalSource(ctx context.Context) (int, error) {
	v, err, shared := s.sfg.Do("sync", func() (interface{}, error) {
		return s.sync(ctx)
	})
	if shared {
		s.log.Ctx(ctx).Debug("joined running catalog sync")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *ProductService) sync(ctx context.Context) (int, error) {
	items, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		return 0, s.internal(ctx, "fetch external catalog", err)
	}

	now := s.now()
	err = s.store.WithSession(ctx, func(q *repository.Queries) error {
		for _, item := range items {
			p := catalogProduct(item, now)
			if p.ID <= 0 {
				return fmt.Errorf("catalog item has invalid id %d", p.ID)
			}
			if err := domain.Validate(p); err != nil {
				return fmt.Errorf("catalog item %d: %w", p.ID, err)
			}
			if err := q.UpsertCatalogProduct(ctx, p); err != nil {
				return err
			}
		}
		return q.SyncProductSequence(ctx)
	})
	if err != nil {
		return 0, s.internal(ctx, "sync products", err)
	}

	s.log.Ctx(ctx).Info("products synchronized", "count", len(items))
	return len(items), nil
}

func catalogProduct(item catalog.Product, now time.Time) *domain.Product {
	return &domain.Product{
		ID:          item.ID,
		Title:       item.Title,
		Price:       item.Price,
		Description: item.Description,
		Category:    item.Category,
		Image:       item.Image,
		RatingRate:  item.Rating.Rate,
		RatingCount: item.Rating.Count,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productNotFound(id int64) error {
	return fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (s *ProductService) internal(ctx context.Context, op string, err error) error {
	s.log.Ctx(ctx).Error(op+" failed", "error", err)
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
