package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
	"github.com/victorazevedo0/loja-virtual/internal/repository"
)

func setupTestDB(t *testing.T) *repository.Store {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "test.db")

	store, err := repository.Open(context.Background(), dsn, repository.PoolConfig{}, nil)
	require.NoError(t, err, "failed to create test store")
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.RunMigrations(context.Background()), "failed to run migrations")
	return store
}

func newProduct(title, category string, price float64) *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		Title:     title,
		Price:     price,
		Category:  category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func insertProducts(t *testing.T, store *repository.Store, products ...*domain.Product) {
	t.Helper()
	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		for _, p := range products {
			if err := q.CreateProduct(context.Background(), p); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestCreateProduct_AssignsID(t *testing.T) {
	store := setupTestDB(t)
	p := newProduct("Backpack", "bags", 109.95)
	p.Description = "Fits 15 inch laptops"

	insertProducts(t, store, p)
	assert.NotZero(t, p.ID)

	var got *domain.Product
	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		var err error
		got, err = q.GetProduct(context.Background(), p.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Backpack", got.Title)
	assert.Equal(t, 109.95, got.Price)
	assert.Equal(t, "Fits 15 inch laptops", got.Description)
	assert.Equal(t, "bags", got.Category)
	assert.Equal(t, "", got.Image)
	assert.True(t, got.IsActive)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestListProducts_FiltersByCategory(t *testing.T) {
	store := setupTestDB(t)
	insertProducts(t, store,
		newProduct("Ring", "jewelery", 9.99),
		newProduct("Jacket", "men's clothing", 55.99),
		newProduct("Bracelet", "jewelery", 695),
	)

	var all, jewels, none []*domain.Product
	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		var err error
		if all, err = q.ListProducts(context.Background(), ""); err != nil {
			return err
		}
		if jewels, err = q.ListProducts(context.Background(), "jewelery"); err != nil {
			return err
		}
		none, err = q.ListProducts(context.Background(), "electronics")
		return err
	})
	require.NoError(t, err)

	assert.Len(t, all, 3)
	require.Len(t, jewels, 2)
	assert.Equal(t, "Ring", jewels[0].Title)
	assert.Equal(t, "Bracelet", jewels[1].Title)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListProducts_CancelledContext(t *testing.T) {
	store := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.WithSession(ctx, func(q *repository.Queries) error {
		_, err := q.ListProducts(ctx, "")
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetProduct_IncorrectId_ReturnsNotFound(t *testing.T) {
	store := setupTestDB(t)

	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		p, err := q.GetProduct(context.Background(), -1)
		assert.Nil(t, p)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	store := setupTestDB(t)
	p := newProduct("Mug", "kitchen", 10)
	insertProducts(t, store, p)

	p.Price = 12.5
	p.StockQuantity = 7
	p.IsActive = false
	p.UpdatedAt = p.UpdatedAt.Add(time.Minute)

	var got *domain.Product
	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		if err := q.UpdateProduct(context.Background(), p); err != nil {
			return err
		}
		var err error
		got, err = q.GetProduct(context.Background(), p.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)
	assert.Equal(t, 7, got.StockQuantity)
	assert.False(t, got.IsActive)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUpdateProduct_Missing(t *testing.T) {
	store := setupTestDB(t)
	p := newProduct("Ghost", "", 1)
	p.ID = 404

	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		return q.UpdateProduct(context.Background(), p)
	})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestUpsertCatalogProduct(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	existing := newProduct("Old title", "old", 5)
	insertProducts(t, store, existing)

	err := store.WithSession(ctx, func(q *repository.Queries) error {
		existing.StockQuantity = 3
		if err := q.UpdateProduct(ctx, existing); err != nil {
			return err
		}

		update := newProduct("New title", "new", 6)
		update.ID = existing.ID
		update.RatingRate = 4.1
		update.RatingCount = 259
		if err := q.UpsertCatalogProduct(ctx, update); err != nil {
			return err
		}

		fresh := newProduct("External", "electronics", 64)
		fresh.ID = 20
		return q.UpsertCatalogProduct(ctx, fresh)
	})
	require.NoError(t, err)

	var updated, inserted, auto *domain.Product
	err = store.WithSession(ctx, func(q *repository.Queries) error {
		var err error
		if updated, err = q.GetProduct(ctx, existing.ID); err != nil {
			return err
		}
		if inserted, err = q.GetProduct(ctx, 20); err != nil {
			return err
		}
		auto = newProduct("Local", "", 1)
		return q.CreateProduct(ctx, auto)
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, 6.0, updated.Price)
	assert.Equal(t, 4.1, updated.RatingRate)
	assert.Equal(t, 259, updated.RatingCount)
	assert.Equal(t, 3, updated.StockQuantity, "stock is not owned by the catalog")
	assert.Equal(t, "External", inserted.Title)
	assert.Greater(t, auto.ID, int64(20), "auto ids continue after synced ids")
}

func TestPriceCheckConstraint(t *testing.T) {
	store := setupTestDB(t)

	err := store.WithSession(context.Background(), func(q *repository.Queries) error {
		return q.CreateProduct(context.Background(), newProduct("Free", "", 0))
	})
	assert.Error(t, err)
}
