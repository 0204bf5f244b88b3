package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/victorazevedo0/loja-virtual/internal/domain"
)

const productColumns = `id, title, price, description, category, image, rating_rate, rating_count,
		is_active, stock_quantity, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var description, category, image sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&description,
		&category,
		&image,
		&p.RatingRate,
		&p.RatingCount,
		&p.IsActive,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Category = category.String
	p.Image = image.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (q *Queries) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(q.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

// CreateProduct inserts p and stores the assigned id back into it.
func (q *Queries) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (title, price, description, category, image, rating_rate, rating_count,
		is_active, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := q.db.QueryRowContext(ctx, query,
		p.Title,
		p.Price,
		nullString(p.Description),
		nullString(p.Category),
		nullString(p.Image),
		p.RatingRate,
		p.RatingCount,
		p.IsActive,
		p.StockQuantity,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct writes every mutable column of p.
func (q *Queries) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET title = $1, price = $2, description = $3, category = $4, image = $5,
		rating_rate = $6, rating_count = $7, is_active = $8, stock_quantity = $9, updated_at = $10
		WHERE id = $11`

	res, err := q.db.ExecContext(ctx, query,
		p.Title,
		p.Price,
		nullString(p.Description),
		nullString(p.Category),
		nullString(p.Image),
		p.RatingRate,
		p.RatingCount,
		p.IsActive,
		p.StockQuantity,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOneRow(res, ErrProductNotFound)
}

// UpsertCatalogProduct inserts p under its external id, or overwrites the
// catalog-owned columns of the existing row with that id. Stock, the active
// flag and created_at of an existing row are preserved.
func (q *Queries) UpsertCatalogProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, title, price, description, category, image, rating_rate, rating_count,
		is_active, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			price = excluded.price,
			description = excluded.description,
			category = excluded.category,
			image = excluded.image,
			rating_rate = excluded.rating_rate,
			rating_count = excluded.rating_count,
			updated_at = excluded.updated_at`

	_, err := q.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Price,
		nullString(p.Description),
		nullString(p.Category),
		nullString(p.Image),
		p.RatingRate,
		p.RatingCount,
		p.IsActive,
		p.StockQuantity,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return nil
}

// SyncProductSequence moves the id generator past ids inserted explicitly.
// SQLite's AUTOINCREMENT already tracks the largest id, PostgreSQL needs a
// setval on the identity sequence.
func (q *Queries) SyncProductSequence(ctx context.Context) error {
	if q.dialect != DialectPostgres {
		return nil
	}
	query := `SELECT setval(pg_get_serial_sequence('products', 'id'),
		COALESCE((SELECT MAX(id) FROM products), 0) + 1, false)`
	if _, err := q.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sync product id sequence: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
