package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salekit/sale-api/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Create persists a new product item.
func (r *CatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO product_items (id, code, name) VALUES ($1, $2, $3)`,
		item.ID, item.Code, item.Name,
	)
	if err != nil {
		return fmt.Errorf("creating product item %q: %w", item.Code, err)
	}
	return nil
}

// GetByID loads a product item by ID.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	return r.get(ctx, `SELECT id, code, name FROM product_items WHERE id = $1`, id)
}

// GetByCode loads a product item by its unique code.
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.Item, error) {
	return r.get(ctx, `SELECT id, code, name FROM product_items WHERE code = $1`, code)
}

func (r *CatalogRepository) get(ctx context.Context, query, arg string) (*catalog.Item, error) {
	var item catalog.Item
	err := r.pool.QueryRow(ctx, query, arg).Scan(&item.ID, &item.Code, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product item %q: %w", arg, err)
	}
	return &item, nil
}

// List returns all product items ordered by code.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name FROM product_items ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing product items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item
		if err := rows.Scan(&item.ID, &item.Code, &item.Name); err != nil {
			return nil, fmt.Errorf("scanning product item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
