package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salekit/sale-api/internal/domain/pricelist"
)

var _ pricelist.Repository = (*PriceListRepository)(nil)

// PriceListRepository implements pricelist.Repository backed by PostgreSQL.
type PriceListRepository struct {
	pool *pgxpool.Pool
}

// NewPriceListRepository returns a PriceListRepository that uses the given pool.
func NewPriceListRepository(pool *pgxpool.Pool) *PriceListRepository {
	return &PriceListRepository{pool: pool}
}

// CreateList persists a new price list.
func (r *PriceListRepository) CreateList(ctx context.Context, pl *pricelist.PriceList) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO price_lists (id, code, name) VALUES ($1, $2, $3)`,
		pl.ID, pl.Code, pl.Name,
	)
	if err != nil {
		return fmt.Errorf("creating price list %q: %w", pl.Code, err)
	}
	return nil
}

// GetListByID loads a price list by ID.
// Returns pricelist.ErrNotFound when it does not exist.
func (r *PriceListRepository) GetListByID(ctx context.Context, id string) (*pricelist.PriceList, error) {
	var pl pricelist.PriceList
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name FROM price_lists WHERE id = $1`, id,
	).Scan(&pl.ID, &pl.Code, &pl.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricelist.ErrNotFound
		}
		return nil, fmt.Errorf("getting price list %q: %w", id, err)
	}
	return &pl, nil
}

// GetListByCode loads a price list by its unique code.
func (r *PriceListRepository) GetListByCode(ctx context.Context, code string) (*pricelist.PriceList, error) {
	var pl pricelist.PriceList
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name FROM price_lists WHERE code = $1`, code,
	).Scan(&pl.ID, &pl.Code, &pl.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricelist.ErrNotFound
		}
		return nil, fmt.Errorf("getting price list %q: %w", code, err)
	}
	return &pl, nil
}

// CreateItem persists a computed price list entry. A duplicate
// (price list, item) pair maps to pricelist.ErrDuplicateItem.
func (r *PriceListRepository) CreateItem(ctx context.Context, item *pricelist.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO price_list_items (
			id, price_list_id, item_id, unit_price_untaxed, unit_price, unit_tax
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.PriceListID, item.ItemID,
		item.UnitPriceUntaxed, item.UnitPrice, item.UnitTax,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pricelist.ErrDuplicateItem
		}
		return fmt.Errorf("creating price list item %q: %w", item.ID, err)
	}
	return nil
}

// FindItem returns the unique entry for (priceListID, itemID).
// Returns pricelist.ErrPriceNotFound when the list has no price for the item.
func (r *PriceListRepository) FindItem(ctx context.Context, priceListID, itemID string) (*pricelist.Item, error) {
	var item pricelist.Item
	err := r.pool.QueryRow(ctx, `
		SELECT id, price_list_id, item_id, unit_price_untaxed, unit_price, unit_tax
		FROM price_list_items
		WHERE price_list_id = $1 AND item_id = $2`,
		priceListID, itemID,
	).Scan(
		&item.ID, &item.PriceListID, &item.ItemID,
		&item.UnitPriceUntaxed, &item.UnitPrice, &item.UnitTax,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricelist.ErrPriceNotFound
		}
		return nil, fmt.Errorf("finding price for item %q on %q: %w", itemID, priceListID, err)
	}
	return &item, nil
}
