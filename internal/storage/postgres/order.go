package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salekit/sale-api/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order without lines.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sale_orders (
			id, code, channel, delivery_method,
			customer_id, customer_address_id, delivery_address_id, price_list_id,
			state, amount_untaxed, amount_tax, amount_total
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)`,
		o.ID, o.Code, o.Channel, o.DeliveryMethod,
		o.CustomerID, o.CustomerAddressID, o.DeliveryAddressID, o.PriceListID,
		string(o.State), o.AmountUntaxed, o.AmountTax, o.AmountTotal,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Get loads an order together with its lines.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	var state string
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, channel, delivery_method,
		       COALESCE(customer_id, ''), COALESCE(customer_address_id, ''),
		       COALESCE(delivery_address_id, ''), COALESCE(price_list_id, ''),
		       state, amount_untaxed, amount_tax, amount_total,
		       created_at, updated_at
		FROM sale_orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.Code, &o.Channel, &o.DeliveryMethod,
		&o.CustomerID, &o.CustomerAddressID, &o.DeliveryAddressID, &o.PriceListID,
		&state, &o.AmountUntaxed, &o.AmountTax, &o.AmountTotal,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o.State = order.State(state)

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return &o, nil
}

// Update persists the order's state and aggregated totals.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sale_orders
		SET state = $2, amount_untaxed = $3, amount_tax = $4, amount_total = $5,
		    updated_at = now()
		WHERE id = $1`,
		o.ID, string(o.State), o.AmountUntaxed, o.AmountTax, o.AmountTotal,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	return nil
}

// CreateLine persists a new computed line.
func (r *OrderRepository) CreateLine(ctx context.Context, l *order.Line) error {
	props, err := json.Marshal(propsOrEmpty(l.Properties))
	if err != nil {
		return fmt.Errorf("marshaling line properties: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO sale_order_lines (
			id, order_id, item_id, quantity,
			unit_price_untaxed, unit_price, unit_tax,
			amount_discount_untaxed, amount_discount_percentage_untaxed,
			amount_discount, amount_discount_percentage,
			amount_untaxed, amount_tax, amount_total, properties
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.OrderID, l.ItemID, l.Quantity,
		l.UnitPriceUntaxed, l.UnitPrice, l.UnitTax,
		l.AmountDiscountUntaxed, l.AmountDiscountPercentageUntaxed,
		l.AmountDiscount, l.AmountDiscountPercentage,
		l.AmountUntaxed, l.AmountTax, l.AmountTotal, props,
	)
	if err != nil {
		return fmt.Errorf("creating line %q: %w", l.ID, err)
	}
	return nil
}

// GetLine loads a single line by ID.
func (r *OrderRepository) GetLine(ctx context.Context, id string) (*order.Line, error) {
	row := r.pool.QueryRow(ctx, selectLines+` WHERE id = $1`, id)
	l, err := scanLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting line %q: %w", id, err)
	}
	return l, nil
}

// UpdateLine persists the recomputed fields of a line.
func (r *OrderRepository) UpdateLine(ctx context.Context, l *order.Line) error {
	props, err := json.Marshal(propsOrEmpty(l.Properties))
	if err != nil {
		return fmt.Errorf("marshaling line properties: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE sale_order_lines
		SET quantity = $2,
		    unit_price_untaxed = $3, unit_price = $4, unit_tax = $5,
		    amount_discount_untaxed = $6, amount_discount_percentage_untaxed = $7,
		    amount_discount = $8, amount_discount_percentage = $9,
		    amount_untaxed = $10, amount_tax = $11, amount_total = $12,
		    properties = $13, updated_at = now()
		WHERE id = $1`,
		l.ID, l.Quantity,
		l.UnitPriceUntaxed, l.UnitPrice, l.UnitTax,
		l.AmountDiscountUntaxed, l.AmountDiscountPercentageUntaxed,
		l.AmountDiscount, l.AmountDiscountPercentage,
		l.AmountUntaxed, l.AmountTax, l.AmountTotal, props,
	)
	if err != nil {
		return fmt.Errorf("updating line %q: %w", l.ID, err)
	}
	return nil
}

const selectLines = `
	SELECT id, order_id, item_id, quantity,
	       unit_price_untaxed, unit_price, unit_tax,
	       amount_discount_untaxed, amount_discount_percentage_untaxed,
	       amount_discount, amount_discount_percentage,
	       amount_untaxed, amount_tax, amount_total, properties,
	       created_at, updated_at
	FROM sale_order_lines`

func (r *OrderRepository) listLines(ctx context.Context, orderID string) ([]*order.Line, error) {
	rows, err := r.pool.Query(ctx, selectLines+` WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing lines for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var lines []*order.Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanLine(row pgx.Row) (*order.Line, error) {
	var l order.Line
	var props []byte
	err := row.Scan(
		&l.ID, &l.OrderID, &l.ItemID, &l.Quantity,
		&l.UnitPriceUntaxed, &l.UnitPrice, &l.UnitTax,
		&l.AmountDiscountUntaxed, &l.AmountDiscountPercentageUntaxed,
		&l.AmountDiscount, &l.AmountDiscountPercentage,
		&l.AmountUntaxed, &l.AmountTax, &l.AmountTotal, &props,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		if err := json.Unmarshal(props, &l.Properties); err != nil {
			return nil, fmt.Errorf("unmarshaling line properties: %w", err)
		}
	}
	return &l, nil
}

func propsOrEmpty(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	return props
}
