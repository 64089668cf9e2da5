package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salekit/sale-api/internal/domain/customer"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, name, email) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Email,
	)
	if err != nil {
		return fmt.Errorf("creating customer %q: %w", c.ID, err)
	}
	return nil
}

// GetByID loads a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}
	return &c, nil
}

// AddAddress persists a new address for an existing customer.
func (r *CustomerRepository) AddAddress(ctx context.Context, a *customer.Address) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO addresses (id, customer_id, street, zip, city, country)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.CustomerID, a.Street, a.Zip, a.City, a.Country,
	)
	if err != nil {
		return fmt.Errorf("adding address %q: %w", a.ID, err)
	}
	return nil
}

// ListAddresses returns all addresses of a customer.
func (r *CustomerRepository) ListAddresses(ctx context.Context, customerID string) ([]customer.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, street, zip, city, country
		FROM addresses WHERE customer_id = $1`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for %q: %w", customerID, err)
	}
	defer rows.Close()

	var addrs []customer.Address
	for rows.Next() {
		var a customer.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Zip, &a.City, &a.Country); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}
