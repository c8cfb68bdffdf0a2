package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

const customerColumns = `id, owner_id, name, product, balance, created_at`

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, tx *sql.Tx, customer *domain.Customer) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO customers (id, owner_id, name, product, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		customer.ID, customer.OwnerID, customer.Name, customer.Product,
		customer.Balance, customer.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateCustomer)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByOwnerAndName resolves a customer by its exact (owner, name) pair.
func (r *CustomerRepository) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Customer, error) {
	return r.getByOwnerAndName(ctx, r.db, ownerID, name)
}

// GetByOwnerAndNameTx is GetByOwnerAndName scoped to tx, for reads that
// must share a snapshot with other queries.
func (r *CustomerRepository) GetByOwnerAndNameTx(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, name string) (*domain.Customer, error) {
	return r.getByOwnerAndName(ctx, tx, ownerID, name)
}

func (r *CustomerRepository) getByOwnerAndName(ctx context.Context, q querier, ownerID uuid.UUID, name string) (*domain.Customer, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 AND name = $2`,
		ownerID, name,
	)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOwnerAndName: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByOwnerAndName: %w", err)
	}
	return c, nil
}

// GetForUpdate locks the customer row for the duration of tx so that
// concurrent balance mutations against the same customer serialize.
func (r *CustomerRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, name string) (*domain.Customer, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers
		WHERE owner_id = $1 AND name = $2 FOR UPDATE`,
		ownerID, name,
	)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByOwnerID: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByOwnerID: scan: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByOwnerID: rows: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE customers SET balance = $1 WHERE id = $2`,
		newBalance, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the customer; its transactions go with it via the
// foreign key cascade.
func (r *CustomerRepository) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM customers WHERE owner_id = $1 AND name = $2`,
		ownerID, name,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Product, &c.Balance, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
