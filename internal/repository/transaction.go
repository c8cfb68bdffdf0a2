package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

const transactionColumns = `id, customer_id, kind, amount, description, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts the transaction and fills in its generated id.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO transactions (customer_id, kind, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.CustomerID, t.Kind, t.Amount, t.Description, t.Timestamp,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByCustomerID returns the customer's full history in ascending
// timestamp order, insertion order for equal timestamps.
func (r *TransactionRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Transaction, error) {
	return r.getByCustomerID(ctx, r.db, customerID)
}

// GetByCustomerIDTx is GetByCustomerID scoped to tx, for reads that must
// share a snapshot with other queries.
func (r *TransactionRepository) GetByCustomerIDTx(ctx context.Context, tx *sql.Tx, customerID uuid.UUID) ([]domain.Transaction, error) {
	return r.getByCustomerID(ctx, tx, customerID)
}

func (r *TransactionRepository) getByCustomerID(ctx context.Context, q querier, customerID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE customer_id = $1 ORDER BY created_at, id`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByCustomerID: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByCustomerID: scan: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByCustomerID: rows: %w", err)
	}
	return txs, nil
}

// GetRecentByOwnerID returns the newest transactions across all of the
// owner's customers, paired with the customer name for display.
func (r *TransactionRepository) GetRecentByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Transaction, []string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.customer_id, t.kind, t.amount, t.description, t.created_at, c.name
		FROM transactions t
		JOIN customers c ON c.id = t.customer_id
		WHERE c.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("GetRecentByOwnerID: %w", err)
	}
	defer rows.Close()

	var (
		txs   []domain.Transaction
		names []string
	)
	for rows.Next() {
		var (
			t    domain.Transaction
			name string
		)
		err := rows.Scan(&t.ID, &t.CustomerID, &t.Kind, &t.Amount, &t.Description, &t.Timestamp, &name)
		if err != nil {
			return nil, nil, fmt.Errorf("GetRecentByOwnerID: scan: %w", err)
		}
		txs = append(txs, t)
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("GetRecentByOwnerID: rows: %w", err)
	}
	return txs, names, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(&t.ID, &t.CustomerID, &t.Kind, &t.Amount, &t.Description, &t.Timestamp)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
