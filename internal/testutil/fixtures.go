package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

// CreateOwner inserts an operator account with the given credentials.
func CreateOwner(t *testing.T, db *sql.DB, username, password string) *domain.Owner {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	owner := &domain.Owner{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO owners (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		owner.ID, owner.Username, owner.PasswordHash, owner.CreatedAt,
	)
	if err != nil {
		t.Fatalf("insert owner: %v", err)
	}
	return owner
}

// CreateCustomer inserts a customer row directly, without an opening
// transaction. Use the ledger service when the invariant matters.
func CreateCustomer(t *testing.T, db *sql.DB, ownerID uuid.UUID, name, product string, balance decimal.Decimal) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Product:   product,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO customers (id, owner_id, name, product, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		customer.ID, customer.OwnerID, customer.Name, customer.Product, customer.Balance, customer.CreatedAt,
	)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return customer
}
