package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

type customerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, customer *domain.Customer) error
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Customer, error)
	GetByOwnerAndNameTx(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, name string) (*domain.Customer, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, name string) (*domain.Customer, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	GetByCustomerIDTx(ctx context.Context, tx *sql.Tx, customerID uuid.UUID) ([]domain.Transaction, error)
	GetRecentByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Transaction, []string, error)
}

// snapshotOpts pins balance and history reads to one snapshot so a write
// committing between them cannot make the pair disagree.
var snapshotOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// Service is the only writer of customer balances. Every mutation runs as
// one database transaction with the customer row locked, so concurrent
// applies against the same customer serialize instead of losing updates.
type Service struct {
	customers    customerRepo
	transactions transactionRepo
	db           *sql.DB
}

func NewService(customers customerRepo, transactions transactionRepo, db *sql.DB) *Service {
	return &Service{
		customers:    customers,
		transactions: transactions,
		db:           db,
	}
}

type ApplyRequest struct {
	OwnerID      uuid.UUID
	CustomerName string
	Kind         domain.TransactionKind
	Amount       decimal.Decimal
	Description  string

	// OccurredAt optionally backdates the entry. Text from the client,
	// parsed strictly; empty means "now".
	OccurredAt string
}

// Apply validates the request, appends a transaction and moves the
// customer balance by its signed contribution.
//
// Overpayment policy: a payment larger than the outstanding balance is
// rejected with domain.ErrOverpayment and leaves the customer untouched.
// The balance therefore never goes negative and always equals the sum of
// the recorded transactions.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (*domain.Transaction, decimal.Decimal, error) {
	var zero decimal.Decimal

	if !req.Kind.IsValid() {
		return nil, zero, fmt.Errorf("Apply: %q: %w", req.Kind, domain.ErrInvalidKind)
	}
	if !req.Amount.IsPositive() || !domain.ValidAmountScale(req.Amount) {
		return nil, zero, fmt.Errorf("Apply: %w", domain.ErrInvalidAmount)
	}

	ts := time.Now().UTC().Truncate(time.Second)
	if req.OccurredAt != "" {
		parsed, err := domain.ParseTimestamp(req.OccurredAt)
		if err != nil {
			return nil, zero, fmt.Errorf("Apply: %w", err)
		}
		ts = parsed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, zero, fmt.Errorf("Apply: begin tx: %w", err)
	}
	defer tx.Rollback()

	customer, err := s.customers.GetForUpdate(ctx, tx, req.OwnerID, req.CustomerName)
	if err != nil {
		return nil, zero, fmt.Errorf("Apply: %w", err)
	}

	t := &domain.Transaction{
		CustomerID:  customer.ID,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		Timestamp:   ts,
	}

	newBalance := customer.Balance.Add(t.SignedAmount())
	if req.Kind == domain.KindPayment && newBalance.IsNegative() {
		return nil, zero, fmt.Errorf("Apply: %w", domain.ErrOverpayment)
	}

	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, zero, fmt.Errorf("Apply: %w", err)
	}
	if err := s.customers.UpdateBalance(ctx, tx, customer.ID, newBalance); err != nil {
		return nil, zero, fmt.Errorf("Apply: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, zero, fmt.Errorf("Apply: commit: %w", err)
	}

	return t, newBalance, nil
}

type CreateCustomerRequest struct {
	OwnerID        uuid.UUID
	Name           string
	Product        string
	InitialBalance decimal.Decimal
}

// CreateCustomer creates the customer and, when the initial balance is
// positive, the opening debt transaction that accounts for it, in one
// unit of work.
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*domain.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("CreateCustomer: name: %w", domain.ErrInvalidRequest)
	}
	if req.InitialBalance.IsNegative() || !domain.ValidAmountScale(req.InitialBalance) {
		return nil, fmt.Errorf("CreateCustomer: %w", domain.ErrInvalidAmount)
	}

	now := time.Now().UTC().Truncate(time.Second)
	customer := &domain.Customer{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Product:   req.Product,
		Balance:   req.InitialBalance,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateCustomer: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.customers.Create(ctx, tx, customer); err != nil {
		return nil, fmt.Errorf("CreateCustomer: %w", err)
	}

	if req.InitialBalance.IsPositive() {
		opening := &domain.Transaction{
			CustomerID:  customer.ID,
			Kind:        domain.KindDebt,
			Amount:      req.InitialBalance,
			Description: "opening balance",
			Timestamp:   now,
		}
		if err := s.transactions.Create(ctx, tx, opening); err != nil {
			return nil, fmt.Errorf("CreateCustomer: opening transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateCustomer: commit: %w", err)
	}

	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Customer, error) {
	c, err := s.customers.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("GetCustomer: %w", err)
	}
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error) {
	customers, err := s.customers.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	return customers, nil
}

// DeleteCustomer removes the customer together with its whole history.
func (s *Service) DeleteCustomer(ctx context.Context, ownerID uuid.UUID, name string) error {
	if err := s.customers.Delete(ctx, ownerID, name); err != nil {
		return fmt.Errorf("DeleteCustomer: %w", err)
	}
	return nil
}

// History returns the customer's transactions. With limit <= 0 the full
// history comes back in ascending timestamp order; with a positive limit
// the newest entries come back first, truncated to limit.
func (s *Service) History(ctx context.Context, ownerID uuid.UUID, name string, limit int) ([]domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, snapshotOpts)
	if err != nil {
		return nil, fmt.Errorf("History: begin tx: %w", err)
	}
	defer tx.Rollback()

	customer, err := s.customers.GetByOwnerAndNameTx(ctx, tx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	txs, err := s.transactions.GetByCustomerIDTx(ctx, tx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}

	if limit > 0 {
		return Recent(txs, limit), nil
	}
	return All(txs), nil
}

// Statement reconstructs the running balance over the customer's history
// for export. Balance and history are read under one snapshot, so the
// final running balance must equal the stored customer balance; a
// mismatch means the ledger is corrupt and the statement is refused
// rather than exported.
func (s *Service) Statement(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Customer, []StatementRow, error) {
	tx, err := s.db.BeginTx(ctx, snapshotOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("Statement: begin tx: %w", err)
	}
	defer tx.Rollback()

	customer, err := s.customers.GetByOwnerAndNameTx(ctx, tx, ownerID, name)
	if err != nil {
		return nil, nil, fmt.Errorf("Statement: %w", err)
	}

	txs, err := s.transactions.GetByCustomerIDTx(ctx, tx, customer.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("Statement: %w", err)
	}

	rows := BuildStatement(txs)

	final := decimal.Zero
	if len(rows) > 0 {
		final = rows[len(rows)-1].RunningBalance
	}
	if !final.Equal(customer.Balance) {
		return nil, nil, fmt.Errorf("Statement: reconstructed balance %s does not match stored balance %s for customer %s",
			final, customer.Balance, customer.ID)
	}

	return customer, rows, nil
}

type DashboardEntry struct {
	CustomerName string
	Kind         domain.TransactionKind
	Amount       decimal.Decimal
	Timestamp    time.Time
}

type DashboardSummary struct {
	TotalCustomers int
	TotalDebt      decimal.Decimal
	Recent         []DashboardEntry
}

const dashboardRecentLimit = 10

// Dashboard aggregates the owner's book: customer count, total
// outstanding debt and the newest transactions across all customers.
func (s *Service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error) {
	customers, err := s.customers.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	total := decimal.Zero
	for _, c := range customers {
		total = total.Add(c.Balance)
	}

	txs, names, err := s.transactions.GetRecentByOwnerID(ctx, ownerID, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	recent := make([]DashboardEntry, len(txs))
	for i, t := range txs {
		recent[i] = DashboardEntry{
			CustomerName: names[i],
			Kind:         t.Kind,
			Amount:       t.Amount,
			Timestamp:    t.Timestamp,
		}
	}

	return &DashboardSummary{
		TotalCustomers: len(customers),
		TotalDebt:      total,
		Recent:         recent,
	}, nil
}
