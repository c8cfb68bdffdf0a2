package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds the net amount a customer owes the operator. The balance
// is derived state: it always equals the sum of the signed contributions
// of the customer's transactions, and only the ledger service writes it.
type Customer struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Product   string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
