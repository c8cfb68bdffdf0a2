package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDebt    TransactionKind = "debt"
	KindPayment TransactionKind = "payment"
)

func (k TransactionKind) IsValid() bool {
	return k == KindDebt || k == KindPayment
}

// Transaction is an immutable record of one ledger event. Transactions are
// created only by the ledger service and deleted only when the owning
// customer is deleted.
type Transaction struct {
	ID          int64
	CustomerID  uuid.UUID
	Kind        TransactionKind
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
}

// SignedAmount is the transaction's contribution to the customer balance:
// debts increase it, payments decrease it.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindPayment {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ValidAmountScale reports whether a fits in the ledger's two decimal
// places. Amounts with finer fractions would be rounded by the database
// and the stored balance would drift from the reported one.
func ValidAmountScale(a decimal.Decimal) bool {
	return a.Equal(a.Truncate(2))
}

// Timestamp layouts accepted at the external boundary. Older clients
// recorded entries without seconds.
const (
	timestampLayout        = "2006-01-02 15:04:05"
	timestampLayoutMinutes = "2006-01-02 15:04"
)

// ParseTimestamp parses boundary text into a UTC instant. Unrecognized
// text fails with ErrMalformedTimestamp; it is never silently replaced
// with the current time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, timestampLayoutMinutes} {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrMalformedTimestamp
}

// FormatTimestamp renders an instant in the canonical statement format.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(timestampLayout)
}
