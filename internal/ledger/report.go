package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

// StatementRow is one line of an exportable statement: a transaction
// plus the balance as of that transaction.
type StatementRow struct {
	Timestamp      time.Time
	Kind           domain.TransactionKind
	Amount         decimal.Decimal
	Description    string
	RunningBalance decimal.Decimal
}

// BuildStatement replays the history in ascending timestamp order and
// records the post-transaction running balance next to each entry,
// starting from zero. An empty history yields an empty statement.
func BuildStatement(txs []domain.Transaction) []StatementRow {
	ordered := All(txs)

	rows := make([]StatementRow, 0, len(ordered))
	running := decimal.Zero
	for _, t := range ordered {
		running = running.Add(t.SignedAmount())
		rows = append(rows, StatementRow{
			Timestamp:      t.Timestamp,
			Kind:           t.Kind,
			Amount:         t.Amount,
			Description:    t.Description,
			RunningBalance: running,
		})
	}
	return rows
}
