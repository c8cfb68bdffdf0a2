package ledger

import (
	"sort"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

// DefaultRecentLimit applies when a caller asks for recent history
// without saying how much.
const DefaultRecentLimit = 5

// Recent returns the newest transactions first, truncated to limit.
// Equal timestamps keep their insertion order. The input is not modified.
func Recent(txs []domain.Transaction, limit int) []domain.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// All returns the transactions in ascending timestamp order, insertion
// order for ties. The input is not modified.
func All(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
