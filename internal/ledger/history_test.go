package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

func txAt(id int64, ts time.Time) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Kind:      domain.KindDebt,
		Amount:    decimal.NewFromInt(1),
		Timestamp: ts,
	}
}

func TestRecent(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	history := []domain.Transaction{
		txAt(1, base),
		txAt(2, base.Add(time.Hour)),
		txAt(3, base.Add(2*time.Hour)),
		txAt(4, base.Add(3*time.Hour)),
	}

	t.Run("newest first truncated to limit", func(t *testing.T) {
		got := Recent(history, 2)
		require.Len(t, got, 2)
		require.Equal(t, int64(4), got[0].ID)
		require.Equal(t, int64(3), got[1].ID)
	})

	t.Run("default limit is five", func(t *testing.T) {
		long := append([]domain.Transaction{}, history...)
		long = append(long, txAt(5, base.Add(4*time.Hour)), txAt(6, base.Add(5*time.Hour)), txAt(7, base.Add(6*time.Hour)))

		got := Recent(long, 0)
		require.Len(t, got, DefaultRecentLimit)
		require.Equal(t, int64(7), got[0].ID)
	})

	t.Run("equal timestamps keep insertion order", func(t *testing.T) {
		got := Recent([]domain.Transaction{txAt(1, base), txAt(2, base), txAt(3, base)}, 10)
		require.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("empty history returns empty", func(t *testing.T) {
		require.Empty(t, Recent(nil, 5))
	})

	t.Run("input is not reordered", func(t *testing.T) {
		in := []domain.Transaction{txAt(2, base.Add(time.Hour)), txAt(1, base)}
		Recent(in, 1)
		require.Equal(t, int64(2), in[0].ID)
	})
}

func TestAll(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("ascending by timestamp", func(t *testing.T) {
		got := All([]domain.Transaction{
			txAt(3, base.Add(2*time.Hour)),
			txAt(1, base),
			txAt(2, base.Add(time.Hour)),
		})
		require.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})

		for i := 1; i < len(got); i++ {
			require.False(t, got[i].Timestamp.Before(got[i-1].Timestamp))
		}
	})

	t.Run("equal timestamps keep insertion order", func(t *testing.T) {
		got := All([]domain.Transaction{txAt(5, base), txAt(6, base)})
		require.Equal(t, int64(5), got[0].ID)
		require.Equal(t, int64(6), got[1].ID)
	})

	t.Run("empty history returns empty", func(t *testing.T) {
		require.Empty(t, All(nil))
	})
}
