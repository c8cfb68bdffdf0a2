package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "debt contributes positively",
			tx:   Transaction{Kind: KindDebt, Amount: decimal.NewFromInt(25)},
			want: "25",
		},
		{
			name: "payment contributes negatively",
			tx:   Transaction{Kind: KindPayment, Amount: decimal.NewFromInt(30)},
			want: "-30",
		},
		{
			name: "fractional amounts keep scale",
			tx:   Transaction{Kind: KindPayment, Amount: decimal.RequireFromString("10.50")},
			want: "-10.5",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.tx.SignedAmount().String())
		})
	}
}

func TestValidAmountScale(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "10", want: true},
		{in: "10.5", want: true},
		{in: "10.05", want: true},
		{in: "10.050", want: true},
		{in: "10.005", want: false},
		{in: "0.001", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, ValidAmountScale(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestTransactionKindIsValid(t *testing.T) {
	require.True(t, KindDebt.IsValid())
	require.True(t, KindPayment.IsValid())
	require.False(t, TransactionKind("credit").IsValid())
	require.False(t, TransactionKind("").IsValid())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr error
	}{
		{
			name: "full format with seconds",
			in:   "2024-03-15 14:30:45",
			want: time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC),
		},
		{
			name: "minute resolution",
			in:   "2024-03-15 14:30",
			want: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name:    "ISO 8601 with T separator rejected",
			in:      "2024-03-15T14:30:45",
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "date only rejected",
			in:      "2024-03-15",
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "garbage rejected",
			in:      "last tuesday",
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "empty rejected",
			in:      "",
			wantErr: ErrMalformedTimestamp,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.in)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "got %v", got)
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	parsed, err := ParseTimestamp(FormatTimestamp(ts))
	require.NoError(t, err)
	require.True(t, ts.Equal(parsed))
}
