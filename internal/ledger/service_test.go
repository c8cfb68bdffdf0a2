package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

// Validation happens before any storage is touched, so a zero service is
// enough for these cases.
func TestApplyValidation(t *testing.T) {
	svc := &Service{}
	ownerID := uuid.New()

	tests := []struct {
		name    string
		req     ApplyRequest
		wantErr error
	}{
		{
			name:    "negative debt",
			req:     ApplyRequest{OwnerID: ownerID, CustomerName: "acme", Kind: domain.KindDebt, Amount: decimal.NewFromInt(-5)},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero payment",
			req:     ApplyRequest{OwnerID: ownerID, CustomerName: "acme", Kind: domain.KindPayment, Amount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown kind",
			req:     ApplyRequest{OwnerID: ownerID, CustomerName: "acme", Kind: domain.TransactionKind("refund"), Amount: decimal.NewFromInt(10)},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name:    "empty kind",
			req:     ApplyRequest{OwnerID: ownerID, CustomerName: "acme", Amount: decimal.NewFromInt(10)},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name:    "fractional cent debt",
			req:     ApplyRequest{OwnerID: ownerID, CustomerName: "acme", Kind: domain.KindDebt, Amount: decimal.RequireFromString("10.005")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "malformed backdate",
			req: ApplyRequest{
				OwnerID: ownerID, CustomerName: "acme",
				Kind: domain.KindDebt, Amount: decimal.NewFromInt(10),
				OccurredAt: "15/03/2024 14:30",
			},
			wantErr: domain.ErrMalformedTimestamp,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Apply(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := &Service{}
	ownerID := uuid.New()

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{
		OwnerID: ownerID, Name: "", InitialBalance: decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.CreateCustomer(context.Background(), CreateCustomerRequest{
		OwnerID: ownerID, Name: "acme", InitialBalance: decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateCustomer(context.Background(), CreateCustomerRequest{
		OwnerID: ownerID, Name: "acme", InitialBalance: decimal.RequireFromString("0.005"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
