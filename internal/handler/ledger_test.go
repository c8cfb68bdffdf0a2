package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paytrack/paytrack-backend/internal/auth"
	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/ledger"
)

type stubLedgerService struct {
	applied *ledger.ApplyRequest
	tx      *domain.Transaction
	balance decimal.Decimal
	history []domain.Transaction
	err     error
}

func (s *stubLedgerService) Apply(_ context.Context, req ledger.ApplyRequest) (*domain.Transaction, decimal.Decimal, error) {
	s.applied = &req
	if s.err != nil {
		return nil, decimal.Decimal{}, s.err
	}
	return s.tx, s.balance, nil
}

func (s *stubLedgerService) History(_ context.Context, _ uuid.UUID, _ string, _ int) ([]domain.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func newLedgerRequest(t *testing.T, method, target, body string, ownerID uuid.UUID, customerName string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.SetPathValue("name", customerName)
	return req.WithContext(auth.ContextWithOwnerID(req.Context(), ownerID))
}

func TestAddDebt(t *testing.T) {
	ownerID := uuid.New()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		svc := &stubLedgerService{
			tx: &domain.Transaction{
				ID: 7, Kind: domain.KindDebt,
				Amount: decimal.NewFromInt(25), Timestamp: now,
			},
			balance: decimal.NewFromInt(75),
		}
		h := NewLedgerHandler(svc)

		req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/acme/debts",
			`{"amount": 25, "description": "restock"}`, ownerID, "acme")
		rec := httptest.NewRecorder()
		h.AddDebt(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.applied)
		assert.Equal(t, domain.KindDebt, svc.applied.Kind)
		assert.Equal(t, "acme", svc.applied.CustomerName)
		assert.Equal(t, ownerID, svc.applied.OwnerID)
		assert.True(t, svc.applied.Amount.Equal(decimal.NewFromInt(25)))

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("rejects non-positive amount before the service", func(t *testing.T) {
		svc := &stubLedgerService{}
		h := NewLedgerHandler(svc)

		for _, body := range []string{`{"amount": 0}`, `{"amount": -5}`} {
			req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/acme/debts", body, ownerID, "acme")
			rec := httptest.NewRecorder()
			h.AddDebt(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
			assert.Nil(t, svc.applied)
		}
	})

	t.Run("rejects sub-cent precision before the service", func(t *testing.T) {
		svc := &stubLedgerService{}
		h := NewLedgerHandler(svc)

		req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/acme/debts",
			`{"amount": 10.005}`, ownerID, "acme")
		rec := httptest.NewRecorder()
		h.AddDebt(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.applied)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		h := NewLedgerHandler(&stubLedgerService{})

		req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/acme/debts", `not json`, ownerID, "acme")
		rec := httptest.NewRecorder()
		h.AddDebt(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing auth context", func(t *testing.T) {
		h := NewLedgerHandler(&stubLedgerService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/acme/debts", strings.NewReader(`{"amount": 5}`))
		req.SetPathValue("name", "acme")
		rec := httptest.NewRecorder()
		h.AddDebt(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMakePayment(t *testing.T) {
	ownerID := uuid.New()

	t.Run("overpayment maps to 422", func(t *testing.T) {
		svc := &stubLedgerService{err: fmt.Errorf("Apply: %w", domain.ErrOverpayment)}
		h := NewLedgerHandler(svc)

		req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/acme/payments",
			`{"amount": 50}`, ownerID, "acme")
		rec := httptest.NewRecorder()
		h.MakePayment(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "OVERPAYMENT", resp.Error.Code)
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := &stubLedgerService{err: fmt.Errorf("Apply: %w", domain.ErrNotFound)}
		h := NewLedgerHandler(svc)

		req := newLedgerRequest(t, http.MethodPost, "/api/v1/customers/ghost/payments",
			`{"amount": 10}`, ownerID, "ghost")
		rec := httptest.NewRecorder()
		h.MakePayment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHistory(t *testing.T) {
	ownerID := uuid.New()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("returns projections", func(t *testing.T) {
		svc := &stubLedgerService{history: []domain.Transaction{
			{ID: 1, Kind: domain.KindDebt, Amount: decimal.NewFromInt(50), Timestamp: now},
			{ID: 2, Kind: domain.KindPayment, Amount: decimal.NewFromInt(20), Timestamp: now.Add(time.Hour)},
		}}
		h := NewLedgerHandler(svc)

		req := newLedgerRequest(t, http.MethodGet, "/api/v1/customers/acme/transactions", "", ownerID, "acme")
		rec := httptest.NewRecorder()
		h.History(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []transactionDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "debt", resp.Data[0].Kind)
		assert.Equal(t, "2024-03-15 09:00:00", resp.Data[0].Timestamp)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		h := NewLedgerHandler(&stubLedgerService{})

		for _, limit := range []string{"abc", "0", "-3"} {
			req := newLedgerRequest(t, http.MethodGet, "/api/v1/customers/acme/transactions?limit="+limit, "", ownerID, "acme")
			rec := httptest.NewRecorder()
			h.History(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %s", limit)
		}
	})
}
