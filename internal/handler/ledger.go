package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/ledger"
	"github.com/paytrack/paytrack-backend/internal/logging"
)

type ledgerService interface {
	Apply(ctx context.Context, req ledger.ApplyRequest) (*domain.Transaction, decimal.Decimal, error)
	History(ctx context.Context, ownerID uuid.UUID, name string, limit int) ([]domain.Transaction, error)
}

type LedgerHandler struct {
	ledger ledgerService
}

func NewLedgerHandler(svc ledgerService) *LedgerHandler {
	return &LedgerHandler{ledger: svc}
}

type applyRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  string          `json:"occurred_at"`
}

func (r applyRequest) Validate() []FieldError {
	var errs []FieldError
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	} else if !domain.ValidAmountScale(r.Amount) {
		errs = append(errs, FieldError{Field: "amount", Message: "must have at most two decimal places"})
	}
	return errs
}

type transactionDTO struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   string          `json:"timestamp"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		Timestamp:   domain.FormatTimestamp(t.Timestamp),
	}
}

type applyResponse struct {
	Transaction transactionDTO  `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
}

// AddDebt handles POST /customers/{name}/debts.
func (h *LedgerHandler) AddDebt(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, domain.KindDebt)
}

// MakePayment handles POST /customers/{name}/payments. A payment larger
// than the outstanding balance is rejected with OVERPAYMENT.
func (h *LedgerHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, domain.KindPayment)
}

func (h *LedgerHandler) apply(w http.ResponseWriter, r *http.Request, kind domain.TransactionKind) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, balance, err := h.ledger.Apply(r.Context(), ledger.ApplyRequest{
		OwnerID:      ownerID,
		CustomerName: r.PathValue("name"),
		Kind:         kind,
		Amount:       req.Amount,
		Description:  req.Description,
		OccurredAt:   req.OccurredAt,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to apply transaction",
			"error", err, "kind", kind, "customer", r.PathValue("name"))
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, applyResponse{
		Transaction: toTransactionDTO(t),
		Balance:     balance,
	})
}

// History handles GET /customers/{name}/transactions. Without a limit
// the full history comes back oldest first; with ?limit=n the newest n
// entries come back first.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be a positive integer"}})
			return
		}
		limit = n
	}

	txs, err := h.ledger.History(r.Context(), ownerID, r.PathValue("name"), limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to fetch history",
			"error", err, "customer", r.PathValue("name"))
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(txs))
	for i := range txs {
		dtos[i] = toTransactionDTO(&txs[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
