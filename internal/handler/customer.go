package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/ledger"
	"github.com/paytrack/paytrack-backend/internal/logging"
)

type customerService interface {
	CreateCustomer(ctx context.Context, req ledger.CreateCustomerRequest) (*domain.Customer, error)
	ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error)
	DeleteCustomer(ctx context.Context, ownerID uuid.UUID, name string) error
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	Name           string          `json:"name"`
	Product        string          `json:"product"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (r createCustomerRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.InitialBalance.IsNegative() {
		errs = append(errs, FieldError{Field: "initial_balance", Message: "must not be negative"})
	} else if !domain.ValidAmountScale(r.InitialBalance) {
		errs = append(errs, FieldError{Field: "initial_balance", Message: "must have at most two decimal places"})
	}
	return errs
}

type customerDTO struct {
	Name      string          `json:"name"`
	Product   string          `json:"product"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

func toCustomerDTO(c *domain.Customer) customerDTO {
	return customerDTO{
		Name:      c.Name,
		Product:   c.Product,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), ledger.CreateCustomerRequest{
		OwnerID:        ownerID,
		Name:           req.Name,
		Product:        req.Product,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create customer", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toCustomerDTO(customer))
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	customers, err := h.customers.ListCustomers(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list customers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]customerDTO, len(customers))
	for i := range customers {
		dtos[i] = toCustomerDTO(&customers[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	name := r.PathValue("name")
	if err := h.customers.DeleteCustomer(r.Context(), ownerID, name); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete customer", "error", err, "customer", name)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"deleted": name})
}
