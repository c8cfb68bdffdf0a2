package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/ledger"
	"github.com/paytrack/paytrack-backend/internal/logging"
)

type reportService interface {
	Statement(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Customer, []ledger.StatementRow, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*ledger.DashboardSummary, error)
}

type statementRenderer interface {
	Render(customer *domain.Customer, rows []ledger.StatementRow) ([]byte, error)
}

type ReportHandler struct {
	reports  reportService
	renderer statementRenderer
}

func NewReportHandler(reports reportService, renderer statementRenderer) *ReportHandler {
	return &ReportHandler{reports: reports, renderer: renderer}
}

// Statement handles GET /customers/{name}/statement and streams the
// rendered PDF.
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	name := r.PathValue("name")
	customer, rows, err := h.reports.Statement(r.Context(), ownerID, name)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build statement", "error", err, "customer", name)
		RespondDomainError(w, err)
		return
	}

	pdf, err := h.renderer.Render(customer, rows)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to render statement", "error", err, "customer", name)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", customer.Name, time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(pdf); err != nil {
		logging.FromContext(r.Context()).Error("failed to write statement", "error", err, "customer", name)
	}
}

type dashboardEntryDTO struct {
	CustomerName string          `json:"customer_name"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    string          `json:"timestamp"`
}

type dashboardDTO struct {
	TotalCustomers int                 `json:"total_customers"`
	TotalDebt      decimal.Decimal     `json:"total_debt"`
	Recent         []dashboardEntryDTO `json:"recent_transactions"`
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	summary, err := h.reports.Dashboard(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build dashboard", "error", err)
		RespondDomainError(w, err)
		return
	}

	recent := make([]dashboardEntryDTO, len(summary.Recent))
	for i, e := range summary.Recent {
		recent[i] = dashboardEntryDTO{
			CustomerName: e.CustomerName,
			Kind:         string(e.Kind),
			Amount:       e.Amount,
			Timestamp:    domain.FormatTimestamp(e.Timestamp),
		}
	}

	RespondSuccess(w, http.StatusOK, dashboardDTO{
		TotalCustomers: summary.TotalCustomers,
		TotalDebt:      summary.TotalDebt,
		Recent:         recent,
	})
}
