// Package statement renders customer statements as PDF documents.
package statement

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/ledger"
)

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render typesets the statement: a header with the customer details and
// current balance, then one table row per transaction with its running
// balance. An empty history renders a note instead of a table.
func (r *PDFRenderer) Render(customer *domain.Customer, rows []ledger.StatementRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(25, 118, 210)
	pdf.CellFormat(0, 12, "Customer Statement", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 11)
	info := [][2]string{
		{"Customer", customer.Name},
		{"Product", customer.Product},
		{"Balance due", customer.Balance.StringFixed(2)},
		{"Generated", time.Now().UTC().Format("2006-01-02 15:04")},
	}
	for _, kv := range info {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 8, "No transactions recorded.", "", 1, "L", false, 0, "")
	} else {
		r.renderTable(pdf, rows)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(153, 153, 153)
	pdf.CellFormat(0, 6, "This statement was generated automatically.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) renderTable(pdf *fpdf.Fpdf, rows []ledger.StatementRow) {
	widths := []float64{45, 28, 32, 33, 32}
	headers := []string{"Date", "Type", "Amount", "Description", "Balance"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(25, 118, 210)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetFillColor(245, 245, 245)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.CellFormat(widths[0], 7, domain.FormatTimestamp(row.Timestamp), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[1], 7, kindLabel(row.Kind), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[2], 7, row.Amount.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 7, truncate(row.Description, 22), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[4], 7, row.RunningBalance.StringFixed(2), "1", 1, "R", fill, 0, "")
	}
}

func kindLabel(k domain.TransactionKind) string {
	switch k {
	case domain.KindDebt:
		return "Debt"
	case domain.KindPayment:
		return "Payment"
	default:
		return string(k)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
