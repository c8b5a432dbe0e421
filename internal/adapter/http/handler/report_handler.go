package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/moneyfye/moneyfye/internal/adapter/http/dto"
	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	MonthlyReport(ctx context.Context, ownerID string, year int) ([]ledger.MonthRow, error)
}

// ReportHandler serves the yearly income and expense report.
type ReportHandler struct {
	ledgerUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ledgerUC ReportService) *ReportHandler {
	return &ReportHandler{ledgerUC: ledgerUC}
}

// Create aggregates the requested year into twelve month rows. A missing
// or zero year defaults to the current one.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	if year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "invalid year", "")
		return
	}

	rows, err := h.ledgerUC.MonthlyReport(r.Context(), middleware.OwnerID(r.Context()), year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportResponse{Year: year, Rows: rows})
}
