package handler

import (
	"context"
	"net/http"

	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// ExportService defines the behavior needed by ExportHandler.
type ExportService interface {
	Export(ctx context.Context, ownerID string) (*ledger.ExportDocument, error)
	DeleteData(ctx context.Context, ownerID string) error
}

// ExportHandler serves full-state export and data deletion.
type ExportHandler struct {
	ledgerUC ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(ledgerUC ExportService) *ExportHandler {
	return &ExportHandler{ledgerUC: ledgerUC}
}

// Export returns the owner's complete state as a downloadable document.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.ledgerUC.Export(r.Context(), middleware.OwnerID(r.Context()))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export", err.Error())
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="moneyfye-export.json"`)
	writeJSON(w, http.StatusOK, doc)
}

// DeleteData wipes all of the owner's accounts and transactions.
func (h *ExportHandler) DeleteData(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerUC.DeleteData(r.Context(), middleware.OwnerID(r.Context())); err != nil {
		writeError(w, mapDomainError(err), "failed to delete data", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
