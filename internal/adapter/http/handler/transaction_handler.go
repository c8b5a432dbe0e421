package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moneyfye/moneyfye/internal/adapter/http/dto"
	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	AddIncome(ctx context.Context, ownerID string, in ledger.AddIncomeInput) (*domain.Transaction, error)
	AddExpense(ctx context.Context, ownerID string, in ledger.AddExpenseInput) (*domain.Transaction, error)
	Transfer(ctx context.Context, ownerID string, in ledger.TransferInput) (*domain.Transaction, error)
	EditTransaction(ctx context.Context, ownerID string, in ledger.EditTransactionInput) (*domain.Transaction, error)
	Transactions(ctx context.Context, ownerID string, f ledger.TransactionFilter) ([]*domain.Transaction, error)
	Transaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgerUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC TransactionService) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// Income records an income transaction.
func (h *TransactionHandler) Income(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.ledgerUC.AddIncome(r.Context(), middleware.OwnerID(r.Context()), req.ToIncomeInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record income", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Expense records an expense transaction.
func (h *TransactionHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.ledgerUC.AddExpense(r.Context(), middleware.OwnerID(r.Context()), req.ToExpenseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Transfer moves money between two accounts.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.ledgerUC.Transfer(r.Context(), middleware.OwnerID(r.Context()), req.ToInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Edit rewrites a recorded transaction.
func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.EditTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.ledgerUC.EditTransaction(r.Context(), middleware.OwnerID(r.Context()), req.ToInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to edit transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.ledgerUC.Transaction(r.Context(), middleware.OwnerID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// List lists transactions newest-first with optional filters: skip, limit,
// start_date, end_date and transaction_type.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, skip := domain.ValidatePagination(
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "skip", 0),
	)

	startDate, err := parseDateQuery(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return
	}
	endDate, err := parseDateQuery(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}

	var txType domain.TransactionType
	if raw := r.URL.Query().Get("transaction_type"); raw != "" {
		txType = domain.TransactionType(raw)
		if !txType.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid transaction_type", raw)
			return
		}
	}

	txs, err := h.ledgerUC.Transactions(r.Context(), middleware.OwnerID(r.Context()), ledger.TransactionFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Type:      txType,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Skip:         skip,
		Limit:        limit,
	})
}
