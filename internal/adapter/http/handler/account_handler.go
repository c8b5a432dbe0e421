package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/adapter/http/dto"
	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	AddAccount(ctx context.Context, ownerID string, in ledger.AddAccountInput) (*domain.Account, error)
	EditAccount(ctx context.Context, ownerID string, in ledger.EditAccountInput) (*domain.Account, error)
	Accounts(ctx context.Context, ownerID string) ([]*domain.Account, error)
	Account(ctx context.Context, ownerID, accountID string) (*domain.Account, error)
	TotalsByCurrency(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	ledgerUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerUC AccountService) *AccountHandler {
	return &AccountHandler{ledgerUC: ledgerUC}
}

// Create creates a new account with its opening balances.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledgerUC.AddAccount(r.Context(), middleware.OwnerID(r.Context()), req.ToInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// List lists the owner's accounts with per-currency totals.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerID(r.Context())

	accounts, err := h.ledgerUC.Accounts(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	totals, err := h.ledgerUC.TotalsByCurrency(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute totals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountListResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Totals:   totals,
	})
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.ledgerUC.Account(r.Context(), middleware.OwnerID(r.Context()), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Update applies a partial update to an account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.EditAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.ledgerUC.EditAccount(r.Context(), middleware.OwnerID(r.Context()), req.ToInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
