package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Group      domain.Group               `json:"group"`
	Currencies []string                   `json:"currencies"`
	Balance    map[string]decimal.Decimal `json:"balance"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Group:      a.Group,
		Currencies: a.Currencies,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountListResponse bundles accounts with the per-currency aggregates the
// dashboard renders next to them.
type AccountListResponse struct {
	Accounts []*AccountResponse         `json:"accounts"`
	Totals   map[string]decimal.Decimal `json:"totals"`
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	TransactionID   string                 `json:"transaction_id"`
	Type            domain.TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal        `json:"amount"`
	Date            domain.Date            `json:"date"`
	Description     string                 `json:"description,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	RelatedCurrency string                 `json:"related_currency"`
	AccountID       string                 `json:"account_id,omitempty"`
	AccountFrom     string                 `json:"account_from,omitempty"`
	AccountTo       string                 `json:"account_to,omitempty"`
	Hide            bool                   `json:"hide,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TransactionID:   tx.TransactionID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		Date:            tx.Date,
		Description:     tx.Description,
		Tags:            tx.Tags,
		RelatedCurrency: tx.RelatedCurrency,
		AccountID:       tx.AccountID,
		AccountFrom:     tx.AccountFrom,
		AccountTo:       tx.AccountTo,
		Hide:            tx.Hide,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// TransactionListResponse is a page of transactions.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Skip         int                    `json:"skip"`
	Limit        int                    `json:"limit"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse carries the issued token and its subject.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ReportResponse is the yearly report: twelve flattened month rows.
type ReportResponse struct {
	Year int               `json:"year"`
	Rows []ledger.MonthRow `json:"rows"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
