package dto

import (
	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountRequest represents a request to create an account. Balance
// seeds the opening amounts per currency; currencies the account should
// track without an opening amount go in currencies.
type CreateAccountRequest struct {
	Name       string                     `json:"name"`
	Group      string                     `json:"group"`
	Currencies []string                   `json:"currencies"`
	Balance    map[string]decimal.Decimal `json:"balance"`
}

// ToInput converts to the ledger input.
func (r *CreateAccountRequest) ToInput() ledger.AddAccountInput {
	return ledger.AddAccountInput{
		Name:       r.Name,
		Group:      domain.Group(r.Group),
		Currencies: r.Currencies,
		Balance:    r.Balance,
	}
}

// EditAccountRequest represents a partial account update. Absent fields
// leave the account unchanged.
type EditAccountRequest struct {
	Name       *string                    `json:"name,omitempty"`
	Group      *string                    `json:"group,omitempty"`
	Currencies []string                   `json:"currencies,omitempty"`
	Balance    map[string]decimal.Decimal `json:"balance,omitempty"`
}

// ToInput converts to the ledger input.
func (r *EditAccountRequest) ToInput(id string) ledger.EditAccountInput {
	in := ledger.EditAccountInput{
		ID:         id,
		Name:       r.Name,
		Currencies: r.Currencies,
		Balance:    r.Balance,
	}
	if r.Group != nil {
		g := domain.Group(*r.Group)
		in.Group = &g
	}
	return in
}

// RecordTransactionRequest represents an income or expense to record. The
// amount is always positive; the endpoint determines the direction.
type RecordTransactionRequest struct {
	AccountID   string          `json:"account_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Date        domain.Date     `json:"date,omitempty"`
}

// ToIncomeInput converts to the ledger income input.
func (r *RecordTransactionRequest) ToIncomeInput() ledger.AddIncomeInput {
	return ledger.AddIncomeInput{
		AccountID:   r.AccountID,
		Currency:    r.Currency,
		Amount:      r.Amount,
		Description: r.Description,
		Tags:        r.Tags,
		Date:        r.Date,
	}
}

// ToExpenseInput converts to the ledger expense input.
func (r *RecordTransactionRequest) ToExpenseInput() ledger.AddExpenseInput {
	return ledger.AddExpenseInput{
		AccountID:   r.AccountID,
		Currency:    r.Currency,
		Amount:      r.Amount,
		Description: r.Description,
		Tags:        r.Tags,
		Date:        r.Date,
	}
}

// TransferRequest represents a transfer between two accounts.
type TransferRequest struct {
	AccountFrom string          `json:"account_from"`
	AccountTo   string          `json:"account_to"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Date        domain.Date     `json:"date,omitempty"`
}

// ToInput converts to the ledger input.
func (r *TransferRequest) ToInput() ledger.TransferInput {
	return ledger.TransferInput{
		FromAccountID: r.AccountFrom,
		ToAccountID:   r.AccountTo,
		Currency:      r.Currency,
		Amount:        r.Amount,
		Description:   r.Description,
		Tags:          r.Tags,
		Date:          r.Date,
	}
}

// EditTransactionRequest represents a transaction rewrite. All fields are
// required: the edit replaces the mutable portion of the record wholesale.
type EditTransactionRequest struct {
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Date        domain.Date     `json:"date,omitempty"`
}

// ToInput converts to the ledger input.
func (r *EditTransactionRequest) ToInput(id string) ledger.EditTransactionInput {
	return ledger.EditTransactionInput{
		TransactionID: id,
		Currency:      r.Currency,
		Amount:        r.Amount,
		Description:   r.Description,
		Tags:          r.Tags,
		Date:          r.Date,
	}
}

// ReportRequest selects the year to aggregate.
type ReportRequest struct {
	Year int `json:"year"`
}
