package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group classifies an account for display and reporting.
type Group string

const (
	GroupCash        Group = "cash"
	GroupBankAccount Group = "bank_account"
	GroupDeposit     Group = "deposit"
	GroupCredit      Group = "credit"
	GroupAsset       Group = "asset"
)

var validGroups = map[Group]bool{
	GroupCash:        true,
	GroupBankAccount: true,
	GroupDeposit:     true,
	GroupCredit:      true,
	GroupAsset:       true,
}

// IsValid checks if the group is a known account group.
func (g Group) IsValid() bool {
	return validGroups[g]
}

// Account is a tracked balance-holding entity with one balance per currency.
type Account struct {
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
	Balance    map[string]decimal.Decimal `json:"balance"`
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Group      Group                      `json:"group"`
	Currencies []string                   `json:"currencies"`
}

// TracksCurrency reports whether the account has a balance entry for code.
// A zero entry counts: the account was opened for that currency.
func (a *Account) TracksCurrency(code string) bool {
	_, ok := a.Balance[code]
	return ok
}

// EnsureCurrency adds a balance entry for code if absent, keeping the
// currencies list in sync with the balance map keys.
func (a *Account) EnsureCurrency(code string) {
	if a.Balance == nil {
		a.Balance = make(map[string]decimal.Decimal)
	}
	if _, ok := a.Balance[code]; ok {
		return
	}
	a.Balance[code] = decimal.Zero
	for _, c := range a.Currencies {
		if c == code {
			return
		}
	}
	a.Currencies = append(a.Currencies, code)
}

// BalanceTotal sums every balance entry regardless of currency. The result
// has no unit meaning; it only feeds the legacy total_balance scalar.
func (a *Account) BalanceTotal() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range a.Balance {
		total = total.Add(amount)
	}
	return total
}

// Clone returns a deep copy so callers can hand out read views without
// exposing the engine's maps and slices to external mutation.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Balance = make(map[string]decimal.Decimal, len(a.Balance))
	for code, amount := range a.Balance {
		cp.Balance[code] = amount
	}
	cp.Currencies = append([]string(nil), a.Currencies...)
	return &cp
}
