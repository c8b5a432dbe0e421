package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
)

// Totals are the legacy scalar aggregates: cross-currency sums with no unit
// meaning beyond a directional sanity signal.
//
// Deprecated: kept for backward-compatible displays. Use TotalsByCurrency,
// IncomeByCurrency, and ExpenseByCurrency instead.
type Totals struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expenses"`
}

// Totals returns the legacy scalar aggregates.
func (b *Book) Totals() Totals {
	return Totals{
		TotalBalance: b.totalBalance,
		TotalIncome:  b.totalIncome,
		TotalExpense: b.totalExpense,
	}
}

// TotalsByCurrency sums balances across all accounts per currency code.
func (b *Book) TotalsByCurrency() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, acc := range b.accounts {
		for code, amount := range acc.Balance {
			totals[code] = totals[code].Add(amount)
		}
	}
	return totals
}

// IncomeByCurrency sums visible income amounts per currency. Hidden seed
// rows are excluded, matching the legacy total_income scalar.
func (b *Book) IncomeByCurrency() map[string]decimal.Decimal {
	return b.sumByCurrency(domain.TypeIncome)
}

// ExpenseByCurrency sums visible expense magnitudes per currency.
func (b *Book) ExpenseByCurrency() map[string]decimal.Decimal {
	return b.sumByCurrency(domain.TypeExpense)
}

func (b *Book) sumByCurrency(txType domain.TransactionType) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range b.transactions {
		if tx.Hide || tx.Type != txType {
			continue
		}
		totals[tx.RelatedCurrency] = totals[tx.RelatedCurrency].Add(tx.Magnitude())
	}
	return totals
}

// recomputeTotalBalance rebuilds the legacy total_balance scalar as the full
// sum over all accounts' balance maps.
func (b *Book) recomputeTotalBalance() {
	total := decimal.Zero
	for _, acc := range b.accounts {
		total = total.Add(acc.BalanceTotal())
	}
	b.totalBalance = total
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
