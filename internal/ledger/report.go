package ledger

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
)

// MonthRow aggregates one calendar month of a yearly report: visible income
// and expense sums per currency. Transfers move money within the tracked
// universe and are excluded.
type MonthRow struct {
	Month    string
	Income   map[string]decimal.Decimal
	Expenses map[string]decimal.Decimal
}

// MarshalJSON flattens the row to the shape chart consumers expect:
// {"month":"Jan","income_USD":"120","expenses_USD":"45.5", ...}.
func (r MonthRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.RawMessage, 1+len(r.Income)+len(r.Expenses))

	month, err := json.Marshal(r.Month)
	if err != nil {
		return nil, err
	}
	flat["month"] = month

	for code, amount := range r.Income {
		v, err := json.Marshal(amount)
		if err != nil {
			return nil, err
		}
		flat["income_"+code] = v
	}
	for code, amount := range r.Expenses {
		v, err := json.Marshal(amount)
		if err != nil {
			return nil, err
		}
		flat["expenses_"+code] = v
	}

	// Deterministic key order for stable output.
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, flat[k]...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON rebuilds a row from its flattened form.
func (r *MonthRow) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	r.Income = make(map[string]decimal.Decimal)
	r.Expenses = make(map[string]decimal.Decimal)
	for k, v := range flat {
		switch {
		case k == "month":
			if err := json.Unmarshal(v, &r.Month); err != nil {
				return err
			}
		case len(k) > 7 && k[:7] == "income_":
			var amount decimal.Decimal
			if err := json.Unmarshal(v, &amount); err != nil {
				return err
			}
			r.Income[k[7:]] = amount
		case len(k) > 9 && k[:9] == "expenses_":
			var amount decimal.Decimal
			if err := json.Unmarshal(v, &amount); err != nil {
				return err
			}
			r.Expenses[k[9:]] = amount
		}
	}
	return nil
}

// MonthlyReport aggregates the given year's visible income and expense
// transactions by month and currency. Always returns twelve rows.
func (b *Book) MonthlyReport(year int) []MonthRow {
	rows := make([]MonthRow, 12)
	for i := range rows {
		rows[i] = MonthRow{
			Month:    time.Month(i + 1).String()[:3],
			Income:   make(map[string]decimal.Decimal),
			Expenses: make(map[string]decimal.Decimal),
		}
	}

	for _, tx := range b.transactions {
		if tx.Hide || tx.Date.Year() != year {
			continue
		}
		row := &rows[int(tx.Date.Month())-1]
		switch tx.Type {
		case domain.TypeIncome:
			row.Income[tx.RelatedCurrency] = row.Income[tx.RelatedCurrency].Add(tx.Amount)
		case domain.TypeExpense:
			row.Expenses[tx.RelatedCurrency] = row.Expenses[tx.RelatedCurrency].Add(tx.Magnitude())
		}
	}

	return rows
}
