package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyfye/moneyfye/internal/ledger"
)

func TestBook_MonthlyReport(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(1000), "USD", "EUR")
	other := seedAccount(t, b, "Savings", dec(500), "USD")

	add := func(fn func() error) {
		t.Helper()
		require.NoError(t, fn())
	}

	add(func() error {
		_, err := b.AddIncome(ledger.AddIncomeInput{
			AccountID: acc.ID, Currency: "USD", Amount: dec(100), Date: date(t, "2024-01-15"),
		})
		return err
	})
	add(func() error {
		_, err := b.AddIncome(ledger.AddIncomeInput{
			AccountID: acc.ID, Currency: "USD", Amount: dec(50), Date: date(t, "2024-01-20"),
		})
		return err
	})
	add(func() error {
		_, err := b.AddExpense(ledger.AddExpenseInput{
			AccountID: acc.ID, Currency: "EUR", Amount: dec(30), Date: date(t, "2024-03-02"),
		})
		return err
	})
	// Different year: excluded.
	add(func() error {
		_, err := b.AddIncome(ledger.AddIncomeInput{
			AccountID: acc.ID, Currency: "USD", Amount: dec(999), Date: date(t, "2023-01-15"),
		})
		return err
	})
	// Transfers move money within the tracked universe: excluded.
	add(func() error {
		_, err := b.Transfer(ledger.TransferInput{
			FromAccountID: acc.ID, ToAccountID: other.ID, Currency: "USD", Amount: dec(40),
			Date: date(t, "2024-01-25"),
		})
		return err
	})

	rows := b.MonthlyReport(2024)
	require.Len(t, rows, 12)

	jan := rows[0]
	assert.Equal(t, "Jan", jan.Month)
	assert.True(t, jan.Income["USD"].Equal(dec(150)))
	assert.Empty(t, jan.Expenses)

	mar := rows[2]
	assert.Equal(t, "Mar", mar.Month)
	assert.True(t, mar.Expenses["EUR"].Equal(dec(30)), "expenses reported as positive magnitudes")
	assert.Empty(t, mar.Income)

	// Months without activity stay empty rather than missing.
	assert.Empty(t, rows[5].Income)
	assert.Empty(t, rows[5].Expenses)
}

func TestMonthRow_JSONShape(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(1000), "USD")
	_, err := b.AddIncome(ledger.AddIncomeInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(120), Date: date(t, "2024-01-05"),
	})
	require.NoError(t, err)
	_, err = b.AddExpense(ledger.AddExpenseInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(45), Date: date(t, "2024-01-06"),
	})
	require.NoError(t, err)

	data, err := json.Marshal(b.MonthlyReport(2024)[0])
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "Jan", flat["month"])
	assert.Contains(t, flat, "income_USD")
	assert.Contains(t, flat, "expenses_USD")

	var back ledger.MonthRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Jan", back.Month)
	assert.True(t, back.Income["USD"].Equal(dec(120)))
	assert.True(t, back.Expenses["USD"].Equal(dec(45)))
}
