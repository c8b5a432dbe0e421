package ledger_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

type seqIDGen struct {
	n int
}

func (g *seqIDGen) Generate() string {
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

func newBook() *ledger.Book {
	return ledger.NewBook(&seqIDGen{})
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// seedAccount creates an account tracking the given currencies with the
// given opening balance in the first one.
func seedAccount(t *testing.T, b *ledger.Book, name string, opening decimal.Decimal, currencies ...string) *domain.Account {
	t.Helper()
	balance := map[string]decimal.Decimal{currencies[0]: opening}
	for _, c := range currencies[1:] {
		balance[c] = decimal.Zero
	}
	acc, err := b.AddAccount(ledger.AddAccountInput{
		Name:       name,
		Group:      domain.GroupBankAccount,
		Balance:    balance,
		Currencies: currencies,
	})
	require.NoError(t, err)
	return acc
}

func TestBook_AddIncome(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	tx, err := b.AddIncome(ledger.AddIncomeInput{
		AccountID:   acc.ID,
		Currency:    "USD",
		Amount:      dec(120),
		Description: "Salary",
		Tags:        []string{"work"},
		Date:        date(t, "2024-05-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeIncome, tx.Type)
	assert.True(t, tx.Amount.Equal(dec(120)))
	assert.Equal(t, acc.ID, tx.AccountID)
	assert.Equal(t, "USD", tx.RelatedCurrency)

	got, err := b.Account(acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance["USD"].Equal(dec(620)))

	totals := b.Totals()
	assert.True(t, totals.TotalIncome.Equal(dec(120)))
	assert.True(t, totals.TotalBalance.Equal(dec(620)))
}

func TestBook_AddExpense_StoresNegativeAmount(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	tx, err := b.AddExpense(ledger.AddExpenseInput{
		AccountID: acc.ID,
		Currency:  "USD",
		Amount:    dec(75),
		Date:      date(t, "2024-05-02"),
	})
	require.NoError(t, err)

	// The sign convention matters to downstream report logic.
	assert.True(t, tx.Amount.Equal(dec(-75)))

	got, err := b.Account(acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance["USD"].Equal(dec(425)))

	totals := b.Totals()
	assert.True(t, totals.TotalExpense.Equal(dec(75)), "expense total tracks positive magnitude")
	assert.True(t, totals.TotalBalance.Equal(dec(425)))
}

func TestBook_IncomeExpenseSymmetry(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	_, err := b.AddIncome(ledger.AddIncomeInput{AccountID: acc.ID, Currency: "USD", Amount: dec(90)})
	require.NoError(t, err)
	_, err = b.AddExpense(ledger.AddExpenseInput{AccountID: acc.ID, Currency: "USD", Amount: dec(90)})
	require.NoError(t, err)

	got, err := b.Account(acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance["USD"].Equal(dec(500)), "balance restored exactly")

	// The running totals do not cancel each other.
	totals := b.Totals()
	assert.True(t, totals.TotalIncome.Equal(dec(90)))
	assert.True(t, totals.TotalExpense.Equal(dec(90)))
}

func TestBook_AddIncome_Rejections(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")
	before := b.Snapshot()

	tests := []struct {
		name    string
		input   ledger.AddIncomeInput
		wantErr error
	}{
		{
			name:    "unknown account",
			input:   ledger.AddIncomeInput{AccountID: "nope", Currency: "USD", Amount: dec(10)},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "currency not tracked",
			input:   ledger.AddIncomeInput{AccountID: acc.ID, Currency: "EUR", Amount: dec(10)},
			wantErr: domain.ErrCurrencyNotTracked,
		},
		{
			name:    "zero amount",
			input:   ledger.AddIncomeInput{AccountID: acc.ID, Currency: "USD", Amount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   ledger.AddIncomeInput{AccountID: acc.ID, Currency: "USD", Amount: dec(-5)},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.AddIncome(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// A rejected mutation changes nothing and records nothing.
	after := b.Snapshot()
	assert.Equal(t, before, after)
}

func TestBook_Transfer_BalanceConservation(t *testing.T) {
	b := newBook()
	from := seedAccount(t, b, "Checking", dec(300), "USD")
	to := seedAccount(t, b, "Savings", dec(100), "USD")

	tx, err := b.Transfer(ledger.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Currency:      "USD",
		Amount:        dec(50),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeTransferIn, tx.Type)
	assert.True(t, tx.Amount.Equal(dec(50)))
	assert.Equal(t, from.ID, tx.AccountFrom)
	assert.Equal(t, to.ID, tx.AccountTo)
	assert.Equal(t, from.ID, tx.RelatedSource)
	assert.Equal(t, fmt.Sprintf("Transfer from %s", from.ID), tx.Description)

	gotFrom, _ := b.Account(from.ID)
	gotTo, _ := b.Account(to.ID)
	assert.True(t, gotFrom.Balance["USD"].Equal(dec(250)))
	assert.True(t, gotTo.Balance["USD"].Equal(dec(150)))

	// Scalar totals are untouched by transfers.
	totals := b.Totals()
	assert.True(t, totals.TotalBalance.Equal(dec(400)))
	assert.True(t, totals.TotalIncome.IsZero())
	assert.True(t, totals.TotalExpense.IsZero())
}

func TestBook_Transfer_CreatesDestinationCurrency(t *testing.T) {
	b := newBook()
	from := seedAccount(t, b, "Euro account", dec(200), "EUR")
	to := seedAccount(t, b, "Dollar account", dec(100), "USD")

	_, err := b.Transfer(ledger.TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Currency:      "EUR",
		Amount:        dec(40),
	})
	require.NoError(t, err)

	gotTo, _ := b.Account(to.ID)
	require.True(t, gotTo.TracksCurrency("EUR"), "destination entry created on first use")
	assert.True(t, gotTo.Balance["EUR"].Equal(dec(40)))
	assert.Contains(t, gotTo.Currencies, "EUR")

	// The source must already track the currency; the destination leniency
	// is one-directional.
	_, err = b.Transfer(ledger.TransferInput{
		FromAccountID: to.ID,
		ToAccountID:   from.ID,
		Currency:      "GBP",
		Amount:        dec(5),
	})
	require.ErrorIs(t, err, domain.ErrCurrencyNotTracked)
}

func TestBook_Transfer_Rejections(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(300), "USD")
	other := seedAccount(t, b, "Savings", dec(0), "USD")

	_, err := b.Transfer(ledger.TransferInput{
		FromAccountID: acc.ID, ToAccountID: acc.ID, Currency: "USD", Amount: dec(10),
	})
	require.ErrorIs(t, err, domain.ErrSameAccount)

	_, err = b.Transfer(ledger.TransferInput{
		FromAccountID: acc.ID, ToAccountID: "missing", Currency: "USD", Amount: dec(10),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = b.Transfer(ledger.TransferInput{
		FromAccountID: acc.ID, ToAccountID: other.ID, Currency: "USD", Amount: dec(0),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestBook_EditTransaction_ExpenseCorrectness(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	tx, err := b.AddExpense(ledger.AddExpenseInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(100), Description: "Groceries",
	})
	require.NoError(t, err)

	edited, err := b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID,
		Currency:      "USD",
		Amount:        dec(150),
		Description:   "Groceries",
		Date:          date(t, "2024-06-01"),
	})
	require.NoError(t, err)

	// 500 - 150, not 400 (double deduction) or 600 (re-credit).
	got, _ := b.Account(acc.ID)
	assert.True(t, got.Balance["USD"].Equal(dec(350)))

	assert.True(t, edited.Amount.Equal(dec(-150)), "expense stays negative after edit")
	assert.Equal(t, domain.TypeExpense, edited.Type)
	assert.Equal(t, acc.ID, edited.AccountID)

	totals := b.Totals()
	assert.True(t, totals.TotalExpense.Equal(dec(150)))
	assert.True(t, totals.TotalBalance.Equal(dec(350)))
}

func TestBook_EditTransaction_NoOpEditIsIdempotent(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	tx, err := b.AddIncome(ledger.AddIncomeInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(80),
		Description: "Refund", Tags: []string{"misc"}, Date: date(t, "2024-04-10"),
	})
	require.NoError(t, err)

	before := b.Snapshot()

	_, err = b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID,
		Currency:      "USD",
		Amount:        dec(80),
		Description:   "Refund",
		Tags:          []string{"misc"},
		Date:          date(t, "2024-04-10"),
	})
	require.NoError(t, err)

	after := b.Snapshot()
	assert.Equal(t, before, after, "editing with identical values must change nothing")
}

func TestBook_EditTransaction_CurrencyChange(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Multi", dec(200), "USD", "EUR")

	tx, err := b.AddIncome(ledger.AddIncomeInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(50),
	})
	require.NoError(t, err)

	_, err = b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID,
		Currency:      "EUR",
		Amount:        dec(60),
	})
	require.NoError(t, err)

	got, _ := b.Account(acc.ID)
	// Revert happens under the old currency, reapply under the new one.
	assert.True(t, got.Balance["USD"].Equal(dec(200)))
	assert.True(t, got.Balance["EUR"].Equal(dec(60)))
}

func TestBook_EditTransaction_Transfer(t *testing.T) {
	b := newBook()
	from := seedAccount(t, b, "Checking", dec(300), "USD")
	to := seedAccount(t, b, "Savings", dec(0), "USD")

	tx, err := b.Transfer(ledger.TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID, Currency: "USD", Amount: dec(100),
	})
	require.NoError(t, err)

	edited, err := b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID,
		Currency:      "USD",
		Amount:        dec(30),
	})
	require.NoError(t, err)

	gotFrom, _ := b.Account(from.ID)
	gotTo, _ := b.Account(to.ID)
	assert.True(t, gotFrom.Balance["USD"].Equal(dec(270)))
	assert.True(t, gotTo.Balance["USD"].Equal(dec(30)))

	// Account references survive the edit untouched.
	assert.Equal(t, from.ID, edited.AccountFrom)
	assert.Equal(t, to.ID, edited.AccountTo)
}

func TestBook_EditTransaction_Rejections(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")

	tx, err := b.AddExpense(ledger.AddExpenseInput{AccountID: acc.ID, Currency: "USD", Amount: dec(10)})
	require.NoError(t, err)

	before := b.Snapshot()

	_, err = b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: "missing", Currency: "USD", Amount: dec(10),
	})
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID, Currency: "JPY", Amount: dec(10),
	})
	require.ErrorIs(t, err, domain.ErrCurrencyNotTracked)

	_, err = b.EditTransaction(ledger.EditTransactionInput{
		TransactionID: tx.TransactionID, Currency: "USD", Amount: dec(-1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	after := b.Snapshot()
	assert.Equal(t, before, after, "rejected edits leave no partial state")
}

func TestBook_AddAccount_SeedsHiddenTransactions(t *testing.T) {
	b := newBook()

	acc, err := b.AddAccount(ledger.AddAccountInput{
		Name:  "Wallet",
		Group: domain.GroupCash,
		Balance: map[string]decimal.Decimal{
			"USD": dec(200),
			"EUR": decimal.Zero,
		},
		Currencies: []string{"USD", "EUR"},
	})
	require.NoError(t, err)

	assert.True(t, acc.Balance["USD"].Equal(dec(200)))
	assert.True(t, acc.Balance["EUR"].IsZero())
	assert.ElementsMatch(t, []string{"USD", "EUR"}, acc.Currencies)

	// Exactly two hidden seed rows, zero-amount entry included.
	seeds := b.Transactions(ledger.TransactionFilter{IncludeHidden: true})
	require.Len(t, seeds, 2)
	for _, tx := range seeds {
		assert.True(t, tx.Hide)
		assert.Equal(t, domain.TypeIncome, tx.Type)
		assert.Equal(t, []string{"Initial deposit"}, tx.Tags)
		assert.Equal(t, acc.ID, tx.AccountID)
	}

	// Hidden rows are filtered from default listings.
	assert.Empty(t, b.Transactions(ledger.TransactionFilter{}))
}

func TestBook_AddAccount_Rejections(t *testing.T) {
	b := newBook()

	_, err := b.AddAccount(ledger.AddAccountInput{
		Name: "", Group: domain.GroupCash,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAccountName)

	_, err = b.AddAccount(ledger.AddAccountInput{
		Name: "X", Group: domain.Group("crypto"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidGroup)

	_, err = b.AddAccount(ledger.AddAccountInput{
		Name: "X", Group: domain.GroupCash,
		Balance: map[string]decimal.Decimal{"ZZZ": dec(1)},
	})
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestBook_EditAccount_PartialUpdate(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Old name", dec(100), "USD")

	name := "New name"
	group := domain.GroupAsset
	got, err := b.EditAccount(ledger.EditAccountInput{
		ID:    acc.ID,
		Name:  &name,
		Group: &group,
	})
	require.NoError(t, err)

	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, domain.GroupAsset, got.Group)
	// Omitted fields stay put.
	assert.True(t, got.Balance["USD"].Equal(dec(100)))
	assert.Equal(t, []string{"USD"}, got.Currencies)

	_, err = b.EditAccount(ledger.EditAccountInput{ID: "missing"})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBook_RemoveAll(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(500), "USD")
	_, err := b.AddIncome(ledger.AddIncomeInput{AccountID: acc.ID, Currency: "USD", Amount: dec(10)})
	require.NoError(t, err)

	b.RemoveAll()

	assert.Empty(t, b.Accounts())
	assert.Empty(t, b.Transactions(ledger.TransactionFilter{IncludeHidden: true}))
	totals := b.Totals()
	assert.True(t, totals.TotalBalance.IsZero())
	assert.True(t, totals.TotalIncome.IsZero())
	assert.True(t, totals.TotalExpense.IsZero())
}

func TestBook_Transactions_Filtering(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(1000), "USD")

	for i, day := range []string{"2024-01-05", "2024-01-06", "2024-01-07"} {
		_, err := b.AddIncome(ledger.AddIncomeInput{
			AccountID: acc.ID, Currency: "USD", Amount: dec(int64(i + 1)), Date: date(t, day),
		})
		require.NoError(t, err)
	}
	_, err := b.AddExpense(ledger.AddExpenseInput{
		AccountID: acc.ID, Currency: "USD", Amount: dec(50), Date: date(t, "2024-01-06"),
	})
	require.NoError(t, err)

	// Newest first.
	all := b.Transactions(ledger.TransactionFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, domain.TypeExpense, all[0].Type)

	// Type filter.
	incomes := b.Transactions(ledger.TransactionFilter{Type: domain.TypeIncome})
	assert.Len(t, incomes, 3)

	// Date range.
	ranged := b.Transactions(ledger.TransactionFilter{
		StartDate: date(t, "2024-01-06"),
		EndDate:   date(t, "2024-01-06"),
	})
	assert.Len(t, ranged, 2)

	// Pagination.
	page := b.Transactions(ledger.TransactionFilter{Skip: 1, Limit: 2})
	assert.Len(t, page, 2)
	assert.Empty(t, b.Transactions(ledger.TransactionFilter{Skip: 10}))
}

func TestBook_Subscribe(t *testing.T) {
	b := newBook()

	var notified int
	var last *ledger.Snapshot
	b.Subscribe(func(snap *ledger.Snapshot) {
		notified++
		last = snap
	})

	acc := seedAccount(t, b, "Checking", dec(100), "USD")
	require.Equal(t, 1, notified)

	_, err := b.AddIncome(ledger.AddIncomeInput{AccountID: acc.ID, Currency: "USD", Amount: dec(5)})
	require.NoError(t, err)
	require.Equal(t, 2, notified)
	require.Len(t, last.Transactions, 2) // seed row + income

	// Rejected mutations do not notify.
	_, err = b.AddIncome(ledger.AddIncomeInput{AccountID: "missing", Currency: "USD", Amount: dec(5)})
	require.Error(t, err)
	assert.Equal(t, 2, notified)
}

func TestBook_QueriesReturnCopies(t *testing.T) {
	b := newBook()
	acc := seedAccount(t, b, "Checking", dec(100), "USD")

	view, _ := b.Account(acc.ID)
	view.Balance["USD"] = dec(0)

	fresh, _ := b.Account(acc.ID)
	assert.True(t, fresh.Balance["USD"].Equal(dec(100)), "external mutation must not reach engine state")
}
