// Package ledger implements the mutation engine: it exclusively owns the
// Account and Transaction collections and applies every balance-affecting
// operation against them. Callers never mutate engine state directly; they
// go through the operations here and observe changes via Subscribe.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
)

// IDGenerator generates unique identifiers for accounts and transactions.
type IDGenerator interface {
	Generate() string
}

// Subscriber is notified with a fresh state snapshot after every applied
// mutation. Rejected mutations do not fire.
type Subscriber func(snap *Snapshot)

// Book is the in-memory ledger state. It is not safe for concurrent use;
// the owning service serializes access (single-writer model).
type Book struct {
	idGen        IDGenerator
	accounts     []*domain.Account
	transactions []*domain.Transaction
	subscribers  []Subscriber

	// Legacy cross-currency scalars, maintained best-effort. Per-currency
	// aggregates computed from the collections are the source of truth.
	totalBalance decimal.Decimal
	totalIncome  decimal.Decimal
	totalExpense decimal.Decimal

	revision int64
}

// NewBook creates an empty ledger.
func NewBook(idGen IDGenerator) *Book {
	return &Book{
		idGen:        idGen,
		totalBalance: decimal.Zero,
		totalIncome:  decimal.Zero,
		totalExpense: decimal.Zero,
	}
}

// Subscribe registers a subscriber for post-mutation snapshots.
func (b *Book) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Revision returns a counter incremented on every applied mutation.
func (b *Book) Revision() int64 {
	return b.revision
}

func (b *Book) commit() {
	b.revision++
	if len(b.subscribers) == 0 {
		return
	}
	snap := b.Snapshot()
	for _, s := range b.subscribers {
		s(snap)
	}
}

func (b *Book) findAccount(id string) *domain.Account {
	for _, acc := range b.accounts {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Book) findTransaction(id string) *domain.Transaction {
	for _, tx := range b.transactions {
		if tx.TransactionID == id {
			return tx
		}
	}
	return nil
}

// AddIncomeInput describes an income to record.
type AddIncomeInput struct {
	AccountID   string
	Currency    string
	Amount      decimal.Decimal
	Description string
	Tags        []string
	Date        domain.Date
}

// AddIncome credits the account's currency balance and records an income
// transaction. The currency must already be tracked by the account: you
// cannot credit a currency the account was never configured for.
func (b *Book) AddIncome(in AddIncomeInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateTags(in.Tags); err != nil {
		return nil, err
	}

	acc := b.findAccount(in.AccountID)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, in.AccountID)
	}
	if !acc.TracksCurrency(in.Currency) {
		return nil, fmt.Errorf("%w: %s on account %s", domain.ErrCurrencyNotTracked, in.Currency, in.AccountID)
	}

	acc.Balance[in.Currency] = acc.Balance[in.Currency].Add(in.Amount)

	tx := &domain.Transaction{
		TransactionID:   b.idGen.Generate(),
		Type:            domain.TypeIncome,
		Amount:          in.Amount,
		Date:            orToday(in.Date),
		Description:     in.Description,
		Tags:            append([]string(nil), in.Tags...),
		RelatedCurrency: in.Currency,
		AccountID:       in.AccountID,
	}
	b.transactions = append(b.transactions, tx)

	b.totalBalance = b.totalBalance.Add(in.Amount)
	b.totalIncome = b.totalIncome.Add(in.Amount)

	b.commit()
	return tx.Clone(), nil
}

// AddExpenseInput describes an expense to record.
type AddExpenseInput struct {
	AccountID   string
	Currency    string
	Amount      decimal.Decimal
	Description string
	Tags        []string
	Date        domain.Date
}

// AddExpense debits the account's currency balance and records an expense
// transaction. The stored amount is negative; the expense running total
// tracks the positive magnitude.
func (b *Book) AddExpense(in AddExpenseInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateTags(in.Tags); err != nil {
		return nil, err
	}

	acc := b.findAccount(in.AccountID)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, in.AccountID)
	}
	if !acc.TracksCurrency(in.Currency) {
		return nil, fmt.Errorf("%w: %s on account %s", domain.ErrCurrencyNotTracked, in.Currency, in.AccountID)
	}

	acc.Balance[in.Currency] = acc.Balance[in.Currency].Sub(in.Amount)

	tx := &domain.Transaction{
		TransactionID:   b.idGen.Generate(),
		Type:            domain.TypeExpense,
		Amount:          in.Amount.Neg(),
		Date:            orToday(in.Date),
		Description:     in.Description,
		Tags:            append([]string(nil), in.Tags...),
		RelatedCurrency: in.Currency,
		AccountID:       in.AccountID,
	}
	b.transactions = append(b.transactions, tx)

	b.totalBalance = b.totalBalance.Sub(in.Amount)
	b.totalExpense = b.totalExpense.Add(in.Amount)

	b.commit()
	return tx.Clone(), nil
}

// TransferInput describes a transfer between two accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Currency      string
	Amount        decimal.Decimal
	Description   string
	Tags          []string
	Date          domain.Date
}

// Transfer moves amount from one account to another in the same currency.
// The source must already track the currency; the destination entry is
// created on first use. Money moves within the tracked universe, so the
// legacy scalar totals are not touched.
func (b *Book) Transfer(in TransferInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateTags(in.Tags); err != nil {
		return nil, err
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	from := b.findAccount(in.FromAccountID)
	if from == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, in.FromAccountID)
	}
	to := b.findAccount(in.ToAccountID)
	if to == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, in.ToAccountID)
	}
	if !from.TracksCurrency(in.Currency) {
		return nil, fmt.Errorf("%w: %s on account %s", domain.ErrCurrencyNotTracked, in.Currency, in.FromAccountID)
	}

	from.Balance[in.Currency] = from.Balance[in.Currency].Sub(in.Amount)
	to.EnsureCurrency(in.Currency)
	to.Balance[in.Currency] = to.Balance[in.Currency].Add(in.Amount)

	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Transfer from %s", in.FromAccountID)
	}

	tx := &domain.Transaction{
		TransactionID:   b.idGen.Generate(),
		Type:            domain.TypeTransferIn,
		Amount:          in.Amount,
		Date:            orToday(in.Date),
		Description:     description,
		Tags:            append([]string(nil), in.Tags...),
		RelatedSource:   in.FromAccountID,
		RelatedCurrency: in.Currency,
		AccountFrom:     in.FromAccountID,
		AccountTo:       in.ToAccountID,
	}
	b.transactions = append(b.transactions, tx)

	b.commit()
	return tx.Clone(), nil
}

// EditTransactionInput describes an in-place edit of a recorded transaction.
// Type and account references are immutable; only amount, date, description,
// tags, and currency can change.
type EditTransactionInput struct {
	TransactionID string
	Currency      string
	Amount        decimal.Decimal
	Description   string
	Tags          []string
	Date          domain.Date
}

// EditTransaction rewrites a transaction using a two-phase revert-then-reapply:
// the numeric effect of the original transaction is undone under its existing
// currency, the record is mutated, and the new values are applied with the
// same formulas as the original operation. Balances are derived state, so a
// direct field patch would corrupt them.
//
// A revert step whose balance entry has since been edited away is skipped;
// the closing full recompute of total_balance bounds any resulting drift.
func (b *Book) EditTransaction(in EditTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateTags(in.Tags); err != nil {
		return nil, err
	}

	tx := b.findTransaction(in.TransactionID)
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, in.TransactionID)
	}

	// Resolve referenced accounts and validate the new currency before any
	// mutation, so a rejection leaves no partial state.
	var acc, from, to *domain.Account
	switch tx.Type {
	case domain.TypeIncome, domain.TypeExpense:
		acc = b.findAccount(tx.AccountID)
		if acc == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, tx.AccountID)
		}
		if !acc.TracksCurrency(in.Currency) {
			return nil, fmt.Errorf("%w: %s on account %s", domain.ErrCurrencyNotTracked, in.Currency, tx.AccountID)
		}
	case domain.TypeTransferIn:
		from = b.findAccount(tx.AccountFrom)
		if from == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, tx.AccountFrom)
		}
		to = b.findAccount(tx.AccountTo)
		if to == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, tx.AccountTo)
		}
		if !from.TracksCurrency(in.Currency) {
			return nil, fmt.Errorf("%w: %s on account %s", domain.ErrCurrencyNotTracked, in.Currency, tx.AccountFrom)
		}
	}

	// Revert phase: undo the original effect under the transaction's
	// existing currency, not the new one.
	oldCurrency := tx.RelatedCurrency
	switch tx.Type {
	case domain.TypeIncome:
		if acc.TracksCurrency(oldCurrency) {
			acc.Balance[oldCurrency] = acc.Balance[oldCurrency].Sub(tx.Amount)
		}
		b.totalIncome = b.totalIncome.Sub(tx.Amount)
	case domain.TypeExpense:
		if acc.TracksCurrency(oldCurrency) {
			acc.Balance[oldCurrency] = acc.Balance[oldCurrency].Add(tx.Amount.Abs())
		}
		b.totalExpense = b.totalExpense.Sub(tx.Amount.Abs())
	case domain.TypeTransferIn:
		if from.TracksCurrency(oldCurrency) {
			from.Balance[oldCurrency] = from.Balance[oldCurrency].Add(tx.Amount)
		}
		if to.TracksCurrency(oldCurrency) {
			to.Balance[oldCurrency] = to.Balance[oldCurrency].Sub(tx.Amount)
		}
	}

	// Mutate the record. Expense amounts keep the negative sign convention.
	if tx.Type == domain.TypeExpense {
		tx.Amount = in.Amount.Neg()
	} else {
		tx.Amount = in.Amount
	}
	tx.Date = orToday(in.Date)
	tx.Description = in.Description
	tx.Tags = append([]string(nil), in.Tags...)
	tx.RelatedCurrency = in.Currency

	// Reapply phase: same formulas as the original operation, under the
	// new currency.
	switch tx.Type {
	case domain.TypeIncome:
		acc.Balance[in.Currency] = acc.Balance[in.Currency].Add(in.Amount)
		b.totalIncome = b.totalIncome.Add(in.Amount)
	case domain.TypeExpense:
		acc.Balance[in.Currency] = acc.Balance[in.Currency].Sub(in.Amount)
		b.totalExpense = b.totalExpense.Add(in.Amount)
	case domain.TypeTransferIn:
		from.Balance[in.Currency] = from.Balance[in.Currency].Sub(in.Amount)
		to.EnsureCurrency(in.Currency)
		to.Balance[in.Currency] = to.Balance[in.Currency].Add(in.Amount)
	}

	// Consistency backstop after the two-phase mutation: recompute the
	// legacy cross-currency sum from scratch instead of incrementally.
	b.recomputeTotalBalance()

	b.commit()
	return tx.Clone(), nil
}

// AddAccountInput describes a new account with its opening balances.
type AddAccountInput struct {
	Name       string
	Group      domain.Group
	Balance    map[string]decimal.Decimal
	Currencies []string
}

// AddAccount registers an account and seeds one hidden "Initial deposit"
// income transaction per opening balance entry, zero amounts included. The
// zero rows are deliberate audit-trail bookkeeping; default transaction
// listings filter hidden rows out.
func (b *Book) AddAccount(in AddAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(in.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateGroup(in.Group); err != nil {
		return nil, err
	}
	for _, code := range in.Currencies {
		if err := domain.ValidateCurrency(code); err != nil {
			return nil, err
		}
	}
	for code := range in.Balance {
		if err := domain.ValidateCurrency(code); err != nil {
			return nil, err
		}
	}

	now := domain.Today()
	acc := &domain.Account{
		ID:        b.idGen.Generate(),
		Name:      in.Name,
		Group:     in.Group,
		Balance:   make(map[string]decimal.Decimal, len(in.Balance)),
		CreatedAt: now.Time(),
		UpdatedAt: now.Time(),
	}
	for _, code := range in.Currencies {
		acc.EnsureCurrency(code)
	}
	for code, amount := range in.Balance {
		acc.EnsureCurrency(code)
		acc.Balance[code] = amount
	}
	b.accounts = append(b.accounts, acc)

	for _, code := range sortedKeys(in.Balance) {
		b.transactions = append(b.transactions, &domain.Transaction{
			TransactionID:   b.idGen.Generate(),
			Type:            domain.TypeIncome,
			Amount:          in.Balance[code],
			Date:            now,
			Description:     "",
			Tags:            []string{"Initial deposit"},
			RelatedCurrency: code,
			AccountID:       acc.ID,
			Hide:            true,
		})
	}

	b.recomputeTotalBalance()

	b.commit()
	return acc.Clone(), nil
}

// EditAccountInput is a partial account update; nil fields are left
// unchanged. Consistency of a replaced balance map with the existing
// transaction history is the caller's responsibility.
type EditAccountInput struct {
	ID         string
	Name       *string
	Group      *domain.Group
	Balance    map[string]decimal.Decimal
	Currencies []string
}

// EditAccount applies a partial update to an account.
func (b *Book) EditAccount(in EditAccountInput) (*domain.Account, error) {
	acc := b.findAccount(in.ID)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, in.ID)
	}

	if in.Name != nil {
		if err := domain.ValidateAccountName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Group != nil {
		if err := domain.ValidateGroup(*in.Group); err != nil {
			return nil, err
		}
	}
	for code := range in.Balance {
		if err := domain.ValidateCurrency(code); err != nil {
			return nil, err
		}
	}
	for _, code := range in.Currencies {
		if err := domain.ValidateCurrency(code); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		acc.Name = *in.Name
	}
	if in.Group != nil {
		acc.Group = *in.Group
	}
	if in.Balance != nil {
		balance := make(map[string]decimal.Decimal, len(in.Balance))
		for code, amount := range in.Balance {
			balance[code] = amount
		}
		acc.Balance = balance
	}
	if in.Currencies != nil {
		acc.Currencies = append([]string(nil), in.Currencies...)
	}
	acc.UpdatedAt = domain.Today().Time()

	b.recomputeTotalBalance()

	b.commit()
	return acc.Clone(), nil
}

// RemoveAll resets the ledger to empty: accounts, transactions, and totals.
// Confirmation is a presentation concern, not handled here.
func (b *Book) RemoveAll() {
	b.accounts = nil
	b.transactions = nil
	b.totalBalance = decimal.Zero
	b.totalIncome = decimal.Zero
	b.totalExpense = decimal.Zero

	b.commit()
}

// Accounts returns copies of all accounts in creation order.
func (b *Book) Accounts() []*domain.Account {
	out := make([]*domain.Account, len(b.accounts))
	for i, acc := range b.accounts {
		out[i] = acc.Clone()
	}
	return out
}

// Account returns a copy of one account.
func (b *Book) Account(id string) (*domain.Account, error) {
	acc := b.findAccount(id)
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}
	return acc.Clone(), nil
}

// Transaction returns a copy of one transaction.
func (b *Book) Transaction(id string) (*domain.Transaction, error) {
	tx := b.findTransaction(id)
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}
	return tx.Clone(), nil
}

// TransactionFilter selects transactions for listing. The zero value lists
// every visible transaction.
type TransactionFilter struct {
	StartDate     domain.Date
	EndDate       domain.Date
	Type          domain.TransactionType
	Skip          int
	Limit         int
	IncludeHidden bool
}

// Transactions lists matching transactions newest-first. Hidden seed rows
// are excluded unless requested; Limit <= 0 means no cap.
func (b *Book) Transactions(f TransactionFilter) []*domain.Transaction {
	var matched []*domain.Transaction
	for i := len(b.transactions) - 1; i >= 0; i-- {
		tx := b.transactions[i]
		if tx.Hide && !f.IncludeHidden {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if !f.StartDate.IsZero() && tx.Date.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && tx.Date.After(f.EndDate) {
			continue
		}
		matched = append(matched, tx)
	}

	if f.Skip > 0 {
		if f.Skip >= len(matched) {
			return nil
		}
		matched = matched[f.Skip:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}

	out := make([]*domain.Transaction, len(matched))
	for i, tx := range matched {
		out[i] = tx.Clone()
	}
	return out
}

func orToday(d domain.Date) domain.Date {
	if d.IsZero() {
		return domain.Today()
	}
	return d
}
