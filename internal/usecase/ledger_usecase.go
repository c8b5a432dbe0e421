package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/infrastructure/metrics"
	"github.com/moneyfye/moneyfye/internal/ledger"
)

// LedgerUseCase orchestrates per-owner ledger books: lazy loading from the
// snapshot store, serialized mutations, background persistence and report
// caching. One book per owner, kept in memory for the lifetime of the
// process.
type LedgerUseCase struct {
	store    SnapshotStore
	cache    Cache
	idGen    IDGenerator
	saverCfg SaverConfig
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu    sync.Mutex
	books map[string]*bookEntry
}

// bookEntry pairs a loaded book with its saver. The entry mutex serializes
// every operation touching the book; Book itself is not goroutine-safe.
type bookEntry struct {
	mu    sync.Mutex
	book  *ledger.Book
	saver *saver
}

// NewLedgerUseCase creates a new LedgerUseCase. Metrics may be nil.
func NewLedgerUseCase(store SnapshotStore, cache Cache, idGen IDGenerator, saverCfg SaverConfig, m *metrics.Metrics, logger zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		store:    store,
		cache:    cache,
		idGen:    idGen,
		saverCfg: saverCfg,
		metrics:  m,
		logger:   logger,
		books:    make(map[string]*bookEntry),
	}
}

// recordMutation counts an applied or rejected ledger mutation.
func (uc *LedgerUseCase) recordMutation(txType string, err error) {
	if uc.metrics == nil {
		return
	}
	if err != nil {
		uc.metrics.MutationRejections.WithLabelValues(rejectReason(err)).Inc()
		return
	}
	uc.metrics.TransactionsRecorded.WithLabelValues(txType).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, domain.ErrCurrencyNotTracked):
		return "currency_not_tracked"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_amount"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	default:
		return "validation"
	}
}

// entry returns the owner's book, loading it from the snapshot store on
// first access. A missing snapshot means a brand-new owner and yields an
// empty book.
func (uc *LedgerUseCase) entry(ctx context.Context, ownerID string) (*bookEntry, error) {
	uc.mu.Lock()
	if e, ok := uc.books[ownerID]; ok {
		uc.mu.Unlock()
		return e, nil
	}
	uc.mu.Unlock()

	book := ledger.NewBook(uc.idGen)
	data, err := uc.store.Load(ctx, ownerID)
	switch {
	case err == nil:
		snap, err := ledger.UnmarshalSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot for owner %s: %w", ownerID, err)
		}
		book.Restore(snap)
	case errors.Is(err, ErrSnapshotNotFound):
	default:
		return nil, fmt.Errorf("load snapshot for owner %s: %w", ownerID, err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if e, ok := uc.books[ownerID]; ok {
		// Lost the load race; the first entry wins.
		return e, nil
	}

	e := &bookEntry{
		book:  book,
		saver: newSaver(uc.store, ownerID, uc.saverCfg, uc.metrics, uc.logger),
	}
	if uc.metrics != nil {
		uc.metrics.BooksLoaded.Inc()
	}
	book.Subscribe(func(snap *ledger.Snapshot) {
		data, err := snap.Marshal()
		if err != nil {
			uc.logger.Error().Err(err).Str("owner_id", ownerID).Msg("snapshot marshal failed")
			return
		}
		e.saver.enqueue(data)
	})
	uc.books[ownerID] = e
	return e, nil
}

// AddIncome records an income transaction for the owner.
func (uc *LedgerUseCase) AddIncome(ctx context.Context, ownerID string, in ledger.AddIncomeInput) (*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.book.AddIncome(in)
	uc.recordMutation(string(domain.TypeIncome), err)
	return tx, err
}

// AddExpense records an expense transaction for the owner.
func (uc *LedgerUseCase) AddExpense(ctx context.Context, ownerID string, in ledger.AddExpenseInput) (*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.book.AddExpense(in)
	uc.recordMutation(string(domain.TypeExpense), err)
	return tx, err
}

// Transfer moves money between two of the owner's accounts.
func (uc *LedgerUseCase) Transfer(ctx context.Context, ownerID string, in ledger.TransferInput) (*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.book.Transfer(in)
	uc.recordMutation(string(domain.TypeTransferIn), err)
	return tx, err
}

// EditTransaction rewrites a recorded transaction and rebalances the book.
func (uc *LedgerUseCase) EditTransaction(ctx context.Context, ownerID string, in ledger.EditTransactionInput) (*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.book.EditTransaction(in)
	if uc.metrics != nil {
		if err != nil {
			uc.metrics.MutationRejections.WithLabelValues(rejectReason(err)).Inc()
		} else {
			uc.metrics.TransactionsEdited.Inc()
		}
	}
	return tx, err
}

// AddAccount creates an account, seeding opening balances as hidden rows.
func (uc *LedgerUseCase) AddAccount(ctx context.Context, ownerID string, in ledger.AddAccountInput) (*domain.Account, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	account, err := e.book.AddAccount(in)
	if err == nil && uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}
	return account, err
}

// EditAccount applies a partial update to an account.
func (uc *LedgerUseCase) EditAccount(ctx context.Context, ownerID string, in ledger.EditAccountInput) (*domain.Account, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.EditAccount(in)
}

// RemoveAll wipes the owner's accounts and transactions. The emptied state
// is persisted like any other mutation, so a reload sees a clean book.
func (uc *LedgerUseCase) RemoveAll(ctx context.Context, ownerID string) error {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book.RemoveAll()
	return nil
}

// Accounts lists the owner's accounts.
func (uc *LedgerUseCase) Accounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Accounts(), nil
}

// Account returns one of the owner's accounts by ID.
func (uc *LedgerUseCase) Account(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Account(accountID)
}

// Transaction returns one of the owner's transactions by ID.
func (uc *LedgerUseCase) Transaction(ctx context.Context, ownerID, txID string) (*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Transaction(txID)
}

// Transactions lists the owner's transactions, newest first.
func (uc *LedgerUseCase) Transactions(ctx context.Context, ownerID string, f ledger.TransactionFilter) ([]*domain.Transaction, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Transactions(f), nil
}

// Totals returns the legacy scalar aggregates.
func (uc *LedgerUseCase) Totals(ctx context.Context, ownerID string) (ledger.Totals, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return ledger.Totals{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Totals(), nil
}

// TotalsByCurrency returns net holdings grouped by currency code.
func (uc *LedgerUseCase) TotalsByCurrency(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.TotalsByCurrency(), nil
}

// MonthlyReport aggregates a calendar year into twelve per-currency rows.
// Results are cached keyed by book revision, so any mutation naturally
// invalidates prior entries without explicit busting.
func (uc *LedgerUseCase) MonthlyReport(ctx context.Context, ownerID string, year int) ([]ledger.MonthRow, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	rev := e.book.Revision()
	e.mu.Unlock()

	key := fmt.Sprintf("report:%s:%d:%d", ownerID, rev, year)
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
			var rows []ledger.MonthRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				if uc.metrics != nil {
					uc.metrics.ReportRequests.WithLabelValues("hit").Inc()
				}
				return rows, nil
			}
		}
	}
	if uc.metrics != nil {
		uc.metrics.ReportRequests.WithLabelValues("miss").Inc()
	}

	e.mu.Lock()
	rows := e.book.MonthlyReport(year)
	e.mu.Unlock()

	if uc.cache != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := uc.cache.Set(ctx, key, string(data), ReportCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("key", key).Msg("report cache write failed")
			}
		}
	}
	return rows, nil
}

// Export returns the owner's full state as a portable document.
func (uc *LedgerUseCase) Export(ctx context.Context, ownerID string) (*ledger.ExportDocument, error) {
	e, err := uc.entry(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Export(), nil
}

// DeleteData wipes the owner's book and removes the persisted snapshot.
func (uc *LedgerUseCase) DeleteData(ctx context.Context, ownerID string) error {
	if err := uc.RemoveAll(ctx, ownerID); err != nil {
		return err
	}
	if err := uc.store.Delete(ctx, ownerID); err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return fmt.Errorf("delete snapshot for owner %s: %w", ownerID, err)
	}
	return nil
}

// Close flushes pending snapshot writes for every loaded book.
func (uc *LedgerUseCase) Close() {
	uc.mu.Lock()
	entries := make([]*bookEntry, 0, len(uc.books))
	for _, e := range uc.books {
		entries = append(entries, e)
	}
	uc.mu.Unlock()

	for _, e := range entries {
		e.saver.close()
	}
}
