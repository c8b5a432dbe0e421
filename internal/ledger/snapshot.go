package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/moneyfye/moneyfye/internal/domain"
)

// Snapshot is the full persisted ledger state. It round-trips losslessly
// through JSON: same ids, same field values, same ordering.
type Snapshot struct {
	Accounts     []*domain.Account     `json:"accounts"`
	Transactions []*domain.Transaction `json:"transactions"`
	TotalBalance decimal.Decimal       `json:"total_balance"`
	TotalIncome  decimal.Decimal       `json:"total_income"`
	TotalExpense decimal.Decimal       `json:"total_expenses"`
}

// Snapshot returns a deep copy of the current state.
func (b *Book) Snapshot() *Snapshot {
	snap := &Snapshot{
		Accounts:     make([]*domain.Account, len(b.accounts)),
		Transactions: make([]*domain.Transaction, len(b.transactions)),
		TotalBalance: b.totalBalance,
		TotalIncome:  b.totalIncome,
		TotalExpense: b.totalExpense,
	}
	for i, acc := range b.accounts {
		snap.Accounts[i] = acc.Clone()
	}
	for i, tx := range b.transactions {
		snap.Transactions[i] = tx.Clone()
	}
	return snap
}

// Restore replaces the book's state with a deep copy of snap. Subscribers
// are not notified: restoring is loading persisted state, not a mutation.
func (b *Book) Restore(snap *Snapshot) {
	b.accounts = make([]*domain.Account, len(snap.Accounts))
	b.transactions = make([]*domain.Transaction, len(snap.Transactions))
	for i, acc := range snap.Accounts {
		b.accounts[i] = acc.Clone()
	}
	for i, tx := range snap.Transactions {
		b.transactions[i] = tx.Clone()
	}
	b.totalBalance = snap.TotalBalance
	b.totalIncome = snap.TotalIncome
	b.totalExpense = snap.TotalExpense
}

// Marshal serializes the snapshot to its persisted JSON form.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot parses a persisted snapshot blob.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	if snap.Accounts == nil {
		snap.Accounts = []*domain.Account{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []*domain.Transaction{}
	}
	return snap, nil
}

// ExportDocument is the downloadable {accounts, transactions} document: the
// human-inspectable full-state export, without the legacy scalars.
type ExportDocument struct {
	Accounts     []*domain.Account     `json:"accounts"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// Export builds the downloadable document from the current state.
func (b *Book) Export() *ExportDocument {
	snap := b.Snapshot()
	return &ExportDocument{
		Accounts:     snap.Accounts,
		Transactions: snap.Transactions,
	}
}
