package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies how a transaction affects balances.
type TransactionType string

const (
	TypeIncome     TransactionType = "income"
	TypeExpense    TransactionType = "expense"
	TypeTransferIn TransactionType = "transfer_in"
)

var validTransactionTypes = map[TransactionType]bool{
	TypeIncome:     true,
	TypeExpense:    true,
	TypeTransferIn: true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// Transaction is one ledger log entry. Sign convention: income and the
// inbound leg of a transfer are stored positive, expenses negative.
//
// AccountID is set for income/expense, AccountFrom/AccountTo for transfers.
// Hide marks system-seeded opening-balance rows that default transaction
// lists filter out.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	Type            TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            Date            `json:"date"`
	Description     string          `json:"description"`
	Tags            []string        `json:"tags"`
	RelatedSource   string          `json:"related_source,omitempty"`
	RelatedCurrency string          `json:"related_currency"`
	AccountID       string          `json:"account_id,omitempty"`
	AccountFrom     string          `json:"account_from,omitempty"`
	AccountTo       string          `json:"account_to,omitempty"`
	Hide            bool            `json:"hide,omitempty"`
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	return &cp
}

// Magnitude returns the absolute transaction amount, the value tracked by
// the income/expense running totals.
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

const dateLayout = "2006-01-02"

// Date is a day-granularity calendar date. It marshals as "YYYY-MM-DD",
// the wire format transactions are recorded and filtered with.
type Date struct {
	t time.Time
}

// DateOf truncates t to day granularity in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// Time returns the underlying midnight-UTC time.
func (d Date) Time() time.Time { return d.t }

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d falls after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether the two dates name the same day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return ErrInvalidDate
	}
	*d = parsed
	return nil
}
