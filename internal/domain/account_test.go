package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_TracksCurrency(t *testing.T) {
	acc := &Account{
		Balance: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(100),
			"EUR": decimal.Zero,
		},
	}

	tests := []struct {
		code string
		want bool
	}{
		{"USD", true},
		{"EUR", true}, // zero entry still counts as tracked
		{"GBP", false},
	}

	for _, tt := range tests {
		if got := acc.TracksCurrency(tt.code); got != tt.want {
			t.Errorf("TracksCurrency(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestAccount_EnsureCurrency(t *testing.T) {
	acc := &Account{
		Balance:    map[string]decimal.Decimal{"USD": decimal.NewFromInt(50)},
		Currencies: []string{"USD"},
	}

	acc.EnsureCurrency("EUR")

	if !acc.TracksCurrency("EUR") {
		t.Fatal("expected EUR balance entry after EnsureCurrency")
	}
	if !acc.Balance["EUR"].IsZero() {
		t.Errorf("expected zero EUR balance, got %s", acc.Balance["EUR"])
	}
	if len(acc.Currencies) != 2 || acc.Currencies[1] != "EUR" {
		t.Errorf("expected currencies [USD EUR], got %v", acc.Currencies)
	}

	// Idempotent: ensuring an existing currency changes nothing.
	acc.EnsureCurrency("USD")
	if !acc.Balance["USD"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected USD balance unchanged, got %s", acc.Balance["USD"])
	}
	if len(acc.Currencies) != 2 {
		t.Errorf("expected 2 currencies, got %v", acc.Currencies)
	}
}

func TestAccount_BalanceTotal(t *testing.T) {
	acc := &Account{
		Balance: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(100),
			"EUR": decimal.NewFromInt(-30),
		},
	}

	expected := decimal.NewFromInt(70)
	if got := acc.BalanceTotal(); !got.Equal(expected) {
		t.Errorf("expected total %s, got %s", expected, got)
	}
}

func TestAccount_Clone(t *testing.T) {
	acc := &Account{
		ID:         "acc-1",
		Balance:    map[string]decimal.Decimal{"USD": decimal.NewFromInt(100)},
		Currencies: []string{"USD"},
	}

	cp := acc.Clone()
	cp.Balance["USD"] = decimal.Zero
	cp.Currencies[0] = "EUR"

	if !acc.Balance["USD"].Equal(decimal.NewFromInt(100)) {
		t.Error("mutating a clone's balance map leaked into the original")
	}
	if acc.Currencies[0] != "USD" {
		t.Error("mutating a clone's currencies leaked into the original")
	}
}
