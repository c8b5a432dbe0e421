package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{"2024-03-15", false},
		{"2024-3-15", true},
		{"15/03/2024", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseDate(tt.input)
		if tt.expectError && err == nil {
			t.Errorf("ParseDate(%q): expected error, got nil", tt.input)
		}
		if !tt.expectError && err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tt.input, err)
		}
	}
}

func TestDateOf_TruncatesToDay(t *testing.T) {
	d := DateOf(time.Date(2024, 3, 15, 23, 45, 12, 0, time.UTC))
	if d.String() != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %s", d)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-12-31"` {
		t.Errorf("expected \"2024-12-31\", got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Error("expected error for invalid date string")
	}
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Error("expected error for non-string date")
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	for _, valid := range []TransactionType{TypeIncome, TypeExpense, TypeTransferIn} {
		if !valid.IsValid() {
			t.Errorf("expected %q to be valid", valid)
		}
	}
	if TransactionType("transfer_out").IsValid() {
		t.Error("expected transfer_out to be invalid")
	}
}
