package types

import (
	"encoding/json"
	"testing"
)

func TestBalanceCheckedArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		op     func() (Balance, bool)
		want   Balance
		wantOK bool
	}{
		{"Add", func() (Balance, bool) { return Balance(40).CheckedAdd(2) }, 42, true},
		{"Add to max", func() (Balance, bool) { return (MaxBalance - 1).CheckedAdd(1) }, MaxBalance, true},
		{"Add overflow", func() (Balance, bool) { return MaxBalance.CheckedAdd(1) }, Zero, false},
		{"Sub", func() (Balance, bool) { return Balance(42).CheckedSub(35) }, 7, true},
		{"Sub to zero", func() (Balance, bool) { return Balance(42).CheckedSub(42) }, Zero, true},
		{"Sub underflow", func() (Balance, bool) { return Balance(7).CheckedSub(8) }, Zero, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.op()
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("value: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBalanceSaturatingArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Balance
		expected Balance
	}{
		{"Add", Balance(40).SaturatingAdd(2), 42},
		{"Add clamps at max", (MaxBalance - 5).SaturatingAdd(10), MaxBalance},
		{"Sub", Balance(42).SaturatingSub(35), 7},
		{"Sub clamps at zero", Balance(7).SaturatingSub(35), Zero},
		{"Sub max from max", MaxBalance.SaturatingSub(MaxBalance), Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %s, want %s", tt.got, tt.expected)
			}
		})
	}
}

func TestBalanceComparisons(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("zero should be zero")
	}
	if Balance(1).IsZero() {
		t.Error("one should not be zero")
	}
	if got := Balance(3).Max(9); got != 9 {
		t.Errorf("Max: got %s", got)
	}
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		in      string
		want    Balance
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"18446744073709551615", MaxBalance, false},
		{"18446744073709551616", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"4.2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBalance(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBalanceJSONUsesDecimalString(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount Balance `json:"amount"`
	}{Amount: MaxBalance})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"amount":"18446744073709551615"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded struct {
		Amount Balance `json:"amount"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Amount != MaxBalance {
		t.Errorf("decoded %s", decoded.Amount)
	}
}

func TestSum(t *testing.T) {
	if got, ok := Sum(1, 2, 39); !ok || got != 42 {
		t.Errorf("Sum: got %s, %v", got, ok)
	}
	if got, ok := Sum(); !ok || got != 0 {
		t.Errorf("empty Sum: got %s, %v", got, ok)
	}
	if _, ok := Sum(MaxBalance, 1); ok {
		t.Error("expected overflow")
	}
}
