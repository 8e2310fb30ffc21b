package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/coin/id"
)

func TestConstructors(t *testing.T) {
	if got := id.NewTransitionID().String(); !strings.HasPrefix(got, "txn_") {
		t.Errorf("expected txn_ prefix, got %q", got)
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixTransition)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixTransition {
		t.Errorf("expected prefix %q, got %q", id.PrefixTransition, i.Prefix())
	}
}

func TestParseTransitionIDRoundTrip(t *testing.T) {
	original := id.NewTransitionID()
	parsed, err := id.ParseTransitionID(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestCrossTypeRejection(t *testing.T) {
	other := id.New("acct").String()
	if _, err := id.ParseTransitionID(other); err == nil {
		t.Error("expected ParseTransitionID to reject an acct_ id")
	}
	if _, err := id.ParseWithPrefix(id.NewTransitionID().String(), "acct"); err == nil {
		t.Error("expected ParseWithPrefix to reject a txn_ id as acct")
	}
	if _, err := id.ParseTransitionID("txn_not-a-typeid"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.NewTransitionID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if unmarshalErr := restored.UnmarshalText(data); unmarshalErr != nil {
		t.Fatalf("UnmarshalText failed: %v", unmarshalErr)
	}
	if restored.String() != original.String() {
		t.Errorf("mismatch: %q != %q", restored.String(), original.String())
	}

	var nilID id.ID
	data, err = nilID.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText(nil) failed: %v", err)
	}
	var restored2 id.ID
	if err := restored2.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText(nil) failed: %v", err)
	}
	if !restored2.IsNil() {
		t.Error("expected nil after round-trip of nil ID")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewTransitionID()
	b := id.NewTransitionID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewTransitionID() calls returned the same ID: %q", a.String())
	}
}
