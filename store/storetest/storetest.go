// Package storetest holds behavior tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/store"
	"github.com/xraph/coin/types"
)

// Factory returns a fresh, migrated, empty store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.Store

// Run exercises the store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("Authority", func(t *testing.T) { testAuthority(t, newStore(t)) })
	t.Run("CommitLifecycle", func(t *testing.T) { testCommitLifecycle(t, newStore(t)) })
	t.Run("CommitConflict", func(t *testing.T) { testCommitConflict(t, newStore(t)) })
	t.Run("Paging", func(t *testing.T) { testPaging(t, newStore(t)) })
	t.Run("Ledger", func(t *testing.T) { testLedger(t, newStore(t)) })
}

func genesis(t *testing.T, s store.Store) {
	t.Helper()
	if err := s.InitAuthority(context.Background(), authority.Genesis("alice")); err != nil {
		t.Fatalf("InitAuthority: %v", err)
	}
}

func testAuthority(t *testing.T, s store.Store) {
	ctx := context.Background()

	if _, err := s.GetAuthority(ctx); !errors.Is(err, coin.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized before genesis, got %v", err)
	}

	genesis(t, s)

	if err := s.InitAuthority(ctx, authority.Genesis("mallory")); !errors.Is(err, coin.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}

	auth, err := s.GetAuthority(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if auth.Issuance != 0 || auth.Minter != "alice" || auth.Burner != "alice" {
		t.Errorf("unexpected authority %+v", auth)
	}
}

// transition builds a committed-looking transition; ids and times are unique
// and increasing so newest-first ordering is well defined.
func transition(seq uint64, op journal.Op, acct types.AccountID, prev, next, balance types.Balance, created, killed bool, at time.Time) *journal.Transition {
	amount := next.SaturatingSub(prev)
	if op == journal.OpBurn {
		amount = prev.SaturatingSub(next)
	}
	return &journal.Transition{
		ID:           id.NewTransitionID(),
		Seq:          seq,
		Op:           op,
		Caller:       "alice",
		Account:      acct,
		Requested:    amount,
		Amount:       amount,
		PrevIssuance: prev,
		Issuance:     next,
		Balance:      balance,
		Created:      created,
		Killed:       killed,
		CommittedAt:  at,
	}
}

func testCommitLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	genesis(t, s)
	base := time.Now().UTC().Truncate(time.Millisecond)

	steps := []struct {
		name        string
		t           *journal.Transition
		wantBalance types.Balance
		wantExists  bool
	}{
		{"create", transition(1, journal.OpMint, "bob", 0, 42, 42, true, false, base), 42, true},
		{"top up", transition(2, journal.OpMint, "bob", 42, 50, 50, false, false, base.Add(time.Second)), 50, true},
		{"partial burn", transition(3, journal.OpBurn, "bob", 50, 30, 30, false, false, base.Add(2*time.Second)), 30, true},
		{"kill", transition(4, journal.OpBurn, "bob", 30, 0, 0, false, true, base.Add(3*time.Second)), 0, false},
	}

	for _, step := range steps {
		if err := s.Commit(ctx, step.t); err != nil {
			t.Fatalf("%s: Commit: %v", step.name, err)
		}

		bal, err := s.GetBalance(ctx, "bob")
		if err != nil {
			t.Fatal(err)
		}
		if bal != step.wantBalance {
			t.Errorf("%s: balance = %s, want %s", step.name, bal, step.wantBalance)
		}

		_, err = s.GetAccount(ctx, "bob")
		if step.wantExists && err != nil {
			t.Errorf("%s: GetAccount: %v", step.name, err)
		}
		if !step.wantExists && !errors.Is(err, coin.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", step.name, err)
		}

		auth, err := s.GetAuthority(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if auth.Issuance != step.t.Issuance {
			t.Errorf("%s: issuance = %s, want %s", step.name, auth.Issuance, step.t.Issuance)
		}
		if auth.Seq != step.t.Seq {
			t.Errorf("%s: seq = %d, want %d", step.name, auth.Seq, step.t.Seq)
		}
	}

	history, err := s.ListTransitions(ctx, journal.ListOpts{Account: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != len(steps) {
		t.Fatalf("got %d transitions, want %d", len(history), len(steps))
	}
	newest := history[0]
	if newest.ID.String() != steps[len(steps)-1].t.ID.String() || !newest.Killed || newest.Amount != 30 || newest.Seq != 4 {
		t.Errorf("unexpected newest transition %+v", newest)
	}
	if oldest := history[len(history)-1]; !oldest.Created || oldest.Op != journal.OpMint {
		t.Errorf("unexpected oldest transition %+v", oldest)
	}
}

func testCommitConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	genesis(t, s)
	now := time.Now().UTC()

	if err := s.Commit(ctx, transition(1, journal.OpMint, "bob", 0, 42, 42, true, false, now)); err != nil {
		t.Fatal(err)
	}

	// Validated at genesis, but bob's mint landed first.
	stale := transition(1, journal.OpMint, "carol", 0, 10, 10, true, false, now.Add(time.Second))
	if err := s.Commit(ctx, stale); !errors.Is(err, coin.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Killing bob returns issuance to 0. A transition validated at genesis
	// matches that issuance but must still be refused.
	if err := s.Commit(ctx, transition(2, journal.OpBurn, "bob", 42, 0, 0, false, true, now.Add(2*time.Second))); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx, stale); !errors.Is(err, coin.ErrConflict) {
		t.Fatalf("expected ErrConflict after issuance returned to its old value, got %v", err)
	}

	bal, err := s.GetBalance(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if bal != 0 {
		t.Errorf("carol = %s after rejected commit", bal)
	}
	auth, err := s.GetAuthority(ctx)
	if err != nil {
		t.Fatalf("GetAuthority: %v", err)
	}
	if auth.Issuance != 0 || auth.Seq != 2 {
		t.Errorf("authority issuance=%s seq=%d, want 0 and 2", auth.Issuance, auth.Seq)
	}
	history, err := s.ListTransitions(ctx, journal.ListOpts{})
	if err != nil {
		t.Fatalf("ListTransitions: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("got %d transitions, want 2", len(history))
	}
}

func testPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	genesis(t, s)
	now := time.Now().UTC()

	var issuance types.Balance
	for i, acct := range []types.AccountID{"dave", "bob", "erin", "carol"} {
		next := issuance + 10
		if err := s.Commit(ctx, transition(uint64(i+1), journal.OpMint, acct, issuance, next, 10, true, false, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
		issuance = next
	}

	n, err := s.CountAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("CountAccounts = %d, want 4", n)
	}

	page, err := s.ListAccounts(ctx, account.ListOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != "carol" || page[1].ID != "dave" {
		t.Errorf("unexpected page %v", page)
	}

	recent, err := s.ListTransitions(ctx, journal.ListOpts{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Account != "carol" {
		t.Errorf("unexpected newest transition %v", recent)
	}
}

// testLedger runs the engine end to end on the store.
func testLedger(t *testing.T, s store.Store) {
	ctx := context.Background()
	l := coin.New(s, coin.WithMinBalance(10))

	if err := l.Initialize(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := l.Mint(ctx, "alice", "bob", 42); err != nil {
		t.Fatal(err)
	}
	if err := l.Mint(ctx, "alice", "carol", 15); err != nil {
		t.Fatal(err)
	}
	if err := l.Burn(ctx, "alice", "bob", 35, false); !errors.Is(err, coin.ErrBelowMinBalance) {
		t.Fatalf("expected ErrBelowMinBalance, got %v", err)
	}
	if err := l.Burn(ctx, "alice", "bob", 35, true); err != nil {
		t.Fatal(err)
	}
	if err := l.Mint(ctx, "alice", "carol", types.MaxBalance); !errors.Is(err, coin.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}

	issuance, err := l.TotalIssuance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if issuance != 15 {
		t.Errorf("issuance = %s, want 15", issuance)
	}
	if err := l.Verify(ctx); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
