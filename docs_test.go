package coin_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/xraph/coin"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/store/memory"
	"github.com/xraph/coin/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from package docs
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		l := coin.New(store,
			coin.WithLogger(slog.Default()),
			coin.WithMinBalance(10),
		)

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Genesis: alice becomes minter and burner
		if err := l.Initialize(ctx, "alice"); err != nil {
			t.Fatal(err)
		}

		if err := l.Mint(ctx, "alice", "bob", 42); err != nil {
			t.Fatal(err)
		}

		// Sweeps all 42 and removes bob
		if err := l.Burn(ctx, "alice", "bob", 35, true); err != nil {
			t.Fatal(err)
		}

		issuance, err := l.TotalIssuance(ctx)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("issuance: %s\n", issuance)

		history, err := l.History(ctx, journal.ListOpts{Account: "bob"})
		if err != nil {
			t.Fatal(err)
		}
		for _, tr := range history {
			log.Printf("%s %s %s\n", tr.Op, tr.Account, tr.Amount)
		}
	})

	// Test Balance type examples
	t.Run("BalanceExamples", func(t *testing.T) {
		var b types.Balance = 100

		if _, ok := b.CheckedAdd(coin.MaxBalance); ok {
			t.Error("expected overflow")
		}
		_ = b.SaturatingSub(200) // 0

		parsed, err := coin.ParseBalance("42")
		if err != nil {
			t.Fatal(err)
		}
		_ = parsed.String() // "42"
	})
}
