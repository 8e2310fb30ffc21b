package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/coin"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/store"
	"github.com/xraph/coin/store/sqlite"
	"github.com/xraph/coin/store/storetest"
)

// newStore opens a migrated store on a fresh database file.
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	drv := sqlitedriver.New()
	if err := drv.Open(ctx, filepath.Join(t.TempDir(), "coin.db")); err != nil {
		t.Fatal(err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}

	s := sqlite.New(db)
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newStore(t)
	})
}

func TestMigrateTwice(t *testing.T) {
	s := newStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestTimestampsRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := coin.New(newStore(t), coin.WithMinBalance(10))

	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := l.Initialize(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := l.Mint(ctx, "alice", "bob", 42); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := l.Burn(ctx, "alice", "bob", 2, false); err != nil {
		t.Fatalf("Burn: %v", err)
	}

	auth, err := l.Authority(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if auth.CreatedAt.IsZero() || auth.UpdatedAt.Before(auth.CreatedAt) {
		t.Errorf("authority timestamps created=%v updated=%v", auth.CreatedAt, auth.UpdatedAt)
	}
	if auth.Seq != 2 {
		t.Errorf("seq = %d, want 2", auth.Seq)
	}

	history, err := l.History(ctx, journal.ListOpts{Account: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Op != journal.OpBurn || history[0].CommittedAt.IsZero() {
		t.Errorf("unexpected history %+v", history)
	}
	if err := l.Verify(ctx); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
