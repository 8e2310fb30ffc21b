package audithook_test

import (
	"context"
	"sync"
	"testing"

	"github.com/xraph/coin"
	audithook "github.com/xraph/coin/audit_hook"
	"github.com/xraph/coin/store/memory"
)

type memRecorder struct {
	mu     sync.Mutex
	events []*audithook.AuditEvent
}

func (r *memRecorder) Record(_ context.Context, e *audithook.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *memRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

func newLedger(t *testing.T, ext *audithook.Extension) *coin.Ledger {
	t.Helper()
	l := coin.New(memory.New(), coin.WithMinBalance(10), coin.WithPlugin(ext))
	if err := l.Initialize(context.Background(), "alice"); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestExtensionRecordsLedgerEvents(t *testing.T) {
	ctx := context.Background()
	rec := &memRecorder{}
	l := newLedger(t, audithook.New(rec))

	_ = l.Mint(ctx, "alice", "bob", 42)
	_ = l.Mint(ctx, "carol", "bob", 42)
	_ = l.Burn(ctx, "alice", "bob", 35, true)

	want := []string{
		audithook.ActionAccountCreated,
		audithook.ActionMinted,
		audithook.ActionRejected,
		audithook.ActionAccountKilled,
		audithook.ActionBurned,
	}
	got := rec.actions()
	if len(got) != len(want) {
		t.Fatalf("got actions %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %s, want %s", i, got[i], want[i])
		}
	}

	rejected := rec.events[2]
	if rejected.Outcome != audithook.OutcomeFailure || rejected.Category != audithook.CategoryAccess {
		t.Errorf("unexpected rejection event %+v", rejected)
	}
	if rejected.Reason != coin.ErrNoPermission.Error() {
		t.Errorf("reason = %q", rejected.Reason)
	}

	burned := rec.events[4]
	if burned.ResourceID != "bob" || burned.Metadata["amount"] != "42" {
		t.Errorf("unexpected burn event %+v", burned)
	}
}

func TestExtensionActionFilters(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		opt  audithook.Option
		want []string
	}{
		{
			name: "enabled only",
			opt:  audithook.WithEnabledActions(audithook.ActionMinted),
			want: []string{audithook.ActionMinted},
		},
		{
			name: "disabled",
			opt:  audithook.WithDisabledActions(audithook.ActionAccountCreated),
			want: []string{audithook.ActionMinted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &memRecorder{}
			l := newLedger(t, audithook.New(rec, tt.opt))

			if err := l.Mint(ctx, "alice", "bob", 42); err != nil {
				t.Fatal(err)
			}

			got := rec.actions()
			if len(got) != len(tt.want) || got[0] != tt.want[0] {
				t.Errorf("got actions %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecorderFunc(t *testing.T) {
	var called bool
	r := audithook.RecorderFunc(func(_ context.Context, e *audithook.AuditEvent) error {
		called = e.Action == audithook.ActionMinted
		return nil
	})
	if err := r.Record(context.Background(), &audithook.AuditEvent{Action: audithook.ActionMinted}); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("RecorderFunc was not invoked")
	}
}
