package plugin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/coin/event"
	"github.com/xraph/coin/plugin"
)

// blockingSink waits on its context and reports the cause once it ends.
type blockingSink struct {
	ended chan error
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) OnEvent(ctx context.Context, _ event.Event) error {
	<-ctx.Done()
	s.ended <- ctx.Err()
	return ctx.Err()
}

// orderedSink records the events it sees.
type orderedSink struct {
	seen []event.Event
}

func (s *orderedSink) Name() string { return "ordered" }

func (s *orderedSink) OnEvent(_ context.Context, e event.Event) error {
	s.seen = append(s.seen, e)
	return nil
}

func TestHookContextCancelledAtTimeout(t *testing.T) {
	r := plugin.NewRegistry().WithTimeout(20 * time.Millisecond)
	slow := &blockingSink{ended: make(chan error, 1)}
	if err := r.Register(slow); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	r.Emit(context.Background(), event.Created{Account: "bob"})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Emit blocked for %v", elapsed)
	}

	select {
	case err := <-slow.ended:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("hook context ended with %v, want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hook context was never cancelled")
	}
}

func TestEmitOrder(t *testing.T) {
	r := plugin.NewRegistry()
	sink := &orderedSink{}
	if err := r.Register(sink); err != nil {
		t.Fatal(err)
	}

	want := []event.Event{
		event.Created{Account: "bob"},
		event.Minted{Account: "bob", Amount: 42},
		event.Killed{Account: "bob"},
		event.Burned{Account: "bob", Amount: 42},
	}
	for _, e := range want {
		r.Emit(context.Background(), e)
	}

	if len(sink.seen) != len(want) {
		t.Fatalf("got %d events, want %d", len(sink.seen), len(want))
	}
	for i := range want {
		if sink.seen[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, sink.seen[i], want[i])
		}
	}
}

func TestDuplicateRegistration(t *testing.T) {
	r := plugin.NewRegistry()
	if err := r.Register(&orderedSink{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&orderedSink{}); err == nil {
		t.Error("expected error for duplicate plugin name")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}
