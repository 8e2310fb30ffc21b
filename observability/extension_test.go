package observability_test

import (
	"context"
	"sync"
	"testing"

	"github.com/xraph/coin"
	"github.com/xraph/coin/observability"
	"github.com/xraph/coin/store/memory"
)

type fakeMetric struct {
	mu       sync.Mutex
	count    float64
	observed []float64
}

func (f *fakeMetric) Inc() { f.Add(1) }

func (f *fakeMetric) Add(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count += v
}

func (f *fakeMetric) Observe(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observed = append(f.observed, v)
}

type fakeFactory struct {
	metrics map[string]*fakeMetric
}

func (f *fakeFactory) get(name string) *fakeMetric {
	if m, ok := f.metrics[name]; ok {
		return m
	}
	m := &fakeMetric{}
	f.metrics[name] = m
	return m
}

func (f *fakeFactory) Counter(name string) observability.Counter     { return f.get(name) }
func (f *fakeFactory) Histogram(name string) observability.Histogram { return f.get(name) }

func TestMetricsExtension(t *testing.T) {
	ctx := context.Background()
	factory := &fakeFactory{metrics: make(map[string]*fakeMetric)}

	l := coin.New(memory.New(),
		coin.WithMinBalance(10),
		coin.WithPlugin(observability.NewMetricsExtension(factory)),
	)
	if err := l.Initialize(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	_ = l.Mint(ctx, "alice", "bob", 42)
	_ = l.Mint(ctx, "alice", "carol", 20)
	_ = l.Mint(ctx, "alice", "bob", 1)
	_ = l.Burn(ctx, "alice", "bob", 35, true)
	_ = l.Burn(ctx, "alice", "dave", 10, true)

	counters := []struct {
		name string
		want float64
	}{
		{"coin.minted", 2},
		{"coin.burned", 1},
		{"coin.account.created", 2},
		{"coin.account.killed", 1},
		{"coin.rejected", 2},
		{"coin.mint.rejected", 1},
		{"coin.burn.rejected", 1},
	}
	for _, c := range counters {
		t.Run(c.name, func(t *testing.T) {
			if got := factory.get(c.name).count; got != c.want {
				t.Errorf("%s = %v, want %v", c.name, got, c.want)
			}
		})
	}

	if got := factory.get("coin.minted.amount").observed; len(got) != 2 || got[0] != 42 || got[1] != 20 {
		t.Errorf("minted amounts = %v", got)
	}
	if got := factory.get("coin.burned.amount").observed; len(got) != 1 || got[0] != 42 {
		t.Errorf("burned amounts = %v", got)
	}
}
