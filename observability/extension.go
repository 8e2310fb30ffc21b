// Package observability provides a metrics extension for the coin ledger that
// records event counts and amounts via a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/coin/event"
	"github.com/xraph/coin/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin           = (*MetricsExtension)(nil)
	_ plugin.OnInit           = (*MetricsExtension)(nil)
	_ plugin.OnAccountCreated = (*MetricsExtension)(nil)
	_ plugin.OnAccountKilled  = (*MetricsExtension)(nil)
	_ plugin.OnMinted         = (*MetricsExtension)(nil)
	_ plugin.OnBurned         = (*MetricsExtension)(nil)
	_ plugin.OnRejected       = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger metrics.
// Register it as a Ledger plugin to track issuance automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Account metrics
	AccountCreated Counter
	AccountKilled  Counter

	// Issuance metrics
	Minted       Counter
	Burned       Counter
	MintedAmount Histogram
	BurnedAmount Histogram

	// Rejections, by op
	Rejected     Counter
	MintRejected Counter
	BurnRejected Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		AccountCreated: factory.Counter("coin.account.created"),
		AccountKilled:  factory.Counter("coin.account.killed"),

		Minted:       factory.Counter("coin.minted"),
		Burned:       factory.Counter("coin.burned"),
		MintedAmount: factory.Histogram("coin.minted.amount"),
		BurnedAmount: factory.Histogram("coin.burned.amount"),

		Rejected:     factory.Counter("coin.rejected"),
		MintRejected: factory.Counter("coin.mint.rejected"),
		BurnRejected: factory.Counter("coin.burn.rejected"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnAccountCreated implements plugin.OnAccountCreated.
func (m *MetricsExtension) OnAccountCreated(_ context.Context, _ event.Created) error {
	m.AccountCreated.Inc()
	return nil
}

// OnAccountKilled implements plugin.OnAccountKilled.
func (m *MetricsExtension) OnAccountKilled(_ context.Context, _ event.Killed) error {
	m.AccountKilled.Inc()
	return nil
}

// OnMinted implements plugin.OnMinted.
func (m *MetricsExtension) OnMinted(_ context.Context, e event.Minted) error {
	m.Minted.Inc()
	m.MintedAmount.Observe(float64(e.Amount))
	return nil
}

// OnBurned implements plugin.OnBurned.
func (m *MetricsExtension) OnBurned(_ context.Context, e event.Burned) error {
	m.Burned.Inc()
	m.BurnedAmount.Observe(float64(e.Amount))
	return nil
}

// OnRejected implements plugin.OnRejected.
func (m *MetricsExtension) OnRejected(_ context.Context, op string, _ error) error {
	m.Rejected.Inc()
	switch op {
	case "mint":
		m.MintRejected.Inc()
	case "burn":
		m.BurnRejected.Inc()
	}
	return nil
}
