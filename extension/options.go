package extension

import (
	"time"

	"github.com/xraph/coin"
	"github.com/xraph/coin/plugin"
	"github.com/xraph/coin/store"
)

// Option configures the coin Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a coin.Option through to the underlying engine.
func WithLedgerOption(opt coin.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, coin.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithMinBalance sets the minimum balance an account may hold.
func WithMinBalance(minBalance uint64) Option {
	return func(e *Extension) { e.config.MinBalance = minBalance }
}

// WithAdmin initializes the ledger on start with admin as minter and burner.
func WithAdmin(admin string) Option {
	return func(e *Extension) { e.config.Admin = admin }
}

// WithPluginTimeout bounds a single plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}
