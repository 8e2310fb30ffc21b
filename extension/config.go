package extension

import "time"

// Config holds the coin extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.coin" or "coin" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// MinBalance is the minimum balance an account may hold (default: 1).
	MinBalance uint64 `json:"min_balance" mapstructure:"min_balance" yaml:"min_balance"`

	// Admin, when set, initializes the ledger on start with this account as
	// minter and burner. An already initialized ledger is left as is.
	Admin string `json:"admin" mapstructure:"admin" yaml:"admin"`

	// PluginTimeout bounds a single plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinBalance:    1,
		PluginTimeout: 5 * time.Second,
	}
}
