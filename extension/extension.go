// Package extension provides the Forge extension adapter for the coin ledger.
//
// It implements the forge.Extension interface to integrate the ledger
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.coin" or "coin" keys.
package extension

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/coin"
	"github.com/xraph/coin/store"
	"github.com/xraph/coin/store/memory"
	"github.com/xraph/coin/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "coin"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Single-asset issuance ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the coin ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *coin.Ledger
	store      store.Store
	ledgerOpts []coin.Option
}

// New creates a new coin Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *coin.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build ledger options from resolved config.
	opts := e.buildLedgerOpts()

	eng := coin.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*coin.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("coin: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	if e.config.Admin != "" {
		err := e.engine.Initialize(ctx, types.AccountID(e.config.Admin))
		if err != nil && !errors.Is(err, coin.ErrAlreadyInitialized) {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("coin: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLedgerOpts constructs coin.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []coin.Option {
	opts := make([]coin.Option, 0, len(e.ledgerOpts)+3)

	opts = append(opts, coin.WithLogger(slog.Default()))
	opts = append(opts, coin.WithMinBalance(types.Balance(e.config.MinBalance)))
	if e.config.PluginTimeout > 0 {
		opts = append(opts, coin.WithPluginTimeout(e.config.PluginTimeout))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("coin: configuration is required but not found in config files; " +
				"ensure 'extensions.coin' or 'coin' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("coin: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("min_balance", e.config.MinBalance),
		forge.F("admin", e.config.Admin),
		forge.F("plugin_timeout", e.config.PluginTimeout),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.coin" first (namespaced pattern).
	if cm.IsSet("extensions.coin") {
		if err := cm.Bind("extensions.coin", &cfg); err == nil {
			e.Logger().Debug("coin: loaded config from file",
				forge.F("key", "extensions.coin"),
			)
			return cfg, true
		}
		e.Logger().Warn("coin: failed to bind extensions.coin config",
			forge.F("error", "bind failed"),
		)
	}

	// Try top-level "coin" key.
	if cm.IsSet("coin") {
		if err := cm.Bind("coin", &cfg); err == nil {
			e.Logger().Debug("coin: loaded config from file",
				forge.F("key", "coin"),
			)
			return cfg, true
		}
		e.Logger().Warn("coin: failed to bind coin config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.MinBalance == 0 {
		cfg.MinBalance = defaults.MinBalance
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Admin == "" && programmaticConfig.Admin != "" {
		yamlConfig.Admin = programmaticConfig.Admin
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.MinBalance == 0 && programmaticConfig.MinBalance != 0 {
		yamlConfig.MinBalance = programmaticConfig.MinBalance
	}
	if yamlConfig.PluginTimeout == 0 && programmaticConfig.PluginTimeout != 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
