// Package plugin provides an extensible plugin system for the coin ledger.
// Plugins hook into lifecycle events and receive every notification the
// ledger emits after a committed mint or burn.
package plugin

import (
	"context"

	"github.com/xraph/coin/event"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the ledger stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated is called when a mint brings an absent account into the ledger.
type OnAccountCreated interface {
	Plugin
	OnAccountCreated(ctx context.Context, e event.Created) error
}

// OnAccountKilled is called when a burn sweeps an account and removes it.
type OnAccountKilled interface {
	Plugin
	OnAccountKilled(ctx context.Context, e event.Killed) error
}

// ──────────────────────────────────────────────────
// Issuance hooks
// ──────────────────────────────────────────────────

// OnMinted is called after every committed mint.
type OnMinted interface {
	Plugin
	OnMinted(ctx context.Context, e event.Minted) error
}

// OnBurned is called after every committed burn.
type OnBurned interface {
	Plugin
	OnBurned(ctx context.Context, e event.Burned) error
}

// OnRejected is called when a mint or burn is rejected by validation.
type OnRejected interface {
	Plugin
	OnRejected(ctx context.Context, op string, err error) error
}

// ──────────────────────────────────────────────────
// Generic sink
// ──────────────────────────────────────────────────

// EventSink receives every event regardless of kind, in emission order. The
// context passed to OnEvent is cancelled at the registry timeout; a sink that
// ignores it can overlap the delivery of later events.
type EventSink interface {
	Plugin
	OnEvent(ctx context.Context, e event.Event) error
}
