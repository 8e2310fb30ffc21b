// Package coin provides a single-asset issuance ledger for Go applications.
//
// Coin is a library, not a service. It keeps per-account balances and a global
// issuance counter and changes them through exactly two privileged
// operations:
//
//   - Mint creates new units in an account. Only the minter may mint.
//   - Burn destroys units from an account. Only the burner may burn.
//
// The ledger maintains two invariants after every committed operation: the
// sum of all balances equals total issuance, and no account holds a positive
// balance below the configured minimum ("dust"). An account entry exists only
// while its balance is positive. A burn that would leave dust either fails or,
// when the caller allows killing, sweeps the whole balance and removes the
// entry.
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/coin"
//	    "github.com/xraph/coin/store/memory"
//	)
//
//	l := coin.New(memory.New(), coin.WithMinBalance(10))
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	// Genesis: alice becomes minter and burner.
//	_ = l.Initialize(ctx, "alice")
//
//	_ = l.Mint(ctx, "alice", "bob", 42)
//	_ = l.Burn(ctx, "alice", "bob", 35, true) // sweeps all 42, removes bob
//
// # Authentication
//
// Callers are identified by an already-verified types.AccountID. Verifying
// who the caller is belongs to the host application.
//
// # Errors
//
// A rejected call returns one of ErrBelowMinBalance, ErrNoPermission,
// ErrOverflow, ErrUnderflow or ErrCannotBurnEmpty and leaves the ledger
// unchanged. Use IsRejection to tell rejections apart from store failures.
//
// # Events
//
// Committed operations emit Created, Killed, Minted and Burned events (package
// event) to registered plugins, in order and only after the change is durable.
//
// # Stores
//
// Every store applies a transition atomically: memory, sqlite, postgres and
// mongo (on grove), and bunstore (uptrace/bun on sqlite, postgres or mysql).
package coin
