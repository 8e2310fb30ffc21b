package store

import (
	"context"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

// Store is the unified storage interface for the coin ledger.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Authority methods
	GetAuthority(ctx context.Context) (*authority.State, error)
	InitAuthority(ctx context.Context, s *authority.State) error

	// Account methods
	GetBalance(ctx context.Context, accountID types.AccountID) (types.Balance, error)
	GetAccount(ctx context.Context, accountID types.AccountID) (*account.Account, error)
	ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error)
	CountAccounts(ctx context.Context) (int64, error)

	// Journal methods
	Commit(ctx context.Context, t *journal.Transition) error
	ListTransitions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
