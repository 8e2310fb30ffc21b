package account

import (
	"context"

	"github.com/xraph/coin/types"
)

// Store reads account entries. Entries are only written through a committed
// journal transition.
type Store interface {
	// GetBalance returns the balance of the account, or zero if it has no entry.
	GetBalance(ctx context.Context, accountID types.AccountID) (types.Balance, error)
	Get(ctx context.Context, accountID types.AccountID) (*Account, error)
	List(ctx context.Context, opts ListOpts) ([]*Account, error)
	Count(ctx context.Context) (int64, error)
}

// ListOpts pages through accounts ordered by account ID.
type ListOpts struct {
	Limit  int
	Offset int
}
