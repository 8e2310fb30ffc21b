package journal

import (
	"context"

	"github.com/xraph/coin/types"
)

type Store interface {
	// Commit applies the transition to the account and authority state and
	// appends it to the journal, all or nothing. It fails with ErrConflict
	// unless the stored authority sequence is t.Seq-1.
	Commit(ctx context.Context, t *Transition) error
	// List returns committed transitions, newest first.
	List(ctx context.Context, opts ListOpts) ([]*Transition, error)
}

type ListOpts struct {
	Account types.AccountID
	Limit   int
	Offset  int
}
