package coin

import "github.com/xraph/coin/types"

// Re-export common types for convenience so users don't have to import types package.

// Balance is re-exported from types package.
type Balance = types.Balance

// AccountID is re-exported from types package.
type AccountID = types.AccountID

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Balance constants
const (
	Zero       = types.Zero
	MaxBalance = types.MaxBalance
)

// Re-export Balance helpers
var (
	ParseBalance = types.ParseBalance
	Sum          = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
