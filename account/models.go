// Package account defines the per-account balance entries of the ledger.
//
// An entry exists only while its balance is strictly positive; an absent
// account has balance zero.
package account

import "github.com/xraph/coin/types"

// Account is one ledger entry.
type Account struct {
	types.Entity
	ID      types.AccountID `json:"id"`
	Balance types.Balance   `json:"balance"`
}
