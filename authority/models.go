// Package authority holds the ledger's singleton state: total issuance and
// the identities allowed to mint and burn.
package authority

import "github.com/xraph/coin/types"

// State is the authority singleton. It is created once at genesis and only
// ever changed by a committed mint or burn.
type State struct {
	types.Entity
	Issuance types.Balance   `json:"issuance"`
	Minter   types.AccountID `json:"minter"`
	Burner   types.AccountID `json:"burner"`

	// Seq counts committed transitions. Each commit advances it by exactly
	// one, so it changes even when issuance returns to an earlier value.
	Seq uint64 `json:"seq"`
}

// Genesis returns the initial state with zero issuance and admin as both
// minter and burner.
func Genesis(admin types.AccountID) *State {
	return &State{
		Entity:   types.NewEntity(),
		Issuance: types.Zero,
		Minter:   admin,
		Burner:   admin,
	}
}
