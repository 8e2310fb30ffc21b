// Package journal describes committed ledger transitions.
//
// A Transition is the complete, already-validated effect of one mint or burn:
// the new balance (or removal) of the single touched account and the new
// issuance. Stores apply a Transition atomically, which is what keeps
// issuance and balances from ever being observed out of step.
package journal

import (
	"time"

	"github.com/xraph/coin/event"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/types"
)

// Op is the operation that produced a transition.
type Op string

const (
	OpMint Op = "mint"
	OpBurn Op = "burn"
)

// Transition is one committed mint or burn.
type Transition struct {
	ID      id.TransitionID `json:"id"`
	Op      Op              `json:"op"`
	Caller  types.AccountID `json:"caller"`
	Account types.AccountID `json:"account"`

	// Requested is the amount the caller asked for. Amount is what actually
	// moved; they differ when a burn kills the account and sweeps its balance.
	Requested types.Balance `json:"requested"`
	Amount    types.Balance `json:"amount"`

	// Seq is the authority sequence number this transition establishes.
	// Stores refuse the commit unless the stored sequence is Seq-1, which
	// means no other transition landed since validation.
	Seq uint64 `json:"seq"`

	// PrevIssuance is the issuance the transition was validated against.
	PrevIssuance types.Balance `json:"prev_issuance"`
	Issuance     types.Balance `json:"issuance"`

	// Balance is the account's balance after the transition; zero when Killed.
	Balance types.Balance `json:"balance"`
	Created bool          `json:"created"`
	Killed  bool          `json:"killed"`

	CommittedAt time.Time `json:"committed_at"`
}

// Events returns the notifications for this transition in emission order.
func (t *Transition) Events() []event.Event {
	events := make([]event.Event, 0, 2)
	switch t.Op {
	case OpMint:
		if t.Created {
			events = append(events, event.Created{Account: t.Account})
		}
		events = append(events, event.Minted{Account: t.Account, Amount: t.Amount})
	case OpBurn:
		if t.Killed {
			events = append(events, event.Killed{Account: t.Account})
		}
		events = append(events, event.Burned{Account: t.Account, Amount: t.Amount})
	}
	return events
}
