// Package event defines the notifications the coin ledger emits after a
// committed mint or burn.
//
// Event is a closed set: only the four types in this package implement it.
package event

import "github.com/xraph/coin/types"

// Kind names an event type.
type Kind string

// Event kinds.
const (
	KindCreated Kind = "created"
	KindKilled  Kind = "killed"
	KindMinted  Kind = "minted"
	KindBurned  Kind = "burned"
)

// Event is a ledger notification.
type Event interface {
	Kind() Kind
	AccountID() types.AccountID
	sealed()
}

// Created is emitted when mint raises an absent account above zero.
type Created struct {
	Account types.AccountID `json:"account"`
}

// Killed is emitted when burn sweeps an account's entire balance and removes it.
type Killed struct {
	Account types.AccountID `json:"account"`
}

// Minted is emitted for every successful mint.
type Minted struct {
	Account types.AccountID `json:"account"`
	Amount  types.Balance   `json:"amount"`
}

// Burned is emitted for every successful burn. Amount is what was actually
// removed from issuance, which is the full balance when the account was killed.
type Burned struct {
	Account types.AccountID `json:"account"`
	Amount  types.Balance   `json:"amount"`
}

func (Created) Kind() Kind { return KindCreated }
func (Killed) Kind() Kind  { return KindKilled }
func (Minted) Kind() Kind  { return KindMinted }
func (Burned) Kind() Kind  { return KindBurned }

func (e Created) AccountID() types.AccountID { return e.Account }
func (e Killed) AccountID() types.AccountID  { return e.Account }
func (e Minted) AccountID() types.AccountID  { return e.Account }
func (e Burned) AccountID() types.AccountID  { return e.Account }

func (Created) sealed() {}
func (Killed) sealed()  {}
func (Minted) sealed()  {}
func (Burned) sealed()  {}

// Record is the storable form of an Event.
type Record struct {
	Kind    Kind            `json:"kind"`
	Account types.AccountID `json:"account"`
	Amount  types.Balance   `json:"amount,omitempty"`
}

// ToRecord flattens an Event.
func ToRecord(e Event) Record {
	r := Record{Kind: e.Kind(), Account: e.AccountID()}
	switch v := e.(type) {
	case Minted:
		r.Amount = v.Amount
	case Burned:
		r.Amount = v.Amount
	}
	return r
}

// FromRecord restores an Event. It returns nil for an unknown kind.
func FromRecord(r Record) Event {
	switch r.Kind {
	case KindCreated:
		return Created{Account: r.Account}
	case KindKilled:
		return Killed{Account: r.Account}
	case KindMinted:
		return Minted{Account: r.Account, Amount: r.Amount}
	case KindBurned:
		return Burned{Account: r.Account, Amount: r.Amount}
	default:
		return nil
	}
}
