package bunstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

// authorityRowID is the primary key of the authority singleton row.
const authorityRowID = 1

// AuthorityModel maps the `coin_authority` table for Bun queries.
type AuthorityModel struct {
	bun.BaseModel `bun:"table:coin_authority"`

	ID        int       `bun:"id,pk"`
	Issuance  string    `bun:"issuance,notnull"`
	Minter    string    `bun:"minter,notnull"`
	Burner    string    `bun:"burner,notnull"`
	Seq       int64     `bun:"seq,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// AccountModel maps the `coin_accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:coin_accounts"`

	AccountID string    `bun:"account_id,pk"`
	Balance   string    `bun:"balance,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// TransitionModel maps the `coin_transitions` table for Bun queries.
type TransitionModel struct {
	bun.BaseModel `bun:"table:coin_transitions"`

	ID           string    `bun:"id,pk"`
	Seq          int64     `bun:"seq,notnull,unique"`
	Op           string    `bun:"op,notnull"`
	Caller       string    `bun:"caller,notnull"`
	AccountID    string    `bun:"account_id,notnull"`
	Requested    string    `bun:"requested,notnull"`
	Amount       string    `bun:"amount,notnull"`
	PrevIssuance string    `bun:"prev_issuance,notnull"`
	Issuance     string    `bun:"issuance,notnull"`
	Balance      string    `bun:"balance,notnull"`
	Created      bool      `bun:"created,notnull"`
	Killed       bool      `bun:"killed,notnull"`
	CommittedAt  time.Time `bun:"committed_at,notnull"`
}

func authorityToModel(s *authority.State) *AuthorityModel {
	return &AuthorityModel{
		ID:        authorityRowID,
		Issuance:  s.Issuance.String(),
		Minter:    s.Minter.String(),
		Burner:    s.Burner.String(),
		Seq:       int64(s.Seq),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func authorityFromModel(m *AuthorityModel) (*authority.State, error) {
	issuance, err := types.ParseBalance(m.Issuance)
	if err != nil {
		return nil, err
	}
	return &authority.State{
		Entity:   types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Issuance: issuance,
		Minter:   types.AccountID(m.Minter),
		Burner:   types.AccountID(m.Burner),
		Seq:      uint64(m.Seq),
	}, nil
}

func accountFromModel(m *AccountModel) (*account.Account, error) {
	balance, err := types.ParseBalance(m.Balance)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity:  types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:      types.AccountID(m.AccountID),
		Balance: balance,
	}, nil
}

func transitionToModel(t *journal.Transition) *TransitionModel {
	return &TransitionModel{
		ID:           t.ID.String(),
		Seq:          int64(t.Seq),
		Op:           string(t.Op),
		Caller:       t.Caller.String(),
		AccountID:    t.Account.String(),
		Requested:    t.Requested.String(),
		Amount:       t.Amount.String(),
		PrevIssuance: t.PrevIssuance.String(),
		Issuance:     t.Issuance.String(),
		Balance:      t.Balance.String(),
		Created:      t.Created,
		Killed:       t.Killed,
		CommittedAt:  t.CommittedAt,
	}
}

func transitionFromModel(m *TransitionModel) (*journal.Transition, error) {
	txID, err := id.ParseTransitionID(m.ID)
	if err != nil {
		return nil, err
	}

	balances := make([]types.Balance, 5)
	for i, raw := range []string{m.Requested, m.Amount, m.PrevIssuance, m.Issuance, m.Balance} {
		if balances[i], err = types.ParseBalance(raw); err != nil {
			return nil, err
		}
	}

	return &journal.Transition{
		ID:           txID,
		Seq:          uint64(m.Seq),
		Op:           journal.Op(m.Op),
		Caller:       types.AccountID(m.Caller),
		Account:      types.AccountID(m.AccountID),
		Requested:    balances[0],
		Amount:       balances[1],
		PrevIssuance: balances[2],
		Issuance:     balances[3],
		Balance:      balances[4],
		Created:      m.Created,
		Killed:       m.Killed,
		CommittedAt:  m.CommittedAt,
	}, nil
}
