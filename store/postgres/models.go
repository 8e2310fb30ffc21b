package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

// authorityRowID is the primary key of the authority singleton row.
const authorityRowID = 1

// Balances are stored as decimal TEXT: BIGINT is signed and cannot hold the
// full Balance range.

// ==================== Authority models ====================

type authorityModel struct {
	grove.BaseModel `grove:"table:coin_authority"`

	ID        int       `grove:"id,pk"`
	Issuance  string    `grove:"issuance"`
	Minter    string    `grove:"minter"`
	Burner    string    `grove:"burner"`
	Seq       int64     `grove:"seq"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toAuthorityModel(s *authority.State) *authorityModel {
	return &authorityModel{
		ID:        authorityRowID,
		Issuance:  s.Issuance.String(),
		Minter:    s.Minter.String(),
		Burner:    s.Burner.String(),
		Seq:       int64(s.Seq),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func fromAuthorityModel(m *authorityModel) (*authority.State, error) {
	issuance, err := types.ParseBalance(m.Issuance)
	if err != nil {
		return nil, err
	}
	return &authority.State{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Issuance: issuance,
		Minter:   types.AccountID(m.Minter),
		Burner:   types.AccountID(m.Burner),
		Seq:      uint64(m.Seq),
	}, nil
}

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:coin_accounts"`

	AccountID string    `grove:"account_id,pk"`
	Balance   string    `grove:"balance"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	balance, err := types.ParseBalance(m.Balance)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:      types.AccountID(m.AccountID),
		Balance: balance,
	}, nil
}

// ==================== Transition models ====================

type transitionModel struct {
	grove.BaseModel `grove:"table:coin_transitions"`

	ID           string    `grove:"id,pk"`
	Seq          int64     `grove:"seq"`
	Op           string    `grove:"op"`
	Caller       string    `grove:"caller"`
	AccountID    string    `grove:"account_id"`
	Requested    string    `grove:"requested"`
	Amount       string    `grove:"amount"`
	PrevIssuance string    `grove:"prev_issuance"`
	Issuance     string    `grove:"issuance"`
	Balance      string    `grove:"balance"`
	Created      bool      `grove:"created"`
	Killed       bool      `grove:"killed"`
	CommittedAt  time.Time `grove:"committed_at"`
}

func fromTransitionModel(m *transitionModel) (*journal.Transition, error) {
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
