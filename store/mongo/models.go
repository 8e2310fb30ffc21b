package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

// authorityDocID is the _id of the authority singleton document.
const authorityDocID = "authority"

// Balances are stored as decimal strings; BSON has no unsigned 64-bit integer.

// ==================== Authority models ====================

type authorityModel struct {
	grove.BaseModel `grove:"table:coin_authority"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Issuance  string    `grove:"issuance"   bson:"issuance"`
	Minter    string    `grove:"minter"     bson:"minter"`
	Burner    string    `grove:"burner"     bson:"burner"`
	Seq       int64     `grove:"seq"        bson:"seq"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

func toAuthorityModel(s *authority.State) *authorityModel {
	return &authorityModel{
		ID:        authorityDocID,
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

	ID        string    `grove:"id,pk"      bson:"_id"`
	Balance   string    `grove:"balance"    bson:"balance"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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
		ID:      types.AccountID(m.ID),
		Balance: balance,
	}, nil
}

// ==================== Transition models ====================

type transitionModel struct {
	grove.BaseModel `grove:"table:coin_transitions"`

	ID           string    `grove:"id,pk"         bson:"_id"`
	Seq          int64     `grove:"seq"           bson:"seq"`
	Op           string    `grove:"op"            bson:"op"`
	Caller       string    `grove:"caller"        bson:"caller"`
	AccountID    string    `grove:"account_id"    bson:"account_id"`
	Requested    string    `grove:"requested"     bson:"requested"`
	Amount       string    `grove:"amount"        bson:"amount"`
	PrevIssuance string    `grove:"prev_issuance" bson:"prev_issuance"`
	Issuance     string    `grove:"issuance"      bson:"issuance"`
	Balance      string    `grove:"balance"       bson:"balance"`
	Created      bool      `grove:"created"       bson:"created"`
	Killed       bool      `grove:"killed"        bson:"killed"`
	CommittedAt  time.Time `grove:"committed_at"  bson:"committed_at"`
}

func toTransitionModel(t *journal.Transition) *transitionModel {
	return &transitionModel{
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
