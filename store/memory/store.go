// Package memory provides an in-memory store for tests and single-process use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

type Store struct {
	mu     sync.RWMutex
	closed bool

	// Authority singleton; nil until initialized
	authority *authority.State

	// Account entries keyed by account ID
	accounts map[types.AccountID]*account.Account

	// Journal in commit order
	transitions []*journal.Transition
}

func New() *Store {
	return &Store{
		accounts:    make(map[types.AccountID]*account.Account),
		transitions: make([]*journal.Transition, 0),
	}
}

// Authority Store implementation
func (s *Store) GetAuthority(_ context.Context) (*authority.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, coin.ErrStoreClosed
	}
	if s.authority == nil {
		return nil, coin.ErrNotInitialized
	}
	cp := *s.authority
	return &cp, nil
}

func (s *Store) InitAuthority(_ context.Context, st *authority.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return coin.ErrStoreClosed
	}
	if s.authority != nil {
		return coin.ErrAlreadyInitialized
	}
	cp := *st
	s.authority = &cp
	return nil
}

// Account Store implementation
func (s *Store) GetBalance(_ context.Context, accountID types.AccountID) (types.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Zero, coin.ErrStoreClosed
	}
	if a, ok := s.accounts[accountID]; ok {
		return a.Balance, nil
	}
	return types.Zero, nil
}

func (s *Store) GetAccount(_ context.Context, accountID types.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, coin.ErrStoreClosed
	}
	if a, ok := s.accounts[accountID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, coin.ErrNotFound
}

func (s *Store) ListAccounts(_ context.Context, opts account.ListOpts) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, coin.ErrStoreClosed
	}

	result := make([]*account.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) CountAccounts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, coin.ErrStoreClosed
	}
	return int64(len(s.accounts)), nil
}

// Journal Store implementation
func (s *Store) Commit(_ context.Context, t *journal.Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return coin.ErrStoreClosed
	}
	if s.authority == nil {
		return coin.ErrNotInitialized
	}
	if t.Seq != s.authority.Seq+1 {
		return coin.ErrConflict
	}

	if t.Killed {
		delete(s.accounts, t.Account)
	} else if a, ok := s.accounts[t.Account]; ok {
		a.Balance = t.Balance
		a.UpdatedAt = t.CommittedAt
	} else {
		s.accounts[t.Account] = &account.Account{
			Entity:  types.Entity{CreatedAt: t.CommittedAt, UpdatedAt: t.CommittedAt},
			ID:      t.Account,
			Balance: t.Balance,
		}
	}

	s.authority.Issuance = t.Issuance
	s.authority.Seq = t.Seq
	s.authority.UpdatedAt = t.CommittedAt

	cp := *t
	s.transitions = append(s.transitions, &cp)
	return nil
}

func (s *Store) ListTransitions(_ context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, coin.ErrStoreClosed
	}

	result := make([]*journal.Transition, 0)
	for i := len(s.transitions) - 1; i >= 0; i-- {
		t := s.transitions[i]
		if opts.Account != types.NoAccount && t.Account != opts.Account {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}

	return page(result, opts.Offset, opts.Limit), nil
}

// Lifecycle
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return coin.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// page applies limit/offset to an already ordered slice. A zero limit means all.
func page[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
