// Package sqlite implements the coin store on SQLite through grove.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/journal"
	coinstore "github.com/xraph/coin/store"
	"github.com/xraph/coin/types"
)

// compile-time interface check
var _ coinstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables, indexes and the commit trigger using
// the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("coin/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("coin/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Authority Store ====================

func (s *Store) GetAuthority(ctx context.Context) (*authority.State, error) {
	m := new(authorityModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", authorityRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, coin.ErrNotInitialized
		}
		return nil, fmt.Errorf("coin/sqlite: get authority: %w", err)
	}
	return fromAuthorityModel(m)
}

func (s *Store) InitAuthority(ctx context.Context, st *authority.State) error {
	m := toAuthorityModel(st)
	res, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("coin/sqlite: init authority: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return coin.ErrAlreadyInitialized
	}
	return nil
}

// ==================== Account Store ====================

func (s *Store) GetBalance(ctx context.Context, accountID types.AccountID) (types.Balance, error) {
	a, err := s.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, coin.ErrNotFound) {
			return types.Zero, nil
		}
		return types.Zero, err
	}
	return a.Balance, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID types.AccountID) (*account.Account, error) {
	m := new(accountModel)
	err := s.sdb.NewSelect(m).
		Where("account_id = ?", accountID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, coin.ErrNotFound
		}
		return nil, fmt.Errorf("coin/sqlite: get account: %w", err)
	}
	return fromAccountModel(m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel
	q := s.sdb.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("account_id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/sqlite: list accounts: %w", err)
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		a, err := fromAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := s.sdb.NewRaw(`SELECT COUNT(*) FROM coin_accounts`).Scan(ctx, &count)
	if err != nil {
		return 0, fmt.Errorf("coin/sqlite: count accounts: %w", err)
	}
	return count, nil
}

// ==================== Journal Store ====================

// Commit appends the transition; the coin_apply_transition trigger applies
// it to coin_accounts and coin_authority within the same statement.
func (s *Store) Commit(ctx context.Context, t *journal.Transition) error {
	var committed string
	err := s.sdb.NewRaw(`
		INSERT INTO coin_transitions (
			id, seq, op, caller, account_id, requested, amount,
			prev_issuance, issuance, balance, created, killed, committed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		t.ID.String(), int64(t.Seq), string(t.Op), t.Caller.String(), t.Account.String(),
		t.Requested.String(), t.Amount.String(),
		t.PrevIssuance.String(), t.Issuance.String(), t.Balance.String(),
		boolInt(t.Created), boolInt(t.Killed), t.CommittedAt.UTC(),
	).Scan(ctx, &committed)
	if err != nil {
		if strings.Contains(err.Error(), staleSeqMessage) {
			return coin.ErrConflict
		}
		return fmt.Errorf("coin/sqlite: commit transition: %w", err)
	}
	return nil
}

func (s *Store) ListTransitions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	var models []transitionModel
	q := s.sdb.NewSelect(&models)

	if !opts.Account.IsEmpty() {
		q = q.Where("account_id = ?", opts.Account.String())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("committed_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/sqlite: list transitions: %w", err)
	}

	result := make([]*journal.Transition, len(models))
	for i := range models {
		t, err := fromTransitionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
