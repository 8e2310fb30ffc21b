// Package postgres implements the coin store on PostgreSQL through grove.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
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

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("coin/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("coin/postgres: migration failed: %w", err)
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
	err := s.pg.NewSelect(m).
		Where("id = $1", authorityRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, coin.ErrNotInitialized
		}
		return nil, fmt.Errorf("coin/postgres: get authority: %w", err)
	}
	return fromAuthorityModel(m)
}

func (s *Store) InitAuthority(ctx context.Context, st *authority.State) error {
	m := toAuthorityModel(st)
	res, err := s.pg.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("coin/postgres: init authority: %w", err)
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
	err := s.pg.NewSelect(m).
		Where("account_id = $1", accountID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, coin.ErrNotFound
		}
		return nil, fmt.Errorf("coin/postgres: get account: %w", err)
	}
	return fromAccountModel(m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel
	q := s.pg.NewSelect(&models)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("account_id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/postgres: list accounts: %w", err)
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
	err := s.pg.NewRaw(`SELECT COUNT(*) FROM coin_accounts`).Scan(ctx, &count)
	if err != nil {
		return 0, fmt.Errorf("coin/postgres: count accounts: %w", err)
	}
	return count, nil
}

// ==================== Journal Store ====================

// Commit applies the transition in one statement. Every data-modifying CTE
// is gated on the guarded authority update, so a stale sequence number
// changes nothing and reports zero rows.
func (s *Store) Commit(ctx context.Context, t *journal.Transition) error {
	var applied int64
	err := s.pg.NewRaw(`
		WITH auth AS (
			UPDATE coin_authority
			SET issuance = $1, seq = $14, updated_at = $2
			WHERE id = 1 AND seq = $13
			RETURNING id
		), removed AS (
			DELETE FROM coin_accounts
			WHERE account_id = $4 AND $5::boolean AND EXISTS (SELECT 1 FROM auth)
			RETURNING account_id
		), written AS (
			INSERT INTO coin_accounts (account_id, balance, created_at, updated_at)
			SELECT $4, $6, $2, $2 FROM auth WHERE NOT $5::boolean
			ON CONFLICT (account_id) DO UPDATE SET
				balance = EXCLUDED.balance,
				updated_at = EXCLUDED.updated_at
			RETURNING account_id
		), journaled AS (
			INSERT INTO coin_transitions (
				id, seq, op, caller, account_id, requested, amount,
				prev_issuance, issuance, balance, created, killed, committed_at
			)
			SELECT $7, $14, $8, $9, $4, $10, $11, $3, $1, $6, $12, $5, $2 FROM auth
			RETURNING id
		)
		SELECT COUNT(*) FROM auth
	`,
		t.Issuance.String(), t.CommittedAt, t.PrevIssuance.String(),
		t.Account.String(), t.Killed, t.Balance.String(),
		t.ID.String(), string(t.Op), t.Caller.String(),
		t.Requested.String(), t.Amount.String(), t.Created,
		int64(t.Seq-1), int64(t.Seq),
	).Scan(ctx, &applied)
	if err != nil {
		return fmt.Errorf("coin/postgres: commit transition: %w", err)
	}
	if applied == 0 {
		return coin.ErrConflict
	}
	return nil
}

func (s *Store) ListTransitions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	var models []transitionModel
	q := s.pg.NewSelect(&models)

	if !opts.Account.IsEmpty() {
		q = q.Where("account_id = $1", opts.Account.String())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("committed_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/postgres: list transitions: %w", err)
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
