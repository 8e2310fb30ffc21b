// Package bunstore implements the coin store on uptrace/bun, for SQLite,
// PostgreSQL or MySQL. Commit runs in a database transaction.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/go-sql-driver/mysql"

	// SQL drivers for the supported database types.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/journal"
	coinstore "github.com/xraph/coin/store"
	"github.com/xraph/coin/types"
)

// compile-time interface check
var _ coinstore.Store = (*Store)(nil)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
)

// Store implements store.Store using Bun.
type Store struct {
	db *bun.DB
}

// New wraps an existing *bun.DB.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Open opens a database of the given type and returns a Store backed by a
// long-lived *bun.DB. It does not migrate; call Migrate or Ledger.Start.
func Open(dbType, dsn string) (*Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == TypePostgres {
		driverName = "pgx"
	}

	var dia schema.Dialect
	switch dbType {
	case TypeSQLite:
		dia = sqlitedialect.New()
	case TypePostgres:
		dia = pgdialect.New()
	case TypeMySQL:
		dia = mysqldialect.New()
		// The guarded issuance update relies on matched rather than changed
		// rows, and timestamps must scan into time.Time.
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("coin/bun: parse mysql dsn: %w", err)
		}
		cfg.ClientFoundRows = true
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("coin/bun: unsupported database type %q", dbType)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("coin/bun: open %s: %w", dbType, err)
	}

	// An in-memory SQLite database exists per connection; keep exactly one.
	if dbType == TypeSQLite && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return New(bun.NewDB(sqlDB, dia)), nil
}

// DB returns the underlying bun database for direct access.
func (s *Store) DB() *bun.DB { return s.db }

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	models := []interface{}{
		(*AuthorityModel)(nil),
		(*AccountModel)(nil),
		(*TransitionModel)(nil),
	}
	for _, m := range models {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("coin/bun: create table: %w", err)
		}
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS.
	if s.db.Dialect().Name() == dialect.MySQL {
		return nil
	}
	_, err := s.db.NewCreateIndex().
		Model((*TransitionModel)(nil)).
		Index("idx_coin_transitions_account").
		Column("account_id", "committed_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("coin/bun: create index: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Authority Store ====================

func (s *Store) GetAuthority(ctx context.Context) (*authority.State, error) {
	var m AuthorityModel
	err := s.db.NewSelect().Model(&m).Where("id = ?", authorityRowID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, coin.ErrNotInitialized
		}
		return nil, fmt.Errorf("coin/bun: get authority: %w", err)
	}
	return authorityFromModel(&m)
}

func (s *Store) InitAuthority(ctx context.Context, st *authority.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tx.NewSelect().Model((*AuthorityModel)(nil)).Where("id = ?", authorityRowID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("coin/bun: init authority: %w", err)
	}
	if exists {
		return coin.ErrAlreadyInitialized
	}
	if _, err := tx.NewInsert().Model(authorityToModel(st)).Exec(ctx); err != nil {
		return fmt.Errorf("coin/bun: init authority: %w", err)
	}
	return tx.Commit()
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
	var m AccountModel
	err := s.db.NewSelect().Model(&m).Where("account_id = ?", accountID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, coin.ErrNotFound
		}
		return nil, fmt.Errorf("coin/bun: get account: %w", err)
	}
	return accountFromModel(&m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []AccountModel
	q := s.db.NewSelect().Model(&models).Order("account_id ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/bun: list accounts: %w", err)
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		a, err := accountFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	n, err := s.db.NewSelect().Model((*AccountModel)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("coin/bun: count accounts: %w", err)
	}
	return int64(n), nil
}

// ==================== Journal Store ====================

// Commit applies the transition in one database transaction. The authority
// update guarded on the previous sequence number goes first: once it has
// matched, the row is locked and the account write cannot race another commit.
func (s *Store) Commit(ctx context.Context, t *journal.Transition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("coin/bun: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NewUpdate().
		Model((*AuthorityModel)(nil)).
		Set("issuance = ?", t.Issuance.String()).
		Set("seq = ?", int64(t.Seq)).
		Set("updated_at = ?", t.CommittedAt).
		Where("id = ?", authorityRowID).
		Where("seq = ?", int64(t.Seq-1)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("coin/bun: update authority: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return coin.ErrConflict
	}

	switch {
	case t.Killed:
		_, err = tx.NewDelete().
			Model((*AccountModel)(nil)).
			Where("account_id = ?", t.Account.String()).
			Exec(ctx)
	case t.Created:
		_, err = tx.NewInsert().Model(&AccountModel{
			AccountID: t.Account.String(),
			Balance:   t.Balance.String(),
			CreatedAt: t.CommittedAt,
			UpdatedAt: t.CommittedAt,
		}).Exec(ctx)
	default:
		_, err = tx.NewUpdate().
			Model((*AccountModel)(nil)).
			Set("balance = ?", t.Balance.String()).
			Set("updated_at = ?", t.CommittedAt).
			Where("account_id = ?", t.Account.String()).
			Exec(ctx)
	}
	if err != nil {
		return fmt.Errorf("coin/bun: write account: %w", err)
	}

	if _, err := tx.NewInsert().Model(transitionToModel(t)).Exec(ctx); err != nil {
		return fmt.Errorf("coin/bun: append transition: %w", err)
	}

	return tx.Commit()
}

func (s *Store) ListTransitions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	var models []TransitionModel
	q := s.db.NewSelect().Model(&models)
	if !opts.Account.IsEmpty() {
		q = q.Where("account_id = ?", opts.Account.String())
	}
	q = q.Order("committed_at DESC", "id DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/bun: list transitions: %w", err)
	}

	result := make([]*journal.Transition, len(models))
	for i := range models {
		t, err := transitionFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}
