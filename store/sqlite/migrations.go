package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the coin store (SQLite).
var Migrations = migrate.NewGroup("coin")

// staleSeqMessage is raised by the commit trigger when another transition
// was committed after this one was validated.
const staleSeqMessage = "coin: stale sequence"

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_coin_authority",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS coin_authority (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    issuance   TEXT NOT NULL DEFAULT '0',
    minter     TEXT NOT NULL,
    burner     TEXT NOT NULL,
    seq        INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS coin_authority`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_coin_accounts",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS coin_accounts (
    account_id TEXT PRIMARY KEY,
    balance    TEXT NOT NULL CHECK (balance <> '0'),
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS coin_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_coin_transitions",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS coin_transitions (
    id            TEXT PRIMARY KEY,
    seq           INTEGER NOT NULL UNIQUE,
    op            TEXT NOT NULL,
    caller        TEXT NOT NULL,
    account_id    TEXT NOT NULL,
    requested     TEXT NOT NULL,
    amount        TEXT NOT NULL,
    prev_issuance TEXT NOT NULL,
    issuance      TEXT NOT NULL,
    balance       TEXT NOT NULL,
    created       INTEGER NOT NULL DEFAULT 0,
    killed        INTEGER NOT NULL DEFAULT 0,
    committed_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_coin_transitions_account ON coin_transitions (account_id, committed_at);
CREATE INDEX IF NOT EXISTS idx_coin_transitions_committed ON coin_transitions (committed_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS coin_transitions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_coin_commit_trigger",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				// Appending a transition applies it. The trigger runs inside the
				// INSERT statement, so the journal row, the account write and
				// the issuance update commit or fail together.
				_, err := exec.Exec(ctx, `
CREATE TRIGGER IF NOT EXISTS coin_apply_transition
AFTER INSERT ON coin_transitions
BEGIN
    SELECT RAISE(ABORT, '`+staleSeqMessage+`')
    WHERE (SELECT seq FROM coin_authority WHERE id = 1) IS NOT NEW.seq - 1;

    DELETE FROM coin_accounts
    WHERE account_id = NEW.account_id AND NEW.killed = 1;

    INSERT INTO coin_accounts (account_id, balance, created_at, updated_at)
    SELECT NEW.account_id, NEW.balance, NEW.committed_at, NEW.committed_at
    WHERE NEW.killed = 0
    ON CONFLICT (account_id) DO UPDATE SET
        balance = excluded.balance,
        updated_at = excluded.updated_at;

    UPDATE coin_authority
    SET issuance = NEW.issuance, seq = NEW.seq, updated_at = NEW.committed_at
    WHERE id = 1;
END;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TRIGGER IF EXISTS coin_apply_transition`)
				return err
			},
		},
	)
}
