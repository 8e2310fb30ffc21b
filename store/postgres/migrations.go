package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the coin store.
var Migrations = migrate.NewGroup("coin")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_coin_authority",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS coin_authority (
    id         INT PRIMARY KEY CHECK (id = 1),
    issuance   TEXT NOT NULL DEFAULT '0',
    minter     TEXT NOT NULL,
    burner     TEXT NOT NULL,
    seq        BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
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
    seq           BIGINT NOT NULL UNIQUE,
    op            TEXT NOT NULL,
    caller        TEXT NOT NULL,
    account_id    TEXT NOT NULL,
    requested     TEXT NOT NULL,
    amount        TEXT NOT NULL,
    prev_issuance TEXT NOT NULL,
    issuance      TEXT NOT NULL,
    balance       TEXT NOT NULL,
    created       BOOLEAN NOT NULL DEFAULT FALSE,
    killed        BOOLEAN NOT NULL DEFAULT FALSE,
    committed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_coin_transitions_account ON coin_transitions (account_id, committed_at DESC);
CREATE INDEX IF NOT EXISTS idx_coin_transitions_committed ON coin_transitions (committed_at DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS coin_transitions`)
				return err
			},
		},
	)
}
