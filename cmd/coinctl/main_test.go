package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xraph/coin"
)

// run executes coinctl against the SQLite database at dsn and returns stdout.
func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db-type", "sqlite", "--db-dsn", dsn, "--min-balance", "10"}, args...))
	err := cmd.ExecuteContext(t.Context())
	if cerr := closeLedger(); cerr != nil {
		t.Errorf("close: %v", cerr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, dsn string, args ...string) string {
	t.Helper()
	out, err := run(t, dsn, args...)
	if err != nil {
		t.Fatalf("coinctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestLifecycle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "coin.db")

	mustRun(t, dsn, "init", "--admin", "alice")
	mustRun(t, dsn, "mint", "--caller", "alice", "--to", "bob", "--amount", "100")
	mustRun(t, dsn, "mint", "--caller", "alice", "--to", "carol", "--amount", "50")

	if got := strings.TrimSpace(mustRun(t, dsn, "balance", "bob")); got != "100" {
		t.Errorf("balance bob = %q, want 100", got)
	}
	if got := strings.TrimSpace(mustRun(t, dsn, "issuance")); got != "150" {
		t.Errorf("issuance = %q, want 150", got)
	}

	out := mustRun(t, dsn, "burn", "--caller", "alice", "--from", "bob", "--amount", "95", "--allow-killing")
	if !strings.Contains(out, "burned 100 from bob") || !strings.Contains(out, "account bob removed") {
		t.Errorf("burn output = %q", out)
	}

	if got := strings.TrimSpace(mustRun(t, dsn, "issuance")); got != "50" {
		t.Errorf("issuance after kill = %q, want 50", got)
	}

	out = mustRun(t, dsn, "accounts")
	if strings.Contains(out, "bob") || !strings.Contains(out, "carol") {
		t.Errorf("accounts output = %q", out)
	}

	out = mustRun(t, dsn, "history", "--account", "bob")
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("history lines = %d, want header plus 2 transitions:\n%s", n, out)
	}

	if got := strings.TrimSpace(mustRun(t, dsn, "verify")); got != "ok" {
		t.Errorf("verify = %q", got)
	}
}

func TestRejections(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "coin.db")
	mustRun(t, dsn, "init", "--admin", "alice")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"mint not minter", []string{"mint", "--caller", "mallory", "--to", "bob", "--amount", "100"}, coin.ErrNoPermission},
		{"mint dust", []string{"mint", "--caller", "alice", "--to", "bob", "--amount", "5"}, coin.ErrBelowMinBalance},
		{"burn empty", []string{"burn", "--caller", "alice", "--from", "bob", "--amount", "1"}, coin.ErrCannotBurnEmpty},
		{"init twice", []string{"init", "--admin", "bob"}, coin.ErrAlreadyInitialized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dsn, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidAmount(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "coin.db")
	mustRun(t, dsn, "init", "--admin", "alice")
	if _, err := run(t, dsn, "mint", "--caller", "alice", "--to", "bob", "--amount", "-3"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
