package coin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/id"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/plugin"
	"github.com/xraph/coin/store"
	"github.com/xraph/coin/types"
)

// DefaultMinBalance is the minimum balance used when none is configured.
const DefaultMinBalance types.Balance = 1

// Ledger is the issuance engine. It owns the authority state and account
// entries through its store and is the only writer of either.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// mu serializes every mint and burn issued through this Ledger.
	mu sync.Mutex

	minBalance types.Balance
	now        func() time.Time
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      s,
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		minBalance: DefaultMinBalance,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithMinBalance sets the minimum balance an account may hold while it
// exists. Zero is treated as one: an entry never holds a zero balance.
func WithMinBalance(minBalance types.Balance) Option {
	return func(l *Ledger) {
		l.minBalance = minBalance.Max(DefaultMinBalance)
	}
}

// WithPluginTimeout bounds how long a single plugin hook may run.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.plugins.WithTimeout(d)
	}
}

// WithClock overrides the time source used to stamp transitions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// MinBalance returns the configured minimum balance.
func (l *Ledger) MinBalance() types.Balance { return l.minBalance }

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Store returns the underlying store.
func (l *Ledger) Store() store.Store { return l.store }

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("coin ledger started",
		"min_balance", l.minBalance,
		"plugins", l.plugins.Count(),
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.plugins.EmitShutdown(context.Background())

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Genesis
// ──────────────────────────────────────────────────

// Initialize creates the authority state with zero issuance and admin as
// both minter and burner. It may only be called once per store.
func (l *Ledger) Initialize(ctx context.Context, admin types.AccountID) error {
	if admin.IsEmpty() {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.InitAuthority(ctx, authority.Genesis(admin)); err != nil {
		return err
	}

	l.logger.Info("coin ledger initialized", "admin", admin)
	return nil
}

// ──────────────────────────────────────────────────
// Issuance
// ──────────────────────────────────────────────────

// Mint creates amount new units in beneficiary's account. Only the minter may
// mint, and amount must be at least the minimum balance.
func (l *Ledger) Mint(ctx context.Context, caller, beneficiary types.AccountID, amount types.Balance) error {
	if beneficiary.IsEmpty() {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount < l.minBalance {
		return l.reject(ctx, journal.OpMint, ErrBelowMinBalance)
	}

	auth, err := l.store.GetAuthority(ctx)
	if err != nil {
		return err
	}
	if caller != auth.Minter {
		return l.reject(ctx, journal.OpMint, ErrNoPermission)
	}

	issuance, ok := auth.Issuance.CheckedAdd(amount)
	if !ok {
		return l.reject(ctx, journal.OpMint, ErrOverflow)
	}

	old, err := l.store.GetBalance(ctx, beneficiary)
	if err != nil {
		return err
	}

	// The account balance is bounded by issuance, so the check above guards
	// this addition as well.
	t := &journal.Transition{
		ID:           id.NewTransitionID(),
		Op:           journal.OpMint,
		Caller:       caller,
		Account:      beneficiary,
		Requested:    amount,
		Amount:       amount,
		Seq:          auth.Seq + 1,
		PrevIssuance: auth.Issuance,
		Issuance:     issuance,
		Balance:      old.SaturatingAdd(amount),
		Created:      old.IsZero(),
		CommittedAt:  l.now(),
	}

	return l.commit(ctx, t)
}

// Burn destroys amount units from target's account. Only the burner may burn.
//
// If the remainder would fall below the minimum balance the burn fails with
// ErrBelowMinBalance, unless allowKilling is set: then the entire balance is
// burned and the account is removed.
func (l *Ledger) Burn(ctx context.Context, caller, target types.AccountID, amount types.Balance, allowKilling bool) error {
	if target.IsEmpty() {
		return ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	auth, err := l.store.GetAuthority(ctx)
	if err != nil {
		return err
	}
	if caller != auth.Burner {
		return l.reject(ctx, journal.OpBurn, ErrNoPermission)
	}

	balance, err := l.store.GetBalance(ctx, target)
	if err != nil {
		return err
	}
	if balance.IsZero() {
		return l.reject(ctx, journal.OpBurn, ErrCannotBurnEmpty)
	}

	t := &journal.Transition{
		ID:           id.NewTransitionID(),
		Op:           journal.OpBurn,
		Caller:       caller,
		Account:      target,
		Requested:    amount,
		Seq:          auth.Seq + 1,
		PrevIssuance: auth.Issuance,
		CommittedAt:  l.now(),
	}

	remainder := balance.SaturatingSub(amount)
	if remainder < l.minBalance {
		if !allowKilling {
			return l.reject(ctx, journal.OpBurn, ErrBelowMinBalance)
		}
		t.Amount = balance
		t.Killed = true
	} else {
		t.Amount = amount
		t.Balance = remainder
	}

	if _, ok := auth.Issuance.CheckedSub(t.Amount); !ok {
		return l.reject(ctx, journal.OpBurn, ErrUnderflow)
	}
	t.Issuance = auth.Issuance.SaturatingSub(t.Amount)

	return l.commit(ctx, t)
}

// commit applies a validated transition and, once it is durable, notifies
// plugins of its events. Callers hold l.mu.
func (l *Ledger) commit(ctx context.Context, t *journal.Transition) error {
	if err := l.store.Commit(ctx, t); err != nil {
		l.logger.Error("coin commit failed",
			"op", t.Op,
			"account", t.Account,
			"amount", t.Amount,
			"error", err,
		)
		return err
	}

	l.logger.Debug("coin transition committed",
		"id", t.ID.String(),
		"op", t.Op,
		"account", t.Account,
		"amount", t.Amount,
		"issuance", t.Issuance,
		"created", t.Created,
		"killed", t.Killed,
	)

	for _, e := range t.Events() {
		l.plugins.Emit(ctx, e)
	}
	return nil
}

// reject reports a validation failure to plugins and returns it unchanged.
func (l *Ledger) reject(ctx context.Context, op journal.Op, err error) error {
	l.logger.Debug("coin operation rejected", "op", op, "error", err)
	l.plugins.EmitRejected(ctx, string(op), err)
	return err
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// BalanceOf returns the balance of an account; zero if it has no entry.
func (l *Ledger) BalanceOf(ctx context.Context, accountID types.AccountID) (types.Balance, error) {
	return l.store.GetBalance(ctx, accountID)
}

// TotalIssuance returns the number of units in circulation.
func (l *Ledger) TotalIssuance(ctx context.Context) (types.Balance, error) {
	auth, err := l.store.GetAuthority(ctx)
	if err != nil {
		return types.Zero, err
	}
	return auth.Issuance, nil
}

// Authority returns the authority state.
func (l *Ledger) Authority(ctx context.Context) (*authority.State, error) {
	return l.store.GetAuthority(ctx)
}

// Accounts lists account entries ordered by account ID.
func (l *Ledger) Accounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	return l.store.ListAccounts(ctx, opts)
}

// History lists committed transitions, newest first.
func (l *Ledger) History(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	return l.store.ListTransitions(ctx, opts)
}

// verifyPageSize is how many accounts Verify reads per page.
const verifyPageSize = 500

// Verify recomputes the sum of all balances and checks it against issuance,
// and checks that no entry holds less than the minimum balance.
func (l *Ledger) Verify(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	auth, err := l.store.GetAuthority(ctx)
	if err != nil {
		return err
	}

	var sum types.Balance
	for offset := 0; ; offset += verifyPageSize {
		page, err := l.store.ListAccounts(ctx, account.ListOpts{Limit: verifyPageSize, Offset: offset})
		if err != nil {
			return err
		}

		for _, a := range page {
			if a.Balance < l.minBalance {
				return InvariantError{
					Invariant: "no-dust",
					Detail:    fmt.Sprintf("account %s holds %s, minimum is %s", a.ID, a.Balance, l.minBalance),
				}
			}
			var ok bool
			if sum, ok = sum.CheckedAdd(a.Balance); !ok {
				return InvariantError{Invariant: "issuance", Detail: "sum of balances overflows"}
			}
		}

		if len(page) < verifyPageSize {
			break
		}
	}

	if sum != auth.Issuance {
		return InvariantError{
			Invariant: "issuance",
			Detail:    fmt.Sprintf("sum of balances %s != issuance %s", sum, auth.Issuance),
		}
	}
	return nil
}
