package coin

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Rejections. A rejected call leaves the ledger unchanged.
	ErrBelowMinBalance = errors.New("coin: amount or remainder below minimum balance")
	ErrNoPermission    = errors.New("coin: caller lacks permission")
	ErrOverflow        = errors.New("coin: issuance overflow")
	ErrUnderflow       = errors.New("coin: issuance underflow")
	ErrCannotBurnEmpty = errors.New("coin: cannot burn from empty account")

	// Lifecycle errors
	ErrNotInitialized     = errors.New("coin: ledger not initialized")
	ErrAlreadyInitialized = errors.New("coin: ledger already initialized")
	ErrInvalidAccount     = errors.New("coin: invalid account id")

	// Store errors
	ErrNotFound          = errors.New("coin: not found")
	ErrConflict          = errors.New("coin: concurrent modification")
	ErrStoreClosed       = errors.New("coin: store is closed")
	ErrMigrationFailed   = errors.New("coin: migration failed")
	ErrInvariantViolated = errors.New("coin: ledger invariant violated")
)

// InvariantError describes which ledger invariant failed verification.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("coin: invariant %s violated: %s", e.Invariant, e.Detail)
}

// Unwrap lets errors.Is match ErrInvariantViolated.
func (e InvariantError) Unwrap() error { return ErrInvariantViolated }

// IsRejection returns true if the error is a validation rejection of a mint
// or burn. Rejections are recoverable: adjust the parameters and retry.
func IsRejection(err error) bool {
	return errors.Is(err, ErrBelowMinBalance) ||
		errors.Is(err, ErrNoPermission) ||
		errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrUnderflow) ||
		errors.Is(err, ErrCannotBurnEmpty)
}

// IsRetryable returns true if the error is temporary and the operation can be
// retried unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
