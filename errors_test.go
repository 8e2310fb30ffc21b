package coin_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/xraph/coin"
)

func TestIsRejection(t *testing.T) {
	rejections := []error{
		coin.ErrBelowMinBalance,
		coin.ErrNoPermission,
		coin.ErrOverflow,
		coin.ErrUnderflow,
		coin.ErrCannotBurnEmpty,
		fmt.Errorf("mint: %w", coin.ErrOverflow),
	}
	for _, err := range rejections {
		if !coin.IsRejection(err) {
			t.Errorf("expected %v to be a rejection", err)
		}
	}

	for _, err := range []error{coin.ErrConflict, coin.ErrNotInitialized, errors.New("boom")} {
		if coin.IsRejection(err) {
			t.Errorf("did not expect %v to be a rejection", err)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !coin.IsRetryable(fmt.Errorf("commit: %w", coin.ErrConflict)) {
		t.Error("wrapped conflict should be retryable")
	}
	if coin.IsRetryable(coin.ErrNoPermission) {
		t.Error("rejections are not retryable")
	}
}

func TestInvariantErrorUnwrap(t *testing.T) {
	err := coin.InvariantError{Invariant: "issuance", Detail: "sum 41 != issuance 42"}
	if !errors.Is(err, coin.ErrInvariantViolated) {
		t.Error("InvariantError should match ErrInvariantViolated")
	}
}
