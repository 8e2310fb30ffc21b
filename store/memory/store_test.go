package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/store"
	"github.com/xraph/coin/store/memory"
	"github.com/xraph/coin/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Ping(ctx); !errors.Is(err, coin.ErrStoreClosed) {
		t.Errorf("Ping: expected ErrStoreClosed, got %v", err)
	}
	if _, err := s.GetAuthority(ctx); !errors.Is(err, coin.ErrStoreClosed) {
		t.Errorf("GetAuthority: expected ErrStoreClosed, got %v", err)
	}
	if _, err := s.ListAccounts(ctx, account.ListOpts{}); !errors.Is(err, coin.ErrStoreClosed) {
		t.Errorf("ListAccounts: expected ErrStoreClosed, got %v", err)
	}
}
