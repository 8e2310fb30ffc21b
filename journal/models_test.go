package journal_test

import (
	"reflect"
	"testing"

	"github.com/xraph/coin/event"
	"github.com/xraph/coin/journal"
)

func TestTransitionEvents(t *testing.T) {
	tests := []struct {
		name string
		tr   journal.Transition
		want []event.Event
	}{
		{
			name: "mint creating account",
			tr:   journal.Transition{Op: journal.OpMint, Account: "bob", Amount: 42, Created: true},
			want: []event.Event{event.Created{Account: "bob"}, event.Minted{Account: "bob", Amount: 42}},
		},
		{
			name: "mint on present account",
			tr:   journal.Transition{Op: journal.OpMint, Account: "bob", Amount: 8},
			want: []event.Event{event.Minted{Account: "bob", Amount: 8}},
		},
		{
			name: "burn killing account",
			tr:   journal.Transition{Op: journal.OpBurn, Account: "bob", Requested: 35, Amount: 42, Killed: true},
			want: []event.Event{event.Killed{Account: "bob"}, event.Burned{Account: "bob", Amount: 42}},
		},
		{
			name: "burn leaving remainder",
			tr:   journal.Transition{Op: journal.OpBurn, Account: "bob", Requested: 12, Amount: 12, Balance: 30},
			want: []event.Event{event.Burned{Account: "bob", Amount: 12}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.Events()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
