package repository

import (
	"reflect"
	"strings"
	"testing"

	"go-construction-ledger/internal/model"
)

func TestSortClause(t *testing.T) {
	cases := []struct {
		name      string
		sortBy    string
		direction string
		want      string
	}{
		{
			name: "default is date descending with creation tie-break",
			want: "transactions.date DESC, transactions.created_at DESC",
		},
		{
			name:   "date ascending keeps descending tie-break",
			sortBy: "date", direction: "asc",
			want: "transactions.date ASC, transactions.created_at DESC",
		},
		{
			name:   "unknown field falls back to date",
			sortBy: "nonsense", direction: "asc",
			want: "transactions.date ASC, transactions.created_at DESC",
		},
		{
			name:   "deposits remaps to type then amount",
			sortBy: "deposits", direction: "desc",
			want: "transactions.type DESC, transactions.amount DESC",
		},
		{
			name:   "withdrawals remaps the same way",
			sortBy: "withdrawals", direction: "asc",
			want: "transactions.type ASC, transactions.amount ASC",
		},
		{
			name:   "check maps to its storage column",
			sortBy: "check", direction: "asc",
			want: "transactions.check_number ASC",
		},
		{
			name:   "direction is case-insensitive",
			sortBy: "amount", direction: "ASC",
			want: "transactions.amount ASC",
		},
		{
			name:   "invalid direction defaults to descending",
			sortBy: "concept", direction: "sideways",
			want: "transactions.concept DESC",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sortClause(tc.sortBy, tc.direction)
			if got != tc.want {
				t.Errorf("sortClause(%q, %q) = %q, want %q", tc.sortBy, tc.direction, got, tc.want)
			}
		})
	}
}

func TestTypeFilters(t *testing.T) {
	cases := []struct {
		name string
		tf   TypeFilters
		want []model.TransactionType
	}{
		{"both", TypeFilters{Deposits: true, Withdrawals: true}, []model.TransactionType{model.TxDeposit, model.TxWithdrawal}},
		{"deposits only", TypeFilters{Deposits: true}, []model.TransactionType{model.TxDeposit}},
		{"withdrawals only", TypeFilters{Withdrawals: true}, []model.TransactionType{model.TxWithdrawal}},
		{"neither", TypeFilters{}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tf.types(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("types() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchCondition(t *testing.T) {
	t.Run("text term", func(t *testing.T) {
		cond, args := searchCondition("proveedor")
		if len(args) != 5 {
			t.Fatalf("got %d args, want 5", len(args))
		}
		for i, a := range args {
			if a != "%proveedor%" {
				t.Errorf("arg %d = %v, want %%proveedor%%", i, a)
			}
		}
		if cond[0] != '(' || cond[len(cond)-1] != ')' {
			t.Errorf("condition not parenthesized: %s", cond)
		}
	})

	t.Run("numeric term also matches exact amount", func(t *testing.T) {
		cond, args := searchCondition("1500.50")
		if len(args) != 6 {
			t.Fatalf("got %d args, want 6", len(args))
		}
		if args[5] != 1500.50 {
			t.Errorf("amount arg = %v, want 1500.50", args[5])
		}
		if !strings.Contains(cond, "transactions.amount = ?") {
			t.Errorf("condition missing amount clause: %s", cond)
		}
	})

	t.Run("non-numeric term skips the amount clause", func(t *testing.T) {
		cond, args := searchCondition("obra 12")
		if len(args) != 5 {
			t.Errorf("got %d args, want 5", len(args))
		}
		if strings.Contains(cond, "transactions.amount") {
			t.Errorf("unexpected amount clause: %s", cond)
		}
	})
}
