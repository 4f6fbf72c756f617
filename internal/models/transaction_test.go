package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewExpense(t *testing.T) {
	tests := []struct {
		name        string
		description string
		amount      decimal.Decimal
		payer       string
		mode        SplitMode
		shares      map[string]decimal.Decimal
		wantErr     error
	}{
		{
			name:        "equal split",
			description: "Dinner",
			amount:      dec("100"),
			payer:       "You",
			mode:        SplitEqual,
		},
		{
			name:        "unequal split with matching shares",
			description: "Groceries",
			amount:      dec("90"),
			payer:       "You",
			mode:        SplitUnequal,
			shares:      map[string]decimal.Decimal{"You": dec("30"), "Alex": dec("60")},
		},
		{
			name:        "unequal split within tolerance",
			description: "Cab",
			amount:      dec("50"),
			payer:       "You",
			mode:        SplitUnequal,
			shares:      map[string]decimal.Decimal{"You": dec("25"), "Alex": dec("25.1")},
		},
		{
			name:        "unequal split outside tolerance is rejected",
			description: "Cab",
			amount:      dec("50"),
			payer:       "You",
			mode:        SplitUnequal,
			shares:      map[string]decimal.Decimal{"You": dec("25"), "Alex": dec("25.2")},
			wantErr:     ErrSplitMismatch,
		},
		{
			name:        "unequal split undershooting tolerance is rejected",
			description: "Cab",
			amount:      dec("50"),
			payer:       "You",
			mode:        SplitUnequal,
			shares:      map[string]decimal.Decimal{"You": dec("24.8"), "Alex": dec("25")},
			wantErr:     ErrSplitMismatch,
		},
		{
			name:        "unequal split without shares is rejected",
			description: "Cab",
			amount:      dec("50"),
			payer:       "You",
			mode:        SplitUnequal,
			wantErr:     ErrMissingShares,
		},
		{
			name:        "negative share is rejected",
			description: "Cab",
			amount:      dec("50"),
			payer:       "You",
			mode:        SplitUnequal,
			shares:      map[string]decimal.Decimal{"You": dec("75"), "Alex": dec("-25")},
			wantErr:     ErrShareNotPositive,
		},
		{
			name:        "zero amount is rejected",
			description: "Dinner",
			amount:      decimal.Zero,
			payer:       "You",
			mode:        SplitEqual,
			wantErr:     ErrAmountNotPositive,
		},
		{
			name:        "negative amount is rejected",
			description: "Dinner",
			amount:      dec("-10"),
			payer:       "You",
			mode:        SplitEqual,
			wantErr:     ErrAmountNotPositive,
		},
		{
			name:    "missing description is rejected",
			amount:  dec("10"),
			payer:   "You",
			mode:    SplitEqual,
			wantErr: ErrMissingDescription,
		},
		{
			name:        "missing payer is rejected",
			description: "Dinner",
			amount:      dec("10"),
			mode:        SplitEqual,
			wantErr:     ErrMissingPayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewExpense("g1", tt.description, tt.amount, tt.payer, tt.mode, tt.shares)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewExpense() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if tx.Kind != KindExpense {
				t.Errorf("kind = %q, want %q", tx.Kind, KindExpense)
			}
			if tx.Deleted {
				t.Error("new expense must not be deleted")
			}
			if tx.Receiver != "" {
				t.Errorf("expense receiver = %q, want empty", tx.Receiver)
			}
		})
	}
}

func TestNewSettlement(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		payer    string
		receiver string
		wantErr  error
	}{
		{name: "valid settlement", amount: dec("50"), payer: "Alex", receiver: "You"},
		{name: "zero amount", amount: decimal.Zero, payer: "Alex", receiver: "You", wantErr: ErrAmountNotPositive},
		{name: "missing receiver", amount: dec("50"), payer: "Alex", wantErr: ErrMissingReceiver},
		{name: "receiver equals payer", amount: dec("50"), payer: "Alex", receiver: "Alex", wantErr: ErrReceiverIsPayer},
		{name: "missing payer", amount: dec("50"), receiver: "You", wantErr: ErrMissingPayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewSettlement("g1", tt.amount, tt.payer, tt.receiver)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSettlement() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if tx.Kind != KindSettlement {
				t.Errorf("kind = %q, want %q", tx.Kind, KindSettlement)
			}
			if tx.Description != SettlementLabel {
				t.Errorf("description = %q, want %q", tx.Description, SettlementLabel)
			}
		})
	}
}

func TestNewGroup(t *testing.T) {
	g, err := NewGroup("Trip", "actor-1")
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	if len(g.Members) != 1 || g.Members[0] != DefaultMember {
		t.Errorf("members = %v, want [%s]", g.Members, DefaultMember)
	}
	if !g.HasMember(DefaultMember) {
		t.Error("HasMember(You) = false, want true")
	}
	if g.HasMember("you") {
		t.Error("member matching must be case-sensitive")
	}

	if _, err := NewGroup("", "actor-1"); !errors.Is(err, ErrEmptyGroupName) {
		t.Errorf("NewGroup(\"\") error = %v, want ErrEmptyGroupName", err)
	}
}
