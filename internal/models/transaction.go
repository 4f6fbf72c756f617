package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes the two transaction variants.
type TransactionKind string

const (
	KindExpense    TransactionKind = "expense"
	KindSettlement TransactionKind = "settlement"
)

// SplitMode selects how an expense is apportioned among members.
type SplitMode string

const (
	SplitEqual   SplitMode = "equal"
	SplitUnequal SplitMode = "unequal"
)

// SettlementLabel is the fixed description carried by every settlement.
const SettlementLabel = "Settlement"

// SplitTolerance is the maximum allowed deviation between an unequal
// expense's share sum and its amount. A deviation strictly greater than this
// is rejected at creation.
var SplitTolerance = decimal.RequireFromString("0.1")

// Validation errors, surfaced to the caller before any write is issued.
var (
	ErrAmountNotPositive  = errors.New("amount must be greater than zero")
	ErrMissingDescription = errors.New("expense description must not be empty")
	ErrMissingPayer       = errors.New("payer must not be empty")
	ErrMissingReceiver    = errors.New("settlement receiver must not be empty")
	ErrReceiverIsPayer    = errors.New("settlement receiver must differ from payer")
	ErrMissingShares      = errors.New("unequal split requires at least one share")
	ErrShareNotPositive   = errors.New("split shares must be greater than zero")
	ErrSplitMismatch      = errors.New("split shares must sum to the expense amount")
)

// Transaction is a money movement within a group: an expense or a settlement.
// Kind-dependent fields are zero-valued on the variant that does not use them:
// Receiver is set only for settlements, SplitMode and SplitShares only for
// expenses.
type Transaction struct {
	// ID is the store-assigned identifier (UUID format).
	ID string `json:"id"`

	// GroupID references the owning group. A transaction is meaningless
	// outside its group and must never be interpreted against another
	// group's member set.
	GroupID string `json:"groupId"`

	Kind TransactionKind `json:"kind"`

	// Description is required for expenses; settlements carry
	// SettlementLabel.
	Description string `json:"description"`

	// Amount is the total cost (expense) or the payment amount
	// (settlement). Always positive.
	Amount decimal.Decimal `json:"amount"`

	// Payer is the member who fronted the money (expense) or who paid
	// (settlement).
	Payer string `json:"payer"`

	// Receiver is the member who received a settlement payment. Empty for
	// expenses.
	Receiver string `json:"receiver,omitempty"`

	// SplitMode is set only for expenses.
	SplitMode SplitMode `json:"splitMode,omitempty"`

	// SplitShares maps member name to owed share for unequal expenses.
	// Keys need not cover every member; absent members owe nothing from
	// this transaction.
	SplitShares map[string]decimal.Decimal `json:"splitShares,omitempty"`

	// CreatedBy is the actor ID that recorded the transaction.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp (milliseconds) of creation, the
	// primary ordering key.
	CreatedAt int64 `json:"createdAt"`

	// Seq is the store-assigned arrival sequence, breaking CreatedAt ties.
	Seq int64 `json:"seq"`

	// Deleted marks a soft-deleted transaction: excluded from balance
	// computation, retained for audit and restore.
	Deleted bool `json:"deleted"`
}

// NewExpense validates and builds an expense transaction. For unequal splits
// the shares must sum to amount within SplitTolerance; each share must be
// positive. The ID, CreatedAt and Seq are assigned by the store.
func NewExpense(groupID, description string, amount decimal.Decimal, payer string, mode SplitMode, shares map[string]decimal.Decimal) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if description == "" {
		return nil, ErrMissingDescription
	}
	if payer == "" {
		return nil, ErrMissingPayer
	}

	tx := &Transaction{
		GroupID:     groupID,
		Kind:        KindExpense,
		Description: description,
		Amount:      amount,
		Payer:       payer,
		SplitMode:   mode,
	}

	if mode == SplitUnequal {
		if len(shares) == 0 {
			return nil, ErrMissingShares
		}
		sum := decimal.Zero
		for _, share := range shares {
			if !share.IsPositive() {
				return nil, ErrShareNotPositive
			}
			sum = sum.Add(share)
		}
		if sum.Sub(amount).Abs().GreaterThan(SplitTolerance) {
			return nil, ErrSplitMismatch
		}
		tx.SplitShares = shares
	}

	return tx, nil
}

// NewSettlement validates and builds a settlement transaction.
func NewSettlement(groupID string, amount decimal.Decimal, payer, receiver string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if payer == "" {
		return nil, ErrMissingPayer
	}
	if receiver == "" {
		return nil, ErrMissingReceiver
	}
	if receiver == payer {
		return nil, ErrReceiverIsPayer
	}
	return &Transaction{
		GroupID:     groupID,
		Kind:        KindSettlement,
		Description: SettlementLabel,
		Amount:      amount,
		Payer:       payer,
		Receiver:    receiver,
	}, nil
}
