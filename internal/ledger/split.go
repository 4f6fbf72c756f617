// Package ledger computes per-member debits and balances from a group's
// transaction log. Both functions are pure and total: they never return
// errors and never mutate their inputs.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// ResolveShares computes, for a single expense, the amount each member owes
// toward it.
//
// Equal splits divide the amount by the group's current member count, so
// adding a member retroactively changes the implied split of prior equal
// expenses. Unequal splits use the shares stored on the transaction; members
// absent from the share map owe nothing. Stored shares are trusted: they were
// validated against the tolerance at creation time.
//
// Non-expense transactions and empty member lists yield an empty map.
func ResolveShares(tx models.Transaction, members []string) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal)
	if tx.Kind != models.KindExpense {
		return shares
	}

	if tx.SplitMode == models.SplitUnequal {
		for member, share := range tx.SplitShares {
			shares[member] = share
		}
		return shares
	}

	if len(members) == 0 {
		return shares
	}
	perMember := tx.Amount.Div(decimal.NewFromInt(int64(len(members))))
	for _, member := range members {
		shares[member] = perMember
	}
	return shares
}
