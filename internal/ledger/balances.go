package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// ComputeBalances folds the group's transactions into a signed balance per
// member. Positive means the member is owed money, negative means they owe.
//
// Soft-deleted transactions and transactions belonging to other groups
// contribute nothing. A member referenced by a transaction but absent from
// the group's current member list is silently skipped: their side of the
// arithmetic is dropped, which can break the zero-sum property if members
// are ever removed after transacting.
//
// Processing order is ascending CreatedAt with the store arrival sequence as
// tiebreak. The fold is commutative per transaction, so the final map does
// not depend on input order; the stable order exists for deterministic
// intermediate states.
//
// All arithmetic is full-precision decimal. Rounding happens only at
// presentation time, never here.
func ComputeBalances(group *models.Group, txs []models.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	if group == nil {
		return balances
	}
	for _, member := range group.Members {
		balances[member] = decimal.Zero
	}

	ordered := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Deleted || tx.GroupID != group.ID {
			continue
		}
		ordered = append(ordered, tx)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt != ordered[j].CreatedAt {
			return ordered[i].CreatedAt < ordered[j].CreatedAt
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	for _, tx := range ordered {
		switch tx.Kind {
		case models.KindSettlement:
			if bal, ok := balances[tx.Payer]; ok {
				balances[tx.Payer] = bal.Add(tx.Amount)
			}
			if bal, ok := balances[tx.Receiver]; ok {
				balances[tx.Receiver] = bal.Sub(tx.Amount)
			}
		case models.KindExpense:
			if bal, ok := balances[tx.Payer]; ok {
				balances[tx.Payer] = bal.Add(tx.Amount)
			}
			for member, share := range ResolveShares(tx, group.Members) {
				if bal, ok := balances[member]; ok {
					balances[member] = bal.Sub(share)
				}
			}
		}
	}

	return balances
}

// GroupTotal sums the amounts of the group's live expenses. Settlements move
// money between members without adding to what the group spent, so they are
// excluded, as are soft-deleted transactions.
func GroupTotal(groupID string, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Deleted || tx.GroupID != groupID || tx.Kind != models.KindExpense {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}
