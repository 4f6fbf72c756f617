package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/ledger"
	"github.com/Dishu223/fairshare-splitapp/internal/metrics"
	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
	"github.com/Dishu223/fairshare-splitapp/internal/syncer"
)

// LedgerService records transactions and answers balance queries. Balance
// reads prefer the sync coordinator's cached snapshots; when the coordinator
// is not synced the service computes directly from the store.
type LedgerService struct {
	groups store.GroupStore
	txs    store.TransactionStore
	coord  *syncer.Coordinator
	logger *slog.Logger
}

// NewLedgerService creates a new ledger service. coord may be nil, in which
// case every balance read computes from the store.
func NewLedgerService(groups store.GroupStore, txs store.TransactionStore, coord *syncer.Coordinator, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		groups: groups,
		txs:    txs,
		coord:  coord,
		logger: logger,
	}
}

// RecordExpense validates and persists an expense. The payer must be a
// current member of the group; validation failures reject the expense before
// any write.
func (s *LedgerService) RecordExpense(ctx context.Context, actorID, groupID, description string, amount decimal.Decimal, payer string, mode models.SplitMode, shares map[string]decimal.Decimal) (*models.Transaction, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payer) {
		return nil, fmt.Errorf("payer %q: %w", payer, ErrUnknownMember)
	}

	tx, err := models.NewExpense(groupID, description, amount, payer, mode, shares)
	if err != nil {
		return nil, err
	}
	tx.CreatedBy = actorID

	if err := s.txs.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	metrics.TransactionsRecorded.WithLabelValues(string(models.KindExpense)).Inc()
	s.logger.Info("Expense recorded",
		"tx_id", tx.ID,
		"group_id", groupID,
		"amount", amount.String(),
		"payer", payer,
		"split_mode", mode,
	)
	return tx, nil
}

// RecordSettlement validates and persists a settlement payment from payer to
// receiver. Both must be current members of the group.
func (s *LedgerService) RecordSettlement(ctx context.Context, actorID, groupID string, amount decimal.Decimal, payer, receiver string) (*models.Transaction, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payer) {
		return nil, fmt.Errorf("payer %q: %w", payer, ErrUnknownMember)
	}
	if receiver != "" && !group.HasMember(receiver) {
		return nil, fmt.Errorf("receiver %q: %w", receiver, ErrUnknownMember)
	}

	tx, err := models.NewSettlement(groupID, amount, payer, receiver)
	if err != nil {
		return nil, err
	}
	tx.CreatedBy = actorID

	if err := s.txs.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}

	metrics.TransactionsRecorded.WithLabelValues(string(models.KindSettlement)).Inc()
	s.logger.Info("Settlement recorded",
		"tx_id", tx.ID,
		"group_id", groupID,
		"amount", amount.String(),
		"payer", payer,
		"receiver", receiver,
	)
	return tx, nil
}

// DeleteTransaction soft-deletes a transaction. The record is retained and
// can be restored; balances exclude it immediately.
func (s *LedgerService) DeleteTransaction(ctx context.Context, actorID, txID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	if err := s.txs.SetTransactionDeleted(ctx, txID, true); err != nil {
		return err
	}

	s.logger.Info("Transaction soft-deleted", "tx_id", txID, "actor_id", actorID)
	return nil
}

// RestoreTransaction clears the soft-delete flag, bringing the transaction
// back into balance computation.
func (s *LedgerService) RestoreTransaction(ctx context.Context, actorID, txID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	if err := s.txs.SetTransactionDeleted(ctx, txID, false); err != nil {
		return err
	}

	s.logger.Info("Transaction restored", "tx_id", txID, "actor_id", actorID)
	return nil
}

// ListTransactions retrieves a group's transactions, newest first. Deleted
// records are excluded unless includeDeleted is set.
func (s *LedgerService) ListTransactions(ctx context.Context, groupID string, includeDeleted bool) ([]models.Transaction, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	txs, err := s.txs.ListGroupTransactions(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if includeDeleted {
		return txs, nil
	}

	live := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Deleted {
			live = append(live, tx)
		}
	}
	return live, nil
}

// BalanceSummary is the result of a balance query: per-member net positions
// and the group's running total of live expenses.
type BalanceSummary struct {
	GroupID  string                     `json:"groupId"`
	Balances map[string]decimal.Decimal `json:"balances"`
	Total    decimal.Decimal            `json:"total"`
}

// Balances computes the group's per-member net balances and running total.
// When the coordinator holds a synced snapshot the balances come from its
// cache; otherwise they are computed from the store.
func (s *LedgerService) Balances(ctx context.Context, groupID string) (*BalanceSummary, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	txs, err := s.txs.ListGroupTransactions(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var balances map[string]decimal.Decimal
	if s.coord != nil && s.coord.State() == syncer.StateSynced {
		balances = s.coord.Balances(groupID)
	} else {
		timer := prometheus.NewTimer(metrics.BalanceRecomputes)
		balances = ledger.ComputeBalances(group, txs)
		timer.ObserveDuration()
	}

	return &BalanceSummary{
		GroupID:  groupID,
		Balances: balances,
		Total:    ledger.GroupTotal(groupID, txs),
	}, nil
}
