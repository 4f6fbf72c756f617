// Package syncer keeps a session-local snapshot of groups and transactions
// converged with the document store.
//
// The coordinator holds two independent, long-lived collection watches. Every
// delivered snapshot replaces the local cache wholesale, then balances are
// recomputed synchronously for the active group only; other groups are
// computed lazily when selected. There is no incremental patching and no
// merge logic: a delivered snapshot is immediately authoritative.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/ledger"
	"github.com/Dishu223/fairshare-splitapp/internal/metrics"
	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
)

// State is the coordinator's session lifecycle state.
type State string

const (
	// StateDisconnected means no session is active and the cache is empty.
	StateDisconnected State = "disconnected"
	// StateSubscribing means watches are established but the initial
	// snapshots have not both arrived yet.
	StateSubscribing State = "subscribing"
	// StateSynced means the cache mirrors the store.
	StateSynced State = "synced"
	// StateError is terminal for the session: a collaborator reported an
	// unrecoverable failure. The cache must not be shown as fresh.
	StateError State = "error"
)

// ErrAlreadyStarted is returned by Start when a session is active.
var ErrAlreadyStarted = errors.New("sync coordinator already started")

// ErrSubscriptionLost marks a watch that terminated while the session was
// still live.
var ErrSubscriptionLost = errors.New("store subscription terminated")

// Coordinator maintains the local snapshot and derived balances for one
// session. All methods are safe for concurrent use.
type Coordinator struct {
	watcher store.Watcher

	mu            sync.Mutex
	state         State
	terminalErr   error
	cancel        context.CancelFunc
	done          chan struct{}
	gotGroups     bool
	gotTxs        bool
	groups        []models.Group
	txs           []models.Transaction
	activeGroupID string
	balances      map[string]decimal.Decimal
}

// New creates a coordinator over the given watcher. The session is not
// started.
func New(watcher store.Watcher) *Coordinator {
	return &Coordinator{
		watcher:  watcher,
		state:    StateDisconnected,
		balances: map[string]decimal.Decimal{},
	}
}

// Start establishes both collection watches and begins applying snapshots.
// It returns once the subscriptions exist; convergence happens in the
// background. Only one session may be active at a time.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	groupCh, err := c.watcher.WatchGroups(sessionCtx)
	if err != nil {
		cancel()
		c.state = StateError
		c.terminalErr = err
		c.mu.Unlock()
		return fmt.Errorf("failed to watch groups: %w", err)
	}
	txCh, err := c.watcher.WatchTransactions(sessionCtx)
	if err != nil {
		cancel()
		c.state = StateError
		c.terminalErr = err
		c.mu.Unlock()
		return fmt.Errorf("failed to watch transactions: %w", err)
	}

	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = StateSubscribing
	c.gotGroups = false
	c.gotTxs = false
	done := c.done
	c.mu.Unlock()

	go c.pump(sessionCtx, groupCh, txCh, done)
	return nil
}

// pump applies snapshots until the session ends or a watch fails.
func (c *Coordinator) pump(ctx context.Context, groupCh <-chan []models.Group, txCh <-chan []models.Transaction, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			// Session teardown: anything still in flight is discarded.
			return
		case snapshot, ok := <-groupCh:
			if !ok {
				c.fail(ctx, "groups")
				return
			}
			c.applyGroups(snapshot)
		case snapshot, ok := <-txCh:
			if !ok {
				c.fail(ctx, "transactions")
				return
			}
			c.applyTransactions(snapshot)
		}
	}
}

// fail records a terminal subscription loss unless the session itself ended.
func (c *Coordinator) fail(ctx context.Context, collection string) {
	if ctx.Err() != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateError
	c.terminalErr = fmt.Errorf("%w: %s", ErrSubscriptionLost, collection)
	slog.Error("Sync subscription lost", "collection", collection)
}

// Stop tears the session down: both watches are canceled, the local cache is
// cleared, and the coordinator returns to Disconnected. Change notifications
// delivered after teardown are discarded.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDisconnected
	c.terminalErr = nil
	c.groups = nil
	c.txs = nil
	c.activeGroupID = ""
	c.balances = map[string]decimal.Decimal{}
}

// State returns the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the terminal error, if the session is in StateError.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminalErr
}

// applyGroups replaces the cached group collection wholesale.
func (c *Coordinator) applyGroups(snapshot []models.Group) {
	metrics.SnapshotsApplied.WithLabelValues("groups").Inc()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateError {
		return
	}
	c.groups = snapshot
	c.gotGroups = true
	c.afterApplyLocked()
}

// applyTransactions replaces the cached transaction collection wholesale.
func (c *Coordinator) applyTransactions(snapshot []models.Transaction) {
	metrics.SnapshotsApplied.WithLabelValues("transactions").Inc()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateError {
		return
	}
	c.txs = snapshot
	c.gotTxs = true
	c.afterApplyLocked()
}

func (c *Coordinator) afterApplyLocked() {
	if c.gotGroups && c.gotTxs && c.state == StateSubscribing {
		c.state = StateSynced
		slog.Info("Sync session converged", "groups", len(c.groups), "transactions", len(c.txs))
	}
	c.recomputeLocked()
}

// recomputeLocked re-aggregates balances for the active group only.
func (c *Coordinator) recomputeLocked() {
	if c.activeGroupID == "" {
		return
	}
	timer := prometheus.NewTimer(metrics.BalanceRecomputes)
	defer timer.ObserveDuration()
	c.balances = ledger.ComputeBalances(c.findGroupLocked(c.activeGroupID), c.txs)
}

func (c *Coordinator) findGroupLocked(groupID string) *models.Group {
	for i := range c.groups {
		if c.groups[i].ID == groupID {
			return &c.groups[i]
		}
	}
	return nil
}

// SetActiveGroup selects the group whose balances are kept current on every
// snapshot. Selecting a group computes its balances immediately.
func (c *Coordinator) SetActiveGroup(groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeGroupID == groupID {
		return
	}
	c.activeGroupID = groupID
	c.recomputeLocked()
}

// Balances returns the balances of the given group from the cached snapshot,
// making it the active group. The returned map is a copy.
func (c *Coordinator) Balances(groupID string) map[string]decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeGroupID != groupID {
		c.activeGroupID = groupID
		c.recomputeLocked()
	}
	out := make(map[string]decimal.Decimal, len(c.balances))
	for member, bal := range c.balances {
		out[member] = bal
	}
	return out
}

// Groups returns the cached group collection.
func (c *Coordinator) Groups() []models.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// GroupTransactions returns the cached transactions of one group, newest
// first, deleted ones included.
func (c *Coordinator) GroupTransactions(groupID string) []models.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Transaction
	for _, tx := range c.txs {
		if tx.GroupID == groupID {
			out = append(out, tx)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// WaitSynced blocks until the session reaches StateSynced, fails, or the
// timeout elapses. Intended for startup and tests.
func (c *Coordinator) WaitSynced(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		switch c.State() {
		case StateSynced:
			return nil
		case StateError:
			return c.Err()
		case StateDisconnected:
			return errors.New("sync session not started")
		}
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for sync")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
