package sqlite

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// broadcaster fans full collection snapshots out to subscribers. Each
// subscriber gets a buffered channel of capacity one; when a subscriber lags,
// the stale pending snapshot is replaced by the newest one. Only the latest
// snapshot matters, since every snapshot is complete and authoritative.
//
// Snapshot loads run under the broadcaster lock so that subscription and
// publication are totally ordered: a watcher either sees a change in its
// initial snapshot or receives it as a later one, never neither.
type broadcaster[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
	closed bool
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[int]chan T)}
}

// subscribe registers a new watcher with the current snapshot pre-delivered.
// The channel is closed when ctx is canceled or the broadcaster shuts down.
func (b *broadcaster[T]) subscribe(ctx context.Context, load func() (T, error)) (<-chan T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, 1)
	if b.closed {
		close(ch)
		return ch, nil
	}

	snapshot, err := load()
	if err != nil {
		return nil, err
	}
	ch <- snapshot

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}()

	return ch, nil
}

// publish loads a fresh snapshot and delivers it to every subscriber,
// coalescing with any undelivered one.
func (b *broadcaster[T]) publish(load func() (T, error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || len(b.subs) == 0 {
		return
	}

	snapshot, err := load()
	if err != nil {
		slog.Error("Failed to load snapshot for watchers", "error", err)
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot, then push the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// notifyGroups broadcasts a fresh group collection snapshot.
func (s *SQLiteStore) notifyGroups(ctx context.Context) {
	s.groupWatchers.publish(func() ([]models.Group, error) {
		return s.ListGroups(ctx)
	})
}

// notifyTransactions broadcasts a fresh transaction collection snapshot.
func (s *SQLiteStore) notifyTransactions(ctx context.Context) {
	s.txWatchers.publish(func() ([]models.Transaction, error) {
		return s.ListTransactions(ctx)
	})
}

// WatchGroups subscribes to the group collection. The current snapshot is
// delivered immediately, then a full snapshot follows every change.
func (s *SQLiteStore) WatchGroups(ctx context.Context) (<-chan []models.Group, error) {
	return s.groupWatchers.subscribe(ctx, func() ([]models.Group, error) {
		return s.ListGroups(ctx)
	})
}

// WatchTransactions subscribes to the transaction collection. The current
// snapshot is delivered immediately, then a full snapshot follows every
// change.
func (s *SQLiteStore) WatchTransactions(ctx context.Context) (<-chan []models.Transaction, error) {
	return s.txWatchers.subscribe(ctx, func() ([]models.Transaction, error) {
		return s.ListTransactions(ctx)
	})
}
