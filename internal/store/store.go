// Package store defines the document store contract the ledger depends on.
//
// The contract is deliberately narrow: atomic create-returning-id, a couple
// of atomic field updates (append a unique member, flip the deleted flag),
// delete-by-id, and collection watches that deliver a full snapshot of the
// collection on every change. Last write wins per record. Nothing here
// depends on a query language or persistence format.
package store

import (
	"context"
	"errors"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
)

// ErrNotFound is returned when a record does not exist. Implementations wrap
// it with the record ID.
var ErrNotFound = errors.New("record not found")

// GroupStore persists group records.
type GroupStore interface {
	// CreateGroup persists a new group, assigning ID and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]models.Group, error)

	// AddGroupMember appends a member name to the group's member list if it
	// is not already present. This is a single atomic set-union write, not
	// a read-modify-write cycle, and is idempotent.
	AddGroupMember(ctx context.Context, groupID, member string) error

	// DeleteGroup hard-deletes a group and cascades to its transactions.
	DeleteGroup(ctx context.Context, groupID string) error
}

// TransactionStore persists transaction records.
type TransactionStore interface {
	// CreateTransaction persists a new transaction, assigning ID,
	// CreatedAt and the arrival sequence.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactions retrieves every transaction, deleted ones included.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	// ListGroupTransactions retrieves a group's transactions, deleted ones
	// included, newest first.
	ListGroupTransactions(ctx context.Context, groupID string) ([]models.Transaction, error)

	// SetTransactionDeleted flips the soft-delete flag. Records are never
	// physically removed this way, so a delete can be restored.
	SetTransactionDeleted(ctx context.Context, txID string, deleted bool) error
}

// UserStore persists actor records.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Watcher delivers full collection snapshots. A watch sends the current
// snapshot immediately on subscription and a fresh full snapshot after every
// change to the collection. Slow receivers see the latest snapshot only:
// intermediate ones may be coalesced away. The channel is closed when ctx is
// canceled or the store shuts down.
type Watcher interface {
	WatchGroups(ctx context.Context) (<-chan []models.Group, error)
	WatchTransactions(ctx context.Context) (<-chan []models.Transaction, error)
}

// Store is the full document store contract.
type Store interface {
	GroupStore
	TransactionStore
	UserStore
	Watcher

	// Close releases any resources held by the store.
	Close() error
}
