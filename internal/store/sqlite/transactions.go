package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
)

const txColumns = "id, rowid, group_id, kind, description, amount, payer, receiver, split_mode, split_shares, created_by, created_at, deleted"

// CreateTransaction persists a new transaction. The ID, CreatedAt and the
// arrival sequence are assigned here; the record is immutable afterwards
// except for the deleted flag.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().UnixMilli()
	}

	var receiver any
	if tx.Receiver != "" {
		receiver = tx.Receiver
	}
	var splitMode any
	if tx.SplitMode != "" {
		splitMode = string(tx.SplitMode)
	}
	var splitShares any
	if tx.SplitShares != nil {
		encoded, err := json.Marshal(tx.SplitShares)
		if err != nil {
			return fmt.Errorf("failed to encode split shares: %w", err)
		}
		splitShares = string(encoded)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, group_id, kind, description, amount, payer, receiver, split_mode, split_shares, created_by, created_at, deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.GroupID, string(tx.Kind), tx.Description, tx.Amount.String(),
		tx.Payer, receiver, splitMode, splitShares, tx.CreatedBy, tx.CreatedAt, tx.Deleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	// The rowid doubles as the store-assigned arrival sequence.
	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction sequence: %w", err)
	}
	tx.Seq = seq

	s.notifyTransactions(ctx)
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ?", txID,
	)
	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", store.ErrNotFound, txID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions retrieves every transaction, deleted ones included, in
// arrival order.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions ORDER BY rowid")
}

// ListGroupTransactions retrieves a group's transactions, deleted ones
// included, newest first.
func (s *SQLiteStore) ListGroupTransactions(ctx context.Context, groupID string) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE group_id = ? ORDER BY created_at DESC, rowid DESC",
		groupID)
}

// SetTransactionDeleted flips the soft-delete flag: a single atomic field
// update, reversible at any time.
func (s *SQLiteStore) SetTransactionDeleted(ctx context.Context, txID string, deleted bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET deleted = ? WHERE id = ?", deleted, txID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deleted flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", store.ErrNotFound, txID)
	}

	s.notifyTransactions(ctx)
	return nil
}

func (s *SQLiteStore) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// scanTransaction decodes one transaction row via the given scan function.
func scanTransaction(scan func(...any) error) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var (
		kind        string
		amount      string
		receiver    sql.NullString
		splitMode   sql.NullString
		splitShares sql.NullString
	)

	err := scan(&tx.ID, &tx.Seq, &tx.GroupID, &kind, &tx.Description, &amount,
		&tx.Payer, &receiver, &splitMode, &splitShares, &tx.CreatedBy, &tx.CreatedAt, &tx.Deleted)
	if err != nil {
		return nil, err
	}

	tx.Kind = models.TransactionKind(kind)
	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	if receiver.Valid {
		tx.Receiver = receiver.String
	}
	if splitMode.Valid {
		tx.SplitMode = models.SplitMode(splitMode.String)
	}
	if splitShares.Valid {
		if err := json.Unmarshal([]byte(splitShares.String), &tx.SplitShares); err != nil {
			return nil, fmt.Errorf("invalid stored split shares: %w", err)
		}
	}

	return tx, nil
}
