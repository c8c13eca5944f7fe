package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
)

// SaveReceipt inserts or updates a receipt.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}
	return s.saveReceiptTx(ctx, s.db, receipt)
}

func (s *SQLiteStorage) saveReceiptTx(ctx context.Context, ex executor, receipt *model.Receipt) error {
	var processedAt any
	if receipt.ProcessedAt != nil {
		processedAt = *receipt.ProcessedAt
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO receipts (id, user_id, store_name, receipt_date, total_amount, status, source_file, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			store_name = excluded.store_name,
			receipt_date = excluded.receipt_date,
			total_amount = excluded.total_amount,
			status = excluded.status,
			source_file = excluded.source_file,
			processed_at = excluded.processed_at
	`,
		receipt.ID,
		receipt.UserID,
		receipt.StoreName,
		receipt.Date,
		receipt.TotalAmount,
		string(receipt.Status),
		receipt.SourceFile,
		processedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", receipt.ID, err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID.
func (s *SQLiteStorage) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getReceiptTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getReceiptTx(ctx context.Context, ex executor, id string) (*model.Receipt, error) {
	row := ex.QueryRowContext(ctx, `
		SELECT id, user_id, store_name, receipt_date, total_amount, status, source_file, created_at, processed_at
		FROM receipts WHERE id = ?
	`, id)

	receipt, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", id, err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts for a user, newest first.
func (s *SQLiteStorage) ListReceipts(ctx context.Context, userID string) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.listReceiptsTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) listReceiptsTx(ctx context.Context, ex executor, userID string) ([]model.Receipt, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT id, user_id, store_name, receipt_date, total_amount, status, source_file, created_at, processed_at
		FROM receipts
		WHERE user_id = ?
		ORDER BY receipt_date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", scanErr)
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, rows.Err()
}

// DeleteReceipt removes a receipt and all its purchase lines.
func (s *SQLiteStorage) DeleteReceipt(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deleteReceiptTx(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) deleteReceiptTx(ctx context.Context, ex executor, id string) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM transactions WHERE receipt_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete receipt lines: %w", err)
	}

	result, err := ex.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete receipt %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// CountCompletedReceiptsSince counts a user's completed receipts dated on or
// after the cutoff.
func (s *SQLiteStorage) CountCompletedReceiptsSince(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	return s.countCompletedReceiptsSinceTx(ctx, s.db, userID, cutoff)
}

func (s *SQLiteStorage) countCompletedReceiptsSinceTx(ctx context.Context, ex executor, userID string, cutoff time.Time) (int, error) {
	var count int
	err := ex.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM receipts
		WHERE user_id = ? AND receipt_date >= ? AND status = ?
	`, userID, cutoff, string(model.ReceiptCompleted)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return count, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*model.Receipt, error) {
	var (
		receipt     model.Receipt
		storeName   sql.NullString
		date        sql.NullTime
		totalAmount sql.NullFloat64
		status      string
		sourceFile  sql.NullString
		processedAt sql.NullTime
	)
	err := row.Scan(
		&receipt.ID,
		&receipt.UserID,
		&storeName,
		&date,
		&totalAmount,
		&status,
		&sourceFile,
		&receipt.CreatedAt,
		&processedAt,
	)
	if err != nil {
		return nil, err
	}

	receipt.StoreName = storeName.String
	if date.Valid {
		receipt.Date = date.Time
	}
	receipt.TotalAmount = totalAmount.Float64
	receipt.Status = model.ReceiptStatus(status)
	receipt.SourceFile = sourceFile.String
	if processedAt.Valid {
		t := processedAt.Time
		receipt.ProcessedAt = &t
	}
	return &receipt, nil
}
