package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
)

// SaveTransactions saves multiple purchase lines to the database.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	// Validate inputs
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTransactionsTx(ctx, tx, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, ex executor, transactions []model.Transaction) error {
	stmt, err := ex.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, user_id, receipt_id, store_name, item_name,
			normalized_name, normalized_brand, category, granular_category,
			item_price, quantity, health_score, is_premium, is_deposit, date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		var receiptID any
		if txn.ReceiptID != "" {
			receiptID = txn.ReceiptID
		}
		var healthScore any
		if txn.HealthScore != nil {
			healthScore = *txn.HealthScore
		}
		quantity := txn.Quantity
		if quantity == 0 {
			quantity = 1
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.UserID,
			receiptID,
			txn.StoreName,
			txn.ItemName,
			nullableString(txn.NormalizedName),
			nullableString(txn.NormalizedBrand),
			string(txn.Category),
			nullableString(txn.GranularCategory),
			txn.ItemPrice,
			quantity,
			healthScore,
			txn.IsPremium,
			txn.IsDeposit,
			txn.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return nil
}

// GetTransactionsByUserSince returns a user's purchase lines dated on or
// after the cutoff, oldest first.
func (s *SQLiteStorage) GetTransactionsByUserSince(ctx context.Context, userID string, cutoff time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.getTransactionsByUserSinceTx(ctx, s.db, userID, cutoff)
}

func (s *SQLiteStorage) getTransactionsByUserSinceTx(ctx context.Context, ex executor, userID string, cutoff time.Time) ([]model.Transaction, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT id, user_id, receipt_id, store_name, item_name,
			normalized_name, normalized_brand, category, granular_category,
			item_price, quantity, health_score, is_premium, is_deposit, date
		FROM transactions
		WHERE user_id = ? AND date >= ?
		ORDER BY date, id
	`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn              model.Transaction
			receiptID        sql.NullString
			normalizedName   sql.NullString
			normalizedBrand  sql.NullString
			category         string
			granularCategory sql.NullString
			healthScore      sql.NullInt64
		)
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&receiptID,
			&txn.StoreName,
			&txn.ItemName,
			&normalizedName,
			&normalizedBrand,
			&category,
			&granularCategory,
			&txn.ItemPrice,
			&txn.Quantity,
			&healthScore,
			&txn.IsPremium,
			&txn.IsDeposit,
			&txn.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.ReceiptID = receiptID.String
		txn.NormalizedName = normalizedName.String
		txn.NormalizedBrand = normalizedBrand.String
		txn.Category = model.ParseCategory(category)
		txn.GranularCategory = granularCategory.String
		if healthScore.Valid {
			score := int(healthScore.Int64)
			txn.HealthScore = &score
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// DeleteTransaction removes a single purchase line.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.deleteTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteTransactionTx(ctx context.Context, ex executor, id string) error {
	result, err := ex.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
