// Package storage provides the data persistence layer for the kasticket application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kasticket/kasticket/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidReceipt     = errors.New("invalid receipt")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidProfile     = errors.New("invalid enriched profile")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReceipt validates a receipt.
func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if receipt.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidReceipt)
	}
	if receipt.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidReceipt)
	}
	switch receipt.Status {
	case model.ReceiptPending, model.ReceiptProcessing, model.ReceiptCompleted, model.ReceiptFailed:
		// Valid status
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidReceipt, receipt.Status)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	if txn.ItemName == "" {
		return fmt.Errorf("%w: missing item name", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity", ErrInvalidTransaction)
	}
	return nil
}

// validateProfile validates an enriched profile before persisting.
func validateProfile(profile *model.EnrichedProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if profile.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidProfile)
	}
	if len(profile.PromoInterestItems) > 25 {
		return fmt.Errorf("%w: too many interest items (%d)", ErrInvalidProfile, len(profile.PromoInterestItems))
	}
	return nil
}
