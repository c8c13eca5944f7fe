// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kasticket/kasticket/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Receipt operations
	SaveReceipt(ctx context.Context, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	ListReceipts(ctx context.Context, userID string) ([]model.Receipt, error)
	DeleteReceipt(ctx context.Context, id string) error
	CountCompletedReceiptsSince(ctx context.Context, userID string, cutoff time.Time) (int, error)

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionsByUserSince(ctx context.Context, userID string, cutoff time.Time) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Enriched profile operations
	UpsertEnrichedProfile(ctx context.Context, profile *model.EnrichedProfile) error
	GetEnrichedProfile(ctx context.Context, userID string) (*model.EnrichedProfile, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
