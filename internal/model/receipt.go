package model

import "time"

// ReceiptStatus tracks a receipt through the processing pipeline.
type ReceiptStatus string

// Receipt processing states.
const (
	ReceiptPending    ReceiptStatus = "pending"
	ReceiptProcessing ReceiptStatus = "processing"
	ReceiptCompleted  ReceiptStatus = "completed"
	ReceiptFailed     ReceiptStatus = "failed"
)

// Receipt groups the purchase lines extracted from one uploaded receipt.
// Only completed receipts count toward shopping frequency.
type Receipt struct {
	Date        time.Time
	CreatedAt   time.Time
	ProcessedAt *time.Time
	ID          string
	UserID      string
	StoreName   string
	SourceFile  string
	Status      ReceiptStatus
	TotalAmount float64
}
