package model

import (
	"strings"
	"time"
)

// Transaction is a single purchase line parsed from a receipt.
type Transaction struct {
	Date             time.Time
	HealthScore      *int // 0-5, nil for non-food items
	ID               string
	UserID           string
	ReceiptID        string // empty if the line is not attached to a receipt
	StoreName        string
	ItemName         string // raw item description as printed on the receipt
	NormalizedName   string // cleaned, brand-and-packaging-stripped product name
	NormalizedBrand  string
	GranularCategory string
	Category         Category
	ItemPrice        float64 // line total, already quantity-multiplied
	Quantity         int
	IsPremium        bool // name-brand rather than store-brand
	IsDeposit        bool // bottle/can deposit line
}

// ResolvedName returns the lower-cased, trimmed product name used for
// cross-receipt matching: the normalized name when present, the raw item
// name otherwise. May be empty.
func (t *Transaction) ResolvedName() string {
	name := t.NormalizedName
	if name == "" {
		name = t.ItemName
	}
	return strings.ToLower(strings.TrimSpace(name))
}
