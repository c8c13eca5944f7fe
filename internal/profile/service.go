package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
	"github.com/kasticket/kasticket/internal/service"
)

// LookbackDays is how many days of history a rebuild aggregates.
const LookbackDays = 90

// Rebuilder recomputes a user's enriched profile from their recent
// transaction history and persists it. Every rebuild starts from the full
// window and overwrites the previous profile; concurrent rebuilds for the
// same user are last-write-wins and converge on the same content.
type Rebuilder struct {
	store service.Storage
	now   func() time.Time
}

// NewRebuilder creates a Rebuilder backed by the given storage.
func NewRebuilder(store service.Storage) *Rebuilder {
	return &Rebuilder{store: store, now: time.Now}
}

// Rebuild is the fire-and-forget trigger called after receipt uploads and
// deletions. Failures are logged and swallowed so the triggering write always
// succeeds; the previous profile stays in place until the next successful run.
func (r *Rebuilder) Rebuild(ctx context.Context, userID string) {
	if _, err := r.RebuildProfile(ctx, userID); err != nil {
		common.LogError(err, "failed to rebuild enriched profile", common.Fields{
			"user_id": userID,
		})
	}
}

// RebuildProfile recomputes and persists the enriched profile, returning it.
// Either the full profile is written or nothing is; no partial state.
func (r *Rebuilder) RebuildProfile(ctx context.Context, userID string) (*model.EnrichedProfile, error) {
	now := r.now().UTC()
	today := now.Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -LookbackDays)

	txns, err := r.store.GetTransactionsByUserSince(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	receiptCount, err := r.store.CountCompletedReceiptsSince(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to count receipts: %w", err)
	}
	common.LogDebug("loaded aggregation window", common.Fields{
		"user_id":      userID,
		"transactions": len(txns),
		"receipts":     receiptCount,
		"cutoff":       cutoff.Format("2006-01-02"),
	})

	habits := BuildShoppingHabits(txns, receiptCount, cutoff, today)
	items := BuildPromoInterestItems(txns, cutoff, today)

	periodStart, periodEnd := cutoff, today
	if len(txns) > 0 {
		periodStart, periodEnd = txns[0].Date, txns[0].Date
		for _, t := range txns[1:] {
			if t.Date.Before(periodStart) {
				periodStart = t.Date
			}
			if t.Date.After(periodEnd) {
				periodEnd = t.Date
			}
		}
	}

	prof := &model.EnrichedProfile{
		UserID:             userID,
		ShoppingHabits:     &habits,
		PromoInterestItems: items,
		DataPeriodStart:    periodStart,
		DataPeriodEnd:      periodEnd,
		ReceiptsAnalyzed:   receiptCount,
		LastRebuiltAt:      now,
	}
	if err := r.store.UpsertEnrichedProfile(ctx, prof); err != nil {
		return nil, fmt.Errorf("failed to upsert enriched profile: %w", err)
	}

	common.LogInfo("enriched profile rebuilt", common.Fields{
		"user_id":        userID,
		"receipts":       receiptCount,
		"transactions":   len(txns),
		"interest_items": len(items),
	})

	return prof, nil
}
