package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
)

// UpsertEnrichedProfile writes the enriched profile for a user, replacing any
// previous version. The write is a single statement, so a concurrent rebuild
// can never leave a half-updated row.
func (s *SQLiteStorage) UpsertEnrichedProfile(ctx context.Context, profile *model.EnrichedProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return s.upsertEnrichedProfileTx(ctx, s.db, profile)
}

func (s *SQLiteStorage) upsertEnrichedProfileTx(ctx context.Context, ex executor, profile *model.EnrichedProfile) error {
	habitsJSON, err := json.Marshal(profile.ShoppingHabits)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping habits: %w", err)
	}
	itemsJSON, err := json.Marshal(profile.PromoInterestItems)
	if err != nil {
		return fmt.Errorf("failed to marshal interest items: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO enriched_profiles (
			user_id, shopping_habits, promo_interest_items,
			data_period_start, data_period_end, receipts_analyzed, last_rebuilt_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			shopping_habits = excluded.shopping_habits,
			promo_interest_items = excluded.promo_interest_items,
			data_period_start = excluded.data_period_start,
			data_period_end = excluded.data_period_end,
			receipts_analyzed = excluded.receipts_analyzed,
			last_rebuilt_at = excluded.last_rebuilt_at,
			updated_at = CURRENT_TIMESTAMP
	`,
		profile.UserID,
		string(habitsJSON),
		string(itemsJSON),
		profile.DataPeriodStart,
		profile.DataPeriodEnd,
		profile.ReceiptsAnalyzed,
		profile.LastRebuiltAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert enriched profile for %s: %w", profile.UserID, err)
	}
	return nil
}

// GetEnrichedProfile retrieves the stored profile for a user.
func (s *SQLiteStorage) GetEnrichedProfile(ctx context.Context, userID string) (*model.EnrichedProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return s.getEnrichedProfileTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getEnrichedProfileTx(ctx context.Context, ex executor, userID string) (*model.EnrichedProfile, error) {
	var (
		profile       model.EnrichedProfile
		habitsJSON    sql.NullString
		itemsJSON     sql.NullString
		periodStart   sql.NullTime
		periodEnd     sql.NullTime
		lastRebuiltAt sql.NullTime
	)
	err := ex.QueryRowContext(ctx, `
		SELECT user_id, shopping_habits, promo_interest_items,
			data_period_start, data_period_end, receipts_analyzed, last_rebuilt_at
		FROM enriched_profiles WHERE user_id = ?
	`, userID).Scan(
		&profile.UserID,
		&habitsJSON,
		&itemsJSON,
		&periodStart,
		&periodEnd,
		&profile.ReceiptsAnalyzed,
		&lastRebuiltAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enriched profile for %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enriched profile for %s: %w", userID, err)
	}

	if habitsJSON.Valid && habitsJSON.String != "" && habitsJSON.String != "null" {
		var habits model.ShoppingHabits
		if err := json.Unmarshal([]byte(habitsJSON.String), &habits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shopping habits: %w", err)
		}
		profile.ShoppingHabits = &habits
	}
	if itemsJSON.Valid && itemsJSON.String != "" && itemsJSON.String != "null" {
		if err := json.Unmarshal([]byte(itemsJSON.String), &profile.PromoInterestItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interest items: %w", err)
		}
	}
	if periodStart.Valid {
		profile.DataPeriodStart = periodStart.Time
	}
	if periodEnd.Valid {
		profile.DataPeriodEnd = periodEnd.Time
	}
	if lastRebuiltAt.Valid {
		profile.LastRebuiltAt = lastRebuiltAt.Time
	}
	return &profile, nil
}
