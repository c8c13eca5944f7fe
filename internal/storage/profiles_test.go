package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kasticket/kasticket/internal/common"
	"github.com/kasticket/kasticket/internal/model"
)

func createTestProfile(userID string) *model.EnrichedProfile {
	health := 3.4
	return &model.EnrichedProfile{
		UserID: userID,
		ShoppingHabits: &model.ShoppingHabits{
			TotalSpend:               245.67,
			ReceiptCount:             12,
			AvgReceiptTotal:          20.47,
			ShoppingFrequencyPerWeek: 0.9,
			AvgHealthScore:           &health,
			PreferredStores: []model.StorePreference{
				{Name: "Colruyt", Spend: 180.00, Pct: 73.3, Visits: 9},
			},
			PreferredShoppingDays: []model.ShoppingDay{{Day: "Saturday", Pct: 41.7}},
			CategoryBreakdown:     []model.CategorySpend{},
			TopGranularCategories: []string{"Beer", "Milk"},
		},
		PromoInterestItems: []model.PromoInterestItem{
			{
				NormalizedName:   "jupiler pils",
				InterestCategory: model.InterestStaple,
				Brands:           []string{"Jupiler"},
				Tags:             []string{model.TagWeekly},
				LastPurchased:    "2026-02-10",
				PreferredDays:    []string{"Friday"},
				Context:          "9 trips (0.7/wk), avg €14.99, 1.0 units/trip; last bought 4d ago",
			},
		},
		DataPeriodStart:  time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC),
		DataPeriodEnd:    time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
		ReceiptsAnalyzed: 12,
		LastRebuiltAt:    time.Date(2026, time.February, 12, 9, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStorage_ProfileRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	profile := createTestProfile("user-1")
	if err := store.UpsertEnrichedProfile(ctx, profile); err != nil {
		t.Fatalf("Failed to upsert profile: %v", err)
	}

	got, err := store.GetEnrichedProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}

	if got.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", got.UserID)
	}
	if got.ReceiptsAnalyzed != 12 {
		t.Errorf("ReceiptsAnalyzed = %d, want 12", got.ReceiptsAnalyzed)
	}
	if !got.DataPeriodStart.Equal(profile.DataPeriodStart) || !got.DataPeriodEnd.Equal(profile.DataPeriodEnd) {
		t.Errorf("Period = %v → %v", got.DataPeriodStart, got.DataPeriodEnd)
	}
	if !got.LastRebuiltAt.Equal(profile.LastRebuiltAt) {
		t.Errorf("LastRebuiltAt = %v, want %v", got.LastRebuiltAt, profile.LastRebuiltAt)
	}

	if got.ShoppingHabits == nil {
		t.Fatal("ShoppingHabits came back nil")
	}
	if got.ShoppingHabits.TotalSpend != 245.67 {
		t.Errorf("TotalSpend = %v, want 245.67", got.ShoppingHabits.TotalSpend)
	}
	if got.ShoppingHabits.AvgHealthScore == nil || *got.ShoppingHabits.AvgHealthScore != 3.4 {
		t.Errorf("AvgHealthScore = %v, want 3.4", got.ShoppingHabits.AvgHealthScore)
	}
	if len(got.ShoppingHabits.PreferredStores) != 1 || got.ShoppingHabits.PreferredStores[0].Name != "Colruyt" {
		t.Errorf("PreferredStores = %+v", got.ShoppingHabits.PreferredStores)
	}

	if len(got.PromoInterestItems) != 1 {
		t.Fatalf("Got %d interest items, want 1", len(got.PromoInterestItems))
	}
	item := got.PromoInterestItems[0]
	if item.NormalizedName != "jupiler pils" {
		t.Errorf("NormalizedName = %q", item.NormalizedName)
	}
	if item.InterestCategory != model.InterestStaple {
		t.Errorf("InterestCategory = %q, want staple", item.InterestCategory)
	}
	if item.AvgDaysBetweenPurchases != nil {
		t.Errorf("AvgDaysBetweenPurchases = %v, want nil", item.AvgDaysBetweenPurchases)
	}
}

func TestSQLiteStorage_ProfileUpsertReplaces(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := createTestProfile("user-1")
	if err := store.UpsertEnrichedProfile(ctx, first); err != nil {
		t.Fatalf("Failed to upsert profile: %v", err)
	}

	second := createTestProfile("user-1")
	second.ReceiptsAnalyzed = 20
	second.ShoppingHabits.TotalSpend = 999.99
	second.PromoInterestItems = []model.PromoInterestItem{}
	if err := store.UpsertEnrichedProfile(ctx, second); err != nil {
		t.Fatalf("Failed to re-upsert profile: %v", err)
	}

	got, err := store.GetEnrichedProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if got.ReceiptsAnalyzed != 20 {
		t.Errorf("ReceiptsAnalyzed = %d, want 20", got.ReceiptsAnalyzed)
	}
	if got.ShoppingHabits.TotalSpend != 999.99 {
		t.Errorf("TotalSpend = %v, want 999.99", got.ShoppingHabits.TotalSpend)
	}
	if len(got.PromoInterestItems) != 0 {
		t.Errorf("Got %d interest items, want 0", len(got.PromoInterestItems))
	}
}

func TestSQLiteStorage_GetProfileNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetEnrichedProfile(ctx, "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetEnrichedProfile error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStorage_ProfilesIsolatedPerUser(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertEnrichedProfile(ctx, createTestProfile("user-1")); err != nil {
		t.Fatalf("Failed to upsert profile: %v", err)
	}
	other := createTestProfile("user-2")
	other.ReceiptsAnalyzed = 3
	if err := store.UpsertEnrichedProfile(ctx, other); err != nil {
		t.Fatalf("Failed to upsert second profile: %v", err)
	}

	got, err := store.GetEnrichedProfile(ctx, "user-2")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if got.ReceiptsAnalyzed != 3 {
		t.Errorf("ReceiptsAnalyzed = %d, want 3", got.ReceiptsAnalyzed)
	}
}
