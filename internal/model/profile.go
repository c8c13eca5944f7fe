package model

import "time"

// InterestCategory is the single bucket that claimed a promo-interest item
// during allocation.
type InterestCategory string

// Interest buckets, in allocation order.
const (
	InterestStaple          InterestCategory = "staple"
	InterestHighSpend       InterestCategory = "high_spend"
	InterestBrandLoyal      InterestCategory = "brand_loyal"
	InterestHealthPick      InterestCategory = "health_pick"
	InterestOccasionalTreat InterestCategory = "occasional_treat"
	InterestBulkBuy         InterestCategory = "bulk_buy"
)

// Promo-interest tags. An item carries every tag that applies.
const (
	TagWeekly       = "weekly"
	TagBiweekly     = "biweekly"
	TagPremiumBrand = "premium_brand"
	TagHealthy      = "healthy"
	TagIndulgence   = "indulgence"
	TagBulk         = "bulk"
)

// StorePreference summarizes spend at one store.
type StorePreference struct {
	Name   string  `json:"name"`
	Spend  float64 `json:"spend"`
	Pct    float64 `json:"pct"`
	Visits int     `json:"visits"`
}

// CategorySpend summarizes spend in one broad category.
type CategorySpend struct {
	AvgHealth *float64 `json:"avg_health"`
	Category  Category `json:"category"`
	Spend     float64  `json:"spend"`
	Pct       float64  `json:"pct"`
	ItemCount int      `json:"item_count"`
}

// ShoppingDay is a day of the week carrying at least 10% of transactions.
type ShoppingDay struct {
	Day string  `json:"day"`
	Pct float64 `json:"pct"`
}

// StoreLoyalty measures how concentrated a user's spend is across stores.
type StoreLoyalty struct {
	CategoryStoreMap   map[string]string `json:"category_store_map"`
	ConcentrationScore float64           `json:"concentration_score"`
	PrimaryStorePct    float64           `json:"primary_store_pct"`
	StoresVisited      int               `json:"stores_visited_count"`
}

// HealthTrend compares the current four weeks of health scores against the
// previous four.
type HealthTrend struct {
	Current4WeekAvg   *float64 `json:"current_4w_avg"`
	Previous4WeekAvg  *float64 `json:"previous_4w_avg"`
	Trend             string   `json:"trend,omitempty"` // improving, declining, stable
	HealthiestStore   string   `json:"healthiest_store,omitempty"`
	LeastHealthyStore string   `json:"least_healthy_store,omitempty"`
	FreshProducePct   float64  `json:"fresh_produce_pct"`
	ReadyMealsPct     float64  `json:"ready_meals_pct"`
}

// BrandSavings splits non-deposit spend into premium, house-brand and
// unbranded tiers and projects the monthly saving of switching all premium
// purchases to house brands.
type BrandSavings struct {
	PremiumSpend            float64 `json:"premium_spend"`
	HouseBrandSpend         float64 `json:"house_brand_spend"`
	UnbrandedSpend          float64 `json:"unbranded_spend"`
	EstimatedMonthlySavings float64 `json:"estimated_monthly_savings_if_switch"`
}

// ShoppingEfficiency measures small-trip overhead and weekday versus weekend
// basket sizes. A small trip is a receipt with fewer than five real lines.
type ShoppingEfficiency struct {
	SmallTripsCount      int     `json:"small_trips_count"`
	SmallTripsPct        float64 `json:"small_trips_pct"`
	SmallTripsAvgCost    float64 `json:"small_trips_avg_cost"`
	SmallTripsEstMonthly float64 `json:"small_trips_estimated_monthly"`
	WeekdayAvgSpend      float64 `json:"weekday_avg_spend"`
	WeekendAvgSpend      float64 `json:"weekend_avg_spend"`
	WeekendPremiumPct    float64 `json:"weekend_premium_pct"`
}

// IndulgenceTracker totals spend on alcohol, snacks and tobacco.
type IndulgenceTracker struct {
	AlcoholSpend      float64 `json:"alcohol_spend"`
	SnacksSweetsSpend float64 `json:"snacks_sweets_spend"`
	TobaccoSpend      float64 `json:"tobacco_spend"`
	TotalIndulgence   float64 `json:"total_indulgence"`
	IndulgencePct     float64 `json:"indulgence_pct"`
	EstimatedYearly   float64 `json:"estimated_yearly"`
}

// ShoppingHabits is the aggregated shopping summary stored on the enriched
// profile. It is recomputed from scratch on every rebuild.
type ShoppingHabits struct {
	AvgHealthScore           *float64            `json:"avg_health_score"`
	StoreLoyalty             *StoreLoyalty       `json:"store_loyalty,omitempty"`
	HealthTrend              *HealthTrend        `json:"health_trend,omitempty"`
	IndulgenceTracker        *IndulgenceTracker  `json:"indulgence_tracker,omitempty"`
	BrandSavings             *BrandSavings       `json:"brand_savings_potential,omitempty"`
	ShoppingEfficiency       *ShoppingEfficiency `json:"shopping_efficiency,omitempty"`
	PreferredStores          []StorePreference   `json:"preferred_stores"`
	PreferredShoppingDays    []ShoppingDay       `json:"preferred_shopping_days"`
	CategoryBreakdown        []CategorySpend     `json:"category_breakdown"`
	TopGranularCategories    []string            `json:"top_granular_categories"`
	TotalSpend               float64             `json:"total_spend"`
	AvgReceiptTotal          float64             `json:"avg_receipt_total"`
	ShoppingFrequencyPerWeek float64             `json:"shopping_frequency_per_week"`
	PremiumBrandRatio        float64             `json:"premium_brand_ratio"`
	TypicalBasketSize        float64             `json:"typical_basket_size"`
	ReceiptCount             int                 `json:"receipt_count"`
}

// PromoInterestItem is one product worth surfacing for promotion matching.
type PromoInterestItem struct {
	AvgDaysBetweenPurchases *float64         `json:"avg_days_between_purchases"`
	NormalizedName          string           `json:"normalized_name"`
	GranularCategory        string           `json:"granular_category,omitempty"`
	InterestCategory        InterestCategory `json:"interest_category"`
	LastPurchased           string           `json:"last_purchased"` // ISO date
	Context                 string           `json:"context"`
	Brands                  []string         `json:"brands"`
	Tags                    []string         `json:"tags"`
	PreferredDays           []string         `json:"preferred_days"`
	DaysSinceLastPurchase   int              `json:"days_since_last_purchase"`
}

// EnrichedProfile is the persisted per-user aggregate consumed by the promo
// matching and chat layers. One row per user; each rebuild overwrites it.
type EnrichedProfile struct {
	DataPeriodStart    time.Time
	DataPeriodEnd      time.Time
	LastRebuiltAt      time.Time
	ShoppingHabits     *ShoppingHabits
	UserID             string
	PromoInterestItems []PromoInterestItem
	ReceiptsAnalyzed   int
}
