package profile

import (
	"testing"
	"time"

	"github.com/kasticket/kasticket/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStoreLoyalty(t *testing.T) {
	today := day(2026, time.March, 1)
	cutoff := today.AddDate(0, 0, -90)

	// 75/25 split between two stores.
	a1 := line("Colruyt", "bier", 60.00, day(2026, time.February, 1))
	a1.Category = model.CategoryAlcohol
	a2 := line("Colruyt", "melk", 15.00, day(2026, time.February, 2))
	a2.Category = model.CategoryDairyEggs
	b1 := line("Aldi", "brood", 25.00, day(2026, time.February, 3))
	b1.Category = model.CategoryBakery

	habits := BuildShoppingHabits([]model.Transaction{a1, a2, b1}, 3, cutoff, today)

	loyalty := habits.StoreLoyalty
	require.NotNil(t, loyalty)
	// Herfindahl: 0.75^2 + 0.25^2.
	assert.InDelta(t, 0.625, loyalty.ConcentrationScore, 0.001)
	assert.InDelta(t, 75.0, loyalty.PrimaryStorePct, 0.001)
	assert.Equal(t, 2, loyalty.StoresVisited)
	assert.Equal(t, "Colruyt", loyalty.CategoryStoreMap[string(model.CategoryAlcohol)])
	assert.Equal(t, "Aldi", loyalty.CategoryStoreMap[string(model.CategoryBakery)])
}

func TestBuildHealthTrend_Improving(t *testing.T) {
	today := day(2026, time.March, 1)

	var txns []model.Transaction
	// Previous four weeks: low scores.
	for i := 0; i < 3; i++ {
		txn := line("A", "chips", 1.80, today.AddDate(0, 0, -40))
		txn.HealthScore = intPtr(2)
		txns = append(txns, txn)
	}
	// Recent four weeks: high scores.
	for i := 0; i < 3; i++ {
		txn := line("A", "appel", 2.50, today.AddDate(0, 0, -10))
		txn.HealthScore = intPtr(5)
		txns = append(txns, txn)
	}

	trend := buildHealthTrend(txns, today)

	require.NotNil(t, trend)
	require.NotNil(t, trend.Current4WeekAvg)
	require.NotNil(t, trend.Previous4WeekAvg)
	assert.InDelta(t, 5.0, *trend.Current4WeekAvg, 0.001)
	assert.InDelta(t, 2.0, *trend.Previous4WeekAvg, 0.001)
	assert.Equal(t, "improving", trend.Trend)
}

func TestBuildHealthTrend_StableWithinThreshold(t *testing.T) {
	today := day(2026, time.March, 1)

	recent := line("A", "melk", 1.09, today.AddDate(0, 0, -5))
	recent.HealthScore = intPtr(3)
	old := line("A", "melk", 1.09, today.AddDate(0, 0, -35))
	old.HealthScore = intPtr(3)

	trend := buildHealthTrend([]model.Transaction{recent, old}, today)

	assert.Equal(t, "stable", trend.Trend)
}

func TestBuildHealthTrend_NoTrendWithoutBothWindows(t *testing.T) {
	today := day(2026, time.March, 1)

	recent := line("A", "melk", 1.09, today.AddDate(0, 0, -5))
	recent.HealthScore = intPtr(3)

	trend := buildHealthTrend([]model.Transaction{recent}, today)

	assert.Nil(t, trend.Previous4WeekAvg)
	assert.Empty(t, trend.Trend)
}

func TestBuildHealthTrend_StoreRankingNeedsFiveScoredItems(t *testing.T) {
	today := day(2026, time.March, 1)

	var txns []model.Transaction
	for i := 0; i < 5; i++ {
		txn := line("Bio-Planet", "groenten", 3.00, today.AddDate(0, 0, -i))
		txn.HealthScore = intPtr(5)
		txns = append(txns, txn)
	}
	for i := 0; i < 5; i++ {
		txn := line("Nachtwinkel", "chips", 2.00, today.AddDate(0, 0, -i))
		txn.HealthScore = intPtr(1)
		txns = append(txns, txn)
	}
	// Only four scored items: never ranked.
	for i := 0; i < 4; i++ {
		txn := line("Frituur", "frieten", 4.00, today.AddDate(0, 0, -i))
		txn.HealthScore = intPtr(1)
		txns = append(txns, txn)
	}

	trend := buildHealthTrend(txns, today)

	assert.Equal(t, "Bio-Planet", trend.HealthiestStore)
	assert.Equal(t, "Nachtwinkel", trend.LeastHealthyStore)
}

func TestBuildHealthTrend_FoodSpendShares(t *testing.T) {
	today := day(2026, time.March, 1)

	produce := line("A", "appel", 30.00, today.AddDate(0, 0, -3))
	produce.Category = model.CategoryFreshProduce
	ready := line("A", "lasagne", 10.00, today.AddDate(0, 0, -3))
	ready.Category = model.CategoryReadyMeals
	bread := line("A", "brood", 60.00, today.AddDate(0, 0, -3))
	bread.Category = model.CategoryBakery
	soap := line("A", "zeep", 100.00, today.AddDate(0, 0, -3))
	soap.Category = model.CategoryPersonalCare

	trend := buildHealthTrend([]model.Transaction{produce, ready, bread, soap}, today)

	// Non-food spend stays out of the denominator.
	assert.InDelta(t, 30.0, trend.FreshProducePct, 0.001)
	assert.InDelta(t, 10.0, trend.ReadyMealsPct, 0.001)
}

func TestBuildIndulgenceTracker(t *testing.T) {
	beer := line("A", "bier", 12.00, day(2026, time.February, 1))
	beer.Category = model.CategoryAlcohol
	sweets := line("A", "chocolade", 6.00, day(2026, time.February, 2))
	sweets.Category = model.CategorySnacksSweets
	smokes := line("A", "sigaretten", 12.00, day(2026, time.February, 3))
	smokes.Category = model.CategoryTobacco
	milk := line("A", "melk", 60.00, day(2026, time.February, 4))
	milk.Category = model.CategoryDairyEggs
	deposit := line("A", "leeggoed", 10.00, day(2026, time.February, 4))
	deposit.IsDeposit = true

	tracker := buildIndulgenceTracker([]model.Transaction{beer, sweets, smokes, milk, deposit}, 10)

	require.NotNil(t, tracker)
	assert.InDelta(t, 12.00, tracker.AlcoholSpend, 0.001)
	assert.InDelta(t, 6.00, tracker.SnacksSweetsSpend, 0.001)
	assert.InDelta(t, 12.00, tracker.TobaccoSpend, 0.001)
	assert.InDelta(t, 30.00, tracker.TotalIndulgence, 0.001)
	// 30 of 90 real spend; the deposit is excluded from the denominator.
	assert.InDelta(t, 33.3, tracker.IndulgencePct, 0.001)
	assert.InDelta(t, 156.00, tracker.EstimatedYearly, 0.001)
}

func TestBuildBrandSavings(t *testing.T) {
	premium := line("A", "cola", 40.00, day(2026, time.February, 1))
	premium.NormalizedBrand = "Coca-Cola"
	premium.IsPremium = true
	house := line("A", "cola", 10.00, day(2026, time.February, 2))
	house.NormalizedBrand = "Everyday"
	unbranded := line("A", "appelen", 5.00, day(2026, time.February, 3))
	deposit := line("A", "leeggoed", 2.00, day(2026, time.February, 3))
	deposit.IsDeposit = true

	savings := buildBrandSavings([]model.Transaction{premium, house, unbranded, deposit}, 10)

	require.NotNil(t, savings)
	assert.InDelta(t, 40.00, savings.PremiumSpend, 0.001)
	assert.InDelta(t, 10.00, savings.HouseBrandSpend, 0.001)
	assert.InDelta(t, 5.00, savings.UnbrandedSpend, 0.001)
	// 25% of premium spend, scaled from the window to a 4.33-week month.
	assert.InDelta(t, 4.33, savings.EstimatedMonthlySavings, 0.001)
}

func TestBuildBrandSavings_NoPremiumSpend(t *testing.T) {
	house := line("A", "cola", 10.00, day(2026, time.February, 2))
	house.NormalizedBrand = "Everyday"

	savings := buildBrandSavings([]model.Transaction{house}, 10)

	require.NotNil(t, savings)
	assert.Zero(t, savings.PremiumSpend)
	assert.Zero(t, savings.EstimatedMonthlySavings)
}

func TestBuildShoppingEfficiency(t *testing.T) {
	var txns []model.Transaction
	// Big Saturday trip: five real lines plus a deposit, €21.00 total.
	for i := 0; i < 5; i++ {
		txn := line("A", "item", 4.00, day(2026, time.February, 7))
		txn.ReceiptID = "r1"
		txns = append(txns, txn)
	}
	deposit := line("A", "leeggoed", 1.00, day(2026, time.February, 7))
	deposit.ReceiptID = "r1"
	deposit.IsDeposit = true
	txns = append(txns, deposit)
	// Small Monday trip: two lines, €10.00.
	for i := 0; i < 2; i++ {
		txn := line("A", "item", 5.00, day(2026, time.February, 9))
		txn.ReceiptID = "r2"
		txns = append(txns, txn)
	}
	// Loose line without a receipt never forms a trip.
	txns = append(txns, line("A", "los item", 3.00, day(2026, time.February, 10)))

	eff := buildShoppingEfficiency(txns, 10)

	require.NotNil(t, eff)
	assert.Equal(t, 1, eff.SmallTripsCount)
	assert.InDelta(t, 50.0, eff.SmallTripsPct, 0.001)
	assert.InDelta(t, 10.00, eff.SmallTripsAvgCost, 0.001)
	assert.InDelta(t, 4.33, eff.SmallTripsEstMonthly, 0.001)
	// The deposit counts toward the trip total but not its line count.
	assert.InDelta(t, 21.00, eff.WeekendAvgSpend, 0.001)
	assert.InDelta(t, 10.00, eff.WeekdayAvgSpend, 0.001)
	assert.InDelta(t, 110.0, eff.WeekendPremiumPct, 0.001)
}

func TestBuildShoppingEfficiency_NoReceiptsIsNil(t *testing.T) {
	loose := line("A", "los item", 3.00, day(2026, time.February, 10))

	assert.Nil(t, buildShoppingEfficiency([]model.Transaction{loose}, 10))
}

func TestBuildIndulgenceTracker_ZeroSpend(t *testing.T) {
	free := line("A", "staal", 0, day(2026, time.February, 1))

	tracker := buildIndulgenceTracker([]model.Transaction{free}, 1)

	require.NotNil(t, tracker)
	assert.Zero(t, tracker.IndulgencePct)
	assert.Zero(t, tracker.TotalIndulgence)
}
