package profile

import (
	"math"
	"sort"
	"time"

	"github.com/kasticket/kasticket/internal/model"
)

// buildStoreLoyalty computes how concentrated spend is across stores and
// which store wins each of the top five categories.
func buildStoreLoyalty(txns []model.Transaction, prefs []model.StorePreference, totalSpend float64) *model.StoreLoyalty {
	if len(prefs) == 0 || totalSpend == 0 {
		return nil
	}

	storeSpend := make(map[string]float64)
	for _, t := range txns {
		storeSpend[t.StoreName] += t.ItemPrice
	}
	var storeTotal float64
	for _, s := range storeSpend {
		storeTotal += s
	}
	concentration := 0.0
	if storeTotal > 0 {
		for _, s := range storeSpend {
			share := s / storeTotal
			concentration += share * share
		}
	}

	// Per-category spend per store, deposits excluded.
	catStoreSpend := make(map[model.Category]map[string]float64)
	catTotals := make(map[model.Category]float64)
	for _, t := range txns {
		if t.IsDeposit || t.Category == model.CategoryOther {
			continue
		}
		if catStoreSpend[t.Category] == nil {
			catStoreSpend[t.Category] = make(map[string]float64)
		}
		catStoreSpend[t.Category][t.StoreName] += t.ItemPrice
		catTotals[t.Category] += t.ItemPrice
	}

	cats := make([]model.Category, 0, len(catTotals))
	for cat := range catTotals {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if catTotals[cats[i]] != catTotals[cats[j]] {
			return catTotals[cats[i]] > catTotals[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > 5 {
		cats = cats[:5]
	}

	categoryStoreMap := make(map[string]string, len(cats))
	for _, cat := range cats {
		var best string
		var bestSpend float64
		for store, spend := range catStoreSpend[cat] {
			if spend > bestSpend || (spend == bestSpend && (best == "" || store < best)) {
				best = store
				bestSpend = spend
			}
		}
		categoryStoreMap[string(cat)] = best
	}

	return &model.StoreLoyalty{
		ConcentrationScore: round3(concentration),
		PrimaryStorePct:    prefs[0].Pct,
		StoresVisited:      len(storeSpend),
		CategoryStoreMap:   categoryStoreMap,
	}
}

// buildHealthTrend compares the most recent 28 days of health scores against
// the 28 days before that and names the healthiest and least healthy stores.
func buildHealthTrend(txns []model.Transaction, today time.Time) *model.HealthTrend {
	var recent, previous []int
	storeScores := make(map[string][]int)
	for _, t := range txns {
		if t.HealthScore == nil {
			continue
		}
		age := daysBetween(t.Date, today)
		switch {
		case age <= 28:
			recent = append(recent, *t.HealthScore)
		case age <= 56:
			previous = append(previous, *t.HealthScore)
		}
		storeScores[t.StoreName] = append(storeScores[t.StoreName], *t.HealthScore)
	}

	trend := &model.HealthTrend{
		Current4WeekAvg:  avgScore(recent),
		Previous4WeekAvg: avgScore(previous),
	}
	if trend.Current4WeekAvg != nil && trend.Previous4WeekAvg != nil {
		diff := *trend.Current4WeekAvg - *trend.Previous4WeekAvg
		switch {
		case diff > 0.2:
			trend.Trend = "improving"
		case diff < -0.2:
			trend.Trend = "declining"
		default:
			trend.Trend = "stable"
		}
	}

	// Stores need at least 5 scored items to qualify.
	type storeAvg struct {
		name string
		avg  float64
	}
	var qualified []storeAvg
	for store, scores := range storeScores {
		if len(scores) < 5 {
			continue
		}
		sum := 0
		for _, s := range scores {
			sum += s
		}
		qualified = append(qualified, storeAvg{name: store, avg: float64(sum) / float64(len(scores))})
	}
	if len(qualified) > 0 {
		sort.Slice(qualified, func(i, j int) bool {
			if qualified[i].avg != qualified[j].avg {
				return qualified[i].avg > qualified[j].avg
			}
			return qualified[i].name < qualified[j].name
		})
		trend.HealthiestStore = qualified[0].name
		trend.LeastHealthyStore = qualified[len(qualified)-1].name
	}

	var foodSpend, produceSpend, readySpend float64
	for _, t := range txns {
		if t.IsDeposit || !t.Category.IsFood() {
			continue
		}
		foodSpend += t.ItemPrice
		switch t.Category {
		case model.CategoryFreshProduce:
			produceSpend += t.ItemPrice
		case model.CategoryReadyMeals:
			readySpend += t.ItemPrice
		}
	}
	if foodSpend > 0 {
		trend.FreshProducePct = round1(produceSpend / foodSpend * 100)
		trend.ReadyMealsPct = round1(readySpend / foodSpend * 100)
	}

	return trend
}

// buildBrandSavings tiers non-deposit spend by brand: premium, house brand
// (branded but not premium), and unbranded. The projected saving assumes a
// full switch from premium to house brands recovers 25% of premium spend.
func buildBrandSavings(txns []model.Transaction, weeks float64) *model.BrandSavings {
	var premium, house, unbranded float64
	for _, t := range txns {
		if t.IsDeposit {
			continue
		}
		if t.IsPremium {
			premium += t.ItemPrice
		}
		if !t.IsPremium && t.NormalizedBrand != "" {
			house += t.ItemPrice
		}
		if t.NormalizedBrand == "" {
			unbranded += t.ItemPrice
		}
	}

	savings := &model.BrandSavings{
		PremiumSpend:    round2(premium),
		HouseBrandSpend: round2(house),
		UnbrandedSpend:  round2(unbranded),
	}
	if premium > 0 {
		savings.EstimatedMonthlySavings = round2(premium * 0.25 / weeks * 4.33)
	}
	return savings
}

// buildShoppingEfficiency groups lines by receipt and measures how much of
// the shopping happens in small trips (fewer than five non-deposit lines),
// plus weekday vs weekend basket averages. Nil when no line carries a
// receipt.
func buildShoppingEfficiency(txns []model.Transaction, weeks float64) *model.ShoppingEfficiency {
	type receiptAgg struct {
		date  time.Time
		total float64
		lines int
	}
	byReceipt := make(map[string]*receiptAgg)
	for _, t := range txns {
		if t.ReceiptID == "" {
			continue
		}
		agg, ok := byReceipt[t.ReceiptID]
		if !ok {
			agg = &receiptAgg{date: t.Date}
			byReceipt[t.ReceiptID] = agg
		}
		agg.total += t.ItemPrice
		if !t.IsDeposit {
			agg.lines++
		}
	}
	if len(byReceipt) == 0 {
		return nil
	}

	var smallCount int
	var smallSum float64
	var weekdaySum, weekendSum float64
	var weekdayN, weekendN int
	for _, agg := range byReceipt {
		if agg.lines < 5 {
			smallCount++
			smallSum += agg.total
		}
		if wd := agg.date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendSum += agg.total
			weekendN++
		} else {
			weekdaySum += agg.total
			weekdayN++
		}
	}

	eff := &model.ShoppingEfficiency{
		SmallTripsCount: smallCount,
		SmallTripsPct:   round1(float64(smallCount) / float64(len(byReceipt)) * 100),
	}
	if smallCount > 0 {
		avg := smallSum / float64(smallCount)
		eff.SmallTripsAvgCost = round2(avg)
		eff.SmallTripsEstMonthly = round2(avg * (float64(smallCount) / weeks * 4.33))
	}
	var weekdayAvg, weekendAvg float64
	if weekdayN > 0 {
		weekdayAvg = weekdaySum / float64(weekdayN)
	}
	if weekendN > 0 {
		weekendAvg = weekendSum / float64(weekendN)
	}
	eff.WeekdayAvgSpend = round2(weekdayAvg)
	eff.WeekendAvgSpend = round2(weekendAvg)
	if weekdayAvg > 0 {
		eff.WeekendPremiumPct = round1((weekendAvg - weekdayAvg) / weekdayAvg * 100)
	}
	return eff
}

// buildIndulgenceTracker totals alcohol, snacks and tobacco spend against
// real (non-deposit) spend.
func buildIndulgenceTracker(txns []model.Transaction, weeks float64) *model.IndulgenceTracker {
	var realSpend, alcohol, snacks, tobacco float64
	for _, t := range txns {
		if t.IsDeposit {
			continue
		}
		realSpend += t.ItemPrice
		switch t.Category {
		case model.CategoryAlcohol:
			alcohol += t.ItemPrice
		case model.CategorySnacksSweets:
			snacks += t.ItemPrice
		case model.CategoryTobacco:
			tobacco += t.ItemPrice
		}
	}
	total := alcohol + snacks + tobacco

	tracker := &model.IndulgenceTracker{
		AlcoholSpend:      round2(alcohol),
		SnacksSweetsSpend: round2(snacks),
		TobaccoSpend:      round2(tobacco),
		TotalIndulgence:   round2(total),
		EstimatedYearly:   round2(total / weeks * 52),
	}
	if realSpend > 0 {
		tracker.IndulgencePct = round1(total / realSpend * 100)
	}
	return tracker
}

func avgScore(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := round2(float64(sum) / float64(len(scores)))
	return &avg
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
