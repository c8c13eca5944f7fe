// Package profile implements the enriched-profile aggregation routines:
// the shopping-habits aggregator, the promo-interest classifier, and the
// rebuild orchestration that ties them to storage.
package profile

import (
	"math"
	"sort"
	"time"

	"github.com/kasticket/kasticket/internal/model"
)

// storeVisit identifies one shopping trip. A multi-item receipt counts as a
// single visit.
type storeVisit struct {
	date      time.Time
	receiptID string
}

type storeAgg struct {
	visits map[storeVisit]struct{}
	spend  float64
	items  int
}

type categoryAgg struct {
	healthScores []int
	spend        float64
	count        int
}

// BuildShoppingHabits reduces a window of transactions into a shopping-habits
// summary. Pure function of its inputs: the caller supplies the completed
// receipt count and the lookback cutoff. An empty transaction list yields a
// zeroed summary, never an error.
func BuildShoppingHabits(txns []model.Transaction, receiptCount int, cutoff, today time.Time) model.ShoppingHabits {
	habits := model.ShoppingHabits{
		PreferredStores:       []model.StorePreference{},
		PreferredShoppingDays: []model.ShoppingDay{},
		CategoryBreakdown:     []model.CategorySpend{},
		TopGranularCategories: []string{},
	}
	if len(txns) == 0 {
		return habits
	}

	var totalSpend float64
	for _, t := range txns {
		totalSpend += t.ItemPrice
	}
	weeks := weeksInPeriod(cutoff, today)

	habits.TotalSpend = round2(totalSpend)
	habits.ReceiptCount = receiptCount
	if receiptCount > 0 {
		habits.AvgReceiptTotal = round2(totalSpend / float64(receiptCount))
	}
	habits.ShoppingFrequencyPerWeek = round1(float64(receiptCount) / weeks)

	habits.PreferredStores = preferredStores(txns, totalSpend)
	habits.CategoryBreakdown = categoryBreakdown(txns, totalSpend)
	habits.PreferredShoppingDays = preferredShoppingDays(txns)
	habits.TopGranularCategories = topGranularCategories(txns)
	habits.TypicalBasketSize = typicalBasketSize(txns)
	habits.AvgHealthScore = overallHealthScore(txns)
	habits.PremiumBrandRatio = premiumBrandRatio(txns)

	habits.StoreLoyalty = buildStoreLoyalty(txns, habits.PreferredStores, totalSpend)
	habits.HealthTrend = buildHealthTrend(txns, today)
	habits.IndulgenceTracker = buildIndulgenceTracker(txns, weeks)
	habits.BrandSavings = buildBrandSavings(txns, weeks)
	habits.ShoppingEfficiency = buildShoppingEfficiency(txns, weeks)

	return habits
}

func preferredStores(txns []model.Transaction, totalSpend float64) []model.StorePreference {
	stores := make(map[string]*storeAgg)
	for _, t := range txns {
		agg, ok := stores[t.StoreName]
		if !ok {
			agg = &storeAgg{visits: make(map[storeVisit]struct{})}
			stores[t.StoreName] = agg
		}
		agg.spend += t.ItemPrice
		agg.visits[storeVisit{receiptID: t.ReceiptID, date: t.Date}] = struct{}{}
		agg.items++
	}

	prefs := make([]model.StorePreference, 0, len(stores))
	for name, agg := range stores {
		pct := 0.0
		if totalSpend != 0 {
			pct = round1(agg.spend / totalSpend * 100)
		}
		prefs = append(prefs, model.StorePreference{
			Name:   name,
			Spend:  round2(agg.spend),
			Pct:    pct,
			Visits: len(agg.visits),
		})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Spend != prefs[j].Spend {
			return prefs[i].Spend > prefs[j].Spend
		}
		return prefs[i].Name < prefs[j].Name
	})
	if len(prefs) > 10 {
		prefs = prefs[:10]
	}
	return prefs
}

func categoryBreakdown(txns []model.Transaction, totalSpend float64) []model.CategorySpend {
	cats := make(map[model.Category]*categoryAgg)
	for _, t := range txns {
		agg, ok := cats[t.Category]
		if !ok {
			agg = &categoryAgg{}
			cats[t.Category] = agg
		}
		agg.spend += t.ItemPrice
		agg.count++
		if t.HealthScore != nil {
			agg.healthScores = append(agg.healthScores, *t.HealthScore)
		}
	}

	// "Other" collects deposits and unrecognized lines; it is noise in a
	// spending breakdown, as are categories that net out to zero or less.
	breakdown := make([]model.CategorySpend, 0, len(cats))
	for cat, agg := range cats {
		if cat == model.CategoryOther || agg.spend <= 0 {
			continue
		}
		pct := 0.0
		if totalSpend != 0 {
			pct = round1(agg.spend / totalSpend * 100)
		}
		breakdown = append(breakdown, model.CategorySpend{
			Category:  cat,
			Spend:     round2(agg.spend),
			Pct:       pct,
			ItemCount: agg.count,
			AvgHealth: avgHealth(agg.healthScores),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Spend != breakdown[j].Spend {
			return breakdown[i].Spend > breakdown[j].Spend
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

func preferredShoppingDays(txns []model.Transaction) []model.ShoppingDay {
	counts := make(map[time.Weekday]int)
	for _, t := range txns {
		counts[t.Date.Weekday()]++
	}
	total := len(txns)

	days := make([]model.ShoppingDay, 0, len(counts))
	for day, cnt := range counts {
		if float64(cnt)/float64(total) < 0.10 {
			continue
		}
		days = append(days, model.ShoppingDay{
			Day: day.String(),
			Pct: round1(float64(cnt) / float64(total) * 100),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Pct != days[j].Pct {
			return days[i].Pct > days[j].Pct
		}
		return days[i].Day < days[j].Day
	})
	return days
}

func topGranularCategories(txns []model.Transaction) []string {
	counts := make(map[string]int)
	for _, t := range txns {
		// "Discounts" and "Other" are bookkeeping labels, not products.
		if t.GranularCategory == "" || t.GranularCategory == "Discounts" || t.GranularCategory == "Other" {
			continue
		}
		counts[t.GranularCategory]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 15 {
		names = names[:15]
	}
	return names
}

func typicalBasketSize(txns []model.Transaction) float64 {
	itemsPerReceipt := make(map[string]int)
	for _, t := range txns {
		if t.ReceiptID != "" {
			itemsPerReceipt[t.ReceiptID]++
		}
	}
	if len(itemsPerReceipt) == 0 {
		return 0
	}
	total := 0
	for _, n := range itemsPerReceipt {
		total += n
	}
	return round1(float64(total) / float64(len(itemsPerReceipt)))
}

func overallHealthScore(txns []model.Transaction) *float64 {
	var scores []int
	for _, t := range txns {
		if t.HealthScore != nil {
			scores = append(scores, *t.HealthScore)
		}
	}
	return avgHealth(scores)
}

func premiumBrandRatio(txns []model.Transaction) float64 {
	branded := 0
	premium := 0
	for _, t := range txns {
		if t.NormalizedBrand == "" {
			continue
		}
		branded++
		if t.IsPremium {
			premium++
		}
	}
	if branded == 0 {
		return 0
	}
	return round2(float64(premium) / float64(branded))
}

func avgHealth(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := round1(float64(sum) / float64(len(scores)))
	return &avg
}

// weeksInPeriod floors at one week so very short windows neither divide by
// zero nor inflate frequencies.
func weeksInPeriod(cutoff, today time.Time) float64 {
	weeks := today.Sub(cutoff).Hours() / 24 / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
