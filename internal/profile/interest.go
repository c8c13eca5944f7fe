package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kasticket/kasticket/internal/model"
)

// itemGroup accumulates every qualifying purchase line that shares a resolved
// product name. Deposit lines and lines with no resolvable name never enter a
// group, so their prices and quantities cannot leak into the signals.
type itemGroup struct {
	receiptIDs       map[string]struct{}
	brands           map[string]struct{}
	brandCounts      map[string]int
	name             string
	granularCategory string
	dates            []time.Time
	healthScores     []int
	totalSpend       float64
	count            int
	totalQuantity    int
	premiumCount     int
}

// itemSignals are the per-group metrics the tagging and bucketing rules run on.
type itemSignals struct {
	avgHealth       *float64
	avgGap          *float64
	lastPurchased   time.Time
	preferredDays   []string
	freqPerWeek     float64
	avgPrice        float64
	avgUnitsPerTrip float64
	tripCount       int
	daysSince       int
}

// BuildPromoInterestItems reduces a window of transactions into an ordered
// list of at most MaxInterestItems products worth surfacing for promotion
// matching, each claimed by exactly one interest bucket. Pure function of its
// inputs.
func BuildPromoInterestItems(txns []model.Transaction, cutoff, today time.Time) []model.PromoInterestItem {
	if len(txns) == 0 {
		return []model.PromoInterestItem{}
	}

	weeks := weeksInPeriod(cutoff, today)
	groups := groupByName(txns)

	var (
		staples    []candidate
		highSpend  []candidate
		brandLoyal []candidate
		healthPick []candidate
		treats     []candidate
		bulkBuys   []candidate
	)

	for _, g := range groups {
		sig := deriveSignals(g, today, weeks)
		item := buildItem(g, sig)

		if sig.freqPerWeek >= 0.5 && sig.tripCount >= 3 {
			staples = append(staples, newCandidate(item, float64(sig.tripCount), sig))
		}
		if sig.tripCount >= 2 {
			highSpend = append(highSpend, newCandidate(item, g.totalSpend, sig))
		}
		if sig.tripCount >= 2 && dominantBrandRatio(g) >= 0.8 {
			brandLoyal = append(brandLoyal, newCandidate(item, float64(sig.tripCount), sig))
		}
		if sig.avgHealth != nil && *sig.avgHealth >= 4 && sig.tripCount >= 3 {
			healthPick = append(healthPick, newCandidate(item, *sig.avgHealth, sig))
		}
		if sig.avgHealth != nil && *sig.avgHealth <= 2 && sig.tripCount >= 2 {
			treats = append(treats, newCandidate(item, float64(sig.tripCount), sig))
		}
		if sig.avgUnitsPerTrip >= 2 && sig.tripCount >= 2 {
			bulkBuys = append(bulkBuys, newCandidate(item, sig.avgUnitsPerTrip, sig))
		}
	}

	buckets := []bucket{
		{category: model.InterestStaple, cap: 8, candidates: staples},
		{category: model.InterestHighSpend, cap: 6, candidates: highSpend},
		{category: model.InterestBrandLoyal, cap: 4, candidates: brandLoyal},
		{category: model.InterestHealthPick, cap: 4, candidates: healthPick},
		{category: model.InterestOccasionalTreat, cap: 3, candidates: treats},
		{category: model.InterestBulkBuy, cap: 3, candidates: bulkBuys},
	}
	for i := range buckets {
		sortCandidates(buckets[i].candidates)
	}

	claimed := make(map[string]bool)
	return allocate(buckets, claimed)
}

// groupByName buckets transactions by resolved name, preserving first-seen
// order so the whole classifier is deterministic for a fixed input.
func groupByName(txns []model.Transaction) []*itemGroup {
	byName := make(map[string]*itemGroup)
	var ordered []*itemGroup

	for i := range txns {
		t := &txns[i]
		if t.IsDeposit {
			continue
		}
		name := t.ResolvedName()
		if name == "" {
			continue
		}

		g, ok := byName[name]
		if !ok {
			g = &itemGroup{
				name:        name,
				receiptIDs:  make(map[string]struct{}),
				brands:      make(map[string]struct{}),
				brandCounts: make(map[string]int),
			}
			byName[name] = g
			ordered = append(ordered, g)
		}

		g.count++
		g.totalSpend += t.ItemPrice
		qty := t.Quantity
		if qty <= 0 {
			qty = 1
		}
		g.totalQuantity += qty
		if t.ReceiptID != "" {
			g.receiptIDs[t.ReceiptID] = struct{}{}
		}
		if t.NormalizedBrand != "" {
			g.brands[t.NormalizedBrand] = struct{}{}
			g.brandCounts[t.NormalizedBrand]++
		}
		if t.IsPremium {
			g.premiumCount++
		}
		if t.HealthScore != nil {
			g.healthScores = append(g.healthScores, *t.HealthScore)
		}
		if g.granularCategory == "" && t.GranularCategory != "" {
			g.granularCategory = t.GranularCategory
		}
		g.dates = append(g.dates, t.Date)
	}

	return ordered
}

func deriveSignals(g *itemGroup, today time.Time, weeks float64) itemSignals {
	tripCount := len(g.receiptIDs)
	if tripCount == 0 {
		tripCount = g.count
	}

	sig := itemSignals{
		tripCount:   tripCount,
		freqPerWeek: float64(tripCount) / weeks,
		avgHealth:   avgHealth(g.healthScores),
	}
	if g.count > 0 {
		sig.avgPrice = g.totalSpend / float64(g.count)
	}
	if tripCount > 0 {
		sig.avgUnitsPerTrip = float64(g.totalQuantity) / float64(tripCount)
	}

	distinct := distinctSortedDates(g.dates)
	sig.lastPurchased = distinct[len(distinct)-1]
	sig.daysSince = daysBetween(sig.lastPurchased, today)
	if len(distinct) >= 2 {
		var total int
		for i := 1; i < len(distinct); i++ {
			total += daysBetween(distinct[i-1], distinct[i])
		}
		gap := round1(float64(total) / float64(len(distinct)-1))
		sig.avgGap = &gap
	}
	sig.preferredDays = preferredWeekdays(g.dates)

	return sig
}

func buildItem(g *itemGroup, sig itemSignals) model.PromoInterestItem {
	brands := make([]string, 0, len(g.brands))
	for b := range g.brands {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	return model.PromoInterestItem{
		NormalizedName:          g.name,
		Brands:                  brands,
		GranularCategory:        g.granularCategory,
		Tags:                    buildTags(g, sig),
		LastPurchased:           sig.lastPurchased.Format("2006-01-02"),
		DaysSinceLastPurchase:   sig.daysSince,
		AvgDaysBetweenPurchases: sig.avgGap,
		PreferredDays:           sig.preferredDays,
		Context:                 buildContext(sig),
	}
}

// buildTags assigns every tag that applies; tags are descriptive and not
// mutually exclusive, except healthy/indulgence which cannot both hold.
func buildTags(g *itemGroup, sig itemSignals) []string {
	tags := []string{}
	switch {
	case sig.freqPerWeek >= 1:
		tags = append(tags, model.TagWeekly)
	case sig.freqPerWeek >= 0.5:
		tags = append(tags, model.TagBiweekly)
	}
	if g.premiumCount > 0 {
		tags = append(tags, model.TagPremiumBrand)
	}
	if sig.avgHealth != nil && *sig.avgHealth >= 4 {
		tags = append(tags, model.TagHealthy)
	}
	if sig.avgHealth != nil && *sig.avgHealth <= 2 {
		tags = append(tags, model.TagIndulgence)
	}
	if sig.avgUnitsPerTrip >= 2 {
		tags = append(tags, model.TagBulk)
	}
	return tags
}

// buildContext renders a one-line human-readable summary of the signals for
// downstream LLM consumption. Purely descriptive.
func buildContext(sig itemSignals) string {
	parts := []string{
		fmt.Sprintf("%d trips (%.1f/wk), avg €%.2f, %.1f units/trip",
			sig.tripCount, sig.freqPerWeek, sig.avgPrice, sig.avgUnitsPerTrip),
		fmt.Sprintf("last bought %dd ago", sig.daysSince),
	}
	if sig.avgGap != nil {
		parts = append(parts, fmt.Sprintf("every ~%.1fd", *sig.avgGap))
	}
	if len(sig.preferredDays) > 0 {
		abbrevs := make([]string, len(sig.preferredDays))
		for i, day := range sig.preferredDays {
			abbrevs[i] = day[:3]
		}
		parts = append(parts, "usually "+strings.Join(abbrevs, "/"))
	}
	return strings.Join(parts, "; ")
}

// dominantBrandRatio returns the share of the group's purchases made up by
// its most-bought brand, using the counts carried forward from grouping.
func dominantBrandRatio(g *itemGroup) float64 {
	if g.count == 0 || len(g.brandCounts) == 0 {
		return 0
	}
	best := 0
	for _, n := range g.brandCounts {
		if n > best {
			best = n
		}
	}
	return float64(best) / float64(g.count)
}

// preferredWeekdays returns at most two weekday names each covering at least
// 25% of the group's purchases, most frequent first.
func preferredWeekdays(dates []time.Time) []string {
	counts := make(map[time.Weekday]int)
	for _, d := range dates {
		counts[d.Weekday()]++
	}
	total := len(dates)
	if total == 0 {
		return []string{}
	}

	var days []time.Weekday
	for day, cnt := range counts {
		if float64(cnt)/float64(total) >= 0.25 {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		if counts[days[i]] != counts[days[j]] {
			return counts[days[i]] > counts[days[j]]
		}
		return days[i] < days[j]
	})
	if len(days) > 2 {
		days = days[:2]
	}

	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return names
}

func distinctSortedDates(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	var distinct []time.Time
	for _, d := range dates {
		day := d.Truncate(24 * time.Hour)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		distinct = append(distinct, day)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].Before(distinct[j]) })
	return distinct
}
