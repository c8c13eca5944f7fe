package profile

import (
	"sort"

	"github.com/kasticket/kasticket/internal/model"
)

// MaxInterestItems caps the overall promo-interest list.
const MaxInterestItems = 25

// candidate pairs an item with the score its bucket ranks by. Ties break
// toward the more recently purchased item, then by name so the ordering is
// total.
type candidate struct {
	item      model.PromoInterestItem
	score     float64
	daysSince int
}

func newCandidate(item model.PromoInterestItem, score float64, sig itemSignals) candidate {
	return candidate{item: item, score: score, daysSince: sig.daysSince}
}

// bucket is one interest category with its ranked candidates and slot cap.
type bucket struct {
	category   model.InterestCategory
	candidates []candidate
	cap        int
}

// sortCandidates ranks a bucket: score descending, then the more recently
// purchased item, then name. The name tiebreak makes the order independent of
// input permutation.
func sortCandidates(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].daysSince != cands[j].daysSince {
			return cands[i].daysSince < cands[j].daysSince
		}
		return cands[i].item.NormalizedName < cands[j].item.NormalizedName
	})
}

// allocate distributes candidates to result slots in fixed bucket order.
// Pass 1 grants every non-empty bucket one slot before any bucket takes a
// second; pass 2 fills each bucket up to its cap, the pass-1 grant counting
// toward it. The claimed set is threaded through every step: once a name is
// claimed by a bucket it is invisible to all later ones.
func allocate(buckets []bucket, claimed map[string]bool) []model.PromoInterestItem {
	result := []model.PromoInterestItem{}
	granted := make([]int, len(buckets))

	for i := range buckets {
		var n int
		result, n = claimFrom(&buckets[i], 1, claimed, result)
		granted[i] += n
	}

	for i := range buckets {
		remaining := buckets[i].cap - granted[i]
		if remaining <= 0 {
			continue
		}
		var n int
		result, n = claimFrom(&buckets[i], remaining, claimed, result)
		granted[i] += n
	}

	return result
}

// claimFrom moves up to limit top-ranked unclaimed candidates from the bucket
// into the result, stamping them with the bucket's category.
func claimFrom(b *bucket, limit int, claimed map[string]bool, result []model.PromoInterestItem) ([]model.PromoInterestItem, int) {
	added := 0
	for _, c := range b.candidates {
		if len(result) >= MaxInterestItems || added >= limit {
			break
		}
		if claimed[c.item.NormalizedName] {
			continue
		}
		claimed[c.item.NormalizedName] = true
		item := c.item
		item.InterestCategory = b.category
		result = append(result, item)
		added++
	}
	return result, added
}
