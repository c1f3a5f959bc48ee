package invention

import (
	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/rssort"
)

// GeneratedPerk is one concrete (perk, rank) a gizmo can produce. Cost is
// the rank's invention-budget weight (0 for rank 0, "no effect").
type GeneratedPerk struct {
	Perk catalog.PerkID
	Rank int
	Cost int
}

// Combination is one Cartesian-product pick across every perk a gizmo can
// generate, together with its marginal probability.
type Combination struct {
	Perks       []GeneratedPerk
	Probability float64
}

// generateCombinations enumerates the Cartesian product of each perk's rank
// options via an odometer-style index increment: the last perk's index
// advances fastest, carrying into earlier perks' indices on overflow, and
// the whole enumeration ends when the first perk's index itself overflows.
func generateCombinations(cat *catalog.Catalog, order []catalog.PerkID, lists [][]RankProbability) []Combination {
	n := len(order)
	if n == 0 {
		return []Combination{{Probability: 1.0}}
	}

	indices := make([]int, n)
	var combos []Combination

	for {
		perks := make([]GeneratedPerk, n)
		prob := 1.0
		for i, perkID := range order {
			rp := lists[i][indices[i]]
			cost := 0
			if rp.Rank > 0 {
				if perk, ok := cat.Perk(perkID); ok {
					if rank, ok := perk.Rank(rp.Rank); ok {
						cost = rank.Cost
					}
				}
			}
			perks[i] = GeneratedPerk{Perk: perkID, Rank: rp.Rank, Cost: cost}
			prob *= rp.Probability
		}
		combos = append(combos, Combination{Perks: perks, Probability: prob})

		i := n - 1
		for i >= 0 {
			indices[i]++
			if indices[i] < len(lists[i]) {
				break
			}
			indices[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}

	return combos
}

// withSentinelSorted prepends the "no effect" sentinel (cost 0, always
// first) and sorts the remaining perks by rank cost using the client's
// deterministic sort — the exact ordering downstream pairing depends on.
func withSentinelSorted(combo Combination) []GeneratedPerk {
	full := make([]GeneratedPerk, len(combo.Perks)+1)
	full[0] = GeneratedPerk{Perk: catalog.NoEffectPerkID}
	copy(full[1:], combo.Perks)

	rssort.SortRange(full, func(gp GeneratedPerk) int { return gp.Cost }, 1, len(full)-1)
	return full
}
