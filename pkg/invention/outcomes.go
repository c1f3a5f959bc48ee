package invention

import (
	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
)

// epsilon is the numerical tolerance used wherever two probabilities or
// costs need a near-equality check instead of exact float comparison.
const epsilon = 1e-7

// OutcomePair is a canonicalized two-perk gizmo result: First always outranks
// (or ties and out-ids) Second.
type OutcomePair struct {
	First  GeneratedPerk
	Second GeneratedPerk
}

// Target describes one half of a search query's desired outcome: a perk id
// and the minimum rank (or, if Exact, the exact rank) it must land on.
type Target struct {
	Perk    catalog.PerkID
	MinRank int
	Exact   bool
}

// Options configures a single Probabilities computation.
type Options struct {
	// Targets holds zero, one, or two perk targets to filter and normalize
	// the outcome distribution against.
	Targets []Target
	// IncludeNoEffect keeps the (No Effect, No Effect) outcome in the
	// result when true; callers filtering by Targets rarely want it.
	IncludeNoEffect bool
	// Normalize, when true, divides target-filtered probabilities by their
	// surviving mass sum. The zero value (false) leaves the raw target mass,
	// which is what the search engine sums per candidate.
	Normalize bool
}

// OutcomeProbability pairs a canonical outcome with its probability.
type OutcomeProbability struct {
	Outcome     OutcomePair
	Probability float64
}

// Probabilities computes the full perk-pair probability distribution a
// gizmo produces at the given invention level, then applies opts' target
// filter and normalization.
func (g *Gizmo) Probabilities(cache *probability.BudgetCDFCache, level uint8, opts Options) []OutcomeProbability {
	order := g.InsertionOrder()
	lists := make([][]RankProbability, len(order))
	for i, perkID := range order {
		perk, ok := g.cat.Perk(perkID)
		if !ok {
			continue
		}
		cdf := g.perkContributionCDF(perkID)
		lists[i] = perkRankProbabilities(perk, cdf, g.Variant == catalog.Ancient)
	}

	combos := generateCombinations(g.cat, order, lists)
	budgetCDF := cache.InventionBudgetCDF(level, g.Variant == catalog.Ancient)

	outcomes := make(map[OutcomePair]float64)
	for _, combo := range combos {
		if combo.Probability == 0 {
			continue
		}
		sorted := withSentinelSorted(combo)
		accumulateOutcomePairs(g.cat, sorted, budgetCDF, combo.Probability, outcomes)
	}

	return finalize(outcomes, opts)
}

// accumulateOutcomePairs walks every (i, j) pair with i > j across the
// cost-sorted combination in reverse, consuming the budget CDF from its top
// end downward. prevCost tracks the highest budget index not yet consumed;
// a pair is only realizable if its combined cost is strictly less than
// prevCost (otherwise a cheaper-or-equal pair already claimed that budget
// slice), and once a pair's probability mass is exhausted the rest of this
// combination cannot contribute anything further, so processing stops.
//
// combo always carries the sentinel entry, so n <= 1 means no occupied
// component contributed any perk at all (the empty-gizmo case): there is no
// pair to form, and the entire marginal mass falls to (No Effect, No Effect).
func accumulateOutcomePairs(cat *catalog.Catalog, combo []GeneratedPerk, budgetCDF probability.CDF, marginal float64, out map[OutcomePair]float64) {
	n := len(combo)
	if n <= 1 {
		out[OutcomePair{First: noEffectPerk(), Second: noEffectPerk()}] += marginal
		return
	}
	if len(budgetCDF) == 0 {
		return
	}
	prevCost := len(budgetCDF) - 1

	for i := n - 1; i >= 1; i-- {
		for j := i - 1; j >= 0; j-- {
			comboCost := combo[i].Cost + combo[j].Cost
			if comboCost >= prevCost {
				continue
			}
			comboProb := budgetCDF[prevCost] - budgetCDF[comboCost]
			prevCost = comboCost
			if comboProb == 0 {
				return
			}
			pair := canonicalize(cat, combo[i], combo[j])
			out[pair] += comboProb * marginal
		}
	}
}

// canonicalize reduces a raw (first, second) pick to the canonical outcome
// form: rank-0 picks collapse to "No Effect", two-slot perks are asymmetric
// (a two-slot first perk forces its partner to No Effect; a two-slot second
// perk is promoted to first before its partner is forced to No Effect), and
// the final pair orders higher rank first, breaking ties by higher perk id.
func canonicalize(cat *catalog.Catalog, first, second GeneratedPerk) OutcomePair {
	first = coerceNoEffect(first)
	second = coerceNoEffect(second)

	switch {
	case isTwoSlot(cat, first):
		second = noEffectPerk()
	case isTwoSlot(cat, second):
		first = second
		second = noEffectPerk()
	}

	if outranks(second, first) {
		first, second = second, first
	}
	return OutcomePair{First: first, Second: second}
}

func coerceNoEffect(gp GeneratedPerk) GeneratedPerk {
	if gp.Rank == 0 {
		return noEffectPerk()
	}
	return gp
}

func noEffectPerk() GeneratedPerk {
	return GeneratedPerk{Perk: catalog.NoEffectPerkID}
}

func isTwoSlot(cat *catalog.Catalog, gp GeneratedPerk) bool {
	if gp.Perk == catalog.NoEffectPerkID {
		return false
	}
	perk, ok := cat.Perk(gp.Perk)
	return ok && perk.TwoSlot
}

func outranks(a, b GeneratedPerk) bool {
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.Perk > b.Perk
}

func satisfies(gp GeneratedPerk, t Target) bool {
	if gp.Perk != t.Perk {
		return false
	}
	if t.Exact {
		return gp.Rank == t.MinRank
	}
	min := t.MinRank
	if min < 1 {
		min = 1
	}
	return gp.Rank >= min
}

func matchesTargets(pair OutcomePair, targets []Target) bool {
	switch len(targets) {
	case 0:
		return true
	case 1:
		return satisfies(pair.First, targets[0]) || satisfies(pair.Second, targets[0])
	case 2:
		return (satisfies(pair.First, targets[0]) && satisfies(pair.Second, targets[1])) ||
			(satisfies(pair.First, targets[1]) && satisfies(pair.Second, targets[0]))
	default:
		return false
	}
}

func finalize(outcomes map[OutcomePair]float64, opts Options) []OutcomeProbability {
	var result []OutcomeProbability
	for pair, prob := range outcomes {
		if !opts.IncludeNoEffect && pair.First.Perk == catalog.NoEffectPerkID && pair.Second.Perk == catalog.NoEffectPerkID {
			continue
		}
		result = append(result, OutcomeProbability{Outcome: pair, Probability: prob})
	}

	if len(opts.Targets) == 0 {
		return result
	}

	var filtered []OutcomeProbability
	var survive float64
	for _, op := range result {
		if matchesTargets(op.Outcome, opts.Targets) {
			filtered = append(filtered, op)
			survive += op.Probability
		}
	}
	if opts.Normalize && survive > 0 {
		for i := range filtered {
			filtered[i].Probability /= survive
		}
	}
	return filtered
}
