package invention

import (
	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
)

// RankProbability pairs a rank number (0 meaning "no effect") with the
// probability of landing exactly on it.
type RankProbability struct {
	Rank        int
	Probability float64
}

// perkContributionCDF builds the CDF of the roll total a single perk
// accumulates across every slot that contributes to it. Ancient gizmos
// scale down contributions from non-ancient components by a factor of 0.8,
// truncating rather than rounding, matching the source's integer cast.
func (g *Gizmo) perkContributionCDF(perkID catalog.PerkID) probability.CDF {
	base := 0
	var rolls []int

	for _, id := range g.occupiedSlots() {
		comp, ok := g.cat.Component(id)
		if !ok {
			continue
		}
		for _, contrib := range comp.ContributionsFor(g.Equipment) {
			if contrib.Perk != perkID {
				continue
			}
			b, r := contrib.Base, contrib.Roll
			if g.Variant == catalog.Ancient && !comp.Ancient {
				b = truncate80(b)
				r = truncate80(r)
			}
			base += b
			if r > 0 {
				rolls = append(rolls, r)
			}
		}
	}

	rollPDF := probability.SumOfUniformsPDF(rolls)
	pdf := make(probability.PDF, base+len(rollPDF))
	copy(pdf[base:], rollPDF)
	return probability.ToCDF(pdf)
}

func truncate80(v int) int {
	return int(0.8 * float64(v))
}

// perkRankProbabilities walks a perk's ranks from highest to lowest,
// bucketing the contribution CDF between successive thresholds. Ranks whose
// threshold cannot be reached by the CDF's support, or whose Ancient flag is
// set on a non-ancient gizmo, are skipped entirely. The rank-0 ("no effect")
// residual is pinned to rank 1's own threshold (see rank1Residual) rather
// than to whichever rank the loop above last processed, so a rank 1 that is
// itself skipped by the ancient-mismatch guard still yields the correct
// residual.
func perkRankProbabilities(perk catalog.Perk, cdf probability.CDF, ancientGizmo bool) []RankProbability {
	var result []RankProbability
	upper := 1.0

	for r := perk.MaxRank(); r >= 1; r-- {
		rank, _ := perk.Rank(r)
		if rank.Threshold > len(cdf)-1 {
			continue
		}
		if rank.Ancient && !ancientGizmo {
			continue
		}

		lower := 0.0
		if rank.Threshold > 0 {
			lower = cdf[rank.Threshold-1]
		}

		prob := upper - lower
		if prob > 0 {
			result = append(result, RankProbability{Rank: r, Probability: prob})
		}
		upper = lower
	}

	if residual, ok := rank1Residual(perk, cdf); ok && residual > 0 {
		result = append(result, RankProbability{Rank: 0, Probability: residual})
	}
	return result
}

// rank1Residual computes the no-effect probability mass below rank 1's own
// threshold, independent of whether rank 1 was itself skipped above by the
// ancient-mismatch guard: the source keys this residual off rank 1's
// threshold unconditionally, not off whichever rank the main loop last
// touched.
func rank1Residual(perk catalog.Perk, cdf probability.CDF) (float64, bool) {
	rank1, ok := perk.Rank(1)
	if !ok {
		return 0, false
	}
	if rank1.Threshold > len(cdf)-1 {
		return 1.0, true
	}
	if rank1.Threshold > 0 {
		return cdf[rank1.Threshold-1], true
	}
	return 0, true
}
