package invention

import (
	"math"
	"testing"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
)

// TestPerkRankProbabilitiesResidualPinsToRank1ThresholdWhenRank1Skipped
// exercises a perk whose rank 1 is itself Ancient-flagged on a non-ancient
// gizmo: rank 1 is skipped by the ancient-mismatch guard, but the no-effect
// residual must still be computed from rank 1's own threshold, not from
// whatever boundary the last-processed rank (rank 2 here) left behind.
func TestPerkRankProbabilitiesResidualPinsToRank1ThresholdWhenRank1Skipped(t *testing.T) {
	perk := catalog.Perk{
		ID:   1,
		Name: "Test",
		Ranks: []catalog.Rank{
			{Number: 1, Cost: 1, Threshold: 3, Ancient: true},
			{Number: 2, Cost: 2, Threshold: 6, Ancient: false},
		},
	}
	cdf := probability.CDF{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

	result := perkRankProbabilities(perk, cdf, false)

	var rank2Prob, rank0Prob float64
	var sawRank2, sawRank0 bool
	for _, rp := range result {
		switch rp.Rank {
		case 2:
			rank2Prob, sawRank2 = rp.Probability, true
		case 0:
			rank0Prob, sawRank0 = rp.Probability, true
		case 1:
			t.Fatalf("rank 1 should have been skipped entirely (ancient-flagged on a non-ancient gizmo), got %+v", rp)
		}
	}

	if !sawRank2 {
		t.Fatalf("expected rank 2 in result, got %+v", result)
	}
	if math.Abs(rank2Prob-0.4) > epsilon {
		t.Errorf("expected rank 2 probability 0.4, got %f", rank2Prob)
	}

	if !sawRank0 {
		t.Fatalf("expected a no-effect residual in result, got %+v", result)
	}
	// Pinned to rank 1's own threshold (cdf[3-1] = cdf[2] = 0.3), not to
	// the 0.6 that rank 2's own lower boundary would leave behind.
	if math.Abs(rank0Prob-0.3) > epsilon {
		t.Errorf("expected no-effect residual pinned to rank 1's threshold (0.3), got %f", rank0Prob)
	}
}
