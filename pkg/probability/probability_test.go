package probability

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUniformPDFSumsToOne(t *testing.T) {
	pdf := UniformPDF(6)
	if len(pdf) != 6 {
		t.Fatalf("expected length 6, got %d", len(pdf))
	}
	var sum float64
	for _, p := range pdf {
		sum += p
	}
	if !almostEqual(sum, 1.0) {
		t.Errorf("expected PDF to sum to 1, got %f", sum)
	}
	for _, p := range pdf {
		if !almostEqual(p, 1.0/6.0) {
			t.Errorf("expected uniform mass 1/6, got %f", p)
		}
	}
}

func TestConvolveOfTwoUniforms(t *testing.T) {
	// Sum of two fair coin-like two-sided rolls (values 0,1 each): result
	// should be {0:0.25, 1:0.5, 2:0.25}, the classic "two dice" triangle.
	a := UniformPDF(2)
	b := UniformPDF(2)
	sum := Convolve(a, b)

	t.Logf("convolved pdf: %v", sum)
	if len(sum) != 3 {
		t.Fatalf("expected length 3, got %d", len(sum))
	}
	want := []float64{0.25, 0.5, 0.25}
	for i, w := range want {
		if !almostEqual(sum[i], w) {
			t.Errorf("index %d: expected %f, got %f", i, w, sum[i])
		}
	}
}

func TestSumOfUniformsPDFSumsToOne(t *testing.T) {
	pdf := SumOfUniformsPDF([]int{20, 20, 20, 20, 20})
	var sum float64
	for _, p := range pdf {
		sum += p
	}
	if !almostEqual(sum, 1.0) {
		t.Errorf("expected PDF to sum to 1, got %f", sum)
	}
}

func TestToCDFIsMonotonicAndEndsAtOne(t *testing.T) {
	cdf := ToCDF(UniformPDF(10))
	prev := 0.0
	for i, c := range cdf {
		if c < prev {
			t.Fatalf("CDF not monotonic at index %d: %f < %f", i, c, prev)
		}
		prev = c
	}
	if !almostEqual(cdf[len(cdf)-1], 1.0) {
		t.Errorf("expected CDF to end at 1, got %f", cdf[len(cdf)-1])
	}
}

func TestInventionBudgetCDFWellFormed(t *testing.T) {
	cache := NewBudgetCDFCache()

	for _, tc := range []struct {
		level   uint8
		ancient bool
	}{
		{1, false},
		{1, true},
		{120, false},
		{120, true},
		{137, false},
		{137, true},
	} {
		cdf := cache.InventionBudgetCDF(tc.level, tc.ancient)
		if len(cdf) == 0 {
			t.Fatalf("level=%d ancient=%v: expected non-empty CDF", tc.level, tc.ancient)
		}
		if !almostEqual(cdf[len(cdf)-1], 1.0) {
			t.Errorf("level=%d ancient=%v: expected CDF to end at 1, got %f", tc.level, tc.ancient, cdf[len(cdf)-1])
		}
		// Mass below `level` must have been floored up to index `level`.
		lvl := int(tc.level)
		if lvl > 0 && lvl < len(cdf) {
			for i := 0; i < lvl; i++ {
				if cdf[i] != 0 {
					t.Errorf("level=%d ancient=%v: expected CDF[%d]=0 (mass floored up), got %f", tc.level, tc.ancient, i, cdf[i])
				}
			}
		}
	}
}

func TestInventionBudgetCDFCacheIsKeyedByAncient(t *testing.T) {
	cache := NewBudgetCDFCache()
	standard := cache.InventionBudgetCDF(100, false)
	ancient := cache.InventionBudgetCDF(100, true)

	if len(standard) == len(ancient) {
		t.Errorf("expected standard (k=5) and ancient (k=6) CDFs at the same level to differ in length, both got %d", len(standard))
	}
}

func TestInventionBudgetCDFCacheReturnsSameResultOnRepeat(t *testing.T) {
	cache := NewBudgetCDFCache()
	first := cache.InventionBudgetCDF(80, false)
	second := cache.InventionBudgetCDF(80, false)

	if len(first) != len(second) {
		t.Fatalf("expected cached result to match, lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected cached result to match at index %d: %f vs %f", i, first[i], second[i])
		}
	}
}
