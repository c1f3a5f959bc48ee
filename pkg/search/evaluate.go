package search

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/invention"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
)

// Result is one evaluated candidate: its raw probability of landing on the
// search's target outcome, and the expected material cost of producing one
// success (UnitCost sum divided by that probability).
type Result struct {
	Components   []catalog.ComponentID
	Probability  float64
	ExpectedCost decimal.Decimal
}

// paddedCounter pads an atomic counter to a full cache line so adjacent
// workers' progress updates never false-share.
type paddedCounter struct {
	n   atomic.Int64
	_   [56]byte
}

// Progress is a caller-owned, concurrency-safe view onto an in-flight
// Evaluate call's worker counters. Callers typically spawn a monitor
// goroutine that polls Sum on an interval while Evaluate runs on the main
// goroutine.
type Progress struct {
	counters []paddedCounter
}

// NewProgress allocates a Progress for the given worker count. Pass the same
// Workers value used on the Search.
func NewProgress(workers int) *Progress {
	if workers < 1 {
		workers = 1
	}
	return &Progress{counters: make([]paddedCounter, workers)}
}

// Sum returns the total number of candidates evaluated so far across all
// workers.
func (p *Progress) Sum() int64 {
	var total int64
	for i := range p.counters {
		total += p.counters[i].n.Load()
	}
	return total
}

// Evaluate runs every candidate through the invention engine, sharded by
// index stride across Workers goroutines so each worker claims a disjoint,
// interleaved slice of the candidate list without any shared mutable state
// besides its own progress counter. Results are collected into a single
// slice and sorted by descending probability, with a component-id-sum
// tiebreak and then the component ids in slot order, so the final ordering is
// identical regardless of worker count.
func (s *Search) Evaluate(ctx context.Context, candidates []Candidate, cache *probability.BudgetCDFCache, progress *Progress) ([]Result, error) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if progress == nil || len(progress.counters) != workers {
		progress = NewProgress(workers)
	}

	perWorker := make([][]Result, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			perWorker[w] = s.evaluateShard(ctx, candidates, w, workers, cache, &progress.counters[w], &errs[w])
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("search: evaluation aborted: %w", err)
		}
	}

	var all []Result
	for _, r := range perWorker {
		all = append(all, r...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Probability != all[j].Probability {
			return all[i].Probability > all[j].Probability
		}
		if si, sj := componentIDSum(all[i].Components), componentIDSum(all[j].Components); si != sj {
			return si > sj
		}
		a, b := all[i].Components, all[j].Components
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return all, nil
}

func (s *Search) evaluateShard(ctx context.Context, candidates []Candidate, w, workers int, cache *probability.BudgetCDFCache, counter *paddedCounter, outErr *error) []Result {
	var local []Result
	opts := invention.Options{Targets: s.targets()}

	for i := w; i < len(candidates); i += workers {
		if err := ctx.Err(); err != nil {
			*outErr = err
			return local
		}

		cand := candidates[i]
		g, err := invention.New(s.Cat, s.Equipment, s.Variant, cand.Components)
		if err != nil {
			*outErr = fmt.Errorf("candidate %v: %w", cand.Components, err)
			return local
		}

		outcomes := g.Probabilities(cache, s.Level, opts)
		var prob float64
		for _, o := range outcomes {
			prob += o.Probability
		}

		if prob > 0 {
			cost := g.Cost()
			local = append(local, Result{
				Components:   cand.Components,
				Probability:  prob,
				ExpectedCost: cost.Div(decimal.NewFromFloat(prob)),
			})
		}
		counter.n.Add(1)
	}
	return local
}

func componentIDSum(ids []catalog.ComponentID) int {
	sum := 0
	for _, id := range ids {
		sum += int(id)
	}
	return sum
}
