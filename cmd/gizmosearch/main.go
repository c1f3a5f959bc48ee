// Command gizmosearch finds the component arrangements most likely to
// produce a target gizmo perk pair, ranked by probability and by expected
// material cost per success.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/cliapp"
	"github.com/rsinvention/optimalgizmo/pkg/gizmolog"
	"github.com/rsinvention/optimalgizmo/pkg/invention"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
	"github.com/rsinvention/optimalgizmo/pkg/search"
)

func main() {
	cfg, err := cliapp.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
		showUsage()
		os.Exit(1)
	}

	log := gizmolog.New(false)

	cat, err := catalog.LoadCSV(cfg.PerksCSV, cfg.ComponentsCSV, cfg.CostsCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] loading catalog: %v\n", err)
		os.Exit(1)
	}

	if cfg.Verbose {
		log.Info("🔮 gizmosearch — %s %s gizmos, level %d", cfg.Variant, cfg.Equipment, cfg.Level)
		log.Info("catalog loaded: %d perks, %d components", len(cat.Perks()), len(cat.Components()))
	}

	target1, err := resolveTarget(cat, cfg.TargetPerks[0])
	if err != nil {
		reportResolveError(err)
	}

	target2 := invention.Target{Perk: catalog.NoEffectPerkID}
	if len(cfg.TargetPerks) == 2 {
		target2, err = resolveTarget(cat, cfg.TargetPerks[1])
		if err != nil {
			reportResolveError(err)
		}
	}

	excluded := make(map[catalog.ComponentID]bool, len(cfg.ExcludedNames))
	for _, name := range cfg.ExcludedNames {
		id, err := cliapp.ResolveComponent(cat, name)
		if err != nil {
			reportResolveError(err)
		}
		excluded[id] = true
	}

	s := &search.Search{
		Equipment: cfg.Equipment,
		Variant:   cfg.Variant,
		Target1:   target1,
		Target2:   target2,
		Level:     cfg.Level,
		Excluded:  excluded,
		Workers:   cfg.Workers,
		Cat:       cat,
	}

	ctx := context.Background()

	if cfg.Verbose {
		log.Info("🧩 building candidate universe...")
	}
	start := time.Now()
	candidates, err := s.BuildCandidates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] building candidates: %v\n", err)
		os.Exit(1)
	}
	if cfg.Verbose {
		log.Info("✅ %d candidates built in %v", len(candidates), time.Since(start))
	}

	cache := probability.NewBudgetCDFCache()
	progress := search.NewProgress(cfg.Workers)

	done := make(chan struct{})
	if cfg.Verbose {
		go func() {
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					cliapp.RenderProgress(os.Stdout, progress.Sum(), int64(len(candidates)))
				case <-done:
					return
				}
			}
		}()
	}

	start = time.Now()
	results, err := s.Evaluate(ctx, candidates, cache, progress)
	close(done)
	if cfg.Verbose {
		cliapp.FinishProgress(os.Stdout)
		log.Info("⚡ evaluation completed in %v", time.Since(start))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] evaluating candidates: %v\n", err)
		os.Exit(1)
	}

	printResults(results, cat, cfg.TopN)
}

func resolveTarget(cat *catalog.Catalog, selector string) (invention.Target, error) {
	id, rank, err := cliapp.ResolvePerk(cat, selector)
	if err != nil {
		return invention.Target{}, err
	}
	return invention.Target{Perk: id, MinRank: rank}, nil
}

func reportResolveError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(2)
}

func printResults(results []search.Result, cat *catalog.Catalog, topN int) {
	if topN > len(results) {
		topN = len(results)
	}

	fmt.Printf("\nTop %d results by probability:\n", topN)
	for i := 0; i < topN; i++ {
		r := results[i]
		fmt.Printf("%2d. p=%.6f  cost=%s  %s\n", i+1, r.Probability, r.ExpectedCost.StringFixed(2), componentNames(cat, r.Components))
	}

	byCost := append([]search.Result(nil), results[:topN]...)
	sort.Slice(byCost, func(i, j int) bool { return byCost[i].ExpectedCost.LessThan(byCost[j].ExpectedCost) })
	fmt.Printf("\nSame %d results by expected cost per success:\n", topN)
	for i, r := range byCost {
		fmt.Printf("%2d. cost=%s  p=%.6f  %s\n", i+1, r.ExpectedCost.StringFixed(2), r.Probability, componentNames(cat, r.Components))
	}
}

func componentNames(cat *catalog.Catalog, ids []catalog.ComponentID) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == catalog.EmptyComponentID {
			continue
		}
		comp, ok := cat.Component(id)
		if !ok {
			continue
		}
		names = append(names, comp.Name)
	}
	if len(names) == 0 {
		return "(empty)"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

func showUsage() {
	fmt.Fprint(os.Stderr, `
USAGE:
    gizmosearch -w|-t|-a -std|-anc -p "<perk> [rank]" [-p "<perk2> [rank]"] [options]

OPTIONS:
    -w, -t, -a          Equipment type: weapon, tool, armour (exactly one)
    -std, -anc          Gizmo variant: standard (5 slots), ancient (9 slots)
    -l <level>          Invention level (default 120)
    -n <count>          Number of top results to report (default 1)
    -p <selector>       Target perk, "<name prefix> [rank]" (repeatable up to twice)
    -x <name>           Exclude a component by name (repeatable)
    -workers <n>        Evaluation worker count (default 4)
    -verbose            Enable progress and timing output
    -perks/-components/-costs <path>   Override the catalog CSV paths

EXAMPLES:
    gizmosearch -w -std -p "Aftershock 4" -n 5
    gizmosearch -a -anc -p "Biting 4" -p "Genocidal 3" -l 137 -verbose
`)
}
