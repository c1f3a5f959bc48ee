// Package httpapi exposes the candidate gizmo search engine over HTTP: a
// single GET endpoint that resolves perk-name query parameters, runs a
// search, and renders the result as JSON.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/cliapp"
	"github.com/rsinvention/optimalgizmo/pkg/gizmolog"
	"github.com/rsinvention/optimalgizmo/pkg/invention"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
	"github.com/rsinvention/optimalgizmo/pkg/search"
)

const maxRowsPerList = 10

// Server holds the read-only catalog and shared budget-CDF cache every
// request's search draws from. A Server is safe for concurrent requests:
// each request builds its own Search and candidate list, touching the
// catalog and cache only for reads.
type Server struct {
	Cat     *catalog.Catalog
	Cache   *probability.BudgetCDFCache
	Workers int
	Log     *gizmolog.Logger
}

// NewMux builds the HTTP routing table.
func NewMux(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/gizmo", s.handleGizmo)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type resultJSON struct {
	Middle       string  `json:"middle"`
	Top          string  `json:"top"`
	Left         string  `json:"left"`
	Right        string  `json:"right"`
	Bottom       string  `json:"bottom"`
	Probability  float64 `json:"probability"`
	ExpectedCost string  `json:"expected_cost"`
	Cost         string  `json:"cost"`
}

type response struct {
	SearchTimeMs    int64             `json:"search_time_ms"`
	NumResults      int               `json:"num_results"`
	Cheapest        []resultJSON      `json:"cheapest"`
	HighestProbable []resultJSON      `json:"highest_probable"`
	ComponentCosts  map[string]string `json:"component_costs"`
	InterpP1        string            `json:"interp_p1"`
	InterpP1Rank    int               `json:"interp_p1_rank"`
	InterpP2        string            `json:"interp_p2"`
	InterpP2Rank    int               `json:"interp_p2_rank"`
}

// handleGizmo implements GET /gizmo?perk1=&rank1=&perk2=&rank2=&level=&type=
func (s *Server) handleGizmo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	perk1Name := q.Get("perk1")
	typeName := q.Get("type")
	levelStr := q.Get("level")
	if perk1Name == "" || typeName == "" || levelStr == "" {
		writeError(w, http.StatusBadRequest, "perk1, type, and level are required")
		return
	}

	eq, ok := catalog.ParseEquipmentType(strings.ToLower(typeName))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognised type %q", typeName))
		return
	}

	level, err := strconv.Atoi(levelStr)
	if err != nil || level < 1 || level > 255 {
		writeError(w, http.StatusBadRequest, "invalid level")
		return
	}

	target1, err := resolveTargetQuery(s.Cat, perk1Name, q.Get("rank1"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// perk2 is optional: an unresolvable or absent perk2 silently falls
	// back to "no second target" rather than failing the request.
	target2 := invention.Target{Perk: catalog.NoEffectPerkID}
	if perk2Name := q.Get("perk2"); perk2Name != "" {
		if t2, err := resolveTargetQuery(s.Cat, perk2Name, q.Get("rank2")); err == nil {
			target2 = t2
		}
	}

	sch := &search.Search{
		Equipment: eq,
		Variant:   catalog.Standard,
		Target1:   target1,
		Target2:   target2,
		Level:     uint8(level),
		Excluded:  map[catalog.ComponentID]bool{},
		Workers:   s.Workers,
		Cat:       s.Cat,
	}

	start := time.Now()
	ctx := r.Context()

	candidates, err := sch.BuildCandidates(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	results, err := sch.Evaluate(ctx, candidates, s.Cache, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	elapsed := time.Since(start)

	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "no gizmo configuration can produce the requested perks")
		return
	}

	if s.Log != nil {
		s.Log.Info("GET /gizmo type=%s level=%d perk1=%s perk2=%s results=%d in %v", typeName, level, perk1Name, q.Get("perk2"), len(results), elapsed)
	}

	shownHighest := topN(results, maxRowsPerList)

	byCost := append([]search.Result(nil), results...)
	sort.Slice(byCost, func(i, j int) bool { return byCost[i].ExpectedCost.LessThan(byCost[j].ExpectedCost) })
	shownCheapest := topN(dedupNearEqual(byCost), maxRowsPerList)

	resp := response{
		SearchTimeMs:    elapsed.Milliseconds(),
		NumResults:      len(results),
		Cheapest:        toResultJSON(s.Cat, shownCheapest),
		HighestProbable: toResultJSON(s.Cat, shownHighest),
		ComponentCosts:  componentCosts(s.Cat, append(shownHighest, shownCheapest...)),
		InterpP1:        perkName(s.Cat, target1.Perk),
		InterpP1Rank:    target1.MinRank,
	}
	if target2.Perk != catalog.NoEffectPerkID {
		resp.InterpP2 = perkName(s.Cat, target2.Perk)
		resp.InterpP2Rank = target2.MinRank
	}
	writeJSON(w, http.StatusOK, resp)
}

func resolveTargetQuery(cat *catalog.Catalog, name, rank string) (invention.Target, error) {
	selector := name
	if rank != "" {
		selector = name + " " + rank
	}
	id, r, err := cliapp.ResolvePerk(cat, selector)
	if err != nil {
		return invention.Target{}, err
	}
	return invention.Target{Perk: id, MinRank: r}, nil
}

func topN(results []search.Result, n int) []search.Result {
	if n > len(results) {
		n = len(results)
	}
	return results[:n]
}

// dedupNearEqual drops each row that repeats the component arrangement of the
// row kept before it, or whose probability and expected cost both lie within
// 1e-7 of that row's, keeping the first (cheapest-sorted) occurrence.
func dedupNearEqual(results []search.Result) []search.Result {
	const tolerance = 1e-7
	costTolerance := decimal.NewFromFloat(tolerance)
	var out []search.Result
	for _, r := range results {
		if n := len(out); n > 0 {
			prev := out[n-1]
			dp := r.Probability - prev.Probability
			nearEqual := dp < tolerance && -dp < tolerance && r.ExpectedCost.Sub(prev.ExpectedCost).Abs().LessThan(costTolerance)
			if nearEqual || sameComponents(r.Components, prev.Components) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func sameComponents(a, b []catalog.ComponentID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toResultJSON(cat *catalog.Catalog, results []search.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		cost := r.ExpectedCost.Mul(decimal.NewFromFloat(r.Probability))
		out = append(out, resultJSON{
			Middle:       componentName(cat, slotOr(r.Components, 0)),
			Top:          componentName(cat, slotOr(r.Components, 1)),
			Left:         componentName(cat, slotOr(r.Components, 2)),
			Right:        componentName(cat, slotOr(r.Components, 3)),
			Bottom:       componentName(cat, slotOr(r.Components, 4)),
			Probability:  r.Probability,
			ExpectedCost: r.ExpectedCost.StringFixed(2),
			Cost:         cost.StringFixed(2),
		})
	}
	return out
}

func slotOr(components []catalog.ComponentID, i int) catalog.ComponentID {
	if i >= len(components) {
		return catalog.EmptyComponentID
	}
	return components[i]
}

func componentName(cat *catalog.Catalog, id catalog.ComponentID) string {
	if id == catalog.EmptyComponentID {
		return ""
	}
	comp, ok := cat.Component(id)
	if !ok {
		return ""
	}
	return comp.Name
}

func perkName(cat *catalog.Catalog, id catalog.PerkID) string {
	p, ok := cat.Perk(id)
	if !ok {
		return ""
	}
	return p.Name
}

func componentCosts(cat *catalog.Catalog, results []search.Result) map[string]string {
	costs := make(map[string]string)
	for _, r := range results {
		for _, id := range r.Components {
			if id == catalog.EmptyComponentID {
				continue
			}
			comp, ok := cat.Component(id)
			if !ok {
				continue
			}
			costs[comp.Name] = comp.UnitCost.StringFixed(2)
		}
	}
	return costs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
