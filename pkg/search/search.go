// Package search implements the candidate gizmo search engine: it builds a
// symmetry-reduced universe of component arrangements for a target perk
// pair and evaluates each through the invention engine, sharded across a
// worker pool.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/invention"
)

// Search holds one query's parameters: the equipment/variant it searches
// over, the one or two perk targets, the invention level, and any
// explicitly excluded components.
type Search struct {
	Equipment catalog.EquipmentType
	Variant   catalog.GizmoType
	Target1   invention.Target
	Target2   invention.Target // Target2.Perk == NoEffectPerkID means "no second target"
	Level     uint8
	Excluded  map[catalog.ComponentID]bool
	Workers   int
	Cat       *catalog.Catalog
}

// Candidate is one concrete gizmo arrangement awaiting evaluation.
type Candidate struct {
	Components []catalog.ComponentID
}

func (s *Search) targets() []invention.Target {
	targets := []invention.Target{s.Target1}
	if s.hasSecondTarget() {
		targets = append(targets, s.Target2)
	}
	return targets
}

func (s *Search) hasSecondTarget() bool {
	return s.Target2.Perk != catalog.NoEffectPerkID
}

func (s *Search) targetPerkIDs() []catalog.PerkID {
	ids := []catalog.PerkID{s.Target1.Perk}
	if s.hasSecondTarget() {
		ids = append(ids, s.Target2.Perk)
	}
	return ids
}

// thresholdFor returns the roll-contribution threshold a target perk's
// minimum rank requires, used by reachability pruning.
func (s *Search) thresholdFor(perkID catalog.PerkID) int {
	target := s.Target1
	if s.hasSecondTarget() && s.Target2.Perk == perkID {
		target = s.Target2
	}
	perk, ok := s.Cat.Perk(perkID)
	if !ok {
		return 0
	}
	rank := target.MinRank
	if rank < 1 {
		rank = 1
	}
	r, ok := perk.Rank(rank)
	if !ok {
		return 0
	}
	return r.Threshold
}

// buildUniverse collects the components eligible to occupy any slot: the
// empty sentinel is always eligible; every other component must not be an
// ancient component in a standard gizmo, not be excluded, and contribute to at least
// one of the search's target perks for this equipment type. The universe is
// sorted by component id so the id-monotonic normal-form check downstream
// has a stable ordering to compare against.
func (s *Search) buildUniverse() []catalog.Component {
	targets := s.targetPerkIDs()

	var universe []catalog.Component
	for _, comp := range s.Cat.Components() {
		if comp.ID == catalog.EmptyComponentID {
			universe = append(universe, comp)
			continue
		}
		if s.Excluded[comp.ID] {
			continue
		}
		if comp.Ancient && s.Variant != catalog.Ancient {
			continue
		}
		if !contributesToAny(comp, s.Equipment, targets) {
			continue
		}
		universe = append(universe, comp)
	}

	sort.Slice(universe, func(i, j int) bool { return universe[i].ID < universe[j].ID })
	return universe
}

func contributesToAny(comp catalog.Component, eq catalog.EquipmentType, targets []catalog.PerkID) bool {
	for _, contrib := range comp.ContributionsFor(eq) {
		for _, t := range targets {
			if contrib.Perk == t {
				return true
			}
		}
	}
	return false
}

func maxPotentialContributions(universe []catalog.Component, eq catalog.EquipmentType, targets []catalog.PerkID) map[catalog.PerkID]int {
	max := make(map[catalog.PerkID]int, len(targets))
	for _, t := range targets {
		max[t] = 0
	}
	for _, comp := range universe {
		for _, contrib := range comp.ContributionsFor(eq) {
			if _, tracked := max[contrib.Perk]; !tracked {
				continue
			}
			if tot := contrib.TotalPotentialContribution(); tot > max[contrib.Perk] {
				max[contrib.Perk] = tot
			}
		}
	}
	return max
}

// BuildCandidates enumerates the symmetry-reduced candidate universe: a
// recursive depth-first walk over slot assignments that (a) once a slot is
// "indifferent" — its component adds no perk bit beyond what earlier slots
// already cover — requires every later slot to also be indifferent and to
// use a component id no smaller than the one in the slot before it, and
// (b) prunes any subtree that cannot possibly reach a target's rank
// threshold given the best remaining slots.
//
// The reference implementation expresses this as a flat index odometer with
// goto-driven resets; a recursive walk produces the identical candidate set
// with the same pruning decisions, expressed as ordinary Go control flow.
func (s *Search) BuildCandidates(ctx context.Context) ([]Candidate, error) {
	universe := s.buildUniverse()
	slots := s.Variant.SlotCount()
	targets := s.targetPerkIDs()
	maxContribution := maxPotentialContributions(universe, s.Equipment, targets)

	var candidates []Candidate
	current := make([]catalog.ComponentID, 0, slots)
	contributionSoFar := make(map[catalog.PerkID]int, len(targets))

	var walk func(depth int, indifferent bool, accumulated catalog.PerkBitset, minIdx int) error
	walk = func(depth int, indifferent bool, accumulated catalog.PerkBitset, minIdx int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == slots {
			cp := make([]catalog.ComponentID, slots)
			copy(cp, current)
			candidates = append(candidates, Candidate{Components: cp})
			return nil
		}

		start := 0
		if indifferent {
			start = minIdx
		}

		for idx := start; idx < len(universe); idx++ {
			comp := universe[idx]
			if depth == 0 && comp.ID == catalog.EmptyComponentID {
				// The first slot is never left empty: an all-empty gizmo
				// contributes no perk at all, so it can never satisfy a
				// target and would only waste an evaluation.
				continue
			}
			bs := s.Cat.PossiblePerkBitset(comp.ID, s.Equipment)

			nowIndifferent := indifferent || bs.AddsNothingBeyond(accumulated)
			if indifferent && !bs.SubsetOf(accumulated) {
				continue
			}

			saved := make(map[catalog.PerkID]int, len(contributionSoFar))
			for k, v := range contributionSoFar {
				saved[k] = v
			}
			for _, contrib := range comp.ContributionsFor(s.Equipment) {
				if _, tracked := maxContribution[contrib.Perk]; tracked {
					// Best-case (base+roll) contribution, matching the
					// optimistic upper bound the remaining-slots estimate
					// below also uses — understating it here would prune
					// candidates that are still genuinely reachable.
					contributionSoFar[contrib.Perk] += contrib.TotalPotentialContribution()
				}
			}

			remaining := slots - depth - 1
			pruned := false
			for _, t := range targets {
				if contributionSoFar[t]+remaining*maxContribution[t] < s.thresholdFor(t) {
					pruned = true
					break
				}
			}
			if pruned {
				contributionSoFar = saved
				continue
			}

			current = append(current, comp.ID)
			err := walk(depth+1, nowIndifferent, accumulated.Union(bs), idx)
			current = current[:len(current)-1]
			contributionSoFar = saved
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, false, catalog.PerkBitset{}, 0); err != nil {
		return nil, fmt.Errorf("search: candidate enumeration aborted: %w", err)
	}
	return candidates, nil
}
