// Package invention reproduces the single-gizmo perk-probability engine: for
// one concrete arrangement of components in a gizmo shell, it derives the
// exact probability distribution over the pair of perks (and ranks) the
// generator can produce.
package invention

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
)

// maxSlots is the largest shell size (ancient gizmos use all nine).
const maxSlots = 9

// slotOrder lists the nine slot positions in the order the source iterates
// them: the five standard slots first, then the four ancient corners.
var slotOrder = [maxSlots]string{
	"middle", "top", "left", "right", "bottom",
	"top-left", "top-right", "bottom-left", "bottom-right",
}

// Gizmo is one concrete arrangement of components destined for one
// equipment type, evaluated against the catalog it was built from.
type Gizmo struct {
	Equipment  catalog.EquipmentType
	Variant    catalog.GizmoType
	Components [maxSlots]catalog.ComponentID

	cat *catalog.Catalog
}

// New builds a gizmo, filling any slot beyond len(components) with the
// catalog's empty-component sentinel. components must not exceed the
// variant's slot count.
func New(cat *catalog.Catalog, eq catalog.EquipmentType, variant catalog.GizmoType, components []catalog.ComponentID) (*Gizmo, error) {
	slots := variant.SlotCount()
	if len(components) > slots {
		return nil, fmt.Errorf("invention: %d components given for a %d-slot %s gizmo", len(components), slots, variant)
	}

	g := &Gizmo{Equipment: eq, Variant: variant, cat: cat}
	for i := range g.Components {
		g.Components[i] = catalog.EmptyComponentID
	}
	copy(g.Components[:slots], components)
	return g, nil
}

// occupiedSlots returns the component ids for this gizmo's variant's slots,
// in slot order (empty-filled slots included).
func (g *Gizmo) occupiedSlots() []catalog.ComponentID {
	return g.Components[:g.Variant.SlotCount()]
}

// Cost sums the unit cost of every non-empty component socketed in the gizmo.
func (g *Gizmo) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, id := range g.occupiedSlots() {
		if id == catalog.EmptyComponentID {
			continue
		}
		comp, ok := g.cat.Component(id)
		if !ok {
			panic(fmt.Sprintf("invention: gizmo references unknown component id %d", id))
		}
		total = total.Add(comp.UnitCost)
	}
	return total
}

// InsertionOrder walks the occupied slots in slot order and, within each
// slot, the component's contributions for this gizmo's equipment type in
// their declared order, appending each perk id the first time it is seen.
// This fixes the order combinations are later enumerated in.
func (g *Gizmo) InsertionOrder() []catalog.PerkID {
	var order []catalog.PerkID
	var seen catalog.PerkBitset

	for _, id := range g.occupiedSlots() {
		comp, ok := g.cat.Component(id)
		if !ok {
			panic(fmt.Sprintf("invention: gizmo references unknown component id %d", id))
		}
		for _, contrib := range comp.ContributionsFor(g.Equipment) {
			if seen.Has(contrib.Perk) {
				continue
			}
			seen.Set(contrib.Perk)
			order = append(order, contrib.Perk)
		}
	}
	return order
}
