package catalog

import "github.com/shopspring/decimal"

// EquipmentType identifies which gear slot a gizmo is destined for.
type EquipmentType int

const (
	Weapon EquipmentType = iota
	Tool
	Armour
	equipmentTypeCount
)

func (e EquipmentType) String() string {
	switch e {
	case Weapon:
		return "Weapon"
	case Tool:
		return "Tool"
	case Armour:
		return "Armour"
	default:
		return "Unknown"
	}
}

// ParseEquipmentType recognizes the -w/-t/-a CLI selector names.
func ParseEquipmentType(s string) (EquipmentType, bool) {
	switch s {
	case "weapon", "w":
		return Weapon, true
	case "tool", "t":
		return Tool, true
	case "armour", "armor", "a":
		return Armour, true
	default:
		return 0, false
	}
}

// GizmoType distinguishes the five-slot and nine-slot gizmo shells.
type GizmoType int

const (
	Standard GizmoType = iota
	Ancient
)

func (g GizmoType) String() string {
	switch g {
	case Standard:
		return "Standard"
	case Ancient:
		return "Ancient"
	default:
		return "Unknown"
	}
}

// SlotCount returns how many component slots a gizmo of this type has.
func (g GizmoType) SlotCount() int {
	if g == Ancient {
		return 9
	}
	return 5
}

// PerkID, ComponentID are narrow ids, never exceeding 255 in the source data.
type PerkID = uint8
type ComponentID = uint8

// NoEffectPerkID is the pre-registered sentinel perk meaning "nothing happened".
const NoEffectPerkID PerkID = 0

// EmptyComponentID is the pre-registered sentinel for an unfilled slot.
const EmptyComponentID ComponentID = 255

// Rank describes one attainable level of a perk. Cost is the rank's
// invention-budget weight — the same currency the per-level budget CDF is
// denominated in — not a material/gold cost; that lives on Component.UnitCost.
type Rank struct {
	Number    int
	Cost      int
	Threshold int
	Ancient   bool
}

// Perk is a named effect with 1..N ranks, indexed by rank number (rank 0 is
// the implicit "no effect" outcome and is never stored here).
type Perk struct {
	ID      PerkID
	Name    string
	TwoSlot bool
	Ranks   []Rank // Ranks[i] has Number == i+1
}

// MaxRank returns the highest attainable rank number, or 0 if the perk has
// no registered ranks (only true for the "No Effect" sentinel).
func (p Perk) MaxRank() int {
	return len(p.Ranks)
}

// Rank looks up a rank by its 1-based number.
func (p Perk) Rank(number int) (Rank, bool) {
	if number < 1 || number > len(p.Ranks) {
		return Rank{}, false
	}
	return p.Ranks[number-1], true
}

// PerkContribution is one component's supply of a perk for one equipment type.
type PerkContribution struct {
	Perk PerkID
	Base int
	Roll int
}

// TotalPotentialContribution is the maximum this contribution can add to a
// perk's roll total, used by the search engine's reachability pruning.
func (c PerkContribution) TotalPotentialContribution() int {
	return c.Base + c.Roll
}

// Component is a named, costed part that can be socketed into a gizmo slot.
// Its perk contributions are indexed by equipment type.
type Component struct {
	ID            ComponentID
	Name          string
	Ancient       bool
	UnitCost      decimal.Decimal
	Contributions [equipmentTypeCount][]PerkContribution
}

// ContributionsFor returns the perk contributions this component offers for
// the given equipment type, in registration order.
func (c Component) ContributionsFor(eq EquipmentType) []PerkContribution {
	return c.Contributions[eq]
}
