package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Catalog is the immutable, id-indexed universe of perks and components a
// search or probability computation draws from. It is built once at process
// start and never mutated again; every other structure in this module holds
// only ids into it.
//
// Perks and Components are stored as dense slices indexed by a position map
// rather than arrays sized to the theoretical 0..255 id range — the source
// data registers only a few hundred perks and components at most, so sizing
// storage to what is actually registered avoids allocating slots for ids
// that are never used.
type Catalog struct {
	perks       []Perk
	perksByID   map[PerkID]int
	perksByName map[string]int

	components       []Component
	componentsByID   map[ComponentID]int
	componentsByName map[string]int

	perkBitsets map[bitsetKey]PerkBitset
}

type bitsetKey struct {
	component ComponentID
	equipment EquipmentType
}

// New builds an empty catalog with the two mandatory sentinels registered:
// perk id 0 ("No Effect") and component id 255 ("Empty").
func New() *Catalog {
	c := &Catalog{
		perksByID:         make(map[PerkID]int),
		perksByName:       make(map[string]int),
		componentsByID:    make(map[ComponentID]int),
		componentsByName:  make(map[string]int),
		perkBitsets:        make(map[bitsetKey]PerkBitset),
	}
	c.perks = append(c.perks, Perk{ID: NoEffectPerkID, Name: "No Effect"})
	c.perksByID[NoEffectPerkID] = 0
	c.perksByName["No Effect"] = 0

	c.components = append(c.components, Component{ID: EmptyComponentID, Name: "Empty", UnitCost: decimal.Zero})
	c.componentsByID[EmptyComponentID] = 0
	c.componentsByName["Empty"] = 0
	return c
}

// EmptyComponent returns the sentinel used to fill unoccupied gizmo slots.
func (c *Catalog) EmptyComponent() Component {
	comp, _ := c.Component(EmptyComponentID)
	return comp
}

// NoEffectPerk returns the sentinel "nothing happened" perk.
func (c *Catalog) NoEffectPerk() Perk {
	p, _ := c.Perk(NoEffectPerkID)
	return p
}

func (c *Catalog) perkIndex(id PerkID) (int, bool) {
	idx, ok := c.perksByID[id]
	return idx, ok
}

func (c *Catalog) componentIndex(id ComponentID) (int, bool) {
	idx, ok := c.componentsByID[id]
	return idx, ok
}

// RegisterPerkRank idempotently registers a perk (creating it on first
// mention) and appends one rank to it. Rank numbers must be supplied in
// increasing order, matching how the source CSV lists them.
func (c *Catalog) RegisterPerkRank(id PerkID, name string, twoSlot bool, rank Rank) error {
	idx, ok := c.perkIndex(id)
	if !ok {
		idx = len(c.perks)
		c.perks = append(c.perks, Perk{ID: id, Name: name, TwoSlot: twoSlot})
		c.perksByID[id] = idx
		c.perksByName[name] = idx
	}
	p := &c.perks[idx]
	if rank.Number != len(p.Ranks)+1 {
		return fmt.Errorf("catalog: perk %q rank %d registered out of order (expected %d)", name, rank.Number, len(p.Ranks)+1)
	}
	p.Ranks = append(p.Ranks, rank)
	return nil
}

// RegisterComponentContribution idempotently registers a component (creating
// it on first mention) and appends one perk contribution for the given
// equipment type. Also sets the contributed perk's bit in the component's
// possible-perk bitset for that equipment type.
func (c *Catalog) RegisterComponentContribution(id ComponentID, name string, ancient bool, eq EquipmentType, contrib PerkContribution) error {
	if eq < 0 || eq >= equipmentTypeCount {
		return fmt.Errorf("catalog: component %q has unknown equipment type %d", name, eq)
	}
	idx, ok := c.componentIndex(id)
	if !ok {
		idx = len(c.components)
		c.components = append(c.components, Component{ID: id, Name: name, Ancient: ancient, UnitCost: decimal.Zero})
		c.componentsByID[id] = idx
		c.componentsByName[name] = idx
	}
	comp := &c.components[idx]
	comp.Contributions[eq] = append(comp.Contributions[eq], contrib)

	key := bitsetKey{component: id, equipment: eq}
	bs := c.perkBitsets[key]
	bs.Set(contrib.Perk)
	c.perkBitsets[key] = bs
	return nil
}

// RegisterComponentCost sets a component's unit cost, overriding any default.
// Called after all contributions are registered, matching the source CSV
// load order (compdata.csv then compcost.csv); components never mentioned
// in the cost file keep their zero default.
func (c *Catalog) RegisterComponentCost(id ComponentID, name string, cost decimal.Decimal) error {
	idx, ok := c.componentIndex(id)
	if !ok {
		idx = len(c.components)
		c.components = append(c.components, Component{ID: id, Name: name})
		c.componentsByID[id] = idx
		c.componentsByName[name] = idx
	}
	c.components[idx].UnitCost = cost
	return nil
}

// Perk looks up a perk by id.
func (c *Catalog) Perk(id PerkID) (Perk, bool) {
	idx, ok := c.perkIndex(id)
	if !ok {
		return Perk{}, false
	}
	return c.perks[idx], true
}

// PerkByName looks up a perk by its exact registered name.
func (c *Catalog) PerkByName(name string) (Perk, bool) {
	idx, ok := c.perksByName[name]
	if !ok {
		return Perk{}, false
	}
	return c.perks[idx], true
}

// Perks returns every registered perk, in registration order.
func (c *Catalog) Perks() []Perk {
	return c.perks
}

// Component looks up a component by id.
func (c *Catalog) Component(id ComponentID) (Component, bool) {
	idx, ok := c.componentIndex(id)
	if !ok {
		return Component{}, false
	}
	return c.components[idx], true
}

// ComponentByName looks up a component by its exact registered name.
func (c *Catalog) ComponentByName(name string) (Component, bool) {
	idx, ok := c.componentsByName[name]
	if !ok {
		return Component{}, false
	}
	return c.components[idx], true
}

// Components returns every registered component, in registration order.
func (c *Catalog) Components() []Component {
	return c.components
}

// PossiblePerkBitset returns the set of perk ids the given component can
// produce for the given equipment type.
func (c *Catalog) PossiblePerkBitset(componentID ComponentID, eq EquipmentType) PerkBitset {
	return c.perkBitsets[bitsetKey{component: componentID, equipment: eq}]
}
