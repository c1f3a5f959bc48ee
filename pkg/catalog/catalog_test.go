package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewCatalogHasSentinels(t *testing.T) {
	c := New()

	noEffect, ok := c.Perk(NoEffectPerkID)
	if !ok {
		t.Fatalf("expected perk 0 to be pre-registered")
	}
	if noEffect.Name != "No Effect" {
		t.Errorf("expected sentinel perk name %q, got %q", "No Effect", noEffect.Name)
	}

	empty, ok := c.Component(EmptyComponentID)
	if !ok {
		t.Fatalf("expected component 255 to be pre-registered")
	}
	if empty.Name != "Empty" {
		t.Errorf("expected sentinel component name %q, got %q", "Empty", empty.Name)
	}
	if !empty.UnitCost.Equal(decimal.Zero) {
		t.Errorf("expected empty component cost 0, got %s", empty.UnitCost)
	}
}

func TestRegisterPerkRankIdempotentAndOrdered(t *testing.T) {
	c := New()

	if err := c.RegisterPerkRank(10, "Aftershock", false, Rank{Number: 1, Cost: 10, Threshold: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RegisterPerkRank(10, "Aftershock", false, Rank{Number: 2, Cost: 20, Threshold: 200}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	perk, ok := c.Perk(10)
	if !ok {
		t.Fatalf("expected perk 10 to be registered")
	}
	if perk.MaxRank() != 2 {
		t.Fatalf("expected 2 ranks, got %d", perk.MaxRank())
	}

	// Out-of-order registration must be rejected so a CSV re-load cannot
	// silently misalign rank numbers.
	if err := c.RegisterPerkRank(10, "Aftershock", false, Rank{Number: 4, Cost: 40, Threshold: 400}); err == nil {
		t.Fatalf("expected an error registering rank 4 after rank 2")
	}
}

func TestPossiblePerkBitset(t *testing.T) {
	c := New()
	if err := c.RegisterComponentContribution(1, "Crackling", false, Weapon, PerkContribution{Perk: 5, Base: 10, Roll: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RegisterComponentContribution(1, "Crackling", false, Weapon, PerkContribution{Perk: 6, Base: 2, Roll: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bs := c.PossiblePerkBitset(1, Weapon)
	if !bs.Has(5) || !bs.Has(6) {
		t.Fatalf("expected bitset to contain perks 5 and 6, got %+v", bs)
	}
	if bs.Has(7) {
		t.Fatalf("expected bitset not to contain perk 7")
	}

	// A different equipment type for the same component must stay empty.
	if c.PossiblePerkBitset(1, Armour).Has(5) {
		t.Fatalf("expected Armour bitset to be unaffected by Weapon registration")
	}
}

func TestLoadCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()

	perkCSV := "1,Biting,1,10,50,0\n1,Biting,2,20,150,0\n2,Crackling,1,5,20,1\n"
	compCSV := "1,Crackling Component,weapon,2,10,5,0\n2,Biting Component,weapon,1,4,2,1\n"
	costCSV := "1,Crackling Component,100\n"

	perkPath := writeTemp(t, dir, "perkdata.csv", perkCSV)
	compPath := writeTemp(t, dir, "compdata.csv", compCSV)
	costPath := writeTemp(t, dir, "compcost.csv", costCSV)

	c, err := LoadCSV(perkPath, compPath, costPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	biting, ok := c.PerkByName("Biting")
	if !ok {
		t.Fatalf("expected Biting perk to be loaded")
	}
	if biting.MaxRank() != 2 {
		t.Fatalf("expected 2 ranks for Biting, got %d", biting.MaxRank())
	}

	crackling, ok := c.ComponentByName("Crackling Component")
	if !ok {
		t.Fatalf("expected Crackling Component to be loaded")
	}
	if !crackling.UnitCost.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected Crackling Component cost 100, got %s", crackling.UnitCost)
	}

	bitingComp, ok := c.ComponentByName("Biting Component")
	if !ok {
		t.Fatalf("expected Biting Component to be loaded")
	}
	// Never mentioned in compcost.csv — must default to zero cost.
	if !bitingComp.UnitCost.Equal(decimal.Zero) {
		t.Errorf("expected Biting Component default cost 0, got %s", bitingComp.UnitCost)
	}
	if !bitingComp.Ancient {
		t.Errorf("expected Biting Component to be flagged ancient")
	}
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
