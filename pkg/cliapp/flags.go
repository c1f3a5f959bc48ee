package cliapp

import (
	"flag"
	"fmt"
	"strings"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
)

// repeatedFlag accumulates every occurrence of a flag.Value-backed flag,
// e.g. "-p foo -p bar" -> ["foo", "bar"].
type repeatedFlag struct {
	values []string
}

func (r *repeatedFlag) String() string { return strings.Join(r.values, ",") }

func (r *repeatedFlag) Set(v string) error {
	r.values = append(r.values, v)
	return nil
}

// Config is the parsed form of the gizmosearch command line.
type Config struct {
	Equipment     catalog.EquipmentType
	Variant       catalog.GizmoType
	Level         uint8
	TopN          int
	TargetPerks   []string // raw "-p" selectors, 1 or 2
	ExcludedNames []string // raw "-x" selectors

	PerksCSV      string
	ComponentsCSV string
	CostsCSV      string

	Verbose bool
	Workers int
}

// ParseFlags parses args (normally os.Args[1:]) into a Config. It never
// touches the global flag.CommandLine, so it is safe to call repeatedly in
// tests.
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gizmosearch", flag.ContinueOnError)

	weapon := fs.Bool("w", false, "search weapon gizmos")
	tool := fs.Bool("t", false, "search tool gizmos")
	armour := fs.Bool("a", false, "search armour gizmos")
	std := fs.Bool("std", false, "search standard (5-slot) gizmos")
	anc := fs.Bool("anc", false, "search ancient (9-slot) gizmos")
	level := fs.Int("l", 120, "invention level")
	topN := fs.Int("n", 1, "number of top results to report")
	workers := fs.Int("workers", 4, "number of evaluation workers")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	perksCSV := fs.String("perks", "data/perkdata.csv", "path to the perk definitions CSV")
	componentsCSV := fs.String("components", "data/compdata.csv", "path to the component contributions CSV")
	costsCSV := fs.String("costs", "data/compcost.csv", "path to the component costs CSV")

	var targets repeatedFlag
	fs.Var(&targets, "p", "target perk, e.g. -p \"Aftershock 4\" (repeatable up to twice)")
	var excluded repeatedFlag
	fs.Var(&excluded, "x", "excluded component name (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	eq, err := exactlyOneEquipment(*weapon, *tool, *armour)
	if err != nil {
		return nil, err
	}

	variant, err := exactlyOneVariant(*std, *anc)
	if err != nil {
		return nil, err
	}

	if len(targets.values) == 0 || len(targets.values) > 2 {
		return nil, fmt.Errorf("exactly one or two -p target perks required, got %d", len(targets.values))
	}

	if *level < 1 || *level > 255 {
		return nil, fmt.Errorf("invention level %d out of range 1-255", *level)
	}

	return &Config{
		Equipment:     eq,
		Variant:       variant,
		Level:         uint8(*level),
		TopN:          *topN,
		TargetPerks:   targets.values,
		ExcludedNames: excluded.values,
		PerksCSV:      *perksCSV,
		ComponentsCSV: *componentsCSV,
		CostsCSV:      *costsCSV,
		Verbose:       *verbose,
		Workers:       *workers,
	}, nil
}

func exactlyOneEquipment(weapon, tool, armour bool) (catalog.EquipmentType, error) {
	count := boolCount(weapon, tool, armour)
	if count != 1 {
		return 0, fmt.Errorf("exactly one of -w, -t, -a required")
	}
	switch {
	case weapon:
		return catalog.Weapon, nil
	case tool:
		return catalog.Tool, nil
	default:
		return catalog.Armour, nil
	}
}

func exactlyOneVariant(std, anc bool) (catalog.GizmoType, error) {
	count := boolCount(std, anc)
	if count != 1 {
		return 0, fmt.Errorf("exactly one of -std, -anc required")
	}
	if anc {
		return catalog.Ancient, nil
	}
	return catalog.Standard, nil
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
