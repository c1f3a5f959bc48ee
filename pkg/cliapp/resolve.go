// Package cliapp implements the command-line surface shared pieces: name
// resolution against the catalog, flag parsing, and progress rendering.
package cliapp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
)

// NotFoundError reports a name selector that matched nothing.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("[Error] %s '%s' could not be found.", e.Kind, e.Name)
}

// AmbiguousNameError reports a prefix that matched more than one name with
// no exact match to break the tie.
type AmbiguousNameError struct {
	Kind    string
	Name    string
	Matches []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("[Error] %s '%s' is ambiguous, matches: %s.", e.Kind, e.Name, strings.Join(e.Matches, ", "))
}

// ResolvePerk parses a "<name prefix>[ <rank>]" selector — the trailing
// token is treated as the target rank only when it parses as an integer —
// and resolves the name against the catalog by case-insensitive prefix
// matching. An exact case-insensitive match always wins outright even when
// it is also a prefix of other names; otherwise more than one prefix match
// is ambiguous.
func ResolvePerk(cat *catalog.Catalog, input string) (catalog.PerkID, int, error) {
	name, rank := splitTrailingRank(input)
	matched, err := resolveName(perkNames(cat), name, "Perk")
	if err != nil {
		return 0, 0, err
	}
	p, _ := cat.PerkByName(matched)
	return p.ID, rank, nil
}

// ResolveComponent resolves a component name selector the same way
// ResolvePerk does, without a trailing rank.
func ResolveComponent(cat *catalog.Catalog, input string) (catalog.ComponentID, error) {
	matched, err := resolveName(componentNames(cat), input, "Component")
	if err != nil {
		return 0, err
	}
	c, _ := cat.ComponentByName(matched)
	return c.ID, nil
}

func splitTrailingRank(input string) (string, int) {
	fields := strings.Fields(input)
	if len(fields) > 1 {
		if rank, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			return strings.Join(fields[:len(fields)-1], " "), rank
		}
	}
	return input, 0
}

func perkNames(cat *catalog.Catalog) []string {
	var names []string
	for _, p := range cat.Perks() {
		if p.ID == catalog.NoEffectPerkID {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

func componentNames(cat *catalog.Catalog) []string {
	var names []string
	for _, c := range cat.Components() {
		if c.ID == catalog.EmptyComponentID {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

func resolveName(names []string, query, kind string) (string, error) {
	lower := strings.ToLower(query)
	var prefixMatches []string
	for _, name := range names {
		if strings.EqualFold(name, query) {
			return name, nil
		}
		if strings.HasPrefix(strings.ToLower(name), lower) {
			prefixMatches = append(prefixMatches, name)
		}
	}
	switch len(prefixMatches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Name: query}
	case 1:
		return prefixMatches[0], nil
	default:
		return "", &AmbiguousNameError{Kind: kind, Name: query, Matches: prefixMatches}
	}
}
