package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LoadCSV builds a Catalog from the three source data files. Unlike the
// header-validated loaders elsewhere in this module's history, these files
// carry no header row — every row is data, parsed positionally.
func LoadCSV(perkPath, componentPath, costPath string) (*Catalog, error) {
	c := New()

	if err := loadPerks(c, perkPath); err != nil {
		return nil, fmt.Errorf("failed to load perk data %s: %w", perkPath, err)
	}
	if err := loadComponents(c, componentPath); err != nil {
		return nil, fmt.Errorf("failed to load component data %s: %w", componentPath, err)
	}
	if err := loadCosts(c, costPath); err != nil {
		return nil, fmt.Errorf("failed to load component costs %s: %w", costPath, err)
	}
	return c, nil
}

// perkdata.csv: id,name,rank,cost,threshold,ancient
func loadPerks(c *Catalog, path string) error {
	records, err := readAllRecords(path)
	if err != nil {
		return err
	}
	for i, record := range records {
		if len(record) != 6 {
			return fmt.Errorf("row %d: expected 6 columns, got %d", i+1, len(record))
		}
		id, err := parseUint8(record[0])
		if err != nil {
			return fmt.Errorf("row %d: invalid id: %w", i+1, err)
		}
		name := record[1]
		rankNum, err := strconv.Atoi(record[2])
		if err != nil {
			return fmt.Errorf("row %d: invalid rank: %w", i+1, err)
		}
		cost, err := strconv.Atoi(record[3])
		if err != nil {
			return fmt.Errorf("row %d: invalid cost: %w", i+1, err)
		}
		threshold, err := strconv.Atoi(record[4])
		if err != nil {
			return fmt.Errorf("row %d: invalid threshold: %w", i+1, err)
		}
		ancient, err := parseBool(record[5])
		if err != nil {
			return fmt.Errorf("row %d: invalid ancient flag: %w", i+1, err)
		}
		twoSlot := name == "Enhanced Devoted" || name == "Enhanced Efficient"
		if err := c.RegisterPerkRank(id, name, twoSlot, Rank{
			Number:    rankNum,
			Cost:      cost,
			Threshold: threshold,
			Ancient:   ancient,
		}); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// compdata.csv: id,name,equipment,perk,base,roll,ancient
func loadComponents(c *Catalog, path string) error {
	records, err := readAllRecords(path)
	if err != nil {
		return err
	}
	for i, record := range records {
		if len(record) != 7 {
			return fmt.Errorf("row %d: expected 7 columns, got %d", i+1, len(record))
		}
		id, err := parseUint8(record[0])
		if err != nil {
			return fmt.Errorf("row %d: invalid id: %w", i+1, err)
		}
		name := record[1]
		eq, ok := ParseEquipmentType(strings.ToLower(record[2]))
		if !ok {
			return fmt.Errorf("row %d: unrecognised equipment type %q", i+1, record[2])
		}
		perk, err := parseUint8(record[3])
		if err != nil {
			return fmt.Errorf("row %d: invalid perk id: %w", i+1, err)
		}
		base, err := strconv.Atoi(record[4])
		if err != nil {
			return fmt.Errorf("row %d: invalid base: %w", i+1, err)
		}
		roll, err := strconv.Atoi(record[5])
		if err != nil {
			return fmt.Errorf("row %d: invalid roll: %w", i+1, err)
		}
		ancient, err := parseBool(record[6])
		if err != nil {
			return fmt.Errorf("row %d: invalid ancient flag: %w", i+1, err)
		}
		if err := c.RegisterComponentContribution(id, name, ancient, eq, PerkContribution{
			Perk: perk,
			Base: base,
			Roll: roll,
		}); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// compcost.csv: id,name,cost
func loadCosts(c *Catalog, path string) error {
	records, err := readAllRecords(path)
	if err != nil {
		return err
	}
	for i, record := range records {
		if len(record) != 3 {
			return fmt.Errorf("row %d: expected 3 columns, got %d", i+1, len(record))
		}
		id, err := parseUint8(record[0])
		if err != nil {
			return fmt.Errorf("row %d: invalid id: %w", i+1, err)
		}
		name := record[1]
		cost, err := decimal.NewFromString(record[2])
		if err != nil {
			return fmt.Errorf("row %d: invalid cost: %w", i+1, err)
		}
		if err := c.RegisterComponentCost(id, name, cost); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

func readAllRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func parseUint8(s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
