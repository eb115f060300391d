package capacity

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed vehicles.yaml
var embeddedTable []byte

// Table is the static auxiliary-vehicle capacity lookup. It doubles as the
// "is this an auxiliary vehicle" predicate: a vehicle is auxiliary exactly
// when it has an entry here.
//
// Keeping the predicate and the capacities in one enumerated surface means a
// new SRV variant needs exactly one edit (vehicles.yaml or an override file);
// until that edit lands, the vehicle degrades to observed-max estimation.
type Table struct {
	Vehicles map[string]int `yaml:"vehicles"`
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() Table {
	var t Table
	// The embedded file is part of the build; a parse failure here is a
	// packaging bug, not a runtime condition.
	if err := yaml.Unmarshal(embeddedTable, &t); err != nil {
		panic(fmt.Sprintf("capacity: embedded vehicle table invalid: %v", err))
	}
	return t
}

// LoadTable builds the lookup table, overlaying entries from the optional
// override file in cfg on top of the embedded defaults. An unreadable
// override is an error; an unset path is not.
func LoadTable(cfg Config) (Table, error) {
	t := DefaultTable()
	if cfg.Table == "" {
		return t, nil
	}

	data, err := os.ReadFile(cfg.Table)
	if err != nil {
		return t, fmt.Errorf("failed to read vehicle table: %w", err)
	}

	var override Table
	if err := yaml.Unmarshal(data, &override); err != nil {
		return t, fmt.Errorf("failed to parse vehicle table: %w", err)
	}

	for vehicle, capacity := range override.Vehicles {
		t.Vehicles[vehicle] = capacity
	}
	return t, nil
}

// IsAuxiliary reports whether the canonical vehicle identifier is a known
// auxiliary (SRV-class) vehicle.
func (t Table) IsAuxiliary(vehicle string) bool {
	_, ok := t.Vehicles[vehicle]
	return ok
}

// Lookup returns the static capacity for a known auxiliary vehicle. The
// second return is false for unrecognized identifiers, in which case the
// caller falls back to the observed/explicit estimation path.
func (t Table) Lookup(vehicle string) (int, bool) {
	capacity, ok := t.Vehicles[vehicle]
	return capacity, ok
}
