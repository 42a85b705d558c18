package bom

import (
	"fmt"
	"sort"
	"strings"
)

// Column and group presets. A top-level preset names one of each; the
// "custom" preset is a hook for fully user-specified lists.

var columnPresets = map[string][]string{
	"default": {
		"Group ID", "Quantity", "Schematic Ref", "DNP", "Description",
		"Datasheet", "Footprint", "Value", "Manufacturer", "MPN",
		"Preferred Supplier", "Order Code", "Alt. Supplier", "Alt. Order Code",
		"Unit/Reel Price", "Total Price",
	},
	"minimal": {
		"Group ID", "Quantity", "Schematic Ref", "DNP", "Description",
		"Footprint", "Value", "MPN", "Preferred Supplier", "Order Code",
		"Unit/Reel Price", "Total Price",
	},
	"no-pricing": {
		"Group ID", "Quantity", "Schematic Ref", "DNP", "Description",
		"Footprint", "Value",
	},
	"primary-only": {
		"Group ID", "Quantity", "Schematic Ref", "DNP", "Description",
		"Datasheet", "Footprint", "Value", "Manufacturer", "MPN",
		"Preferred Supplier", "Order Code", "Unit/Reel Price", "Total Price",
	},
	"mage": {
		"Schematic Ref", "DNP", "Description", "Footprint", "Value", "Rating",
		"Manufacturer", "MPN", "Preferred Supplier", "Order Code",
		"Alt. Supplier", "Alt. Order Code", "Unit/Reel Price",
	},
	"jlcpcb": {
		"Comment", "Designator", "Footprint",
	},
	"custom": {},
}

var groupPresets = map[string][]string{
	"default": {"Value", "Footprint", "DNP", "MPN"},
	"minimal": {"Value", "Footprint"},
	"mage":    {"Value", "Footprint", "MPN", "DNP", "Rating"},
	// The Value field doubles as JLCPCB's Comment column.
	"jlcpcb": {"Value", "Footprint"},
	"custom": {},
}

// presets maps a top-level preset name to its [columns, groups] preset pair.
var presets = map[string][2]string{
	"default": {"default", "default"},
	"minimal": {"minimal", "minimal"},
	"mage":    {"mage", "mage"},
	"jlcpcb":  {"jlcpcb", "jlcpcb"},
	"custom":  {"custom", "custom"},
}

// supportedColumns is the fixed set Row projection recognizes; any other
// column name falls through to a free-form symbol field lookup.
var supportedColumns = []string{
	"Group ID", "Quantity", "Schematic Ref", "Designator", "DNP",
	"Description", "Datasheet", "Footprint", "Value", "Comment", "Rating",
	"Manufacturer", "MPN", "Preferred Supplier", "Order Code",
	"Alt. Supplier", "Alt. Order Code", "Unit/Reel Price", "Total Price",
}

// ColumnPresetFields returns the column list of a named preset.
func ColumnPresetFields(name string) ([]string, bool) {
	cols, ok := columnPresets[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), cols...), true
}

// GroupPresetFields returns the grouping field list of a named preset.
func GroupPresetFields(name string) ([]string, bool) {
	fields, ok := groupPresets[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), fields...), true
}

// ResolvePreset expands a top-level preset into its column and group preset
// names.
func ResolvePreset(name string) (columnsPreset, groupPreset string, ok bool) {
	pair, ok := presets[strings.ToLower(name)]
	if !ok {
		return "", "", false
	}
	return pair[0], pair[1], true
}

// ResolveColumns builds the output column list from an explicit
// comma-separated list or a column preset, plus appended columns. Blank
// entries are dropped.
func ResolveColumns(explicit, preset, appendColumns string) ([]string, error) {
	var cols []string
	if explicit != "" {
		cols = splitFields(explicit)
	} else {
		var ok bool
		cols, ok = ColumnPresetFields(preset)
		if !ok {
			return nil, fmt.Errorf("columns preset '%s' not supported", preset)
		}
	}
	return append(cols, splitFields(appendColumns)...), nil
}

// PresetNames lists the top-level preset names for the list command.
func PresetNames() []string { return sortedKeys(presets) }

// ColumnPresetNames lists the column preset names.
func ColumnPresetNames() []string { return sortedKeys(columnPresets) }

// GroupPresetNames lists the group preset names.
func GroupPresetNames() []string { return sortedKeys(groupPresets) }

// SupportedColumns lists the recognized column names.
func SupportedColumns() []string {
	return append([]string(nil), supportedColumns...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
