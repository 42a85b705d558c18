// Package netlist parses the XML netlist that KiCad's BOM dialog exports
// and exposes the component list the BOM pipeline works from.
package netlist

import (
	"strings"
)

// Component is a single part instance read from the netlist. It is not
// modified after parsing.
type Component struct {
	Ref       string            // Reference designator, e.g. "R1"
	Value     string            // Symbol value, e.g. "10k"
	Footprint string            // Library footprint, e.g. "Resistor_SMD:R_0603"
	Datasheet string            // Datasheet URL or "~"
	LibPart   string            // Library part, e.g. "Device:R"
	Desc      string            // Library description
	Fields    map[string]string // Free-form symbol fields (MPN, Rating, ...)

	DNP              bool // Marked do-not-populate
	ExcludeFromBOM   bool // "Exclude from bill of materials" set
	ExcludeFromBoard bool // "Exclude from board" set
}

// Field returns a named field of the component. The built-in symbol
// properties are reachable under their usual names; anything else is looked
// up in the free-form field map, case-insensitively, defaulting to "".
func (c *Component) Field(name string) string {
	switch strings.ToLower(name) {
	case "reference":
		return c.Ref
	case "value":
		return c.Value
	case "footprint":
		return c.Footprint
	case "datasheet":
		return c.Datasheet
	}
	if v, ok := c.Fields[name]; ok {
		return v
	}
	for k, v := range c.Fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	// The library description doubles as the Description field when the
	// symbol does not carry one of its own.
	if strings.EqualFold(name, "Description") {
		return c.Desc
	}
	return ""
}

// DNPString renders the do-not-populate flag the way it appears in BOM
// cells and group identifiers.
func (c *Component) DNPString() string {
	if c.DNP {
		return "DNP"
	}
	return ""
}

// Design carries the netlist header information used for the general-info
// block at the end of a BOM.
type Design struct {
	Source string // Schematic path the netlist was exported from
	Date   string // Export date
	Tool   string // Exporting tool and version
}

// Document is a parsed netlist: the design header plus every component in
// the schematic, in file order.
type Document struct {
	Design     Design
	Components []*Component
}

// Filter selects which components InterestingComponents returns.
type Filter struct {
	ExcludeBOMFlagged   bool // Drop components marked "exclude from BOM"
	ExcludeBoardFlagged bool // Drop components marked "exclude from board"
	WithoutDNP          bool // Drop do-not-populate components
}

// InterestingComponents returns the components that survive the filter,
// sorted by reference designator in natural order.
func (d *Document) InterestingComponents(f Filter) []*Component {
	var out []*Component
	for _, c := range d.Components {
		if f.ExcludeBOMFlagged && c.ExcludeFromBOM {
			continue
		}
		if f.ExcludeBoardFlagged && c.ExcludeFromBoard {
			continue
		}
		if f.WithoutDNP && c.DNP {
			continue
		}
		out = append(out, c)
	}
	SortByRef(out)
	return out
}
