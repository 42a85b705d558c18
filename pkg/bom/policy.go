// Package bom holds the core BOM pipeline: the component grouping policy,
// the matcher that reconciles netlist groups with distributor search
// results, per-group enrichment from distributor data, the primary/secondary
// gap-filling merge, and the projection of groups into output rows.
package bom

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// MaxGroupFields caps how many symbol fields components can be grouped by.
const MaxGroupFields = 7

// GroupPolicy is the resolved grouping configuration. Value and Footprint
// are always compared; DNPAware adds the do-not-populate flag; Extra names
// the remaining symbol fields.
type GroupPolicy struct {
	Fields   []string // Resolved field list as requested, for display
	Extra    []string // Fields beyond Value/Footprint/DNP, compared by name
	DNPAware bool
}

// NewGroupPolicy resolves the grouping fields from an explicit
// comma-separated list, or a named preset, plus optional appended fields.
// Value and Footprint are mandatory; at most MaxGroupFields fields total.
func NewGroupPolicy(explicit, preset, appendFields string) (*GroupPolicy, error) {
	var fields []string
	if explicit != "" {
		fields = splitFields(explicit)
	} else {
		var ok bool
		fields, ok = GroupPresetFields(preset)
		if !ok {
			return nil, fmt.Errorf("group preset '%s' not supported", preset)
		}
	}
	fields = append(fields, splitFields(appendFields)...)

	if len(fields) > MaxGroupFields {
		return nil, fmt.Errorf("more than %d group fields are not supported", MaxGroupFields)
	}

	p := &GroupPolicy{Fields: fields}
	haveValue, haveFootprint := false, false
	for _, f := range fields {
		switch {
		case strings.EqualFold(f, "Value"):
			haveValue = true
		case strings.EqualFold(f, "Footprint"):
			haveFootprint = true
		case strings.EqualFold(f, "DNP"):
			p.DNPAware = true
		default:
			p.Extra = append(p.Extra, f)
		}
	}
	if !haveValue || !haveFootprint {
		return nil, fmt.Errorf("grouping by 'Value' and 'Footprint' is mandatory")
	}
	return p, nil
}

// Predicate returns the component equivalence check for this policy. The
// predicate captures the policy by value and carries no other state, so the
// same policy always yields the same behaviour.
func (p *GroupPolicy) Predicate() netlist.Predicate {
	extra := p.Extra
	dnpAware := p.DNPAware
	return func(a, b *netlist.Component) bool {
		if a.Value != b.Value || a.Footprint != b.Footprint {
			return false
		}
		if dnpAware && a.DNP != b.DNP {
			return false
		}
		for _, f := range extra {
			if a.Field(f) != b.Field(f) {
				return false
			}
		}
		return true
	}
}

// String renders the resolved field list for the startup notice,
// duplicates removed.
func (p *GroupPolicy) String() string {
	seen := map[string]bool{}
	var uniq []string
	for _, f := range p.Fields {
		if !seen[f] {
			seen[f] = true
			uniq = append(uniq, f)
		}
	}
	return strings.Join(uniq, ",")
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
