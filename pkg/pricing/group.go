package pricing

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// MPNField is the symbol field holding the manufacturer part number.
const MPNField = "MPN"

// DefaultIgnoreMPNs are MPN values that mark a part as not orderable;
// parts carrying one are grouped but never queried.
func DefaultIgnoreMPNs() []string {
	return []string{"Generic", "TBD", "Manufacturer's Stock", ""}
}

type groupKey struct {
	value     string
	footprint string
	mpn       string
}

// GroupComponents partitions components the way the pricing side sees
// them: identical (value, footprint, MPN) triples form one orderable
// group. MPNs on the ignore list are treated as absent, so those parts
// still group by value and footprint but carry no part number to query.
// Group boundaries here routinely differ from the schematic reader's
// policy-driven grouping; the reference matcher reconciles the two.
func GroupComponents(components []*netlist.Component, ignoreMPNs []string) []*PartGroup {
	ignored := make(map[string]bool, len(ignoreMPNs))
	for _, m := range ignoreMPNs {
		ignored[m] = true
	}

	var order []groupKey
	byKey := make(map[groupKey]*PartGroup)

	for _, c := range components {
		mpn := c.Field(MPNField)
		if ignored[mpn] {
			mpn = ""
		}
		key := groupKey{value: c.Value, footprint: c.Footprint, mpn: mpn}

		g, ok := byKey[key]
		if !ok {
			g = &PartGroup{
				Value:        c.Value,
				Footprint:    c.Footprint,
				MPN:          mpn,
				Fields:       c.Fields,
				Distributors: make(map[string]*DistributorData),
			}
			if c.Datasheet != "" && c.Datasheet != "~" {
				g.Datasheet = c.Datasheet
			}
			byKey[key] = g
			order = append(order, key)
		}
		g.Refs = append(g.Refs, c.Ref)
	}

	groups := make([]*PartGroup, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		netlist.SortRefs(g.Refs)
		g.Qty = len(g.Refs)
		groups = append(groups, g)
	}
	return groups
}
