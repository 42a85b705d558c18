package bom

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
)

// EmptyPlaceholderRef marks the placeholder component inserted when a
// partition has no real members. It keeps every downstream array one entry
// long instead of zero, and row projection skips it entirely.
const EmptyPlaceholderRef = "BOM-EMPTY"

// Collection is one partition of the schematic (fitted or DNP) grouped
// under the active policy.
type Collection struct {
	Components []*netlist.Component
	Groups     [][]*netlist.Component
	RefGroups  [][]string
}

func newCollection(components []*netlist.Component, eq netlist.Predicate) *Collection {
	c := &Collection{Components: components}
	c.Groups = netlist.Group(components, eq)
	c.refresh()
	return c
}

func (c *Collection) refresh() {
	c.RefGroups = make([][]string, len(c.Groups))
	for i, group := range c.Groups {
		refs := make([]string, len(group))
		for j, comp := range group {
			refs[j] = comp.Ref
		}
		c.RefGroups[i] = refs
	}
}

// GroupCount is the number of component groups in this partition.
func (c *Collection) GroupCount() int { return len(c.Groups) }

// RemoveIgnoredMPNs drops whole groups whose MPN field value is in the
// ignore set. Meant for supplier BOM tools that reject generic parts.
func (c *Collection) RemoveIgnoredMPNs(ignore []string) {
	ignored := make(map[string]bool, len(ignore))
	for _, m := range ignore {
		ignored[m] = true
	}
	var kept [][]*netlist.Component
	for _, group := range c.Groups {
		if !ignored[group[0].Field(pricing.MPNField)] {
			kept = append(kept, group)
		}
	}
	c.Groups = kept
	c.refresh()
}

// PartGroups builds the distributor-query groups for this partition's
// components.
func (c *Collection) PartGroups(ignoreMPNs []string) []*pricing.PartGroup {
	return pricing.GroupComponents(c.Components, ignoreMPNs)
}

// Partitions splits a netlist document into the fitted and DNP partitions,
// each grouped under eq. The filter's BOM/board exclusions apply to both;
// an empty DNP partition gets a single placeholder component so its shape
// matches a populated one.
func Partitions(doc *netlist.Document, f netlist.Filter, eq netlist.Predicate) (fitted, dnp *Collection) {
	fittedFilter := f
	fittedFilter.WithoutDNP = true
	fitted = newCollection(doc.InterestingComponents(fittedFilter), eq)

	allFilter := f
	allFilter.WithoutDNP = false
	var dnpComponents []*netlist.Component
	for _, comp := range doc.InterestingComponents(allFilter) {
		if comp.DNP {
			dnpComponents = append(dnpComponents, comp)
		}
	}
	if len(dnpComponents) == 0 {
		dnpComponents = []*netlist.Component{{Ref: EmptyPlaceholderRef}}
	}
	dnp = newCollection(dnpComponents, eq)
	return fitted, dnp
}

// IsPlaceholder reports whether a group is the empty-partition placeholder.
func IsPlaceholder(group []*netlist.Component) bool {
	return len(group) == 1 && group[0].Ref == EmptyPlaceholderRef
}
