package netlist

import "sort"

// Predicate is a component equivalence relation used for grouping.
type Predicate func(a, b *Component) bool

// Group partitions components into groups of equivalent parts. A component
// joins the first group whose founding member it is equivalent to, so the
// relation is only consulted against group representatives. Each group is
// sorted by reference in natural order, and groups are sorted by their
// first reference.
func Group(components []*Component, eq Predicate) [][]*Component {
	var groups [][]*Component
	for _, c := range components {
		placed := false
		for i, g := range groups {
			if eq(g[0], c) {
				groups[i] = append(groups[i], c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []*Component{c})
		}
	}

	for _, g := range groups {
		SortByRef(g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return NaturalRefLess(groups[i][0].Ref, groups[j][0].Ref)
	})
	return groups
}
