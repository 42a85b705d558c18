package bom

import (
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
)

// MatchRecord locates one reference designator in both groupings: the
// netlist reader's and the distributor search result's.
type MatchRecord struct {
	NetGroup  int // Group index in the netlist grouping
	NetRef    int // Ref index within that group
	PartGroup int // Group index in the distributor grouping
	PartRef   int // Ref index within that group
}

// MatchRefGroups compares every designator in netGroups against every
// designator in partGroups and records each exact match. The result is
// indexed by netGroups position: entry i holds the records whose NetGroup
// is i, in discovery order, and is empty (never omitted) when group i has
// no matches. The scan is quadratic on purpose; schematics carry at most a
// few hundred designators and correctness of the alignment is what matters.
func MatchRefGroups(netGroups, partGroups [][]string) [][]MatchRecord {
	matched := make([][]MatchRecord, len(netGroups))
	for i := range matched {
		matched[i] = []MatchRecord{}
	}
	for ni, netGroup := range netGroups {
		for nj, netRef := range netGroup {
			for pi, partGroup := range partGroups {
				for pj, partRef := range partGroup {
					if netRef == partRef {
						matched[ni] = append(matched[ni], MatchRecord{
							NetGroup:  ni,
							NetRef:    nj,
							PartGroup: pi,
							PartRef:   pj,
						})
					}
				}
			}
		}
	}
	return matched
}

// AlignPartGroups reorders the distributor part groups to the netlist
// grouping's positions: entry i is the part group the first match of
// netlist group i points at, or nil when nothing matched. Only the first
// match is consulted; when a netlist group's members turn out to span
// several part groups that is logged but the first still wins.
func AlignPartGroups(netGroups [][]string, parts []*pricing.PartGroup, log *zap.SugaredLogger) []*pricing.PartGroup {
	partRefs := pricing.RefGroups(parts)
	matched := MatchRefGroups(netGroups, partRefs)

	aligned := make([]*pricing.PartGroup, len(netGroups))
	for i, records := range matched {
		if len(records) == 0 {
			continue
		}
		first := records[0].PartGroup
		for _, r := range records[1:] {
			if r.PartGroup != first {
				log.Debugf("netlist group %v spans distributor groups %d and %d; using %d",
					netGroups[i], first, r.PartGroup, first)
				break
			}
		}
		aligned[i] = parts[first]
	}
	return aligned
}
