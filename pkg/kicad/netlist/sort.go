package netlist

import (
	"sort"
	"strconv"
)

// NaturalRefLess compares two reference designators the way a human reads
// them: alphabetic runs compare as text, numeric runs compare as numbers,
// so R2 < R9 < R10 < R13.
func NaturalRefLess(a, b string) bool {
	ta, tb := splitRuns(a), splitRuns(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if ta[i] == tb[i] {
			continue
		}
		na, aOK := strconv.Atoi(ta[i])
		nb, bOK := strconv.Atoi(tb[i])
		if aOK == nil && bOK == nil {
			return na < nb
		}
		return ta[i] < tb[i]
	}
	return len(ta) < len(tb)
}

// splitRuns splits a designator into alternating alphabetic and numeric
// runs, e.g. "R10A" -> ["R", "10", "A"].
func splitRuns(s string) []string {
	var runs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			runs = append(runs, s[start:i])
			start = i
		}
	}
	return runs
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// SortByRef sorts components in place by natural reference order.
func SortByRef(comps []*Component) {
	sort.SliceStable(comps, func(i, j int) bool {
		return NaturalRefLess(comps[i].Ref, comps[j].Ref)
	})
}

// SortRefs sorts reference designator strings in place in natural order.
func SortRefs(refs []string) {
	sort.SliceStable(refs, func(i, j int) bool {
		return NaturalRefLess(refs[i], refs[j])
	})
}
