// Package pricing models distributor part data and drives the supplier
// queries that enrich a BOM. The service-side part grouping here is
// independent of the schematic reader's grouping: boundaries, ordering,
// and labels may differ, and the bom package reconciles the two.
package pricing

import (
	"github.com/shopspring/decimal"
)

// DistributorData is one supplier's answer for one part group: stock,
// order code, and volume pricing.
type DistributorData struct {
	OrderCode    string                  // Supplier order code / part number
	Stock        int                     // Quantity available
	StockNote    string                  // Raw availability text from the supplier
	MOQ          int                     // Minimum order quantity
	QtyIncrement int                     // Order quantity increment
	URL          string                  // Product page
	Currency     string                  // Currency the tiers are priced in
	PriceTiers   map[int]decimal.Decimal // Minimum order quantity -> unit price
	ExtraInfo    map[string]string       // Supplier-specific extras (manufacturer, ...)
}

// PartGroup is a set of interchangeable components as the pricing side
// groups them, plus whatever each queried supplier returned. Distributors
// is empty when no supplier found the part.
type PartGroup struct {
	Refs      []string // Reference designators, natural order
	Value     string
	Footprint string
	MPN       string            // Manufacturer part number ("" when ignored/absent)
	Fields    map[string]string // Shared component fields
	Datasheet string            // Backfilled from supplier data when the symbol has none
	Lifecycle string            // Product lifecycle status from the supplier
	Qty       int               // Per-board quantity (group size)

	Distributors map[string]*DistributorData // Keyed by supplier name, e.g. "mouser"
}

// Distributor returns the named supplier's data, or nil when the group has
// none.
func (g *PartGroup) Distributor(name string) *DistributorData {
	if g == nil || len(g.Distributors) == 0 {
		return nil
	}
	return g.Distributors[name]
}

// RefGroups extracts the reference designator group list, one slice per
// part group in group order.
func RefGroups(groups []*PartGroup) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = g.Refs
	}
	return out
}
