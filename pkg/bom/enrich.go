package bom

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
)

// Enrichment holds one supplier's distributor data as parallel arrays,
// entry i belonging to netlist group i. A group the supplier knows nothing
// about is blank in every array, never partially filled.
type Enrichment struct {
	Stock         []string
	OrderCodes    []string
	Manufacturers []string
	Suppliers     []string
	Quantity      []string
	Price         []string
	Currency      []string

	PriceTiers []map[int]decimal.Decimal
}

// EmptyEnrichment returns all-blank arrays for n groups. Used when pricing
// is disabled or a supplier is skipped.
func EmptyEnrichment(n int) *Enrichment {
	blank := func() []string { return make([]string, n) }
	return &Enrichment{
		Stock:         blank(),
		OrderCodes:    blank(),
		Manufacturers: blank(),
		Suppliers:     blank(),
		Quantity:      blank(),
		Price:         blank(),
		Currency:      blank(),
		PriceTiers:    make([]map[int]decimal.Decimal, n),
	}
}

// Enrich extracts one supplier's data from the aligned part groups. aligned
// must be positioned 1:1 with the netlist grouping (see AlignPartGroups);
// nil entries and entries without distributor data come out blank.
func Enrich(supplier string, aligned []*pricing.PartGroup, currency string, boardQty int) *Enrichment {
	e := EmptyEnrichment(len(aligned))
	for i, part := range aligned {
		if part == nil {
			continue
		}
		dd := part.Distributor(supplier)
		if dd == nil {
			continue
		}
		e.Stock[i] = strconv.Itoa(dd.Stock)
		e.OrderCodes[i] = dd.OrderCode
		e.Manufacturers[i] = extractManufacturer(supplier, dd.ExtraInfo)
		if part.Qty > 0 {
			e.Quantity[i] = strconv.Itoa(part.Qty * boardQty)
		}
		e.PriceTiers[i] = dd.PriceTiers
		if dd.OrderCode != "" {
			e.Suppliers[i] = pricing.DisplayName(supplier)
			e.Currency[i] = pricing.CurrencySymbol(currency)
		}
		if len(dd.PriceTiers) > 0 {
			qty, _ := strconv.Atoi(e.Quantity[i])
			e.Price[i] = SelectUnitPrice(dd.PriceTiers, qty).String()
		}
	}
	return e
}

// extractManufacturer reads the manufacturer from a supplier's extra info.
// Mouser reports it as a plain string; DigiKey as a serialized JSON object
// whose "value" key holds the name. An unparseable value degrades to blank.
func extractManufacturer(supplier string, extraInfo map[string]string) string {
	raw := extraInfo["manufacturer"]
	if supplier != pricing.SupplierDigiKey {
		return raw
	}
	if raw == "" {
		return ""
	}
	var m struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return ""
	}
	return m.Value
}

// SelectUnitPrice picks the unit price for a required quantity: the largest
// breakpoint strictly below the quantity, or the lowest breakpoint when the
// quantity does not reach past any. Breakpoints are sorted before selection
// so map iteration order cannot change which tier wins.
func SelectUnitPrice(tiers map[int]decimal.Decimal, quantity int) decimal.Decimal {
	keys := make([]int, 0, len(tiers))
	for k := range tiers {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	selected := keys[0]
	for _, k := range keys {
		if k < quantity {
			selected = k
		}
	}
	return tiers[selected]
}
