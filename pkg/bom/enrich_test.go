package bom

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
)

func tiers(prices map[int]string) map[int]decimal.Decimal {
	out := map[int]decimal.Decimal{}
	for qty, p := range prices {
		out[qty] = decimal.RequireFromString(p)
	}
	return out
}

func TestSelectUnitPrice(t *testing.T) {
	tr := tiers(map[int]string{1: "0.50", 10: "0.40", 100: "0.30"})

	assert.Equal(t, "0.4", SelectUnitPrice(tr, 15).String(), "largest breakpoint below 15")
	assert.Equal(t, "0.3", SelectUnitPrice(tr, 1000).String())
	assert.Equal(t, "0.5", SelectUnitPrice(tr, 1).String(), "falls back to the lowest breakpoint")
	assert.Equal(t, "0.5", SelectUnitPrice(tr, 0).String())
	assert.Equal(t, "0.4", SelectUnitPrice(tr, 100).String(), "breakpoint must be strictly below")
}

func TestEnrichFilledGroup(t *testing.T) {
	aligned := []*pricing.PartGroup{{
		Refs: []string{"R1", "R2"},
		Qty:  2,
		Distributors: map[string]*pricing.DistributorData{
			pricing.SupplierMouser: {
				OrderCode:  "123-ABC",
				Stock:      4300,
				PriceTiers: tiers(map[int]string{1: "0.50", 10: "0.40"}),
				ExtraInfo:  map[string]string{"manufacturer": "Yageo"},
			},
		},
	}}

	e := Enrich(pricing.SupplierMouser, aligned, "gbp", 3)
	assert.Equal(t, "4300", e.Stock[0])
	assert.Equal(t, "123-ABC", e.OrderCodes[0])
	assert.Equal(t, "Yageo", e.Manufacturers[0])
	assert.Equal(t, "Mouser", e.Suppliers[0])
	assert.Equal(t, "6", e.Quantity[0], "group qty times board quantity")
	assert.Equal(t, "0.4", e.Price[0], "tier below quantity 6")
	assert.Equal(t, "£", e.Currency[0])
}

func TestEnrichNoDistributorDataIsAllBlank(t *testing.T) {
	aligned := []*pricing.PartGroup{
		nil,
		{Refs: []string{"R1"}, Qty: 1, Distributors: map[string]*pricing.DistributorData{}},
	}

	e := Enrich(pricing.SupplierMouser, aligned, "gbp", 1)
	for i := 0; i < 2; i++ {
		assert.Empty(t, e.Stock[i])
		assert.Empty(t, e.OrderCodes[i])
		assert.Empty(t, e.Manufacturers[i])
		assert.Empty(t, e.Suppliers[i])
		assert.Empty(t, e.Quantity[i])
		assert.Empty(t, e.Price[i])
		assert.Empty(t, e.Currency[i])
	}
}

func TestEnrichSupplierLabelNeedsOrderCode(t *testing.T) {
	aligned := []*pricing.PartGroup{{
		Refs: []string{"R1"},
		Qty:  1,
		Distributors: map[string]*pricing.DistributorData{
			pricing.SupplierMouser: {Stock: 10},
		},
	}}

	e := Enrich(pricing.SupplierMouser, aligned, "gbp", 1)
	assert.Empty(t, e.Suppliers[0], "no confirmed part, no supplier label")
	assert.Empty(t, e.Currency[0])
	assert.Equal(t, "10", e.Stock[0])
}

func TestExtractManufacturer(t *testing.T) {
	assert.Equal(t, "Broadcom",
		extractManufacturer(pricing.SupplierMouser, map[string]string{"manufacturer": "Broadcom"}))

	assert.Equal(t, "Yageo",
		extractManufacturer(pricing.SupplierDigiKey, map[string]string{"manufacturer": `{"value":"Yageo"}`}))

	// Unparseable serialized value degrades to blank, never an error
	assert.Empty(t,
		extractManufacturer(pricing.SupplierDigiKey, map[string]string{"manufacturer": "{'value': broken}"}))
	assert.Empty(t, extractManufacturer(pricing.SupplierDigiKey, map[string]string{}))
}

func TestEmptyEnrichment(t *testing.T) {
	e := EmptyEnrichment(3)
	require.Len(t, e.Price, 3)
	require.Len(t, e.OrderCodes, 3)
	for _, v := range e.Price {
		assert.Empty(t, v)
	}
}
