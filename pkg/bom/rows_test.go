package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func testFileData() *FileData {
	return &FileData{
		Manufacturer:        []string{"Yageo"},
		PrimaryOrderCodes:   []string{"603-123"},
		PrimarySupplier:     []string{"Mouser"},
		SecondaryOrderCodes: []string{"311-456"},
		SecondarySupplier:   []string{"DigiKey"},
		Price:               []string{"0.40"},
		CurrencySymbol:      []string{"£"},
	}
}

func TestRows(t *testing.T) {
	groups := [][]*netlist.Component{{
		{
			Ref:       "R1",
			Value:     "10k",
			Footprint: "Resistor_SMD:R_0603",
			Fields:    map[string]string{"MPN": "RC0603FR-0710KL", "Rating": "100mW"},
		},
		{
			Ref:       "R2",
			Value:     "10k",
			Footprint: "Resistor_SMD:R_0603",
			Fields:    map[string]string{"MPN": "RC0603FR-0710KL", "Rating": "100mW"},
		},
	}}

	columns := []string{
		"Group ID", "Quantity", "Schematic Ref", "DNP", "Footprint", "Value",
		"Manufacturer", "MPN", "Preferred Supplier", "Order Code",
		"Alt. Supplier", "Alt. Order Code", "Unit/Reel Price", "Total Price",
		"Rating", "SomeUnknownColumn",
	}

	rows := Rows(columns, groups, testFileData(), 3)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"1", "6", "R1, R2", "", "R_0603", "10k",
		"Yageo", "RC0603FR-0710KL", "Mouser", "603-123",
		"DigiKey", "311-456", "£0.40", "£2.4",
		"100mW", "",
	}, rows[0])
}

func TestRowsDNPGroupID(t *testing.T) {
	groups := [][]*netlist.Component{{
		{Ref: "R9", Value: "1k", Footprint: "R:R_0603", DNP: true},
	}}
	rows := Rows([]string{"Group ID", "DNP"}, groups, MergeFileData(EmptyEnrichment(1), EmptyEnrichment(1)), 1)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"DNP1", "DNP"}, rows[0])
}

func TestRowsBlankPricePropagates(t *testing.T) {
	groups := [][]*netlist.Component{{
		{Ref: "R1", Value: "10k", Footprint: "R:R_0603"},
	}}
	data := MergeFileData(EmptyEnrichment(1), EmptyEnrichment(1))

	rows := Rows([]string{"Unit/Reel Price", "Total Price"}, groups, data, 5)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"", ""}, rows[0], "blank price never renders as zero")
}

func TestRowsSkipsPlaceholderPartition(t *testing.T) {
	groups := [][]*netlist.Component{{
		{Ref: EmptyPlaceholderRef},
	}}
	data := MergeFileData(EmptyEnrichment(1), EmptyEnrichment(1))

	rows := Rows([]string{"Quantity", "Schematic Ref"}, groups, data, 1)
	assert.Empty(t, rows, "empty DNP partition emits zero rows")
}

func TestFootprintName(t *testing.T) {
	assert.Equal(t, "R_0603", FootprintName("Resistor_SMD:R_0603"))
	assert.Equal(t, "", FootprintName("no-library-prefix"))
	assert.Equal(t, "a:b", FootprintName("Lib:a:b"), "only the first colon splits")
}

func TestTotalPriceSum(t *testing.T) {
	sum := TotalPriceSum([]string{"0.50", "", "1.25"}, []string{"0.25"}, 2)
	assert.Equal(t, "4", sum.String())

	assert.True(t, TotalPriceSum([]string{"", ""}, []string{""}, 3).IsZero())
}
