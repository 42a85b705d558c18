package bom

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

// Rows projects one partition's component groups onto the requested
// columns, one row per group in group order. Recognized column names map to
// group or distributor data; anything else is looked up as a free-form
// symbol field on the group's representative component, defaulting to "".
// The empty-partition placeholder produces no rows at all.
func Rows(columns []string, groups [][]*netlist.Component, data *FileData, boardQty int) [][]string {
	var rows [][]string
	for pos, group := range groups {
		if IsPlaceholder(group) {
			return rows
		}
		rows = append(rows, buildRow(columns, pos, group, data, boardQty))
	}
	return rows
}

func buildRow(columns []string, pos int, group []*netlist.Component, data *FileData, boardQty int) []string {
	c := group[0]
	refs := make([]string, len(group))
	for i, comp := range group {
		refs[i] = comp.Ref
	}
	quantity := len(group) * boardQty

	row := make([]string, 0, len(columns))
	for _, name := range columns {
		switch name {
		case "Group ID":
			row = append(row, c.DNPString()+strconv.Itoa(pos+1))
		case "Quantity":
			row = append(row, strconv.Itoa(quantity))
		case "Schematic Ref", "Designator":
			row = append(row, strings.Join(refs, ", "))
		case "DNP":
			row = append(row, c.DNPString())
		case "Description":
			row = append(row, c.Field("Description"))
		case "Datasheet":
			row = append(row, c.Field("Datasheet"))
		case "Footprint":
			row = append(row, FootprintName(c.Footprint))
		case "Value", "Comment":
			row = append(row, c.Value)
		case "Rating":
			row = append(row, c.Field("Rating"))
		case "Manufacturer":
			row = append(row, at(data.Manufacturer, pos))
		case "MPN":
			row = append(row, c.Field("MPN"))
		case "Preferred Supplier":
			row = append(row, at(data.PrimarySupplier, pos))
		case "Order Code":
			row = append(row, at(data.PrimaryOrderCodes, pos))
		case "Alt. Supplier":
			row = append(row, at(data.SecondarySupplier, pos))
		case "Alt. Order Code":
			row = append(row, at(data.SecondaryOrderCodes, pos))
		case "Unit/Reel Price":
			row = append(row, at(data.CurrencySymbol, pos)+at(data.Price, pos))
		case "Total Price":
			row = append(row, totalPrice(at(data.Price, pos), at(data.CurrencySymbol, pos), quantity))
		default:
			row = append(row, c.Field(name))
		}
	}
	return row
}

// totalPrice is unit price times quantity, prefixed with the currency
// symbol. A blank unit price stays blank rather than becoming zero.
func totalPrice(price, symbol string, quantity int) string {
	if price == "" {
		return ""
	}
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return ""
	}
	return symbol + unit.Mul(decimal.NewFromInt(int64(quantity))).String()
}

// FootprintName strips the library prefix from a Lib:Name footprint field.
// A field without a colon renders blank.
func FootprintName(footprint string) string {
	_, name, found := strings.Cut(footprint, ":")
	if !found {
		return ""
	}
	return name
}

// TotalPriceSum adds up boardQty times every non-blank unit price across
// both partitions, for the optional sum row at the end of the table.
func TotalPriceSum(prices, dnpPrices []string, boardQty int) decimal.Decimal {
	sum := decimal.Zero
	qty := decimal.NewFromInt(int64(boardQty))
	for _, list := range [][]string{prices, dnpPrices} {
		for _, price := range list {
			if price == "" {
				continue
			}
			unit, err := decimal.NewFromString(price)
			if err != nil {
				continue
			}
			sum = sum.Add(qty.Mul(unit))
		}
	}
	return sum
}

// at indexes a data array that may be in its single-blank collapsed form.
func at(list []string, i int) string {
	if i >= len(list) {
		return ""
	}
	return list[i]
}
