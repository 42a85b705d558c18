package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "BOM"

func writeXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	row := 1
	setRow := func(fields []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(fields))
		for i, v := range fields {
			values[i] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	if doc.Headers {
		if err := setRow(doc.Columns); err != nil {
			return err
		}
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
		})
		if err == nil {
			end, _ := excelize.CoordinatesToCellName(len(doc.Columns), 1)
			f.SetCellStyle(sheetName, "A1", end, style)
		}
	}
	for _, r := range doc.allRows() {
		if err := setRow(r); err != nil {
			return err
		}
	}
	if doc.Sum != "" {
		if err := setRow([]string{"Total Price Sum:", doc.Sum}); err != nil {
			return err
		}
	}
	if doc.Info != nil {
		row++
		info := doc.Info
		for _, r := range [][]string{
			{"Board Quantity:", strconv.Itoa(info.BoardQuantity)},
			{"Schematic:", info.Source},
			{"Component Count:", strconv.Itoa(info.ComponentCount)},
			{"Date:", info.Date},
			{"Generator:", info.Generator},
			{"Link:", info.Link},
		} {
			if err := setRow(r); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
