package output

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writePDF renders the table in landscape with column widths split evenly
// across the page. BOM tables are wide; portrait never fits the default
// column presets.
func writePDF(w io.Writer, doc *Document) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 20
	colWidth := usable
	if len(doc.Columns) > 0 {
		colWidth = usable / float64(len(doc.Columns))
	}

	if doc.Headers {
		pdf.SetFont("Arial", "B", 7)
		pdf.SetFillColor(221, 221, 221)
		for _, name := range doc.Columns {
			pdf.CellFormat(colWidth, 7, name, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "", 7)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range doc.allRows() {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if doc.Sum != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(40, 6, "Total Price Sum:", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(doc.Sum), "", 1, "L", false, 0, "")
	}
	if doc.Info != nil {
		info := doc.Info
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 8)
		for _, line := range []string{
			fmt.Sprintf("Board Quantity: %d", info.BoardQuantity),
			"Schematic: " + info.Source,
			fmt.Sprintf("Component Count: %d", info.ComponentCount),
			"Date: " + info.Date,
			"Generator: " + info.Generator,
			"Link: " + info.Link,
		} {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	return pdf.Output(w)
}
