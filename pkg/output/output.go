// Package output renders a generated BOM into its final file format. The
// writers share one Document model: the column names, the fitted and DNP
// row sets produced by row projection, and the optional sum/info trailers.
package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is a supported output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// FromExtension derives the output format from the output file's
// extension. Unknown extensions are a configuration error.
func FromExtension(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch Format(ext) {
	case FormatCSV, FormatTXT, FormatHTML, FormatXLSX, FormatPDF:
		return Format(ext), nil
	}
	return "", fmt.Errorf("output format '%s' not supported; supported ones are CSV, TXT, HTML, XLSX, and PDF", ext)
}

// GeneralInfo is the optional info block appended after the BOM table.
type GeneralInfo struct {
	BoardQuantity  int
	Source         string
	ComponentCount int
	Date           string
	Generator      string
	Link           string
}

// Document is a fully projected BOM ready to render.
type Document struct {
	Columns []string
	Rows    [][]string // Fitted partition, one row per group
	DNPRows [][]string // DNP partition

	Headers bool         // Emit the column header row
	Sum     string       // Preformatted total price sum; "" when not requested
	Info    *GeneralInfo // nil when not requested
}

// Write renders the document in the given format.
func Write(w io.Writer, format Format, doc *Document) error {
	switch format {
	case FormatCSV, FormatTXT:
		return writeCSV(w, doc)
	case FormatHTML:
		return writeHTML(w, doc)
	case FormatXLSX:
		return writeXLSX(w, doc)
	case FormatPDF:
		return writePDF(w, doc)
	}
	return fmt.Errorf("output format '%s' not supported", format)
}

func (d *Document) allRows() [][]string {
	return append(append([][]string{}, d.Rows...), d.DNPRows...)
}
