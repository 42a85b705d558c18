package output

import (
	"io"
	"strconv"
	"strings"
)

// utf8BOM lets spreadsheet applications pick up the encoding; KiCad's own
// BOM plugins write it too.
const utf8BOM = "\xEF\xBB\xBF"

// writeCSV renders the table with every field quoted, matching what
// spreadsheet imports of electronics BOMs expect.
func writeCSV(w io.Writer, doc *Document) error {
	out := &csvWriter{w: w}
	out.write(utf8BOM)

	if doc.Headers {
		out.writeRow(doc.Columns)
	}
	for _, row := range doc.allRows() {
		out.writeRow(row)
	}
	if doc.Sum != "" {
		out.writeRow([]string{""})
		out.writeRow([]string{"Total Price Sum:", doc.Sum})
	}
	if doc.Info != nil {
		writeInfoCSV(out, doc.Info)
	}
	return out.err
}

func writeInfoCSV(out *csvWriter, info *GeneralInfo) {
	out.writeRow([]string{""})
	out.writeRow([]string{"Board Quantity:", strconv.Itoa(info.BoardQuantity)})
	out.writeRow([]string{"Schematic:", info.Source})
	out.writeRow([]string{"Component Count:", strconv.Itoa(info.ComponentCount)})
	out.writeRow([]string{"Date:", info.Date})
	out.writeRow([]string{"Generator:", info.Generator})
	out.writeRow([]string{"Link: " + info.Link})
}

// csvWriter quotes every field unconditionally, which encoding/csv cannot
// be configured to do. Errors stick so callers check once at the end.
type csvWriter struct {
	w   io.Writer
	err error
}

func (c *csvWriter) write(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.w, s)
}

func (c *csvWriter) writeRow(fields []string) {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	c.write(strings.Join(quoted, ",") + "\n")
}
