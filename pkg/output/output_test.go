package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testDocument() *Document {
	return &Document{
		Columns: []string{"Quantity", "Schematic Ref", "Value"},
		Rows: [][]string{
			{"2", "R1, R2", "10k"},
			{"1", "C1", "100nF"},
		},
		DNPRows: [][]string{
			{"1", "R9", "1k"},
		},
		Headers: true,
	}
}

func TestFromExtension(t *testing.T) {
	for name, want := range map[string]Format{
		"bom.csv":      FormatCSV,
		"bom.TXT":      FormatTXT,
		"out/bom.html": FormatHTML,
		"bom.xlsx":     FormatXLSX,
		"bom.pdf":      FormatPDF,
	} {
		got, err := FromExtension(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FromExtension("bom.docx")
	assert.Error(t, err)
	_, err = FromExtension("no-extension")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, testDocument()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, utf8BOM), "UTF-8 BOM prefix")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, utf8BOM), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"Quantity","Schematic Ref","Value"`, lines[0])
	assert.Equal(t, `"2","R1, R2","10k"`, lines[1])
	assert.Equal(t, `"1","R9","1k"`, lines[3], "DNP rows follow the fitted rows")
}

func TestWriteCSVTrailers(t *testing.T) {
	doc := testDocument()
	doc.Headers = false
	doc.Sum = "£1.25"
	doc.Info = &GeneralInfo{
		BoardQuantity:  2,
		Source:         "demo.kicad_sch",
		ComponentCount: 4,
		Date:           "2026-08-26",
		Generator:      "otbom v0.9.0",
		Link:           "https://github.com/OpenTraceLab/OpenTraceBOM",
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTXT, doc))

	out := buf.String()
	assert.NotContains(t, out, `"Quantity","Schematic Ref"`)
	assert.Contains(t, out, `"Total Price Sum:","£1.25"`)
	assert.Contains(t, out, `"Schematic:","demo.kicad_sch"`)
	assert.Contains(t, out, `"Board Quantity:","2"`)
}

func TestWriteCSVQuoting(t *testing.T) {
	doc := &Document{
		Columns: []string{"Value"},
		Rows:    [][]string{{`1/4" header`}},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, doc))
	assert.Contains(t, buf.String(), `"1/4"" header"`)
}

func TestWriteHTML(t *testing.T) {
	doc := testDocument()
	doc.Sum = "£1.25"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatHTML, doc))

	out := buf.String()
	assert.Contains(t, out, "<th>Schematic Ref</th>")
	assert.Contains(t, out, "<td>R1, R2</td>")
	assert.Contains(t, out, "<td>R9</td>")
	assert.Contains(t, out, "Total Price Sum:")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Quantity", "Schematic Ref", "Value"}, rows[0])
	assert.Equal(t, []string{"2", "R1, R2", "10k"}, rows[1])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPDF, testDocument()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
