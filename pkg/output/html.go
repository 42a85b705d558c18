package output

import (
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("bom").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>Bill Of Materials</title>
</head>
<body>
<h1>Bill Of Materials</h1>
<table border="1">
{{- if .Headers}}
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- end}}
{{- range .AllRows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
{{- if .Sum}}
<tr><td>Total Price Sum:</td><td>{{.Sum}}</td></tr>
{{- end}}
</table>
{{- with .Info}}
<p>Board Quantity: {{.BoardQuantity}}</p>
<p>Schematic: {{.Source}}</p>
<p>Component Count: {{.ComponentCount}}</p>
<p>Date: {{.Date}}</p>
<p>Generator: {{.Generator}}</p>
<p>Link: <a href="{{.Link}}">{{.Link}}</a></p>
{{- end}}
</body>
</html>
`))

type htmlData struct {
	*Document
	AllRows [][]string
}

func writeHTML(w io.Writer, doc *Document) error {
	return htmlTemplate.Execute(w, htmlData{Document: doc, AllRows: doc.allRows()})
}
