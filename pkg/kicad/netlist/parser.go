package netlist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Distinct error conditions for the input file, so callers can report an
// unreadable path differently from a malformed export.
var (
	ErrUnreadable = errors.New("netlist file cannot be read")
	ErrMalformed  = errors.New("netlist file is not a KiCad XML export")
)

// Wire format of the KiCad XML netlist export.
type xmlExport struct {
	XMLName xml.Name `xml:"export"`
	Design  struct {
		Source string `xml:"source"`
		Date   string `xml:"date"`
		Tool   string `xml:"tool"`
	} `xml:"design"`
	Components []xmlComp `xml:"components>comp"`
}

type xmlComp struct {
	Ref       string `xml:"ref,attr"`
	Value     string `xml:"value"`
	Footprint string `xml:"footprint"`
	Datasheet string `xml:"datasheet"`
	Fields    []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:",chardata"`
	} `xml:"fields>field"`
	LibSource struct {
		Lib  string `xml:"lib,attr"`
		Part string `xml:"part,attr"`
		Desc string `xml:"description,attr"`
	} `xml:"libsource"`
	Properties []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	} `xml:"property"`
}

// ParseFile reads and parses a KiCad XML netlist export.
func ParseFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, filename)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad XML netlist export from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	var export xmlExport
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{
		Design: Design{
			Source: export.Design.Source,
			Date:   export.Design.Date,
			Tool:   export.Design.Tool,
		},
	}

	for _, xc := range export.Components {
		c := &Component{
			Ref:       xc.Ref,
			Value:     xc.Value,
			Footprint: xc.Footprint,
			Datasheet: xc.Datasheet,
			Desc:      xc.LibSource.Desc,
			Fields:    make(map[string]string),
		}
		if xc.LibSource.Lib != "" || xc.LibSource.Part != "" {
			c.LibPart = xc.LibSource.Lib + ":" + xc.LibSource.Part
		}
		for _, f := range xc.Fields {
			c.Fields[f.Name] = f.Value
		}
		for _, p := range xc.Properties {
			switch strings.ToLower(p.Name) {
			case "dnp":
				c.DNP = true
			case "exclude_from_bom":
				c.ExcludeFromBOM = true
			case "exclude_from_board":
				c.ExcludeFromBoard = true
			}
		}
		doc.Components = append(doc.Components, c)
	}

	return doc, nil
}
