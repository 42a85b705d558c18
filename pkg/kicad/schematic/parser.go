// Package schematic reads KiCad schematic files (.kicad_sch) directly,
// without the XML netlist export step, and presents their symbols as the
// same component model the netlist reader produces. Only BOM-relevant
// content is parsed: symbol instances, their properties, and the
// in_bom/on_board/dnp flags.
package schematic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
)

// Minimum supported KiCad schematic format version (KiCad 6.0)
const MinSupportedVersion = 20211014

var (
	ErrUnreadable = errors.New("schematic file cannot be read")
	ErrMalformed  = errors.New("schematic file is not a KiCad schematic")
)

// Built-in symbol properties that never become free-form fields.
var builtinProps = map[string]bool{
	"Reference": true,
	"Value":     true,
	"Footprint": true,
	"Datasheet": true,
}

// ParseFile reads a .kicad_sch file into the shared component model.
func ParseFile(filename string) (*netlist.Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, filename)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, err
	}
	doc.Design.Source = filename
	return doc, nil
}

// Parse reads a KiCad schematic from an io.Reader.
func Parse(r io.Reader) (*netlist.Document, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	root := nodes[0]
	if root.Name() != "kicad_sch" {
		return nil, fmt.Errorf("%w: expected kicad_sch, got %q", ErrMalformed, root.Name())
	}

	if vNode, found := root.Find("version"); found {
		if v, err := vNode.Int(1); err == nil && v < MinSupportedVersion {
			return nil, fmt.Errorf("%w: format version %d is older than %d", ErrMalformed, v, MinSupportedVersion)
		}
	}

	doc := &netlist.Document{}
	parseHeader(root, doc)

	// A multi-unit symbol appears once per unit with the same reference;
	// the component list carries each reference once.
	seen := make(map[string]bool)
	for _, symNode := range root.FindAll("symbol") {
		c := parseSymbol(symNode)
		if c == nil {
			continue
		}
		if seen[c.Ref] {
			continue
		}
		seen[c.Ref] = true
		doc.Components = append(doc.Components, c)
	}

	return doc, nil
}

func parseHeader(root *sexp.Node, doc *netlist.Document) {
	tool := "eeschema"
	if gen, found := root.Find("generator"); found && gen.Str(1) != "" {
		tool = gen.Str(1)
	}
	if genVer, found := root.Find("generator_version"); found && genVer.Str(1) != "" {
		tool += " " + genVer.Str(1)
	}
	doc.Design.Tool = tool

	if tb, found := root.Find("title_block"); found {
		if date, ok := tb.Find("date"); ok {
			doc.Design.Date = date.Str(1)
		}
	}
}

// parseSymbol converts one placed symbol into a component. Power symbols
// (reference starting with '#') and symbols with no reference are not
// components and yield nil.
func parseSymbol(node *sexp.Node) *netlist.Component {
	c := &netlist.Component{Fields: make(map[string]string)}

	if lib, found := node.Find("lib_id"); found {
		c.LibPart = lib.Str(1)
	}

	for _, prop := range node.FindAll("property") {
		key := prop.Str(1)
		value := prop.Str(2)
		switch key {
		case "Reference":
			c.Ref = value
		case "Value":
			c.Value = value
		case "Footprint":
			c.Footprint = value
		case "Datasheet":
			c.Datasheet = value
		case "Description":
			c.Desc = value
		default:
			if !builtinProps[key] {
				c.Fields[key] = value
			}
		}
	}

	if c.Ref == "" || strings.HasPrefix(c.Ref, "#") {
		return nil
	}

	// Flags default to fitted/included when the nodes are absent
	if n, found := node.Find("in_bom"); found && !n.YesNo() {
		c.ExcludeFromBOM = true
	}
	if n, found := node.Find("on_board"); found && !n.YesNo() {
		c.ExcludeFromBoard = true
	}
	if n, found := node.Find("dnp"); found && n.YesNo() {
		c.DNP = true
	}

	return c
}
