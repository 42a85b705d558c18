package netlist

import (
	"errors"
	"strings"
	"testing"
)

const testExport = `<?xml version="1.0" encoding="UTF-8"?>
<export version="E">
  <design>
    <source>/projects/demo/demo.kicad_sch</source>
    <date>2025-05-01T12:00:00+0100</date>
    <tool>Eeschema 9.0.0</tool>
  </design>
  <components>
    <comp ref="R1">
      <value>10k</value>
      <footprint>Resistor_SMD:R_0603</footprint>
      <datasheet>~</datasheet>
      <fields>
        <field name="MPN">RC0603FR-0710KL</field>
        <field name="Rating">0.1W</field>
      </fields>
      <libsource lib="Device" part="R" description="Resistor"/>
    </comp>
    <comp ref="BT1">
      <value>CR2032</value>
      <footprint>Battery:BT_CR2032</footprint>
      <datasheet>https://example.com/cr2032.pdf</datasheet>
      <libsource lib="Device" part="Battery_Cell" description="Single-cell battery"/>
    </comp>
    <comp ref="D1">
      <value>LED</value>
      <footprint>LED_SMD:LED_0805</footprint>
      <datasheet>~</datasheet>
      <fields>
        <field name="MPN">HSMW-C170-U0000</field>
      </fields>
      <libsource lib="Device" part="LED" description="Light emitting diode"/>
    </comp>
    <comp ref="H1">
      <value>MountingHole</value>
      <footprint>MountingHole:MountingHole_3.2mm</footprint>
      <datasheet>~</datasheet>
      <property name="exclude_from_bom"/>
    </comp>
    <comp ref="H2">
      <value>MountingHole</value>
      <footprint>MountingHole:MountingHole_3.2mm</footprint>
      <datasheet>~</datasheet>
      <property name="exclude_from_board"/>
    </comp>
    <comp ref="H3">
      <value>MountingHole</value>
      <footprint>MountingHole:MountingHole_3.2mm</footprint>
      <datasheet>~</datasheet>
      <property name="exclude_from_bom"/>
      <property name="exclude_from_board"/>
    </comp>
    <comp ref="R2">
      <value>1k</value>
      <footprint>Resistor_SMD:R_0603</footprint>
      <datasheet>~</datasheet>
      <property name="dnp"/>
    </comp>
  </components>
</export>`

func TestParseNetlist(t *testing.T) {
	doc, err := Parse(strings.NewReader(testExport))
	if err != nil {
		t.Fatalf("Failed to parse netlist: %v", err)
	}

	if doc.Design.Source != "/projects/demo/demo.kicad_sch" {
		t.Errorf("Unexpected design source: %s", doc.Design.Source)
	}
	if doc.Design.Tool != "Eeschema 9.0.0" {
		t.Errorf("Unexpected tool: %s", doc.Design.Tool)
	}
	if len(doc.Components) != 7 {
		t.Fatalf("Expected 7 components, got %d", len(doc.Components))
	}

	r1 := doc.Components[0]
	if r1.Ref != "R1" || r1.Value != "10k" {
		t.Errorf("Unexpected first component: %+v", r1)
	}
	if r1.Field("MPN") != "RC0603FR-0710KL" {
		t.Errorf("Unexpected MPN: %s", r1.Field("MPN"))
	}
	if r1.Field("mpn") != "RC0603FR-0710KL" {
		t.Errorf("Field lookup should be case-insensitive")
	}
	if r1.Field("Description") != "Resistor" {
		t.Errorf("Description should fall back to the library description, got %q", r1.Field("Description"))
	}
	if r1.Field("NoSuchField") != "" {
		t.Errorf("Missing field should be blank")
	}
}

func TestParseNetlistFlags(t *testing.T) {
	doc, err := Parse(strings.NewReader(testExport))
	if err != nil {
		t.Fatalf("Failed to parse netlist: %v", err)
	}

	flags := map[string][3]bool{} // dnp, excl bom, excl board
	for _, c := range doc.Components {
		flags[c.Ref] = [3]bool{c.DNP, c.ExcludeFromBOM, c.ExcludeFromBoard}
	}

	if flags["R2"] != [3]bool{true, false, false} {
		t.Errorf("R2 flags wrong: %v", flags["R2"])
	}
	if flags["H1"] != [3]bool{false, true, false} {
		t.Errorf("H1 flags wrong: %v", flags["H1"])
	}
	if flags["H2"] != [3]bool{false, false, true} {
		t.Errorf("H2 flags wrong: %v", flags["H2"])
	}
	if flags["H3"] != [3]bool{false, true, true} {
		t.Errorf("H3 flags wrong: %v", flags["H3"])
	}
}

func TestInterestingComponents(t *testing.T) {
	doc, err := Parse(strings.NewReader(testExport))
	if err != nil {
		t.Fatalf("Failed to parse netlist: %v", err)
	}

	refs := func(f Filter) []string {
		var out []string
		for _, c := range doc.InterestingComponents(f) {
			out = append(out, c.Ref)
		}
		return out
	}

	got := refs(Filter{ExcludeBOMFlagged: true, ExcludeBoardFlagged: true, WithoutDNP: true})
	want := []string{"BT1", "D1", "R1"}
	if !equalStrings(got, want) {
		t.Errorf("Both exclusions: got %v, want %v", got, want)
	}

	got = refs(Filter{ExcludeBOMFlagged: true, WithoutDNP: true})
	want = []string{"BT1", "D1", "H2", "R1"}
	if !equalStrings(got, want) {
		t.Errorf("BOM exclusion only: got %v, want %v", got, want)
	}

	got = refs(Filter{ExcludeBoardFlagged: true, WithoutDNP: true})
	want = []string{"BT1", "D1", "H1", "R1"}
	if !equalStrings(got, want) {
		t.Errorf("Board exclusion only: got %v, want %v", got, want)
	}

	got = refs(Filter{WithoutDNP: true})
	want = []string{"BT1", "D1", "H1", "H2", "H3", "R1"}
	if !equalStrings(got, want) {
		t.Errorf("No exclusions: got %v, want %v", got, want)
	}

	got = refs(Filter{ExcludeBOMFlagged: true, ExcludeBoardFlagged: true})
	want = []string{"BT1", "D1", "R1", "R2"}
	if !equalStrings(got, want) {
		t.Errorf("With DNP: got %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseFile("/no/such/path/demo.xml"); !errors.Is(err, ErrUnreadable) {
		t.Errorf("Expected ErrUnreadable, got %v", err)
	}
	if _, err := Parse(strings.NewReader("not xml at all")); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
