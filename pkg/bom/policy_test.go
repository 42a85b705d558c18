package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
)

func TestNewGroupPolicyPresets(t *testing.T) {
	p, err := NewGroupPolicy("", "default", "")
	require.NoError(t, err)
	assert.True(t, p.DNPAware)
	assert.Equal(t, []string{"MPN"}, p.Extra)

	p, err = NewGroupPolicy("", "minimal", "")
	require.NoError(t, err)
	assert.False(t, p.DNPAware)
	assert.Empty(t, p.Extra)

	_, err = NewGroupPolicy("", "nonsense", "")
	assert.Error(t, err)
}

func TestNewGroupPolicyExplicit(t *testing.T) {
	p, err := NewGroupPolicy("Value,Footprint,Rating", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rating"}, p.Extra)

	// Appended fields extend a preset
	p, err = NewGroupPolicy("", "minimal", "Rating,Tolerance")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rating", "Tolerance"}, p.Extra)
}

func TestNewGroupPolicyMandatoryFields(t *testing.T) {
	_, err := NewGroupPolicy("Value,Rating", "", "")
	assert.Error(t, err, "missing Footprint must be rejected")

	_, err = NewGroupPolicy("Footprint,Rating", "", "")
	assert.Error(t, err, "missing Value must be rejected")
}

func TestNewGroupPolicyFieldLimit(t *testing.T) {
	_, err := NewGroupPolicy("Value,Footprint,A,B,C,D,E", "", "")
	assert.NoError(t, err)

	_, err = NewGroupPolicy("Value,Footprint,A,B,C,D,E,F", "", "")
	assert.Error(t, err)
}

func TestPredicate(t *testing.T) {
	mk := func(value, footprint, rating string, dnp bool) *netlist.Component {
		return &netlist.Component{
			Value:     value,
			Footprint: footprint,
			Fields:    map[string]string{"Rating": rating},
			DNP:       dnp,
		}
	}

	p, err := NewGroupPolicy("Value,Footprint,Rating", "", "")
	require.NoError(t, err)
	eq := p.Predicate()

	a := mk("10k", "R_0603", "100mW", false)
	assert.True(t, eq(a, mk("10k", "R_0603", "100mW", true)), "DNP ignored without the DNP field")
	assert.False(t, eq(a, mk("10k", "R_0603", "250mW", false)))
	assert.False(t, eq(a, mk("10k", "R_0805", "100mW", false)))
	assert.False(t, eq(a, mk("1k", "R_0603", "100mW", false)))

	dnpAware, err := NewGroupPolicy("Value,Footprint,DNP", "", "")
	require.NoError(t, err)
	eq = dnpAware.Predicate()
	assert.False(t, eq(a, mk("10k", "R_0603", "anything", true)))
	assert.True(t, eq(a, mk("10k", "R_0603", "anything", false)))
}

func TestPolicyString(t *testing.T) {
	p, err := NewGroupPolicy("", "default", "MPN")
	require.NoError(t, err)
	assert.Equal(t, "Value,Footprint,DNP,MPN", p.String())
}
