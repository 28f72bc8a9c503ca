package units

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestUnitSystemString(t *testing.T) {
	assert.Equal(t, "NATURAL_UNITS", NaturalUnits.String())
	assert.Equal(t, "SYSTEM_BASE", SystemBase.String())
	assert.Equal(t, "DEVICE_BASE", DeviceBase.String())
	assert.Equal(t, "UnitSystem(17)", UnitSystem(17).String())
}

func TestParseRoundTrip(t *testing.T) {
	for _, u := range []UnitSystem{NaturalUnits, SystemBase, DeviceBase} {
		parsed, err := Parse(u.String())
		assert.NilError(t, err)
		assert.Equal(t, u, parsed)
	}
}

func TestParseRejectsLowercase(t *testing.T) {
	_, err := Parse("natural_units")
	assert.ErrorContains(t, err, "unknown unit system")
}

func TestZeroValueIsNaturalUnits(t *testing.T) {
	var u UnitSystem
	assert.Equal(t, NaturalUnits, u)
}
