// Package units defines the unit conventions used on the power axis of
// component data.
package units

import "fmt"

// UnitSystem identifies the convention a value's power axis is expressed in.
type UnitSystem int

const (
	// NaturalUnits is power in megawatts. Zero value, so records that omit
	// a unit system default to it.
	NaturalUnits UnitSystem = iota
	// SystemBase is power as a fraction of the system base power.
	SystemBase
	// DeviceBase is power as a fraction of the owning device's base power.
	DeviceBase
)

func (u UnitSystem) String() string {
	switch u {
	case NaturalUnits:
		return "NATURAL_UNITS"
	case SystemBase:
		return "SYSTEM_BASE"
	case DeviceBase:
		return "DEVICE_BASE"
	}
	return fmt.Sprintf("UnitSystem(%d)", int(u))
}

// Parse maps the canonical spelling to a UnitSystem. Only the exact
// uppercase forms are accepted.
func Parse(s string) (UnitSystem, error) {
	switch s {
	case "NATURAL_UNITS":
		return NaturalUnits, nil
	case "SYSTEM_BASE":
		return SystemBase, nil
	case "DEVICE_BASE":
		return DeviceBase, nil
	}
	return NaturalUnits, fmt.Errorf("unknown unit system %q", s)
}
