// Package component defines the static grid model records: buses,
// generators, branches, loads and reserves. Components are immutable after
// construction and carry a process-unique PID alongside their model name.
package component

import "github.com/google/uuid"

// Category labels used for grouping, routing and diagnostics.
const (
	CategoryBus          = "bus"
	CategoryThermalGen   = "thermal_gen"
	CategoryHydroGen     = "hydro_gen"
	CategoryRenewableGen = "renewable_gen"
	CategoryLine         = "line"
	CategoryHVDCLine     = "hvdc_line"
	CategoryLoad         = "load"
	CategoryReserve      = "reserve"
)

// Component is the common surface of every grid model record.
type Component interface {
	PID() uuid.UUID
	Name() string
	Category() string
}

// MinMax bounds a quantity from both sides.
type MinMax struct {
	Min float64
	Max float64
}

// UpDown holds a pair of directional limits, e.g. ramp rates.
type UpDown struct {
	Up   float64
	Down float64
}
