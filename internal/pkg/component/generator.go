package component

import "github.com/google/uuid"

// generator carries the fields shared by every generating unit. Optional
// fields use the two-value getter form; a false second value means the
// source data never provided the field.
type generator struct {
	pid                 uuid.UUID
	name                string
	available           bool
	bus                 *Bus
	activePower         float64
	reactivePower       float64
	rating              float64
	activePowerLimits   MinMax
	reactivePowerLimits *MinMax
	rampLimits          *UpDown
	operationCost       OperationCost
}

// GenConfig carries the construction parameters shared by generator kinds.
type GenConfig struct {
	Name                string
	Available           bool
	Bus                 *Bus
	ActivePower         float64
	ReactivePower       float64
	Rating              float64
	ActivePowerLimits   MinMax
	ReactivePowerLimits *MinMax
	RampLimits          *UpDown
	OperationCost       OperationCost
}

func newGenerator(cfg GenConfig) generator {
	g := generator{
		pid:               uuid.New(),
		name:              cfg.Name,
		available:         cfg.Available,
		bus:               cfg.Bus,
		activePower:       cfg.ActivePower,
		reactivePower:     cfg.ReactivePower,
		rating:            cfg.Rating,
		activePowerLimits: cfg.ActivePowerLimits,
		operationCost:     cfg.OperationCost,
	}
	if cfg.ReactivePowerLimits != nil {
		lim := *cfg.ReactivePowerLimits
		g.reactivePowerLimits = &lim
	}
	if cfg.RampLimits != nil {
		ramp := *cfg.RampLimits
		g.rampLimits = &ramp
	}
	return g
}

func (g *generator) PID() uuid.UUID               { return g.pid }
func (g *generator) Name() string                 { return g.name }
func (g *generator) Available() bool              { return g.available }
func (g *generator) Bus() *Bus                    { return g.bus }
func (g *generator) ActivePower() float64         { return g.activePower }
func (g *generator) ReactivePower() float64       { return g.reactivePower }
func (g *generator) Rating() float64              { return g.rating }
func (g *generator) ActivePowerLimits() MinMax    { return g.activePowerLimits }
func (g *generator) OperationCost() OperationCost { return g.operationCost }

// ReactivePowerLimits returns the reactive bounds, or false when the source
// carried none.
func (g *generator) ReactivePowerLimits() (MinMax, bool) {
	if g.reactivePowerLimits == nil {
		return MinMax{}, false
	}
	return *g.reactivePowerLimits, true
}

// RampLimits returns the ramp bounds, or false when the source carried none.
func (g *generator) RampLimits() (UpDown, bool) {
	if g.rampLimits == nil {
		return UpDown{}, false
	}
	return *g.rampLimits, true
}

// ThermalGen is a fuel-burning generating unit.
type ThermalGen struct {
	generator
	fuel string
}

func NewThermalGen(cfg GenConfig, fuel string) *ThermalGen {
	return &ThermalGen{generator: newGenerator(cfg), fuel: fuel}
}

func (g *ThermalGen) Category() string { return CategoryThermalGen }
func (g *ThermalGen) Fuel() string     { return g.fuel }

// HydroGen is a hydroelectric generating unit.
type HydroGen struct {
	generator
}

func NewHydroGen(cfg GenConfig) *HydroGen {
	return &HydroGen{generator: newGenerator(cfg)}
}

func (g *HydroGen) Category() string { return CategoryHydroGen }

// RenewableGen is a variable renewable unit (wind, solar and the like).
type RenewableGen struct {
	generator
	powerFactor *float64
}

func NewRenewableGen(cfg GenConfig, powerFactor *float64) *RenewableGen {
	g := &RenewableGen{generator: newGenerator(cfg)}
	if powerFactor != nil {
		pf := *powerFactor
		g.powerFactor = &pf
	}
	return g
}

func (g *RenewableGen) Category() string { return CategoryRenewableGen }

// PowerFactor returns the operating power factor, or false when the source
// carried none.
func (g *RenewableGen) PowerFactor() (float64, bool) {
	if g.powerFactor == nil {
		return 0, false
	}
	return *g.powerFactor, true
}

// Generator is the view of a generating unit the consistency checker
// compares, independent of kind.
type Generator interface {
	Component
	Available() bool
	Bus() *Bus
	ActivePower() float64
	ReactivePower() float64
	Rating() float64
	ActivePowerLimits() MinMax
	ReactivePowerLimits() (MinMax, bool)
	RampLimits() (UpDown, bool)
	OperationCost() OperationCost
}
