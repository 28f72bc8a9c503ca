package tabledata

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gridtools/griddata/internal/pkg/component"
	"github.com/gridtools/griddata/internal/pkg/costs"
	"github.com/gridtools/griddata/internal/pkg/curves"
	"github.com/gridtools/griddata/internal/pkg/funcdata"
	"github.com/gridtools/griddata/internal/pkg/system"
)

// Heat rates arrive as BTU/kWh, fuel as MMBTU, power as MW.
const btuPerKWhToMMBTUPerMWh = 0.001

// LoadSystem reads the data directory at dir and assembles the grid model.
func LoadSystem(dir string, basePower float64, logger zerolog.Logger, opts ...Option) (*system.System, error) {
	td, err := New(dir, basePower, opts...)
	if err != nil {
		return nil, err
	}
	return BuildSystem(td, logger)
}

// BuildSystem assembles the grid model from raw table data.
func BuildSystem(td *TableData, logger zerolog.Logger) (*system.System, error) {
	b := &builder{
		td:       td,
		sys:      system.New(td.basePower),
		logger:   logger,
		byNumber: make(map[int]*component.Bus),
	}
	for _, step := range []func() error{b.buses, b.gens, b.branches, b.dcBranches, b.reserves} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.sys, nil
}

type builder struct {
	td       *TableData
	sys      *system.System
	logger   zerolog.Logger
	byNumber map[int]*component.Bus
}

func parseBusType(s string) (component.BusType, error) {
	switch strings.ToUpper(s) {
	case "PQ":
		return component.PQ, nil
	case "PV":
		return component.PV, nil
	case "REF":
		return component.Ref, nil
	case "ISOLATED":
		return component.Isolated, nil
	}
	return 0, fmt.Errorf("unknown bus type %q", s)
}

func (b *builder) add(r row, c component.Component) error {
	if err := b.sys.AddComponent(c); err != nil {
		return formatErrorf(r.path, "row %d: %v", r.line, err)
	}
	return nil
}

func (b *builder) busRef(r row, col string) (*component.Bus, error) {
	number, err := r.integer(col)
	if err != nil {
		return nil, err
	}
	bus, ok := b.byNumber[number]
	if !ok {
		return nil, r.cellErrorf(col, "unknown bus %d", number)
	}
	return bus, nil
}

func (b *builder) buses() error {
	for _, r := range b.td.tables[tableBus] {
		number, err := r.integer("number")
		if err != nil {
			return err
		}
		name, err := r.requireStr("name")
		if err != nil {
			return err
		}
		typeName, err := r.requireStr("bus_type")
		if err != nil {
			return err
		}
		busType, err := parseBusType(typeName)
		if err != nil {
			return r.cellErrorf("bus_type", "%v", err)
		}
		voltage, err := r.floatDefault("voltage", 1)
		if err != nil {
			return err
		}
		baseKV, err := r.floatDefault("base_kv", 0)
		if err != nil {
			return err
		}
		area, err := r.intDefault("area", 0)
		if err != nil {
			return err
		}
		zone, err := r.intDefault("zone", 0)
		if err != nil {
			return err
		}

		if _, dup := b.byNumber[number]; dup {
			return r.cellErrorf("number", "duplicate bus number %d", number)
		}
		bus := component.NewBus(component.BusConfig{
			Number:    number,
			Name:      name,
			BusType:   busType,
			Magnitude: voltage,
			BaseKV:    baseKV,
			Area:      area,
			Zone:      zone,
		})
		b.byNumber[number] = bus
		if err := b.add(r, bus); err != nil {
			return err
		}

		mw, err := r.floatDefault("mw_load", 0)
		if err != nil {
			return err
		}
		mvar, err := r.floatDefault("mvar_load", 0)
		if err != nil {
			return err
		}
		if mw != 0 || mvar != 0 {
			load := component.NewPowerLoad(component.PowerLoadConfig{
				Name:          "load_" + name,
				Available:     true,
				Bus:           bus,
				ActivePower:   mw,
				ReactivePower: mvar,
			})
			if err := b.add(r, load); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) gens() error {
	for _, r := range b.td.tables[tableGen] {
		name, err := r.requireStr("name")
		if err != nil {
			return err
		}
		bus, err := b.busRef(r, "bus_number")
		if err != nil {
			return err
		}
		available, err := r.boolDefault("available", true)
		if err != nil {
			return err
		}
		active, err := r.floatDefault("active_power", 0)
		if err != nil {
			return err
		}
		reactive, err := r.floatDefault("reactive_power", 0)
		if err != nil {
			return err
		}
		maxActive, err := r.float("max_active_power")
		if err != nil {
			return err
		}
		minActive, err := r.floatDefault("min_active_power", 0)
		if err != nil {
			return err
		}
		rating, err := r.floatDefault("base_mva", maxActive)
		if err != nil {
			return err
		}

		var reactiveLimits *component.MinMax
		qmax, err := r.optFloat("max_reactive_power")
		if err != nil {
			return err
		}
		qmin, err := r.optFloat("min_reactive_power")
		if err != nil {
			return err
		}
		if qmin != nil && qmax != nil {
			reactiveLimits = &component.MinMax{Min: *qmin, Max: *qmax}
		}

		var ramp *component.UpDown
		rampVal, err := r.optFloat("ramp_limits")
		if err != nil {
			return err
		}
		if rampVal != nil {
			ramp = &component.UpDown{Up: *rampVal, Down: *rampVal}
		}

		opCost, err := b.operationCost(r, name, maxActive)
		if err != nil {
			return err
		}

		fuel, _ := r.str("fuel")
		unitType, _ := r.str("unit_type")
		category, err := b.classify(r, fuel, unitType)
		if err != nil {
			return err
		}

		cfg := component.GenConfig{
			Name:                name,
			Available:           available,
			Bus:                 bus,
			ActivePower:         active,
			ReactivePower:       reactive,
			Rating:              rating,
			ActivePowerLimits:   component.MinMax{Min: minActive, Max: maxActive},
			ReactivePowerLimits: reactiveLimits,
			RampLimits:          ramp,
			OperationCost:       opCost,
		}

		var gen component.Component
		switch category {
		case "hydro":
			gen = component.NewHydroGen(cfg)
		case "renewable":
			pf, err := r.optFloat("power_factor")
			if err != nil {
				return err
			}
			gen = component.NewRenewableGen(cfg, pf)
		default:
			gen = component.NewThermalGen(cfg, fuel)
		}
		if err := b.add(r, gen); err != nil {
			return err
		}
	}
	return nil
}

// classify resolves the generator category from the mapping: exact
// (fuel, type) matches win over fuel-only patterns.
func (b *builder) classify(r row, fuel, unitType string) (string, error) {
	categories := []string{"thermal", "hydro", "renewable"}
	for _, category := range categories {
		for _, ft := range b.td.mapping[category] {
			if ft.Type != "" && strings.EqualFold(ft.Fuel, fuel) && strings.EqualFold(ft.Type, unitType) {
				return category, nil
			}
		}
	}
	for _, category := range categories {
		for _, ft := range b.td.mapping[category] {
			if ft.Type == "" && strings.EqualFold(ft.Fuel, fuel) {
				return category, nil
			}
		}
	}
	return "", r.cellErrorf("fuel", "no generator mapping for fuel %q type %q", fuel, unitType)
}

func (b *builder) operationCost(r row, name string, maxActive float64) (component.OperationCost, error) {
	startup, err := r.floatDefault("startup_cost", 0)
	if err != nil {
		return component.OperationCost{}, err
	}
	shutdown, err := r.floatDefault("shutdown_cost", 0)
	if err != nil {
		return component.OperationCost{}, err
	}
	curve, ok, err := heatRateCurve(r, maxActive)
	if err != nil {
		return component.OperationCost{}, err
	}
	if !ok {
		return component.NewOperationCost(nil, 0, startup, shutdown), nil
	}
	fuelCost, err := b.fuelCost(r, name)
	if err != nil {
		return component.OperationCost{}, err
	}
	variable := costs.NewFuelCurve(curve, fuelCost)
	return component.NewOperationCost(variable, 0, startup, shutdown), nil
}

func (b *builder) fuelCost(r row, name string) (costs.FuelCost, error) {
	if ts, ok := r.str("fuel_price_time_series"); ok {
		return costs.FuelPriceTimeSeries(costs.NewTimeSeriesKey(ts)), nil
	}
	price, err := r.optFloat("fuel_price")
	if err != nil {
		return costs.FuelCost{}, err
	}
	if price == nil {
		b.logger.Warn().Str("gen", name).Msg("heat rate present but no fuel price")
		return costs.FuelPrice(0), nil
	}
	return costs.FuelPrice(*price), nil
}

// heatRateCurve builds the fuel consumption curve from the heat-rate
// tranches of one gen row. The average rate of the first output point
// anchors the curve; incremental rates describe each following tranche.
// Rows without heat-rate data report false.
func heatRateCurve(r row, maxActive float64) (curves.ValueCurve, bool, error) {
	avg, err := r.optFloat("heat_rate_avg_0")
	if err != nil {
		return nil, false, err
	}
	if avg == nil {
		return nil, false, nil
	}
	avgRate := *avg * btuPerKWhToMMBTUPerMWh

	pct0, err := r.optFloat("output_pct_0")
	if err != nil {
		return nil, false, err
	}
	if pct0 == nil {
		curve, err := curves.NewInputOutput(funcdata.NewLinear(avgRate, 0))
		if err != nil {
			return nil, false, err
		}
		return curve, true, nil
	}

	xs := []float64{*pct0 * maxActive}
	var steps []float64
	for k := 1; ; k++ {
		pct, err := r.optFloat(fmt.Sprintf("output_pct_%d", k))
		if err != nil {
			return nil, false, err
		}
		incr, err := r.optFloat(fmt.Sprintf("heat_rate_incr_%d", k))
		if err != nil {
			return nil, false, err
		}
		if pct == nil || incr == nil {
			break
		}
		xs = append(xs, *pct*maxActive)
		steps = append(steps, *incr*btuPerKWhToMMBTUPerMWh)
	}
	if len(steps) == 0 {
		curve, err := curves.NewInputOutput(funcdata.NewLinear(avgRate, 0))
		if err != nil {
			return nil, false, err
		}
		return curve, true, nil
	}

	stepFn, err := funcdata.NewPiecewiseStep(xs, steps)
	if err != nil {
		return nil, false, r.cellErrorf("output_pct_0", "%v", err)
	}
	curve, err := curves.NewIncremental(stepFn, avgRate*xs[0])
	if err != nil {
		return nil, false, err
	}
	return curve, true, nil
}

func (b *builder) branches() error {
	for _, r := range b.td.tables[tableBranch] {
		name, err := r.requireStr("name")
		if err != nil {
			return err
		}
		available, err := r.boolDefault("available", true)
		if err != nil {
			return err
		}
		from, err := b.busRef(r, "from_bus")
		if err != nil {
			return err
		}
		to, err := b.busRef(r, "to_bus")
		if err != nil {
			return err
		}
		resistance, err := r.float("r")
		if err != nil {
			return err
		}
		reactance, err := r.float("x")
		if err != nil {
			return err
		}
		charging, err := r.floatDefault("b", 0)
		if err != nil {
			return err
		}
		rate, err := r.optFloat("rate")
		if err != nil {
			return err
		}

		line := component.NewLine(component.LineConfig{
			Name:        name,
			Available:   available,
			From:        from,
			To:          to,
			R:           resistance,
			X:           reactance,
			B:           charging,
			Rating:      rate,
			AngleLimits: component.MinMax{Min: -math.Pi / 2, Max: math.Pi / 2},
		})
		if err := b.add(r, line); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) dcBranches() error {
	for _, r := range b.td.tables[tableDCBranch] {
		name, err := r.requireStr("name")
		if err != nil {
			return err
		}
		available, err := r.boolDefault("available", true)
		if err != nil {
			return err
		}
		from, err := b.busRef(r, "from_bus")
		if err != nil {
			return err
		}
		to, err := b.busRef(r, "to_bus")
		if err != nil {
			return err
		}
		minMW, err := r.float("min_active_power")
		if err != nil {
			return err
		}
		maxMW, err := r.float("max_active_power")
		if err != nil {
			return err
		}
		lossLinear, err := r.floatDefault("loss_linear", 0)
		if err != nil {
			return err
		}
		lossConstant, err := r.floatDefault("loss_constant", 0)
		if err != nil {
			return err
		}

		limits := component.MinMax{Min: minMW, Max: maxMW}
		hvdc := component.NewHVDCLine(component.HVDCLineConfig{
			Name:                  name,
			Available:             available,
			From:                  from,
			To:                    to,
			ActivePowerLimitsFrom: limits,
			ActivePowerLimitsTo:   limits,
			LossLinear:            lossLinear,
			LossConstant:          lossConstant,
		})
		if err := b.add(r, hvdc); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) reserves() error {
	for _, r := range b.td.tables[tableReserves] {
		name, err := r.requireStr("name")
		if err != nil {
			return err
		}
		dir, err := r.requireStr("direction")
		if err != nil {
			return err
		}
		direction, err := component.ParseReserveDirection(dir)
		if err != nil {
			return r.cellErrorf("direction", "%v", err)
		}
		requirement, err := r.floatDefault("requirement", 0)
		if err != nil {
			return err
		}
		timeframe, err := r.floatDefault("timeframe", 0)
		if err != nil {
			return err
		}

		reserve := component.NewReserve(component.ReserveConfig{
			Name:        name,
			Direction:   direction,
			Timeframe:   timeframe,
			Requirement: requirement,
		})
		if err := b.add(r, reserve); err != nil {
			return err
		}
	}
	return nil
}
