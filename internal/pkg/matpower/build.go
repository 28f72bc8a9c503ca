package matpower

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

// Column indices into the standard matrices.
const (
	busNum = iota
	busTypeCode
	busPd
	busQd
	busGs
	busBs
	busArea
	busVm
	busVa
	busBaseKV
	busZone
	busVmax
	busVmin
	busCols
)

const (
	genBusNum = iota
	genPg
	genQg
	genQmax
	genQmin
	genVg
	genMBase
	genStatus
	genPmax
	genPmin
	genCols
	genRampAGC = 16
)

const (
	brFrom = iota
	brTo
	brR
	brX
	brB
	brRateA
	brRateB
	brRateC
	brTap
	brShift
	brStatus
	brAngmin
	brAngmax
	branchCols
)

const (
	costModel = iota
	costStartup
	costShutdown
	costNCost
	costCoeffs
)

const (
	polynomialCost = 2
	piecewiseCost  = 1
)

const (
	dcFrom = iota
	dcTo
	dcStatus
	dcPf
	dcPt
	dcQf
	dcQt
	dcVf
	dcVt
	dcPmin
	dcPmax
	dcQminF
	dcQmaxF
	dcQminT
	dcQmaxT
	dcLoss0
	dcLoss1
	dclineCols
)

// LoadSystem parses the case file at path and assembles the grid model.
func LoadSystem(path string, logger zerolog.Logger) (*system.System, error) {
	c, err := ParseFile(path, logger)
	if err != nil {
		return nil, err
	}
	sys, err := BuildSystem(c, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

// BuildSystem assembles the grid model from a parsed case. Recoverable
// imperfections in the source data are repaired in place and logged at
// error level; structural problems fail the build.
func BuildSystem(c *Case, logger zerolog.Logger) (*system.System, error) {
	sys := system.New(c.BaseMVA)

	byNumber, err := buildBuses(c, sys, logger)
	if err != nil {
		return nil, err
	}
	if err := buildGens(c, sys, byNumber, logger); err != nil {
		return nil, err
	}
	if err := buildBranches(c, sys, byNumber, logger); err != nil {
		return nil, err
	}
	if err := buildDCLines(c, sys, byNumber, logger); err != nil {
		return nil, err
	}
	return sys, nil
}

func buildBuses(c *Case, sys *system.System, logger zerolog.Logger) (map[int]*component.Bus, error) {
	if n := len(c.BusNames); n > 0 && n != len(c.Bus) {
		logger.Error().Int("buses", len(c.Bus)).Int("names", n).
			Msg("bus_name count does not match bus count, falling back to numbered names")
	}
	byNumber := make(map[int]*component.Bus, len(c.Bus))
	for i, row := range c.Bus {
		if len(row) < busCols {
			return nil, fmt.Errorf("bus row %d: want %d columns, got %d", i+1, busCols, len(row))
		}
		number := int(row[busNum])
		busType, err := component.ParseBusType(int(row[busTypeCode]))
		if err != nil {
			return nil, fmt.Errorf("bus row %d: %w", i+1, err)
		}
		name := fmt.Sprintf("bus_%d", number)
		if len(c.BusNames) == len(c.Bus) {
			name = c.BusNames[i]
		}
		if _, dup := byNumber[number]; dup {
			return nil, fmt.Errorf("bus row %d: duplicate bus number %d", i+1, number)
		}
		bus := component.NewBus(component.BusConfig{
			Number:    number,
			Name:      name,
			BusType:   busType,
			Magnitude: row[busVm],
			BaseKV:    row[busBaseKV],
			Area:      int(row[busArea]),
			Zone:      int(row[busZone]),
		})
		byNumber[number] = bus
		if err := sys.AddComponent(bus); err != nil {
			return nil, err
		}

		if row[busPd] != 0 || row[busQd] != 0 {
			load := component.NewPowerLoad(component.PowerLoadConfig{
				Name:          "load_" + name,
				Available:     true,
				Bus:           bus,
				ActivePower:   row[busPd],
				ReactivePower: row[busQd],
			})
			if err := sys.AddComponent(load); err != nil {
				return nil, err
			}
		}
		if row[busGs] != 0 || row[busBs] != 0 {
			logger.Debug().Str("bus", name).Msg("ignoring fixed shunt")
		}
	}
	return byNumber, nil
}

func buildGens(c *Case, sys *system.System, byNumber map[int]*component.Bus, logger zerolog.Logger) error {
	if n := len(c.GenCost); n > 0 && n != len(c.Gen) {
		logger.Error().Int("gens", len(c.Gen)).Int("costs", n).
			Msg("gencost row count does not match gen row count")
	}
	if n := len(c.GenNames); n > 0 && n != len(c.Gen) {
		logger.Error().Int("gens", len(c.Gen)).Int("names", n).
			Msg("gen_name count does not match gen count, falling back to numbered names")
	}

	for i, row := range c.Gen {
		if len(row) < genCols {
			return fmt.Errorf("gen row %d: want at least %d columns, got %d", i+1, genCols, len(row))
		}
		busNumber := int(row[genBusNum])
		bus, ok := byNumber[busNumber]
		if !ok {
			return fmt.Errorf("gen row %d: unknown bus %d", i+1, busNumber)
		}
		name := fmt.Sprintf("gen_%d", i+1)
		if len(c.GenNames) == len(c.Gen) {
			name = c.GenNames[i]
		}

		qmin, qmax := row[genQmin], row[genQmax]
		if qmin > qmax {
			logger.Error().Str("gen", name).Float64("min", qmin).Float64("max", qmax).
				Msg("reactive power limits inverted, swapping")
			qmin, qmax = qmax, qmin
		}
		pmin, pmax := row[genPmin], row[genPmax]
		if pmin > pmax {
			logger.Error().Str("gen", name).Float64("min", pmin).Float64("max", pmax).
				Msg("active power limits inverted, swapping")
			pmin, pmax = pmax, pmin
		}

		var ramp *component.UpDown
		if len(row) > genRampAGC && row[genRampAGC] != 0 {
			ramp = &component.UpDown{Up: row[genRampAGC], Down: row[genRampAGC]}
		}

		opCost, err := operationCost(c, i)
		if err != nil {
			return fmt.Errorf("gencost row %d: %w", i+1, err)
		}

		reactive := component.MinMax{Min: qmin, Max: qmax}
		cfg := component.GenConfig{
			Name:                name,
			Available:           row[genStatus] > 0,
			Bus:                 bus,
			ActivePower:         row[genPg],
			ReactivePower:       row[genQg],
			Rating:              row[genMBase],
			ActivePowerLimits:   component.MinMax{Min: pmin, Max: pmax},
			ReactivePowerLimits: &reactive,
			RampLimits:          ramp,
			OperationCost:       opCost,
		}

		fuel := ""
		if i < len(c.GenFuels) {
			fuel = c.GenFuels[i]
		}
		var gen component.Component
		switch classifyFuel(fuel) {
		case component.CategoryHydroGen:
			gen = component.NewHydroGen(cfg)
		case component.CategoryRenewableGen:
			gen = component.NewRenewableGen(cfg, nil)
		default:
			gen = component.NewThermalGen(cfg, fuel)
		}
		if err := sys.AddComponent(gen); err != nil {
			return err
		}
	}
	return nil
}

func classifyFuel(fuel string) string {
	switch strings.ToLower(fuel) {
	case "hydro":
		return component.CategoryHydroGen
	case "wind", "solar", "pv", "csp":
		return component.CategoryRenewableGen
	}
	return component.CategoryThermalGen
}

// operationCost converts gencost row i. Generating units past the end of
// the gencost matrix get the canonical zero cost.
func operationCost(c *Case, i int) (component.OperationCost, error) {
	if i >= len(c.GenCost) {
		return component.NewOperationCost(costs.ZeroCostCurve(), 0, 0, 0), nil
	}
	row := c.GenCost[i]
	if len(row) < costCoeffs {
		return component.OperationCost{}, fmt.Errorf("want at least %d columns, got %d", costCoeffs, len(row))
	}
	model := int(row[costModel])
	startup, shutdown := row[costStartup], row[costShutdown]
	ncost := int(row[costNCost])
	coeffs := row[costCoeffs:]

	var fn funcdata.FunctionData
	switch model {
	case piecewiseCost:
		if len(coeffs) < 2*ncost {
			return component.OperationCost{}, fmt.Errorf("piecewise cost wants %d values, got %d", 2*ncost, len(coeffs))
		}
		points := make([]funcdata.XY, ncost)
		for k := range points {
			points[k] = funcdata.XY{X: coeffs[2*k], Y: coeffs[2*k+1]}
		}
		pwl, err := funcdata.NewPiecewiseLinear(points)
		if err != nil {
			return component.OperationCost{}, err
		}
		fn = pwl
	case polynomialCost:
		if len(coeffs) < ncost {
			return component.OperationCost{}, fmt.Errorf("polynomial cost wants %d coefficients, got %d", ncost, len(coeffs))
		}
		switch ncost {
		case 1:
			fn = funcdata.NewLinear(0, coeffs[0])
		case 2:
			fn = funcdata.NewLinear(coeffs[0], coeffs[1])
		case 3:
			fn = funcdata.NewQuadratic(coeffs[0], coeffs[1], coeffs[2])
		default:
			return component.OperationCost{}, fmt.Errorf("unsupported polynomial cost of degree %d", ncost-1)
		}
	default:
		return component.OperationCost{}, fmt.Errorf("unknown cost model %d", model)
	}

	curve, err := curves.NewInputOutput(fn)
	if err != nil {
		return component.OperationCost{}, err
	}
	return component.NewOperationCost(costs.NewCostCurve(curve), 0, startup, shutdown), nil
}

func buildBranches(c *Case, sys *system.System, byNumber map[int]*component.Bus, logger zerolog.Logger) error {
	seen := make(map[string]int)
	for i, row := range c.Branch {
		if len(row) < branchCols {
			return fmt.Errorf("branch row %d: want %d columns, got %d", i+1, branchCols, len(row))
		}
		from, ok := byNumber[int(row[brFrom])]
		if !ok {
			return fmt.Errorf("branch row %d: unknown bus %d", i+1, int(row[brFrom]))
		}
		to, ok := byNumber[int(row[brTo])]
		if !ok {
			return fmt.Errorf("branch row %d: unknown bus %d", i+1, int(row[brTo]))
		}

		name := from.Name() + "-" + to.Name()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}

		if row[brTap] != 0 {
			logger.Warn().Str("line", name).Float64("ratio", row[brTap]).
				Msg("transformer tap ratio ignored")
		}
		var rating *float64
		if row[brRateA] > 0 {
			r := row[brRateA]
			rating = &r
		} else {
			logger.Warn().Str("line", name).Msg("no thermal rating in source data")
		}

		line := component.NewLine(component.LineConfig{
			Name:      name,
			Available: row[brStatus] > 0,
			From:      from,
			To:        to,
			R:         row[brR],
			X:         row[brX],
			B:         row[brB],
			Rating:    rating,
			AngleLimits: component.MinMax{
				Min: radians(row[brAngmin]),
				Max: radians(row[brAngmax]),
			},
		})
		if err := sys.AddComponent(line); err != nil {
			return err
		}
	}
	return nil
}

func buildDCLines(c *Case, sys *system.System, byNumber map[int]*component.Bus, logger zerolog.Logger) error {
	for i, row := range c.DCLine {
		if len(row) < dclineCols {
			return fmt.Errorf("dcline row %d: want %d columns, got %d", i+1, dclineCols, len(row))
		}
		from, ok := byNumber[int(row[dcFrom])]
		if !ok {
			return fmt.Errorf("dcline row %d: unknown bus %d", i+1, int(row[dcFrom]))
		}
		to, ok := byNumber[int(row[dcTo])]
		if !ok {
			return fmt.Errorf("dcline row %d: unknown bus %d", i+1, int(row[dcTo]))
		}
		name := fmt.Sprintf("dc_%s-%s", from.Name(), to.Name())

		if row[dcLoss0] != 0 || row[dcLoss1] != 0 {
			logger.Error().Str("hvdc", name).
				Float64("loss0", row[dcLoss0]).Float64("loss1", row[dcLoss1]).
				Msg("dc line loss terms are not supported")
		}

		hvdc := component.NewHVDCLine(component.HVDCLineConfig{
			Name:                  name,
			Available:             row[dcStatus] > 0,
			From:                  from,
			To:                    to,
			ActivePowerLimitsFrom: component.MinMax{Min: row[dcPmin], Max: row[dcPmax]},
			ActivePowerLimitsTo:   component.MinMax{Min: row[dcPmin], Max: row[dcPmax]},
			LossLinear:            row[dcLoss1],
			LossConstant:          row[dcLoss0],
		})
		if err := sys.AddComponent(hvdc); err != nil {
			return err
		}
	}
	return nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
