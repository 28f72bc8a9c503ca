package consistency

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/gridtools/griddata/internal/pkg/component"
	"github.com/gridtools/griddata/internal/pkg/costs"
	"github.com/gridtools/griddata/internal/pkg/curves"
	"github.com/gridtools/griddata/internal/pkg/funcdata"
	"github.com/gridtools/griddata/internal/pkg/matpower"
	"github.com/gridtools/griddata/internal/pkg/system"
	"github.com/gridtools/griddata/internal/pkg/tabledata"
)

func hasMismatch(list []Mismatch, name, field string) bool {
	for _, m := range list {
		if m.Component == name && m.Field == field {
			return true
		}
	}
	return false
}

// The same trimmed reliability test system, once as a matpower case and
// once as a table-data directory, agrees on every comparable value. The
// polynomial cost curves, the values absent from one source, and the
// unrated branch all surface as warnings, never failures.
func TestCheckRTSLite(t *testing.T) {
	primary, err := matpower.LoadSystem(filepath.Join("..", "matpower", "testdata", "rts_lite.m"), zerolog.Nop())
	assert.NilError(t, err)
	comparison, err := tabledata.LoadSystem(filepath.Join("..", "tabledata", "testdata", "rts_lite"),
		primary.BasePower(), zerolog.Nop())
	assert.NilError(t, err)

	result := Check(primary, comparison, Options{}, zerolog.Nop())

	assert.Assert(t, result.OK(), "failures: %v fatal: %v", result.Failures, result.Fatal)
	assert.Equal(t, len(result.Warnings), 7)
	assert.Assert(t, hasMismatch(result.Warnings, "Brighton", "variable_cost"))
	assert.Assert(t, hasMismatch(result.Warnings, "Sundance", "variable_cost"))
	assert.Assert(t, hasMismatch(result.Warnings, "Jocasta", "variable_cost"))
	assert.Assert(t, hasMismatch(result.Warnings, "Wolfe", "ramp_limits"))
	assert.Assert(t, hasMismatch(result.Warnings, "Wolfe", "power_factor"))
	assert.Assert(t, hasMismatch(result.Warnings, "Wolfe", "variable_cost"))
	assert.Assert(t, hasMismatch(result.Warnings, "Agricola-Aiken", "rating"))
}

func newBus(name string) *component.Bus {
	return component.NewBus(component.BusConfig{
		Number:    1,
		Name:      name,
		BusType:   component.PV,
		Magnitude: 1,
		BaseKV:    230,
	})
}

func pwlCost(t *testing.T, points ...funcdata.XY) costs.CostCurve {
	t.Helper()
	fn, err := funcdata.NewPiecewiseLinear(points)
	assert.NilError(t, err)
	curve, err := curves.NewInputOutput(fn)
	assert.NilError(t, err)
	return costs.NewCostCurve(curve)
}

func thermalSystem(t *testing.T, busName string, mutate func(*component.GenConfig)) *system.System {
	t.Helper()
	sys := system.New(100)
	bus := newBus(busName)
	assert.NilError(t, sys.AddComponent(bus))
	cfg := component.GenConfig{
		Name:              "alpha",
		Available:         true,
		Bus:               bus,
		ActivePower:       100,
		ReactivePower:     10,
		Rating:            150,
		ActivePowerLimits: component.MinMax{Min: 20, Max: 150},
		OperationCost: component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 20, Y: 100}, funcdata.XY{X: 150, Y: 900}), 0, 0, 0),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	assert.NilError(t, sys.AddComponent(component.NewThermalGen(cfg, "NG")))
	return sys
}

func TestCheckDetectsMutation(t *testing.T) {
	primary := thermalSystem(t, "north", nil)
	comparison := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.ActivePower = 120
	})

	var buf bytes.Buffer
	result := Check(primary, comparison, Options{}, zerolog.New(&buf))

	assert.Assert(t, !result.OK())
	assert.Equal(t, len(result.Failures), 1)
	assert.Equal(t, result.Failures[0].Component, "alpha")
	assert.Equal(t, result.Failures[0].Field, "active_power")
	assert.Equal(t, result.Failures[0].Detail, "100 vs 120")
	assert.Assert(t, strings.Contains(buf.String(), `"level":"error"`))
}

func TestCheckCurveMismatch(t *testing.T) {
	primary := thermalSystem(t, "north", nil)
	comparison := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 20, Y: 100}, funcdata.XY{X: 150, Y: 905}), 0, 0, 0)
	})

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Equal(t, len(result.Failures), 1)
	assert.Equal(t, result.Failures[0].Field, "variable_cost[1].y")
}

// Curve agreement is judged on cost values alone; the tolerance is a
// currency amount, so breakpoint drift between sources is not an
// inconsistency.
func TestCheckCurveIgnoresBreakpointDrift(t *testing.T) {
	primary := thermalSystem(t, "north", nil)
	comparison := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 25, Y: 100}, funcdata.XY{X: 150, Y: 900}), 0, 0, 0)
	})

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, result.OK(), "failures: %v", result.Failures)
}

func TestCheckTolerance(t *testing.T) {
	primary := thermalSystem(t, "north", nil)
	within := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 20, Y: 100.05}, funcdata.XY{X: 150, Y: 900}), 0, 0, 0)
	})
	beyond := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 20, Y: 100.2}, funcdata.XY{X: 150, Y: 900}), 0, 0, 0)
	})

	assert.Assert(t, Check(primary, within, Options{}, zerolog.Nop()).OK())
	assert.Assert(t, !Check(primary, beyond, Options{}, zerolog.Nop()).OK())
	assert.Assert(t, Check(primary, beyond, Options{Tolerance: 0.5}, zerolog.Nop()).OK())
}

func TestCheckPointCountPolicy(t *testing.T) {
	primary := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(
			pwlCost(t, funcdata.XY{X: 20, Y: 100}, funcdata.XY{X: 100, Y: 500}, funcdata.XY{X: 150, Y: 900}),
			0, 0, 0)
	})
	comparison := thermalSystem(t, "north", nil)

	strict := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, !strict.OK())
	assert.Assert(t, hasMismatch(strict.Failures, "alpha", "variable_cost"))
	assert.Equal(t, strict.Failures[0].Detail, "3 points vs 2")

	lenient := Check(primary, comparison, Options{PointCount: PointCountWarn}, zerolog.Nop())
	assert.Assert(t, lenient.OK())
	assert.Assert(t, hasMismatch(lenient.Warnings, "alpha", "variable_cost"))
}

func TestCheckMissingCounterpartAborts(t *testing.T) {
	primary := thermalSystem(t, "north", nil)
	comparison := system.New(100)

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, !result.OK())
	assert.Assert(t, result.Fatal != nil)
	assert.Equal(t, result.Fatal.Component, "alpha")
	assert.Equal(t, result.Fatal.Category, component.CategoryThermalGen)
	assert.Equal(t, len(result.Failures), 0)
}

func TestCheckNamesCaseInsensitive(t *testing.T) {
	primary := thermalSystem(t, "North", nil)
	comparison := thermalSystem(t, "NORTH", func(cfg *component.GenConfig) {
		cfg.Name = "ALPHA"
	})

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, result.OK(), "failures: %v", result.Failures)
}

func TestCheckCategoryMismatch(t *testing.T) {
	primary := thermalSystem(t, "north", nil)

	comparison := system.New(100)
	bus := newBus("north")
	assert.NilError(t, comparison.AddComponent(bus))
	assert.NilError(t, comparison.AddComponent(component.NewHydroGen(component.GenConfig{
		Name:              "alpha",
		Available:         true,
		Bus:               bus,
		ActivePower:       100,
		ReactivePower:     10,
		Rating:            150,
		ActivePowerLimits: component.MinMax{Min: 20, Max: 150},
	})))

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, hasMismatch(result.Failures, "alpha", "category"))
}

func lineSystem(t *testing.T, rating *float64) *system.System {
	t.Helper()
	sys := system.New(100)
	from := newBus("north")
	to := component.NewBus(component.BusConfig{Number: 2, Name: "south", BusType: component.PQ, Magnitude: 1, BaseKV: 230})
	assert.NilError(t, sys.AddComponent(from))
	assert.NilError(t, sys.AddComponent(to))
	assert.NilError(t, sys.AddComponent(component.NewLine(component.LineConfig{
		Name:        "north-south",
		Available:   true,
		From:        from,
		To:          to,
		R:           0.01,
		X:           0.05,
		B:           0.02,
		Rating:      rating,
		AngleLimits: component.MinMax{Min: -1, Max: 1},
	})))
	return sys
}

func TestCheckLineRatingMissingOneSide(t *testing.T) {
	rate := 175.0
	primary := lineSystem(t, &rate)
	comparison := lineSystem(t, nil)

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, result.OK())
	assert.Equal(t, len(result.Warnings), 1)
	assert.Equal(t, result.Warnings[0].Field, "rating")
	assert.Equal(t, result.Warnings[0].Detail, "primary=175 vs comparison=<missing>")
}

func TestCheckMissingValueWarningDetail(t *testing.T) {
	primary := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.RampLimits = &component.UpDown{Up: 60, Down: 40}
	})
	comparison := thermalSystem(t, "north", func(cfg *component.GenConfig) {
		cfg.OperationCost = component.NewOperationCost(nil, 0, 0, 0)
	})

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, result.OK())
	details := map[string]string{}
	for _, w := range result.Warnings {
		assert.Assert(t, !strings.Contains(w.Detail, "\n"), "multi-line detail: %q", w.Detail)
		details[w.Field] = w.Detail
	}
	assert.Equal(t, details["ramp_limits"], "primary={60 40} vs comparison=<missing>")
	assert.Equal(t, details["reactive_power_limits"], "primary=<missing> vs comparison=<missing>")
	assert.Assert(t, strings.HasPrefix(details["variable_cost"], "primary=CostCurve (power_units: NATURAL_UNITS"),
		"got %q", details["variable_cost"])
}

func TestCheckBasePower(t *testing.T) {
	primary := system.New(100)
	comparison := system.New(50)

	result := Check(primary, comparison, Options{}, zerolog.Nop())
	assert.Assert(t, hasMismatch(result.Failures, "", "base_power"))
}
