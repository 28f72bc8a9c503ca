package costs

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/gridtools/griddata/internal/pkg/curves"
	"github.com/gridtools/griddata/internal/pkg/funcdata"
	"github.com/gridtools/griddata/internal/pkg/units"
)

func inputOutputPWL(t *testing.T, points []funcdata.XY) curves.InputOutput {
	t.Helper()
	fn, err := funcdata.NewPiecewiseLinear(points)
	assert.NilError(t, err)
	c, err := curves.NewInputOutput(fn)
	assert.NilError(t, err)
	return c
}

func averageRateStep(t *testing.T, x, y []float64, initial float64) curves.AverageRate {
	t.Helper()
	fn, err := funcdata.NewPiecewiseStep(x, y)
	assert.NilError(t, err)
	c, err := curves.NewAverageRate(fn, initial)
	assert.NilError(t, err)
	return c
}

func TestZeroFactories(t *testing.T) {
	cc := ZeroCostCurve()
	assert.Assert(t, cc.ValueCurve().Equal(curves.ZeroInputOutput()))
	assert.Equal(t, units.NaturalUnits, cc.PowerUnits())
	assert.Equal(t, 0.0, cc.VOMCost())

	fc := ZeroFuelCurve()
	assert.Assert(t, fc.ValueCurve().Equal(curves.ZeroInputOutput()))
	price, ok := fc.FuelCost().Scalar()
	assert.Assert(t, ok)
	assert.Equal(t, 0.0, price)
}

func TestWithSettersCopy(t *testing.T) {
	base := NewCostCurve(curves.ZeroInputOutput())
	tagged := base.WithPowerUnits(units.SystemBase).WithVOMCost(1.5)

	assert.Equal(t, units.NaturalUnits, base.PowerUnits())
	assert.Equal(t, 0.0, base.VOMCost())
	assert.Equal(t, units.SystemBase, tagged.PowerUnits())
	assert.Equal(t, 1.5, tagged.VOMCost())
}

func TestFuelCostAccessors(t *testing.T) {
	scalar := FuelPrice(2.5)
	v, ok := scalar.Scalar()
	assert.Assert(t, ok)
	assert.Equal(t, 2.5, v)
	_, ok = scalar.TimeSeries()
	assert.Assert(t, !ok)
	assert.Equal(t, "2.5", scalar.String())

	series := FuelPriceTimeSeries(NewTimeSeriesKey("ng_price"))
	_, ok = series.Scalar()
	assert.Assert(t, !ok)
	key, ok := series.TimeSeries()
	assert.Assert(t, ok)
	assert.Equal(t, "ng_price", key.Name())
	assert.Equal(t, "time_series(ng_price)", series.String())
}

func TestEqualDistinguishesKinds(t *testing.T) {
	curve := curves.ZeroInputOutput()
	cc := NewCostCurve(curve)
	fc := NewFuelCurve(curve, FuelPrice(0))

	assert.Assert(t, !cc.Equal(fc))
	assert.Assert(t, !fc.Equal(cc))
	assert.Assert(t, cc.Equal(NewCostCurve(curve)))
	assert.Assert(t, fc.Equal(NewFuelCurve(curve, FuelPrice(0))))

	assert.Assert(t, cc.Hash() != fc.Hash())
}

func TestEqualComparesAllFields(t *testing.T) {
	curve := inputOutputPWL(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}})
	base := NewCostCurve(curve)

	assert.Assert(t, !base.Equal(base.WithVOMCost(0.1)))
	assert.Assert(t, !base.Equal(base.WithPowerUnits(units.DeviceBase)))
	assert.Assert(t, !base.Equal(NewCostCurve(curves.ZeroInputOutput())))

	fuel := NewFuelCurve(averageRateStep(t, []float64{1, 2}, []float64{3}, 7), FuelPrice(1))
	assert.Assert(t, !fuel.Equal(NewFuelCurve(fuel.ValueCurve(), FuelPrice(2))))
	series := NewFuelCurve(fuel.ValueCurve(), FuelPriceTimeSeries(NewTimeSeriesKey("coal")))
	assert.Assert(t, !fuel.Equal(series))
	assert.Assert(t, series.Equal(NewFuelCurve(fuel.ValueCurve(), FuelPriceTimeSeries(NewTimeSeriesKey("coal")))))
}

func TestHashFollowsEqual(t *testing.T) {
	curve := inputOutputPWL(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}})
	a := NewCostCurve(curve).WithVOMCost(2).WithPowerUnits(units.SystemBase)
	b := NewCostCurve(curve).WithVOMCost(2).WithPowerUnits(units.SystemBase)
	assert.Assert(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	fa := NewFuelCurve(curve, FuelPrice(1.4)).WithVOMCost(2)
	fb := NewFuelCurve(curve, FuelPrice(1.4)).WithVOMCost(2)
	assert.Assert(t, fa.Equal(fb))
	assert.Equal(t, fa.Hash(), fb.Hash())
	assert.Assert(t, fa.Hash() != a.Hash())
}

func TestInitialInputDelegates(t *testing.T) {
	cc := NewCostCurve(curves.ZeroInputOutput())
	_, err := cc.InitialInput()
	assert.Assert(t, errors.Is(err, curves.ErrNoInitialInput))

	fc := NewFuelCurve(averageRateStep(t, []float64{1, 2}, []float64{3}, 7), FuelPrice(1))
	initial, err := fc.InitialInput()
	assert.NilError(t, err)
	assert.Equal(t, 7.0, initial)
}

func TestCurrencyPointsCostCurve(t *testing.T) {
	cc := NewCostCurve(inputOutputPWL(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}}))
	points, err := CurrencyPoints(cc)
	assert.NilError(t, err)
	assert.DeepEqual(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}}, points)
}

func TestCurrencyPointsScalesFuelCurve(t *testing.T) {
	// Heat-rate steps of 10 and 12 over [1,2,4] with initial input 2,
	// priced at 1.5 currency per unit of fuel.
	fn, err := funcdata.NewPiecewiseStep([]float64{1, 2, 4}, []float64{10, 12})
	assert.NilError(t, err)
	curve, err := curves.NewIncremental(fn, 2)
	assert.NilError(t, err)
	fc := NewFuelCurve(curve, FuelPrice(1.5))

	points, err := CurrencyPoints(fc)
	assert.NilError(t, err)
	assert.DeepEqual(t, []funcdata.XY{
		{X: 1, Y: 3},
		{X: 2, Y: 18},
		{X: 4, Y: 54},
	}, points)
}

func TestCurrencyPointsTimeSeriesFuelCost(t *testing.T) {
	fc := NewFuelCurve(curves.ZeroInputOutput(), FuelPriceTimeSeries(NewTimeSeriesKey("ng_price")))
	_, err := CurrencyPoints(fc)
	assert.Assert(t, errors.Is(err, ErrTimeSeriesFuelCost))
	assert.ErrorContains(t, err, "ng_price")
}

func TestCurrencyPointsNotPointwise(t *testing.T) {
	io, err := curves.NewInputOutput(funcdata.NewLinear(2, 1))
	assert.NilError(t, err)
	_, err = CurrencyPoints(NewCostCurve(io))
	assert.Assert(t, errors.Is(err, curves.ErrNotPointwise))
}

func TestRenderCompact(t *testing.T) {
	cc := NewCostCurve(inputOutputPWL(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}}))
	want := "CostCurve (power_units: NATURAL_UNITS, vom_cost: 0)\n" +
		"  InputOutput(PiecewiseLinear([(1, 10), (2, 24)]))"
	assert.Equal(t, want, cc.Render(RenderOptions{}))
	assert.Equal(t, want, cc.String())

	fc := NewFuelCurve(averageRateStep(t, []float64{1, 2}, []float64{3}, 7), FuelPrice(1.5)).
		WithVOMCost(0.25)
	want = "FuelCurve (power_units: NATURAL_UNITS, fuel_cost: 1.5, vom_cost: 0.25)\n" +
		"  AverageRate(PiecewiseStep(x: [1, 2], y: [3]), initial_input: 7)"
	assert.Equal(t, want, fc.String())
}

func TestRenderExpanded(t *testing.T) {
	cc := NewCostCurve(inputOutputPWL(t, []funcdata.XY{{X: 1, Y: 10}, {X: 2, Y: 24}})).
		WithPowerUnits(units.SystemBase)
	want := "CostCurve:\n" +
		"  value_curve: InputOutput(PiecewiseLinear([(1, 10), (2, 24)]))\n" +
		"  power_units: SYSTEM_BASE\n" +
		"  vom_cost: 0"
	assert.Equal(t, want, cc.Render(RenderOptions{Expanded: true}))

	fc := NewFuelCurve(averageRateStep(t, []float64{1, 2}, []float64{3}, 7),
		FuelPriceTimeSeries(NewTimeSeriesKey("coal")))
	want = "FuelCurve:\n" +
		"  value_curve: AverageRate(PiecewiseStep(x: [1, 2], y: [3]), initial_input: 7)\n" +
		"  power_units: NATURAL_UNITS\n" +
		"  fuel_cost: time_series(coal)\n" +
		"  vom_cost: 0"
	assert.Equal(t, want, fc.Render(RenderOptions{Expanded: true}))
}
