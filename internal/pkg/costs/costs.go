// Package costs models the variable operating cost of a generating unit as
// a value curve plus the bookkeeping needed to interpret it: the unit system
// of the power axis, a variable O&M adder, and, for fuel-denominated curves,
// the fuel-to-currency conversion.
package costs

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/gridtools/griddata/internal/pkg/curves"
	"github.com/gridtools/griddata/internal/pkg/funcdata"
	"github.com/gridtools/griddata/internal/pkg/units"
)

// ErrTimeSeriesFuelCost reports that a fuel curve cannot be converted to
// currency because its fuel cost is a time-series reference.
var ErrTimeSeriesFuelCost = errors.New("fuel cost is a time-series reference")

const (
	tagCostCurve byte = iota + 0x20
	tagFuelCurve
)

// ProductionVariableCost is the variable production cost of a unit. The two
// implementations differ only in the y-axis of the wrapped curve: CostCurve
// is denominated in currency, FuelCurve in fuel which a FuelCost converts.
type ProductionVariableCost interface {
	// ValueCurve returns the wrapped curve.
	ValueCurve() curves.ValueCurve
	// PowerUnits reports the unit system of the curve's power axis.
	PowerUnits() units.UnitSystem
	// VOMCost returns the variable operation and maintenance adder per
	// unit of power.
	VOMCost() float64
	// FunctionData returns the underlying function of the wrapped curve.
	FunctionData() funcdata.FunctionData
	// InitialInput returns the wrapped curve's input at zero output, or
	// curves.ErrNoInitialInput for input-output curves.
	InitialInput() (float64, error)
	// IsConvex reports whether the wrapped curve is convex.
	IsConvex() bool
	// Equal reports structural equality. Costs of different kinds are
	// never equal.
	Equal(other ProductionVariableCost) bool
	// Hash returns a digest consistent with Equal.
	Hash() uint64
	// Render returns the display form selected by opts.
	Render(opts RenderOptions) string

	fmt.Stringer
}

// CostCurve prices production directly in currency per unit of power.
type CostCurve struct {
	valueCurve curves.ValueCurve
	powerUnits units.UnitSystem
	vomCost    float64
}

// NewCostCurve wraps curve with natural power units and no O&M adder.
// Construction never validates curve shape; callers that care about
// convexity check IsConvex themselves.
func NewCostCurve(curve curves.ValueCurve) CostCurve {
	return CostCurve{valueCurve: curve, powerUnits: units.NaturalUnits}
}

// ZeroCostCurve returns the canonical "costs nothing" placeholder.
func ZeroCostCurve() CostCurve {
	return NewCostCurve(curves.ZeroInputOutput())
}

// WithPowerUnits returns a copy of c with the power axis tagged as u.
func (c CostCurve) WithPowerUnits(u units.UnitSystem) CostCurve {
	c.powerUnits = u
	return c
}

// WithVOMCost returns a copy of c with the O&M adder set to vom.
func (c CostCurve) WithVOMCost(vom float64) CostCurve {
	c.vomCost = vom
	return c
}

func (c CostCurve) ValueCurve() curves.ValueCurve { return c.valueCurve }
func (c CostCurve) PowerUnits() units.UnitSystem  { return c.powerUnits }
func (c CostCurve) VOMCost() float64              { return c.vomCost }
func (c CostCurve) IsConvex() bool                { return c.valueCurve.IsConvex() }

func (c CostCurve) FunctionData() funcdata.FunctionData {
	return c.valueCurve.FunctionData()
}

func (c CostCurve) InitialInput() (float64, error) {
	return c.valueCurve.InitialInput()
}

func (c CostCurve) Equal(other ProductionVariableCost) bool {
	o, ok := other.(CostCurve)
	if !ok {
		return false
	}
	return c.valueCurve.Equal(o.valueCurve) &&
		c.powerUnits == o.powerUnits &&
		c.vomCost == o.vomCost
}

func (c CostCurve) Hash() uint64 {
	return combine(tagCostCurve,
		c.valueCurve.Hash(),
		uint64(c.powerUnits),
		floatHash(c.vomCost))
}

// FuelCurve prices production in fuel consumed per unit of power, with a
// FuelCost converting fuel to currency.
type FuelCurve struct {
	valueCurve curves.ValueCurve
	powerUnits units.UnitSystem
	fuelCost   FuelCost
	vomCost    float64
}

// NewFuelCurve wraps curve with the given fuel cost, natural power units and
// no O&M adder. Construction never validates curve shape.
func NewFuelCurve(curve curves.ValueCurve, fuelCost FuelCost) FuelCurve {
	return FuelCurve{valueCurve: curve, powerUnits: units.NaturalUnits, fuelCost: fuelCost}
}

// ZeroFuelCurve returns the canonical "costs nothing" placeholder.
func ZeroFuelCurve() FuelCurve {
	return NewFuelCurve(curves.ZeroInputOutput(), FuelPrice(0))
}

// WithPowerUnits returns a copy of c with the power axis tagged as u.
func (c FuelCurve) WithPowerUnits(u units.UnitSystem) FuelCurve {
	c.powerUnits = u
	return c
}

// WithVOMCost returns a copy of c with the O&M adder set to vom.
func (c FuelCurve) WithVOMCost(vom float64) FuelCurve {
	c.vomCost = vom
	return c
}

func (c FuelCurve) ValueCurve() curves.ValueCurve { return c.valueCurve }
func (c FuelCurve) PowerUnits() units.UnitSystem  { return c.powerUnits }
func (c FuelCurve) FuelCost() FuelCost            { return c.fuelCost }
func (c FuelCurve) VOMCost() float64              { return c.vomCost }
func (c FuelCurve) IsConvex() bool                { return c.valueCurve.IsConvex() }

func (c FuelCurve) FunctionData() funcdata.FunctionData {
	return c.valueCurve.FunctionData()
}

func (c FuelCurve) InitialInput() (float64, error) {
	return c.valueCurve.InitialInput()
}

func (c FuelCurve) Equal(other ProductionVariableCost) bool {
	o, ok := other.(FuelCurve)
	if !ok {
		return false
	}
	return c.valueCurve.Equal(o.valueCurve) &&
		c.powerUnits == o.powerUnits &&
		c.fuelCost == o.fuelCost &&
		c.vomCost == o.vomCost
}

func (c FuelCurve) Hash() uint64 {
	return combine(tagFuelCurve,
		c.valueCurve.Hash(),
		uint64(c.powerUnits),
		c.fuelCost.hash(),
		floatHash(c.vomCost))
}

// CurrencyPoints converts cost to input-output points denominated in
// currency. CostCurve points pass through unchanged; FuelCurve points are
// scaled by the scalar fuel price. A time-series fuel cost returns
// ErrTimeSeriesFuelCost, and a non-pointwise curve returns
// curves.ErrNotPointwise.
func CurrencyPoints(cost ProductionVariableCost) ([]funcdata.XY, error) {
	points, err := curves.InputOutputPoints(cost.ValueCurve())
	if err != nil {
		return nil, err
	}
	fuel, ok := cost.(FuelCurve)
	if !ok {
		return points, nil
	}
	price, scalar := fuel.FuelCost().Scalar()
	if !scalar {
		key, _ := fuel.FuelCost().TimeSeries()
		return nil, fmt.Errorf("%w: %s", ErrTimeSeriesFuelCost, key.Name())
	}
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	floats.Scale(price, ys)
	for i := range points {
		points[i].Y = ys[i]
	}
	return points, nil
}
