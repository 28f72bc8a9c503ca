// Package curves defines the value-curve variants relating power output to
// cost or fuel input: input-output, incremental, and average-rate forms over
// the funcdata representations.
package curves

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/gridtools/griddata/internal/pkg/funcdata"
)

// ErrNoInitialInput reports a request for the initial-input value on a curve
// kind that has no such concept (input-output curves).
var ErrNoInitialInput = errors.New("input-output curve carries no initial input")

// ErrNotPointwise reports a request for curve points on a curve whose
// function data is not piecewise.
var ErrNotPointwise = errors.New("curve has no pointwise representation")

// ValueCurve is the closed set of cost-versus-power curve forms. Immutable
// once constructed.
type ValueCurve interface {
	// FunctionData returns the underlying numeric representation.
	FunctionData() funcdata.FunctionData
	// InitialInput returns the input value at the first curve point. It
	// fails with ErrNoInitialInput for input-output curves.
	InitialInput() (float64, error)
	// IsConvex delegates to the function data.
	IsConvex() bool
	// Equal is structural; the concrete variant is part of identity.
	Equal(other ValueCurve) bool
	// Hash is consistent with Equal.
	Hash() uint64
	String() string
}

const (
	tagInputOutput byte = iota + 0x10
	tagIncremental
	tagAverageRate
)

// InputOutput maps power directly to total input (currency or fuel).
// Accepts Linear, Quadratic, or PiecewiseLinear function data.
type InputOutput struct {
	fn funcdata.FunctionData
}

func NewInputOutput(fn funcdata.FunctionData) (InputOutput, error) {
	switch fn.(type) {
	case funcdata.Linear, funcdata.Quadratic, funcdata.PiecewiseLinear:
		return InputOutput{fn: fn}, nil
	}
	return InputOutput{}, fmt.Errorf("input-output curve cannot wrap %T", fn)
}

// ZeroInputOutput is the canonical zero curve: linear with zero terms.
func ZeroInputOutput() InputOutput {
	return InputOutput{fn: funcdata.NewLinear(0, 0)}
}

func (c InputOutput) FunctionData() funcdata.FunctionData { return c.fn }

func (c InputOutput) InitialInput() (float64, error) {
	return 0, ErrNoInitialInput
}

func (c InputOutput) IsConvex() bool { return c.fn.IsConvex() }

func (c InputOutput) Equal(other ValueCurve) bool {
	o, ok := other.(InputOutput)
	return ok && c.fn.Equal(o.fn)
}

func (c InputOutput) Hash() uint64 {
	return combineHash(tagInputOutput, c.fn.Hash())
}

func (c InputOutput) String() string {
	return fmt.Sprintf("InputOutput(%s)", c.fn)
}

// Incremental is the derivative form: marginal input per unit power, plus
// the input value at the first point. Accepts Linear or PiecewiseStep
// function data.
type Incremental struct {
	fn           funcdata.FunctionData
	initialInput float64
}

func NewIncremental(fn funcdata.FunctionData, initialInput float64) (Incremental, error) {
	switch fn.(type) {
	case funcdata.Linear, funcdata.PiecewiseStep:
		return Incremental{fn: fn, initialInput: initialInput}, nil
	}
	return Incremental{}, fmt.Errorf("incremental curve cannot wrap %T", fn)
}

func ZeroIncremental() Incremental {
	return Incremental{fn: funcdata.NewLinear(0, 0)}
}

func (c Incremental) FunctionData() funcdata.FunctionData { return c.fn }

func (c Incremental) InitialInput() (float64, error) { return c.initialInput, nil }

func (c Incremental) IsConvex() bool { return c.fn.IsConvex() }

func (c Incremental) Equal(other ValueCurve) bool {
	o, ok := other.(Incremental)
	return ok && c.initialInput == o.initialInput && c.fn.Equal(o.fn)
}

func (c Incremental) Hash() uint64 {
	return combineHash(tagIncremental, c.fn.Hash(), floatHash(c.initialInput))
}

func (c Incremental) String() string {
	return fmt.Sprintf("Incremental(%s, initial_input: %s)",
		c.fn, funcdata.FormatFloat(c.initialInput))
}

// AverageRate expresses input per unit power at each output level, plus the
// input value at the first point. Accepts Linear or PiecewiseStep function
// data.
type AverageRate struct {
	fn           funcdata.FunctionData
	initialInput float64
}

func NewAverageRate(fn funcdata.FunctionData, initialInput float64) (AverageRate, error) {
	switch fn.(type) {
	case funcdata.Linear, funcdata.PiecewiseStep:
		return AverageRate{fn: fn, initialInput: initialInput}, nil
	}
	return AverageRate{}, fmt.Errorf("average-rate curve cannot wrap %T", fn)
}

func ZeroAverageRate() AverageRate {
	return AverageRate{fn: funcdata.NewLinear(0, 0)}
}

func (c AverageRate) FunctionData() funcdata.FunctionData { return c.fn }

func (c AverageRate) InitialInput() (float64, error) { return c.initialInput, nil }

func (c AverageRate) IsConvex() bool { return c.fn.IsConvex() }

func (c AverageRate) Equal(other ValueCurve) bool {
	o, ok := other.(AverageRate)
	return ok && c.initialInput == o.initialInput && c.fn.Equal(o.fn)
}

func (c AverageRate) Hash() uint64 {
	return combineHash(tagAverageRate, c.fn.Hash(), floatHash(c.initialInput))
}

func (c AverageRate) String() string {
	return fmt.Sprintf("AverageRate(%s, initial_input: %s)",
		c.fn, funcdata.FormatFloat(c.initialInput))
}

// InputOutputPoints reduces a piecewise curve of any form to input-output
// points. Incremental steps are integrated from the initial input;
// average-rate steps are multiplied back out. Curves over polynomial
// function data fail with ErrNotPointwise.
func InputOutputPoints(curve ValueCurve) ([]funcdata.XY, error) {
	switch c := curve.(type) {
	case InputOutput:
		if pwl, ok := c.fn.(funcdata.PiecewiseLinear); ok {
			return pwl.Points(), nil
		}
	case Incremental:
		if step, ok := c.fn.(funcdata.PiecewiseStep); ok {
			return step.RunningSum(c.initialInput), nil
		}
	case AverageRate:
		if step, ok := c.fn.(funcdata.PiecewiseStep); ok {
			x := step.XCoords()
			y := step.YCoords()
			points := make([]funcdata.XY, len(x))
			points[0] = funcdata.XY{X: x[0], Y: c.initialInput}
			for i := 1; i < len(x); i++ {
				points[i] = funcdata.XY{X: x[i], Y: y[i-1] * x[i]}
			}
			return points, nil
		}
	}
	return nil, ErrNotPointwise
}

func floatHash(v float64) uint64 {
	if v == 0 {
		v = 0 // collapse -0.0 so equal values hash equal
	}
	return math.Float64bits(v)
}

func combineHash(tag byte, parts ...uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte{tag})
	var buf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], p)
		h.Write(buf[:])
	}
	return h.Sum64()
}
