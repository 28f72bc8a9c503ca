// Package funcdata holds the numeric representations backing value curves:
// polynomial and piecewise forms of a cost-versus-power relationship.
package funcdata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// XY is a single curve point.
type XY struct {
	X float64
	Y float64
}

// FunctionData is the closed set of numeric curve representations. All
// variants are immutable value types.
type FunctionData interface {
	// Equal reports field-wise structural equality. A different variant is
	// never equal.
	Equal(other FunctionData) bool
	// Hash is consistent with Equal: equal values hash identically.
	Hash() uint64
	// IsConvex reports whether the represented relationship is convex. For
	// piecewise forms that means monotonically non-decreasing slope.
	IsConvex() bool
	String() string
}

const (
	tagLinear byte = iota + 1
	tagQuadratic
	tagPiecewiseLinear
	tagPiecewiseStep
)

// Linear is f(x) = proportional*x + constant.
type Linear struct {
	proportional float64
	constant     float64
}

func NewLinear(proportional, constant float64) Linear {
	return Linear{proportional: proportional, constant: constant}
}

func (l Linear) ProportionalTerm() float64 { return l.proportional }
func (l Linear) ConstantTerm() float64     { return l.constant }

func (l Linear) Equal(other FunctionData) bool {
	o, ok := other.(Linear)
	return ok && l == o
}

func (l Linear) Hash() uint64 {
	return hashFields(tagLinear, l.proportional, l.constant)
}

func (l Linear) IsConvex() bool { return true }

func (l Linear) String() string {
	return fmt.Sprintf("Linear(proportional: %s, constant: %s)",
		FormatFloat(l.proportional), FormatFloat(l.constant))
}

// Quadratic is f(x) = quadratic*x^2 + proportional*x + constant.
type Quadratic struct {
	quadratic    float64
	proportional float64
	constant     float64
}

func NewQuadratic(quadratic, proportional, constant float64) Quadratic {
	return Quadratic{quadratic: quadratic, proportional: proportional, constant: constant}
}

func (q Quadratic) QuadraticTerm() float64    { return q.quadratic }
func (q Quadratic) ProportionalTerm() float64 { return q.proportional }
func (q Quadratic) ConstantTerm() float64     { return q.constant }

func (q Quadratic) Equal(other FunctionData) bool {
	o, ok := other.(Quadratic)
	return ok && q == o
}

func (q Quadratic) Hash() uint64 {
	return hashFields(tagQuadratic, q.quadratic, q.proportional, q.constant)
}

func (q Quadratic) IsConvex() bool { return q.quadratic >= 0 }

func (q Quadratic) String() string {
	return fmt.Sprintf("Quadratic(quadratic: %s, proportional: %s, constant: %s)",
		FormatFloat(q.quadratic), FormatFloat(q.proportional), FormatFloat(q.constant))
}

// PiecewiseLinear is a pointwise form: straight segments between (x, y)
// points with strictly increasing x.
type PiecewiseLinear struct {
	points []XY
}

func NewPiecewiseLinear(points []XY) (PiecewiseLinear, error) {
	if len(points) < 2 {
		return PiecewiseLinear{}, errors.New("piecewise linear data needs at least two points")
	}
	for i := 1; i < len(points); i++ {
		if points[i].X <= points[i-1].X {
			return PiecewiseLinear{}, fmt.Errorf(
				"piecewise x coordinates must be strictly increasing: %s follows %s",
				FormatFloat(points[i].X), FormatFloat(points[i-1].X))
		}
	}
	cp := make([]XY, len(points))
	copy(cp, points)
	return PiecewiseLinear{points: cp}, nil
}

// Points returns a copy of the curve points.
func (p PiecewiseLinear) Points() []XY {
	cp := make([]XY, len(p.points))
	copy(cp, p.points)
	return cp
}

// Slopes returns the segment slopes, one fewer than the point count.
func (p PiecewiseLinear) Slopes() []float64 {
	slopes := make([]float64, len(p.points)-1)
	for i := 1; i < len(p.points); i++ {
		slopes[i-1] = (p.points[i].Y - p.points[i-1].Y) / (p.points[i].X - p.points[i-1].X)
	}
	return slopes
}

func (p PiecewiseLinear) Equal(other FunctionData) bool {
	o, ok := other.(PiecewiseLinear)
	if !ok || len(p.points) != len(o.points) {
		return false
	}
	for i := range p.points {
		if p.points[i] != o.points[i] {
			return false
		}
	}
	return true
}

func (p PiecewiseLinear) Hash() uint64 {
	fields := make([]float64, 0, 2*len(p.points))
	for _, pt := range p.points {
		fields = append(fields, pt.X, pt.Y)
	}
	return hashFields(tagPiecewiseLinear, fields...)
}

func (p PiecewiseLinear) IsConvex() bool {
	slopes := p.Slopes()
	for i := 1; i < len(slopes); i++ {
		if slopes[i] < slopes[i-1] {
			return false
		}
	}
	return true
}

func (p PiecewiseLinear) String() string {
	var b strings.Builder
	b.WriteString("PiecewiseLinear([")
	for i, pt := range p.points {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %s)", FormatFloat(pt.X), FormatFloat(pt.Y))
	}
	b.WriteString("])")
	return b.String()
}

// PiecewiseStep is a step form: n x coordinates delimiting n-1 constant
// y levels. It typically represents the derivative of a PiecewiseLinear.
type PiecewiseStep struct {
	x []float64
	y []float64
}

func NewPiecewiseStep(x, y []float64) (PiecewiseStep, error) {
	if len(x) < 2 {
		return PiecewiseStep{}, errors.New("piecewise step data needs at least two x coordinates")
	}
	if len(y) != len(x)-1 {
		return PiecewiseStep{}, fmt.Errorf(
			"piecewise step data needs one fewer y than x coordinates, got %d x and %d y", len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return PiecewiseStep{}, fmt.Errorf(
				"piecewise x coordinates must be strictly increasing: %s follows %s",
				FormatFloat(x[i]), FormatFloat(x[i-1]))
		}
	}
	cx := make([]float64, len(x))
	copy(cx, x)
	cy := make([]float64, len(y))
	copy(cy, y)
	return PiecewiseStep{x: cx, y: cy}, nil
}

func (p PiecewiseStep) XCoords() []float64 {
	cp := make([]float64, len(p.x))
	copy(cp, p.x)
	return cp
}

func (p PiecewiseStep) YCoords() []float64 {
	cp := make([]float64, len(p.y))
	copy(cp, p.y)
	return cp
}

// RunningSum integrates the steps starting from the value initial at the
// first x coordinate, recovering the PiecewiseLinear points whose
// derivative this step function is.
func (p PiecewiseStep) RunningSum(initial float64) []XY {
	points := make([]XY, len(p.x))
	points[0] = XY{X: p.x[0], Y: initial}
	for i := 1; i < len(p.x); i++ {
		points[i] = XY{
			X: p.x[i],
			Y: points[i-1].Y + p.y[i-1]*(p.x[i]-p.x[i-1]),
		}
	}
	return points
}

func (p PiecewiseStep) Equal(other FunctionData) bool {
	o, ok := other.(PiecewiseStep)
	if !ok || len(p.x) != len(o.x) {
		return false
	}
	for i := range p.x {
		if p.x[i] != o.x[i] {
			return false
		}
	}
	for i := range p.y {
		if p.y[i] != o.y[i] {
			return false
		}
	}
	return true
}

func (p PiecewiseStep) Hash() uint64 {
	fields := make([]float64, 0, len(p.x)+len(p.y)+1)
	fields = append(fields, p.x...)
	fields = append(fields, math.Inf(1)) // x/y boundary marker
	fields = append(fields, p.y...)
	return hashFields(tagPiecewiseStep, fields...)
}

func (p PiecewiseStep) IsConvex() bool {
	for i := 1; i < len(p.y); i++ {
		if p.y[i] < p.y[i-1] {
			return false
		}
	}
	return true
}

func (p PiecewiseStep) String() string {
	var b strings.Builder
	b.WriteString("PiecewiseStep(x: [")
	for i, v := range p.x {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatFloat(v))
	}
	b.WriteString("], y: [")
	for i, v := range p.y {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatFloat(v))
	}
	b.WriteString("])")
	return b.String()
}

// FormatFloat is the canonical float rendering used across all text output:
// shortest form that round-trips, so rendering stays deterministic.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func hashFields(tag byte, fields ...float64) uint64 {
	h := fnv.New64a()
	h.Write([]byte{tag})
	var buf [8]byte
	for _, v := range fields {
		if v == 0 {
			v = 0 // collapse -0.0 so equal values hash equal
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}
