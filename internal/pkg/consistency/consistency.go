// Package consistency compares two independently parsed grid systems and
// reports where they disagree. The primary system is walked component by
// component; counterparts in the comparison system are matched by
// case-insensitive name.
package consistency

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/gridtools/griddata/internal/pkg/component"
	"github.com/gridtools/griddata/internal/pkg/costs"
	"github.com/gridtools/griddata/internal/pkg/system"
)

// DefaultTolerance is the absolute tolerance applied to every numeric
// comparison unless Options overrides it.
const DefaultTolerance = 0.1

// PointCountPolicy grades a cost-curve point-count mismatch.
type PointCountPolicy int

const (
	// PointCountFail reports differing point counts as a failure.
	PointCountFail PointCountPolicy = iota
	// PointCountWarn downgrades differing point counts to a warning.
	PointCountWarn
)

// Options tunes a check run. The zero value compares with DefaultTolerance
// and fails on point-count mismatches.
type Options struct {
	Tolerance  float64
	PointCount PointCountPolicy
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Mismatch pins one disagreement to a component field.
type Mismatch struct {
	Category  string
	Component string
	Field     string
	Detail    string
}

func (m Mismatch) String() string {
	if m.Field == "" {
		return fmt.Sprintf("%s %s: %s", m.Category, m.Component, m.Detail)
	}
	return fmt.Sprintf("%s %s %s: %s", m.Category, m.Component, m.Field, m.Detail)
}

// Result collects everything a check run found. Fatal is set when a primary
// component has no counterpart at all; the walk stops there.
type Result struct {
	Failures []Mismatch
	Warnings []Mismatch
	Fatal    *Mismatch
}

// OK reports whether the two systems agree on every comparable value.
func (r Result) OK() bool { return r.Fatal == nil && len(r.Failures) == 0 }

// Check compares every generator, ac line and dc line of the primary system
// against the comparison system. Values missing from either side are
// reported as warnings and skipped; a component missing from the comparison
// system aborts the check.
func Check(primary, comparison *system.System, opts Options, logger zerolog.Logger) Result {
	c := &checker{opts: opts.withDefaults(), logger: logger}
	c.compareFloat("system", "", "base_power", primary.BasePower(), comparison.BasePower())
	steps := []func(*system.System, *system.System) bool{
		c.generators,
		c.lines,
		c.hvdcLines,
	}
	for _, step := range steps {
		if !step(primary, comparison) {
			break
		}
	}
	return c.result
}

type checker struct {
	opts   Options
	logger zerolog.Logger
	result Result
}

func (c *checker) fail(m Mismatch) {
	c.result.Failures = append(c.result.Failures, m)
	c.logger.Error().Str("category", m.Category).Str("component", m.Component).
		Str("field", m.Field).Msg(m.Detail)
}

func (c *checker) warn(m Mismatch) {
	c.result.Warnings = append(c.result.Warnings, m)
	c.logger.Warn().Str("category", m.Category).Str("component", m.Component).
		Str("field", m.Field).Msg(m.Detail)
}

func (c *checker) fatal(category, name string) {
	m := Mismatch{Category: category, Component: name, Detail: "no counterpart in comparison system"}
	c.result.Fatal = &m
	c.logger.Error().Str("category", category).Str("component", name).Msg(m.Detail)
}

func (c *checker) compareFloat(category, name, field string, a, b float64) {
	if scalar.EqualWithinAbs(a, b, c.opts.Tolerance) {
		return
	}
	c.fail(Mismatch{category, name, field, fmt.Sprintf("%v vs %v", a, b)})
}

func (c *checker) compareBool(category, name, field string, a, b bool) {
	if a != b {
		c.fail(Mismatch{category, name, field, fmt.Sprintf("%t vs %t", a, b)})
	}
}

func (c *checker) compareMinMax(category, name, field string, a, b component.MinMax) {
	c.compareFloat(category, name, field+".min", a.Min, b.Min)
	c.compareFloat(category, name, field+".max", a.Max, b.Max)
}

// skipMissing records why an optional field could not be compared. The
// warning carries both raw values; multi-line renderings are flattened so
// the detail stays on one line.
func (c *checker) skipMissing(category, name, field string, primary, comparison any, inPrimary, inComparison bool) {
	c.warn(Mismatch{category, name, field, fmt.Sprintf("primary=%s vs comparison=%s",
		missingValue(primary, inPrimary), missingValue(comparison, inComparison))})
}

func missingValue(v any, ok bool) string {
	if !ok {
		return "<missing>"
	}
	return strings.Join(strings.Fields(fmt.Sprint(v)), " ")
}

func (c *checker) generators(primary, comparison *system.System) bool {
	lookup := system.NewLookup(comparison.Generators(), func(g component.Generator) string {
		return strings.ToUpper(g.Name())
	})
	for _, a := range primary.Generators() {
		b, ok := lookup.Get(strings.ToUpper(a.Name()))
		if !ok {
			c.fatal(a.Category(), a.Name())
			return false
		}
		c.compareGenerator(a, b)
	}
	return true
}

func (c *checker) compareGenerator(a, b component.Generator) {
	category, name := a.Category(), a.Name()
	if b.Category() != category {
		c.fail(Mismatch{category, name, "category", fmt.Sprintf("%s vs %s", category, b.Category())})
		return
	}
	c.compareBool(category, name, "available", a.Available(), b.Available())
	if !strings.EqualFold(a.Bus().Name(), b.Bus().Name()) {
		c.fail(Mismatch{category, name, "bus", fmt.Sprintf("%q vs %q", a.Bus().Name(), b.Bus().Name())})
	}
	c.compareFloat(category, name, "active_power", a.ActivePower(), b.ActivePower())
	c.compareFloat(category, name, "reactive_power", a.ReactivePower(), b.ReactivePower())
	c.compareFloat(category, name, "rating", a.Rating(), b.Rating())
	c.compareMinMax(category, name, "active_power_limits", a.ActivePowerLimits(), b.ActivePowerLimits())

	qa, qaok := a.ReactivePowerLimits()
	qb, qbok := b.ReactivePowerLimits()
	if qaok && qbok {
		c.compareMinMax(category, name, "reactive_power_limits", qa, qb)
	} else {
		c.skipMissing(category, name, "reactive_power_limits", qa, qb, qaok, qbok)
	}

	ra, aok := a.RampLimits()
	rb, bok := b.RampLimits()
	if aok && bok {
		c.compareFloat(category, name, "ramp_limits.up", ra.Up, rb.Up)
		c.compareFloat(category, name, "ramp_limits.down", ra.Down, rb.Down)
	} else {
		c.skipMissing(category, name, "ramp_limits", ra, rb, aok, bok)
	}

	c.comparePowerFactor(a, b)
	c.compareVariableCost(category, name, a.OperationCost(), b.OperationCost())
}

func (c *checker) comparePowerFactor(a, b component.Generator) {
	ra, aIsRenewable := a.(*component.RenewableGen)
	rb, bIsRenewable := b.(*component.RenewableGen)
	if !aIsRenewable || !bIsRenewable {
		return
	}
	pfa, aok := ra.PowerFactor()
	pfb, bok := rb.PowerFactor()
	if aok && bok {
		c.compareFloat(a.Category(), a.Name(), "power_factor", pfa, pfb)
		return
	}
	c.skipMissing(a.Category(), a.Name(), "power_factor", pfa, pfb, aok, bok)
}

// compareVariableCost projects both cost curves onto currency points and
// compares y-values pointwise. Breakpoint positions are not compared: the
// tolerance is a currency amount, not a power amount. Curves with no
// pointwise form and time-series fuel prices cannot be projected and are
// skipped with a warning.
func (c *checker) compareVariableCost(category, name string, a, b component.OperationCost) {
	va, aok := a.Variable()
	vb, bok := b.Variable()
	if !aok || !bok {
		c.skipMissing(category, name, "variable_cost", va, vb, aok, bok)
		return
	}
	pa, err := costs.CurrencyPoints(va)
	if err != nil {
		c.warn(Mismatch{category, name, "variable_cost", "primary system: " + err.Error()})
		return
	}
	pb, err := costs.CurrencyPoints(vb)
	if err != nil {
		c.warn(Mismatch{category, name, "variable_cost", "comparison system: " + err.Error()})
		return
	}
	if len(pa) != len(pb) {
		m := Mismatch{category, name, "variable_cost", fmt.Sprintf("%d points vs %d", len(pa), len(pb))}
		if c.opts.PointCount == PointCountWarn {
			c.warn(m)
		} else {
			c.fail(m)
		}
		return
	}
	for i := range pa {
		c.compareFloat(category, name, fmt.Sprintf("variable_cost[%d].y", i), pa[i].Y, pb[i].Y)
	}
}

func (c *checker) lines(primary, comparison *system.System) bool {
	lookup := system.NewLookup(comparison.Lines(), func(l *component.Line) string {
		return strings.ToUpper(l.Name())
	})
	for _, a := range primary.Lines() {
		b, ok := lookup.Get(strings.ToUpper(a.Name()))
		if !ok {
			c.fatal(component.CategoryLine, a.Name())
			return false
		}
		c.compareLine(a, b)
	}
	return true
}

func (c *checker) compareLine(a, b *component.Line) {
	category, name := component.CategoryLine, a.Name()
	c.compareBool(category, name, "available", a.Available(), b.Available())
	if !strings.EqualFold(a.From().Name(), b.From().Name()) {
		c.fail(Mismatch{category, name, "from_bus", fmt.Sprintf("%q vs %q", a.From().Name(), b.From().Name())})
	}
	if !strings.EqualFold(a.To().Name(), b.To().Name()) {
		c.fail(Mismatch{category, name, "to_bus", fmt.Sprintf("%q vs %q", a.To().Name(), b.To().Name())})
	}
	c.compareFloat(category, name, "r", a.R(), b.R())
	c.compareFloat(category, name, "x", a.X(), b.X())
	c.compareFloat(category, name, "b", a.B(), b.B())

	rateA, aok := a.Rating()
	rateB, bok := b.Rating()
	if aok && bok {
		c.compareFloat(category, name, "rating", rateA, rateB)
	} else {
		c.skipMissing(category, name, "rating", rateA, rateB, aok, bok)
	}
}

func (c *checker) hvdcLines(primary, comparison *system.System) bool {
	lookup := system.NewLookup(comparison.HVDCLines(), func(l *component.HVDCLine) string {
		return strings.ToUpper(l.Name())
	})
	for _, a := range primary.HVDCLines() {
		b, ok := lookup.Get(strings.ToUpper(a.Name()))
		if !ok {
			c.fatal(component.CategoryHVDCLine, a.Name())
			return false
		}
		c.compareHVDCLine(a, b)
	}
	return true
}

func (c *checker) compareHVDCLine(a, b *component.HVDCLine) {
	category, name := component.CategoryHVDCLine, a.Name()
	c.compareBool(category, name, "available", a.Available(), b.Available())
	if !strings.EqualFold(a.From().Name(), b.From().Name()) {
		c.fail(Mismatch{category, name, "from_bus", fmt.Sprintf("%q vs %q", a.From().Name(), b.From().Name())})
	}
	if !strings.EqualFold(a.To().Name(), b.To().Name()) {
		c.fail(Mismatch{category, name, "to_bus", fmt.Sprintf("%q vs %q", a.To().Name(), b.To().Name())})
	}
	c.compareMinMax(category, name, "active_power_limits_from", a.ActivePowerLimitsFrom(), b.ActivePowerLimitsFrom())
	c.compareMinMax(category, name, "active_power_limits_to", a.ActivePowerLimitsTo(), b.ActivePowerLimitsTo())
	c.compareFloat(category, name, "loss_linear", a.LossLinear(), b.LossLinear())
	c.compareFloat(category, name, "loss_constant", a.LossConstant(), b.LossConstant())
}
