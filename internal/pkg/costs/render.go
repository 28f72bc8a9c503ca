package costs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"strings"

	"github.com/gridtools/griddata/internal/pkg/funcdata"
)

// RenderOptions selects between the two display forms of a cost. The zero
// value renders compact: a one-line header naming the type and its scalar
// fields, with the wrapped curve indented beneath it.
type RenderOptions struct {
	// Expanded renders one line per field instead of the header form.
	Expanded bool
}

func (c CostCurve) Render(opts RenderOptions) string {
	if opts.Expanded {
		return joinFields("CostCurve:",
			field("value_curve", c.valueCurve.String()),
			field("power_units", c.powerUnits.String()),
			field("vom_cost", funcdata.FormatFloat(c.vomCost)))
	}
	header := "CostCurve (power_units: " + c.powerUnits.String() +
		", vom_cost: " + funcdata.FormatFloat(c.vomCost) + ")"
	return header + "\n" + indent(c.valueCurve.String())
}

func (c CostCurve) String() string { return c.Render(RenderOptions{}) }

func (c FuelCurve) Render(opts RenderOptions) string {
	if opts.Expanded {
		return joinFields("FuelCurve:",
			field("value_curve", c.valueCurve.String()),
			field("power_units", c.powerUnits.String()),
			field("fuel_cost", c.fuelCost.String()),
			field("vom_cost", funcdata.FormatFloat(c.vomCost)))
	}
	header := "FuelCurve (power_units: " + c.powerUnits.String() +
		", fuel_cost: " + c.fuelCost.String() +
		", vom_cost: " + funcdata.FormatFloat(c.vomCost) + ")"
	return header + "\n" + indent(c.valueCurve.String())
}

func (c FuelCurve) String() string { return c.Render(RenderOptions{}) }

// field renders "name: value" with any continuation lines of value pushed
// two spaces right so nested multi-line renderings stay aligned.
func field(name, value string) string {
	lines := strings.Split(value, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = "  " + lines[i]
	}
	return name + ": " + strings.Join(lines, "\n")
}

func joinFields(header string, fields ...string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(indent(f))
	}
	return b.String()
}

// indent prefixes every line of s with two spaces.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

func floatHash(v float64) uint64 {
	if v == 0 {
		v = 0 // collapse -0.0 so equal values hash equal
	}
	return math.Float64bits(v)
}

func combine(tag byte, parts ...uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte{tag})
	var buf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], p)
		h.Write(buf[:])
	}
	return h.Sum64()
}
