package tabledata

import (
	"strings"

	"github.com/spf13/cast"
)

// row is one table record keyed by canonical column name.
type row struct {
	path  string
	line  int
	cells map[string]string
}

func (r row) cellErrorf(col, format string, args ...any) error {
	prefixed := append([]any{r.line, col}, args...)
	return formatErrorf(r.path, "row %d, column %s: "+format, prefixed...)
}

// str returns the trimmed cell value; absent or blank cells report false.
func (r row) str(col string) (string, bool) {
	v, ok := r.cells[col]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r row) requireStr(col string) (string, error) {
	v, ok := r.str(col)
	if !ok {
		return "", r.cellErrorf(col, "missing required value")
	}
	return v, nil
}

func (r row) float(col string) (float64, error) {
	v, err := r.requireStr(col)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, r.cellErrorf(col, "cannot parse %q as number", v)
	}
	return f, nil
}

// optFloat returns nil for absent cells.
func (r row) optFloat(col string) (*float64, error) {
	v, ok := r.str(col)
	if !ok {
		return nil, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, r.cellErrorf(col, "cannot parse %q as number", v)
	}
	return &f, nil
}

func (r row) floatDefault(col string, def float64) (float64, error) {
	v, err := r.optFloat(col)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

func (r row) integer(col string) (int, error) {
	v, err := r.requireStr(col)
	if err != nil {
		return 0, err
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, r.cellErrorf(col, "cannot parse %q as integer", v)
	}
	return n, nil
}

func (r row) intDefault(col string, def int) (int, error) {
	v, ok := r.str(col)
	if !ok {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, r.cellErrorf(col, "cannot parse %q as integer", v)
	}
	return n, nil
}

func (r row) boolDefault(col string, def bool) (bool, error) {
	v, ok := r.str(col)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, r.cellErrorf(col, "cannot parse %q as boolean", v)
	}
	return b, nil
}
