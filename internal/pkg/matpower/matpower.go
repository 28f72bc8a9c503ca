// Package matpower reads the legacy single-file case format: a MATLAB
// script assigning numeric matrices and cell arrays to fields of an mpc
// struct. Only the fields the grid model consumes are interpreted; anything
// else is skipped with a log record.
package matpower

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Case is the raw content of a parsed case file, matrices kept in source
// order and untouched beyond number conversion.
type Case struct {
	Name    string
	Version string
	BaseMVA float64

	Bus     [][]float64
	Gen     [][]float64
	Branch  [][]float64
	GenCost [][]float64
	DCLine  [][]float64

	BusNames []string
	GenNames []string
	GenTypes []string
	GenFuels []string
}

var (
	functionRe = regexp.MustCompile(`^function\s+mpc\s*=\s*([A-Za-z0-9_]+)`)
	assignRe   = regexp.MustCompile(`^mpc\.([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
)

// ParseFile reads and parses the case file at path.
func ParseFile(path string, logger zerolog.Logger) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case file: %w", err)
	}
	defer f.Close()

	c, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads one case file from r.
func Parse(r io.Reader, logger zerolog.Logger) (*Case, error) {
	c := &Case{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		field   string // mpc field currently being collected
		cell    bool   // collecting {...} rather than [...]
		payload strings.Builder
		lineno  int
	)

	flush := func() error {
		defer payload.Reset()
		if cell {
			return c.setCell(field, parseCell(payload.String()), logger)
		}
		rows, err := parseMatrix(payload.String())
		if err != nil {
			return fmt.Errorf("mpc.%s: %w", field, err)
		}
		return c.setMatrix(field, rows, logger)
	}

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}

		if field != "" {
			closer := "]"
			if cell {
				closer = "}"
			}
			if i := strings.Index(line, closer); i >= 0 {
				payload.WriteString(line[:i])
				if err := flush(); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				field = ""
				continue
			}
			payload.WriteString(line)
			payload.WriteString("\n")
			continue
		}

		if m := functionRe.FindStringSubmatch(line); m != nil {
			c.Name = m[1]
			continue
		}
		m := assignRe.FindStringSubmatch(line)
		if m == nil {
			logger.Warn().Int("line", lineno).Str("text", line).
				Msg("skipping unrecognized statement")
			continue
		}
		name, rest := m[1], strings.TrimSpace(m[2])
		switch {
		case strings.HasPrefix(rest, "["), strings.HasPrefix(rest, "{"):
			field = name
			cell = rest[0] == '{'
			closer := "]"
			if cell {
				closer = "}"
			}
			rest = rest[1:]
			if i := strings.Index(rest, closer); i >= 0 {
				payload.WriteString(rest[:i])
				if err := flush(); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				field = ""
			} else {
				payload.WriteString(rest)
				payload.WriteString("\n")
			}
		default:
			value := strings.TrimSpace(strings.TrimSuffix(rest, ";"))
			if err := c.setScalar(name, value, logger); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}
	if field != "" {
		return nil, fmt.Errorf("unterminated mpc.%s", field)
	}
	return c, nil
}

// stripComment drops everything from the first % on. Quoted strings in case
// files never contain one.
func stripComment(line string) string {
	if i := strings.Index(line, "%"); i >= 0 {
		return line[:i]
	}
	return line
}

// parseMatrix splits a bracket payload into rows. Rows end at semicolons
// and at line breaks; fields split on whitespace or commas.
func parseMatrix(payload string) ([][]float64, error) {
	var rows [][]float64
	for _, line := range strings.Split(payload, "\n") {
		for _, seg := range strings.Split(line, ";") {
			seg = strings.ReplaceAll(seg, ",", " ")
			parts := strings.Fields(seg)
			if len(parts) == 0 {
				continue
			}
			row := make([]float64, len(parts))
			for i, p := range parts {
				v, err := strconv.ParseFloat(p, 64)
				if err != nil {
					return nil, fmt.Errorf("malformed number %q in row %d", p, len(rows)+1)
				}
				row[i] = v
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// parseCell splits a brace payload into its quoted strings.
func parseCell(payload string) []string {
	var out []string
	for _, line := range strings.Split(payload, "\n") {
		for _, seg := range strings.Split(line, ";") {
			seg = strings.Trim(strings.TrimSpace(seg), ",")
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			out = append(out, strings.Trim(seg, "'"))
		}
	}
	return out
}

func (c *Case) setScalar(name, value string, logger zerolog.Logger) error {
	switch name {
	case "version":
		c.Version = strings.Trim(value, "'")
	case "baseMVA":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("mpc.baseMVA: malformed number %q", value)
		}
		c.BaseMVA = v
	default:
		logger.Debug().Str("field", name).Msg("skipping unsupported scalar field")
	}
	return nil
}

func (c *Case) setMatrix(name string, rows [][]float64, logger zerolog.Logger) error {
	switch name {
	case "bus":
		c.Bus = rows
	case "gen":
		c.Gen = rows
	case "branch":
		c.Branch = rows
	case "gencost":
		c.GenCost = rows
	case "dcline":
		c.DCLine = rows
	default:
		logger.Debug().Str("field", name).Msg("skipping unsupported matrix field")
	}
	return nil
}

func (c *Case) setCell(name string, values []string, logger zerolog.Logger) error {
	switch name {
	case "bus_name":
		c.BusNames = values
	case "gen_name":
		c.GenNames = values
	case "gentype":
		c.GenTypes = values
	case "genfuel":
		c.GenFuels = values
	default:
		logger.Debug().Str("field", name).Msg("skipping unsupported cell field")
	}
	return nil
}
