// Package tabledata reads a grid model from a directory of CSV tables. A
// YAML descriptor maps the source column headers of each table to the
// canonical column names the builder consumes, and a generator-mapping YAML
// assigns generating units to categories by fuel and unit type.
package tabledata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Table names the builder knows about. Each maps to <name>.csv in the data
// directory.
const (
	tableBus      = "bus"
	tableGen      = "gen"
	tableBranch   = "branch"
	tableDCBranch = "dc_branch"
	tableReserves = "reserves"
)

// DataFormatError reports malformed or missing table data. Path points at
// the offending file or directory.
type DataFormatError struct {
	Path   string
	Reason string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func formatErrorf(path, format string, args ...any) error {
	return &DataFormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

type options struct {
	descriptorFile string
	mappingFile    string
}

// Option adjusts how a data directory is read.
type Option func(*options)

// WithDescriptorFile overrides the descriptor file name, relative to the
// data directory.
func WithDescriptorFile(name string) Option {
	return func(o *options) { o.descriptorFile = name }
}

// WithGeneratorMappingFile overrides the generator-mapping file name,
// relative to the data directory.
func WithGeneratorMappingFile(name string) Option {
	return func(o *options) { o.mappingFile = name }
}

// columnDescriptor maps one source column header to its canonical name.
type columnDescriptor struct {
	Name       string `yaml:"name"`
	CustomName string `yaml:"custom_name"`
}

// fuelType is one (fuel, unit type) pattern of the generator mapping. An
// empty type matches any unit type.
type fuelType struct {
	Fuel string `yaml:"fuel"`
	Type string `yaml:"type"`
}

// TableData is the raw content of a data directory: every described table
// read and re-keyed to canonical column names.
type TableData struct {
	dir       string
	basePower float64
	tables    map[string][]row
	mapping   map[string][]fuelType
}

func (t *TableData) Dir() string        { return t.dir }
func (t *TableData) BasePower() float64 { return t.basePower }

// New reads the data directory at dir. The descriptor file is required;
// tables it describes are read when present. The generator mapping is
// required as soon as a gen table exists.
func New(dir string, basePower float64, opts ...Option) (*TableData, error) {
	o := options{
		descriptorFile: "user_descriptors.yaml",
		mappingFile:    "generator_mapping.yaml",
	}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, formatErrorf(dir, "cannot read data directory: %v", err)
	}
	if !info.IsDir() {
		return nil, formatErrorf(dir, "not a directory")
	}

	descriptor, err := loadDescriptor(filepath.Join(dir, o.descriptorFile))
	if err != nil {
		return nil, err
	}

	td := &TableData{
		dir:       dir,
		basePower: basePower,
		tables:    make(map[string][]row),
	}
	for table, columns := range descriptor {
		path := filepath.Join(dir, table+".csv")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		rows, err := readTable(path, table, columns)
		if err != nil {
			return nil, err
		}
		td.tables[table] = rows
	}
	if _, ok := td.tables[tableBus]; !ok {
		return nil, formatErrorf(filepath.Join(dir, tableBus+".csv"), "bus table is required")
	}

	if _, ok := td.tables[tableGen]; ok {
		mapping, err := loadGeneratorMapping(filepath.Join(dir, o.mappingFile))
		if err != nil {
			return nil, err
		}
		td.mapping = mapping
	}
	return td, nil
}

func loadDescriptor(path string) (map[string][]columnDescriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, formatErrorf(path, "cannot read descriptor: %v", err)
	}
	descriptor := make(map[string][]columnDescriptor)
	if err := yaml.Unmarshal(raw, &descriptor); err != nil {
		return nil, formatErrorf(path, "malformed descriptor: %v", err)
	}
	for table, columns := range descriptor {
		for i, c := range columns {
			if c.Name == "" {
				return nil, formatErrorf(path, "table %s, column %d: missing name", table, i+1)
			}
		}
	}
	return descriptor, nil
}

func loadGeneratorMapping(path string) (map[string][]fuelType, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, formatErrorf(path, "cannot read generator mapping: %v", err)
	}
	mapping := make(map[string][]fuelType)
	if err := yaml.Unmarshal(raw, &mapping); err != nil {
		return nil, formatErrorf(path, "malformed generator mapping: %v", err)
	}
	for category := range mapping {
		switch category {
		case "thermal", "hydro", "renewable":
		default:
			return nil, formatErrorf(path, "unknown generator category %q", category)
		}
	}
	return mapping, nil
}

// readTable reads one CSV and re-keys each record to canonical column
// names. Described columns absent from the header are simply missing from
// the records; the builder decides which ones it cannot do without.
func readTable(path, table string, columns []columnDescriptor) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, formatErrorf(path, "cannot open table: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, formatErrorf(path, "malformed csv: %v", err)
	}
	if len(records) == 0 {
		return nil, formatErrorf(path, "empty table")
	}

	header := records[0]
	index := make(map[string]int, len(columns)) // canonical name -> column
	for _, c := range columns {
		source := c.CustomName
		if source == "" {
			source = c.Name
		}
		for i, h := range header {
			if h == source {
				index[c.Name] = i
				break
			}
		}
	}

	rows := make([]row, 0, len(records)-1)
	for n, record := range records[1:] {
		r := row{path: path, line: n + 2, cells: make(map[string]string, len(index))}
		for name, i := range index {
			if i < len(record) {
				r.cells[name] = record[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}
