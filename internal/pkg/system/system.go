// Package system holds a parsed grid model: every component grouped by
// category and indexed by name. A System is assembled once by a parser and
// read-only afterwards.
package system

import (
	"fmt"
	"sort"

	"github.com/gridtools/griddata/internal/pkg/component"
)

type store[T component.Component] struct {
	byName map[string]T
}

func (s *store[T]) add(c T) error {
	if s.byName == nil {
		s.byName = make(map[string]T)
	}
	if _, exists := s.byName[c.Name()]; exists {
		return fmt.Errorf("duplicate %s %q", c.Category(), c.Name())
	}
	s.byName[c.Name()] = c
	return nil
}

func (s *store[T]) get(name string) (T, bool) {
	c, ok := s.byName[name]
	return c, ok
}

func (s *store[T]) sorted() []T {
	out := make([]T, 0, len(s.byName))
	for _, c := range s.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// System is the container for one parsed grid model.
type System struct {
	basePower float64

	buses     store[*component.Bus]
	thermal   store[*component.ThermalGen]
	hydro     store[*component.HydroGen]
	renewable store[*component.RenewableGen]
	lines     store[*component.Line]
	hvdc      store[*component.HVDCLine]
	loads     store[*component.PowerLoad]
	reserves  store[*component.Reserve]
}

// New returns an empty system with the given MVA base power.
func New(basePower float64) *System {
	return &System{basePower: basePower}
}

func (s *System) BasePower() float64 { return s.basePower }

// AddComponent files c under its category. Adding a second component with
// the same name in one category is an error.
func (s *System) AddComponent(c component.Component) error {
	switch c := c.(type) {
	case *component.Bus:
		return s.buses.add(c)
	case *component.ThermalGen:
		return s.thermal.add(c)
	case *component.HydroGen:
		return s.hydro.add(c)
	case *component.RenewableGen:
		return s.renewable.add(c)
	case *component.Line:
		return s.lines.add(c)
	case *component.HVDCLine:
		return s.hvdc.add(c)
	case *component.PowerLoad:
		return s.loads.add(c)
	case *component.Reserve:
		return s.reserves.add(c)
	}
	return fmt.Errorf("unsupported component type %T", c)
}

// Accessors return name-sorted slices so iteration order is stable.

func (s *System) Buses() []*component.Bus                  { return s.buses.sorted() }
func (s *System) ThermalGens() []*component.ThermalGen     { return s.thermal.sorted() }
func (s *System) HydroGens() []*component.HydroGen         { return s.hydro.sorted() }
func (s *System) RenewableGens() []*component.RenewableGen { return s.renewable.sorted() }
func (s *System) Lines() []*component.Line                 { return s.lines.sorted() }
func (s *System) HVDCLines() []*component.HVDCLine         { return s.hvdc.sorted() }
func (s *System) Loads() []*component.PowerLoad            { return s.loads.sorted() }
func (s *System) Reserves() []*component.Reserve           { return s.reserves.sorted() }

func (s *System) GetBus(name string) (*component.Bus, bool) {
	return s.buses.get(name)
}

// Generators returns every generating unit regardless of kind, name-sorted.
func (s *System) Generators() []component.Generator {
	var out []component.Generator
	for _, g := range s.thermal.sorted() {
		out = append(out, g)
	}
	for _, g := range s.hydro.sorted() {
		out = append(out, g)
	}
	for _, g := range s.renewable.sorted() {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Categories lists the component categories a System stores, in display
// order.
func Categories() []string {
	return []string{
		component.CategoryBus,
		component.CategoryThermalGen,
		component.CategoryHydroGen,
		component.CategoryRenewableGen,
		component.CategoryLine,
		component.CategoryHVDCLine,
		component.CategoryLoad,
		component.CategoryReserve,
	}
}

// ComponentsByCategory returns the components of one category, name-sorted.
// The second return is false for an unknown category label.
func (s *System) ComponentsByCategory(category string) ([]component.Component, bool) {
	switch category {
	case component.CategoryBus:
		return asComponents(s.buses.sorted()), true
	case component.CategoryThermalGen:
		return asComponents(s.thermal.sorted()), true
	case component.CategoryHydroGen:
		return asComponents(s.hydro.sorted()), true
	case component.CategoryRenewableGen:
		return asComponents(s.renewable.sorted()), true
	case component.CategoryLine:
		return asComponents(s.lines.sorted()), true
	case component.CategoryHVDCLine:
		return asComponents(s.hvdc.sorted()), true
	case component.CategoryLoad:
		return asComponents(s.loads.sorted()), true
	case component.CategoryReserve:
		return asComponents(s.reserves.sorted()), true
	}
	return nil, false
}

// GetComponent resolves one component by category label and name.
func (s *System) GetComponent(category, name string) (component.Component, bool) {
	switch category {
	case component.CategoryBus:
		return pick(s.buses.get(name))
	case component.CategoryThermalGen:
		return pick(s.thermal.get(name))
	case component.CategoryHydroGen:
		return pick(s.hydro.get(name))
	case component.CategoryRenewableGen:
		return pick(s.renewable.get(name))
	case component.CategoryLine:
		return pick(s.lines.get(name))
	case component.CategoryHVDCLine:
		return pick(s.hvdc.get(name))
	case component.CategoryLoad:
		return pick(s.loads.get(name))
	case component.CategoryReserve:
		return pick(s.reserves.get(name))
	}
	return nil, false
}

func asComponents[T component.Component](in []T) []component.Component {
	out := make([]component.Component, len(in))
	for i, c := range in {
		out[i] = c
	}
	return out
}

func pick[T component.Component](c T, ok bool) (component.Component, bool) {
	if !ok {
		return nil, false
	}
	return c, true
}
