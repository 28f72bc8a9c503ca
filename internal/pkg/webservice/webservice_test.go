package webservice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/gridtools/griddata/internal/pkg/component"
	"github.com/gridtools/griddata/internal/pkg/costs"
	"github.com/gridtools/griddata/internal/pkg/curves"
	"github.com/gridtools/griddata/internal/pkg/funcdata"
	"github.com/gridtools/griddata/internal/pkg/system"
)

func demoSystem(t *testing.T) *system.System {
	t.Helper()
	sys := system.New(100)
	north := component.NewBus(component.BusConfig{Number: 1, Name: "north", BusType: component.Ref, Magnitude: 1, BaseKV: 230})
	south := component.NewBus(component.BusConfig{Number: 2, Name: "south", BusType: component.PQ, Magnitude: 1, BaseKV: 230})
	assert.NilError(t, sys.AddComponent(north))
	assert.NilError(t, sys.AddComponent(south))

	fn, err := funcdata.NewPiecewiseLinear([]funcdata.XY{{X: 50, Y: 400}, {X: 150, Y: 1400}})
	assert.NilError(t, err)
	curve, err := curves.NewInputOutput(fn)
	assert.NilError(t, err)
	assert.NilError(t, sys.AddComponent(component.NewThermalGen(component.GenConfig{
		Name:              "alta",
		Available:         true,
		Bus:               north,
		ActivePower:       100,
		Rating:            150,
		ActivePowerLimits: component.MinMax{Min: 50, Max: 150},
		RampLimits:        &component.UpDown{Up: 5, Down: 5},
		OperationCost:     component.NewOperationCost(costs.NewCostCurve(curve), 0, 800, 0),
	}, "NG")))

	rate := 175.0
	assert.NilError(t, sys.AddComponent(component.NewLine(component.LineConfig{
		Name:        "north-south",
		Available:   true,
		From:        north,
		To:          south,
		R:           0.01,
		X:           0.05,
		B:           0.02,
		Rating:      &rate,
		AngleLimits: component.MinMax{Min: -1, Max: 1},
	})))
	return sys
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestBase(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))
}

func TestSystemSummary(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/system")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))

	var summary SystemSummary
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, summary.BasePower, 100.0)
	assert.Equal(t, summary.Components[component.CategoryBus], 2)
	assert.Equal(t, summary.Components[component.CategoryThermalGen], 1)
	assert.Equal(t, summary.Components[component.CategoryLine], 1)
	assert.Equal(t, summary.Components[component.CategoryReserve], 0)
}

func TestCategoryListing(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/component/bus")
	assert.Equal(t, http.StatusOK, w.Code)

	var listing CategoryListing
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, listing.Category, "bus")
	assert.DeepEqual(t, listing.Names, []string{"north", "south"})

	w = get(t, router, "http://example.com/component/transformer")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComponentDetail(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/component/thermal_gen/alta")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, body["name"], "alta")
	assert.Equal(t, body["bus"], "north")
	assert.Equal(t, body["fuel"], "NG")

	cost, ok := body["operation_cost"].(map[string]any)
	assert.Assert(t, ok)
	assert.Equal(t, cost["start_up"], 800.0)
	variable, ok := cost["variable"].(string)
	assert.Assert(t, ok)
	assert.Assert(t, strings.HasPrefix(variable, "CostCurve (power_units: NATURAL_UNITS"), variable)
}

func TestComponentDetailExpanded(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/component/thermal_gen/alta?expanded=1")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &body))
	cost, ok := body["operation_cost"].(map[string]any)
	assert.Assert(t, ok)
	variable, ok := cost["variable"].(string)
	assert.Assert(t, ok)
	assert.Assert(t, strings.HasPrefix(variable, "CostCurve:\n"), variable)
	assert.Assert(t, strings.Contains(variable, "value_curve:"), variable)
}

func TestLineDetail(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/component/line/north-south")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, body["from"], "north")
	assert.Equal(t, body["to"], "south")
	assert.Equal(t, body["rating"], 175.0)
}

func TestComponentNotFound(t *testing.T) {
	router := NewRouter(demoSystem(t), zerolog.Nop())
	w := get(t, router, "http://example.com/component/thermal_gen/ghost")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body errorBody
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Assert(t, strings.Contains(body.Error, "ghost"))
}
