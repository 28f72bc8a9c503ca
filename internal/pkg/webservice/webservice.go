// Package webservice exposes a parsed grid system over HTTP for read-only
// inspection. One router serves a system summary, per-category name
// listings, and per-component detail documents.
package webservice

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/gridtools/griddata/internal/pkg/component"
	"github.com/gridtools/griddata/internal/pkg/costs"
	"github.com/gridtools/griddata/internal/pkg/system"
)

// SystemSummary is the document served at /system.
type SystemSummary struct {
	BasePower  float64        `json:"base_power"`
	Components map[string]int `json:"components"`
}

// CategoryListing is the document served at /component/{category}.
type CategoryListing struct {
	Category string   `json:"category"`
	Names    []string `json:"names"`
}

type errorBody struct {
	Error string `json:"error"`
}

type minMaxBody struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type upDownBody struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

type operationCostBody struct {
	Variable string  `json:"variable,omitempty"`
	Fixed    float64 `json:"fixed"`
	StartUp  float64 `json:"start_up"`
	ShutDown float64 `json:"shut_down"`
}

type busBody struct {
	PID       string  `json:"pid"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Number    int     `json:"number"`
	BusType   string  `json:"bus_type"`
	Magnitude float64 `json:"magnitude"`
	BaseKV    float64 `json:"base_kv"`
	Area      int     `json:"area"`
	Zone      int     `json:"zone"`
}

type generatorBody struct {
	PID                 string            `json:"pid"`
	Category            string            `json:"category"`
	Name                string            `json:"name"`
	Bus                 string            `json:"bus"`
	Available           bool              `json:"available"`
	ActivePower         float64           `json:"active_power"`
	ReactivePower       float64           `json:"reactive_power"`
	Rating              float64           `json:"rating"`
	ActivePowerLimits   minMaxBody        `json:"active_power_limits"`
	ReactivePowerLimits *minMaxBody       `json:"reactive_power_limits,omitempty"`
	RampLimits          *upDownBody       `json:"ramp_limits,omitempty"`
	Fuel                string            `json:"fuel,omitempty"`
	PowerFactor         *float64          `json:"power_factor,omitempty"`
	OperationCost       operationCostBody `json:"operation_cost"`
}

type lineBody struct {
	PID       string   `json:"pid"`
	Category  string   `json:"category"`
	Name      string   `json:"name"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Available bool     `json:"available"`
	R         float64  `json:"r"`
	X         float64  `json:"x"`
	B         float64  `json:"b"`
	Rating    *float64 `json:"rating,omitempty"`
}

type hvdcLineBody struct {
	PID                   string     `json:"pid"`
	Category              string     `json:"category"`
	Name                  string     `json:"name"`
	From                  string     `json:"from"`
	To                    string     `json:"to"`
	Available             bool       `json:"available"`
	ActivePowerLimitsFrom minMaxBody `json:"active_power_limits_from"`
	ActivePowerLimitsTo   minMaxBody `json:"active_power_limits_to"`
	LossLinear            float64    `json:"loss_linear"`
	LossConstant          float64    `json:"loss_constant"`
}

type loadBody struct {
	PID           string  `json:"pid"`
	Category      string  `json:"category"`
	Name          string  `json:"name"`
	Bus           string  `json:"bus"`
	Available     bool    `json:"available"`
	ActivePower   float64 `json:"active_power"`
	ReactivePower float64 `json:"reactive_power"`
}

type reserveBody struct {
	PID         string  `json:"pid"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Direction   string  `json:"direction"`
	Timeframe   float64 `json:"timeframe"`
	Requirement float64 `json:"requirement"`
}

type server struct {
	sys    *system.System
	logger zerolog.Logger
}

// NewRouter builds the HTTP router over sys.
func NewRouter(sys *system.System, logger zerolog.Logger) *mux.Router {
	s := &server{sys: sys, logger: logger}
	r := mux.NewRouter()
	r.HandleFunc("/", s.baseHandler).Methods("GET")
	r.HandleFunc("/system", s.systemHandler).Methods("GET")
	r.HandleFunc("/component/{category}", s.categoryHandler).Methods("GET")
	r.HandleFunc("/component/{category}/{name}", s.componentHandler).Methods("GET")
	return r
}

func (s *server) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("malformed JSON")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		s.logger.Error().Err(err).Msg("write response")
	}
}

func (s *server) notFound(w http.ResponseWriter, format string, args ...any) {
	s.writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf(format, args...)})
}

func (s *server) baseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
}

func (s *server) systemHandler(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int)
	for _, category := range system.Categories() {
		comps, _ := s.sys.ComponentsByCategory(category)
		counts[category] = len(comps)
	}
	s.writeJSON(w, http.StatusOK, SystemSummary{
		BasePower:  s.sys.BasePower(),
		Components: counts,
	})
}

func (s *server) categoryHandler(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	comps, ok := s.sys.ComponentsByCategory(category)
	if !ok {
		s.notFound(w, "unknown category %q", category)
		return
	}
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		names = append(names, c.Name())
	}
	s.writeJSON(w, http.StatusOK, CategoryListing{Category: category, Names: names})
}

func (s *server) componentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, ok := s.sys.GetComponent(vars["category"], vars["name"])
	if !ok {
		s.notFound(w, "no %s named %q", vars["category"], vars["name"])
		return
	}
	expanded := cast.ToBool(r.URL.Query().Get("expanded"))
	s.writeJSON(w, http.StatusOK, ComponentBody(c, expanded))
}

// ComponentBody builds the JSON document for one component. Expanded
// selects the multi-line cost-curve rendering.
func ComponentBody(c component.Component, expanded bool) any {
	switch v := c.(type) {
	case *component.Bus:
		return busBody{
			PID:       v.PID().String(),
			Category:  v.Category(),
			Name:      v.Name(),
			Number:    v.Number(),
			BusType:   v.BusType().String(),
			Magnitude: v.Magnitude(),
			BaseKV:    v.BaseKV(),
			Area:      v.Area(),
			Zone:      v.Zone(),
		}
	case *component.Line:
		body := lineBody{
			PID:       v.PID().String(),
			Category:  v.Category(),
			Name:      v.Name(),
			From:      v.From().Name(),
			To:        v.To().Name(),
			Available: v.Available(),
			R:         v.R(),
			X:         v.X(),
			B:         v.B(),
		}
		if rating, ok := v.Rating(); ok {
			body.Rating = &rating
		}
		return body
	case *component.HVDCLine:
		from := v.ActivePowerLimitsFrom()
		to := v.ActivePowerLimitsTo()
		return hvdcLineBody{
			PID:                   v.PID().String(),
			Category:              v.Category(),
			Name:                  v.Name(),
			From:                  v.From().Name(),
			To:                    v.To().Name(),
			Available:             v.Available(),
			ActivePowerLimitsFrom: minMaxBody{Min: from.Min, Max: from.Max},
			ActivePowerLimitsTo:   minMaxBody{Min: to.Min, Max: to.Max},
			LossLinear:            v.LossLinear(),
			LossConstant:          v.LossConstant(),
		}
	case *component.PowerLoad:
		return loadBody{
			PID:           v.PID().String(),
			Category:      v.Category(),
			Name:          v.Name(),
			Bus:           v.Bus().Name(),
			Available:     v.Available(),
			ActivePower:   v.ActivePower(),
			ReactivePower: v.ReactivePower(),
		}
	case *component.Reserve:
		return reserveBody{
			PID:         v.PID().String(),
			Category:    v.Category(),
			Name:        v.Name(),
			Direction:   v.Direction().String(),
			Timeframe:   v.Timeframe(),
			Requirement: v.Requirement(),
		}
	case component.Generator:
		return newGeneratorBody(v, expanded)
	}
	return errorBody{Error: fmt.Sprintf("unrenderable component %T", c)}
}

func newGeneratorBody(g component.Generator, expanded bool) generatorBody {
	limits := g.ActivePowerLimits()
	body := generatorBody{
		PID:               g.PID().String(),
		Category:          g.Category(),
		Name:              g.Name(),
		Bus:               g.Bus().Name(),
		Available:         g.Available(),
		ActivePower:       g.ActivePower(),
		ReactivePower:     g.ReactivePower(),
		Rating:            g.Rating(),
		ActivePowerLimits: minMaxBody{Min: limits.Min, Max: limits.Max},
	}
	if reactive, ok := g.ReactivePowerLimits(); ok {
		body.ReactivePowerLimits = &minMaxBody{Min: reactive.Min, Max: reactive.Max}
	}
	if ramp, ok := g.RampLimits(); ok {
		body.RampLimits = &upDownBody{Up: ramp.Up, Down: ramp.Down}
	}
	if thermal, ok := g.(*component.ThermalGen); ok {
		body.Fuel = thermal.Fuel()
	}
	if renewable, ok := g.(*component.RenewableGen); ok {
		if pf, ok := renewable.PowerFactor(); ok {
			body.PowerFactor = &pf
		}
	}

	cost := g.OperationCost()
	body.OperationCost = operationCostBody{
		Fixed:    cost.Fixed(),
		StartUp:  cost.StartUp(),
		ShutDown: cost.ShutDown(),
	}
	if variable, ok := cost.Variable(); ok {
		body.OperationCost.Variable = variable.Render(costs.RenderOptions{Expanded: expanded})
	}
	return body
}
