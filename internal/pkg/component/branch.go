package component

import "github.com/google/uuid"

// Line is an AC branch between two buses.
type Line struct {
	pid       uuid.UUID
	name      string
	available bool
	from      *Bus
	to        *Bus
	r         float64
	x         float64
	b         float64
	rating    *float64
	angleMin  float64
	angleMax  float64
}

// LineConfig carries the construction parameters of a Line. A nil Rating
// means the source data carried no thermal rating.
type LineConfig struct {
	Name        string
	Available   bool
	From        *Bus
	To          *Bus
	R           float64
	X           float64
	B           float64
	Rating      *float64
	AngleLimits MinMax
}

func NewLine(cfg LineConfig) *Line {
	l := &Line{
		pid:       uuid.New(),
		name:      cfg.Name,
		available: cfg.Available,
		from:      cfg.From,
		to:        cfg.To,
		r:         cfg.R,
		x:         cfg.X,
		b:         cfg.B,
		angleMin:  cfg.AngleLimits.Min,
		angleMax:  cfg.AngleLimits.Max,
	}
	if cfg.Rating != nil {
		rating := *cfg.Rating
		l.rating = &rating
	}
	return l
}

func (l *Line) PID() uuid.UUID   { return l.pid }
func (l *Line) Name() string     { return l.name }
func (l *Line) Category() string { return CategoryLine }
func (l *Line) Available() bool  { return l.available }
func (l *Line) From() *Bus       { return l.from }
func (l *Line) To() *Bus         { return l.to }
func (l *Line) R() float64       { return l.r }
func (l *Line) X() float64       { return l.x }
func (l *Line) B() float64       { return l.b }

// Rating returns the thermal rating, or false when the source carried none.
func (l *Line) Rating() (float64, bool) {
	if l.rating == nil {
		return 0, false
	}
	return *l.rating, true
}

func (l *Line) AngleLimits() MinMax {
	return MinMax{Min: l.angleMin, Max: l.angleMax}
}

// HVDCLine is a two-terminal DC transmission line.
type HVDCLine struct {
	pid                   uuid.UUID
	name                  string
	available             bool
	from                  *Bus
	to                    *Bus
	activePowerLimitsFrom MinMax
	activePowerLimitsTo   MinMax
	lossLinear            float64
	lossConstant          float64
}

// HVDCLineConfig carries the construction parameters of an HVDCLine.
type HVDCLineConfig struct {
	Name                  string
	Available             bool
	From                  *Bus
	To                    *Bus
	ActivePowerLimitsFrom MinMax
	ActivePowerLimitsTo   MinMax
	LossLinear            float64
	LossConstant          float64
}

func NewHVDCLine(cfg HVDCLineConfig) *HVDCLine {
	return &HVDCLine{
		pid:                   uuid.New(),
		name:                  cfg.Name,
		available:             cfg.Available,
		from:                  cfg.From,
		to:                    cfg.To,
		activePowerLimitsFrom: cfg.ActivePowerLimitsFrom,
		activePowerLimitsTo:   cfg.ActivePowerLimitsTo,
		lossLinear:            cfg.LossLinear,
		lossConstant:          cfg.LossConstant,
	}
}

func (l *HVDCLine) PID() uuid.UUID                { return l.pid }
func (l *HVDCLine) Name() string                  { return l.name }
func (l *HVDCLine) Category() string              { return CategoryHVDCLine }
func (l *HVDCLine) Available() bool               { return l.available }
func (l *HVDCLine) From() *Bus                    { return l.from }
func (l *HVDCLine) To() *Bus                      { return l.to }
func (l *HVDCLine) ActivePowerLimitsFrom() MinMax { return l.activePowerLimitsFrom }
func (l *HVDCLine) ActivePowerLimitsTo() MinMax   { return l.activePowerLimitsTo }
func (l *HVDCLine) LossLinear() float64           { return l.lossLinear }
func (l *HVDCLine) LossConstant() float64         { return l.lossConstant }
