package component

import (
	"fmt"

	"github.com/google/uuid"
)

// ReserveDirection says which way a reserve product moves dispatch.
type ReserveDirection int

const (
	ReserveUp ReserveDirection = iota + 1
	ReserveDown
)

// ParseReserveDirection maps the source-data spelling of a reserve
// direction. Only the exact strings "Up" and "Down" are valid; anything
// else, including case variants, is rejected.
func ParseReserveDirection(s string) (ReserveDirection, error) {
	switch s {
	case "Up":
		return ReserveUp, nil
	case "Down":
		return ReserveDown, nil
	}
	return 0, fmt.Errorf("invalid reserve direction %q, must be \"Up\" or \"Down\"", s)
}

func (d ReserveDirection) String() string {
	switch d {
	case ReserveUp:
		return "Up"
	case ReserveDown:
		return "Down"
	}
	return fmt.Sprintf("ReserveDirection(%d)", int(d))
}

// Reserve is an operating-reserve product with a static requirement.
type Reserve struct {
	pid         uuid.UUID
	name        string
	direction   ReserveDirection
	timeframe   float64
	requirement float64
}

// ReserveConfig carries the construction parameters of a Reserve.
type ReserveConfig struct {
	Name        string
	Direction   ReserveDirection
	Timeframe   float64
	Requirement float64
}

func NewReserve(cfg ReserveConfig) *Reserve {
	return &Reserve{
		pid:         uuid.New(),
		name:        cfg.Name,
		direction:   cfg.Direction,
		timeframe:   cfg.Timeframe,
		requirement: cfg.Requirement,
	}
}

func (r *Reserve) PID() uuid.UUID              { return r.pid }
func (r *Reserve) Name() string                { return r.name }
func (r *Reserve) Category() string            { return CategoryReserve }
func (r *Reserve) Direction() ReserveDirection { return r.direction }
func (r *Reserve) Timeframe() float64          { return r.timeframe }
func (r *Reserve) Requirement() float64        { return r.requirement }
