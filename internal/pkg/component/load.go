package component

import "github.com/google/uuid"

// PowerLoad is a static demand attached to a bus.
type PowerLoad struct {
	pid           uuid.UUID
	name          string
	available     bool
	bus           *Bus
	activePower   float64
	reactivePower float64
}

// PowerLoadConfig carries the construction parameters of a PowerLoad.
type PowerLoadConfig struct {
	Name          string
	Available     bool
	Bus           *Bus
	ActivePower   float64
	ReactivePower float64
}

func NewPowerLoad(cfg PowerLoadConfig) *PowerLoad {
	return &PowerLoad{
		pid:           uuid.New(),
		name:          cfg.Name,
		available:     cfg.Available,
		bus:           cfg.Bus,
		activePower:   cfg.ActivePower,
		reactivePower: cfg.ReactivePower,
	}
}

func (l *PowerLoad) PID() uuid.UUID         { return l.pid }
func (l *PowerLoad) Name() string           { return l.name }
func (l *PowerLoad) Category() string       { return CategoryLoad }
func (l *PowerLoad) Available() bool        { return l.available }
func (l *PowerLoad) Bus() *Bus              { return l.bus }
func (l *PowerLoad) ActivePower() float64   { return l.activePower }
func (l *PowerLoad) ReactivePower() float64 { return l.reactivePower }
