package component

import (
	"fmt"

	"github.com/google/uuid"
)

// BusType classifies a bus the way legacy case files do.
type BusType int

const (
	PQ BusType = iota + 1
	PV
	Ref
	Isolated
)

// ParseBusType maps a legacy integer bus-type code.
func ParseBusType(code int) (BusType, error) {
	switch code {
	case 1:
		return PQ, nil
	case 2:
		return PV, nil
	case 3:
		return Ref, nil
	case 4:
		return Isolated, nil
	}
	return 0, fmt.Errorf("unknown bus type code %d", code)
}

func (b BusType) String() string {
	switch b {
	case PQ:
		return "PQ"
	case PV:
		return "PV"
	case Ref:
		return "REF"
	case Isolated:
		return "ISOLATED"
	}
	return fmt.Sprintf("BusType(%d)", int(b))
}

// Bus is a network node.
type Bus struct {
	pid       uuid.UUID
	number    int
	name      string
	busType   BusType
	magnitude float64
	baseKV    float64
	area      int
	zone      int
}

// BusConfig carries the construction parameters of a Bus.
type BusConfig struct {
	Number    int
	Name      string
	BusType   BusType
	Magnitude float64
	BaseKV    float64
	Area      int
	Zone      int
}

func NewBus(cfg BusConfig) *Bus {
	return &Bus{
		pid:       uuid.New(),
		number:    cfg.Number,
		name:      cfg.Name,
		busType:   cfg.BusType,
		magnitude: cfg.Magnitude,
		baseKV:    cfg.BaseKV,
		area:      cfg.Area,
		zone:      cfg.Zone,
	}
}

func (b *Bus) PID() uuid.UUID     { return b.pid }
func (b *Bus) Name() string       { return b.name }
func (b *Bus) Category() string   { return CategoryBus }
func (b *Bus) Number() int        { return b.number }
func (b *Bus) BusType() BusType   { return b.busType }
func (b *Bus) Magnitude() float64 { return b.magnitude }
func (b *Bus) BaseKV() float64    { return b.baseKV }
func (b *Bus) Area() int          { return b.area }
func (b *Bus) Zone() int          { return b.zone }
