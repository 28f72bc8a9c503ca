package component

import "github.com/gridtools/griddata/internal/pkg/costs"

// OperationCost bundles the cost terms attached to a generating unit. A nil
// variable cost means the source data carried no cost model for the unit.
type OperationCost struct {
	variable costs.ProductionVariableCost
	fixed    float64
	startUp  float64
	shutDown float64
}

func NewOperationCost(variable costs.ProductionVariableCost, fixed, startUp, shutDown float64) OperationCost {
	return OperationCost{variable: variable, fixed: fixed, startUp: startUp, shutDown: shutDown}
}

// Variable returns the variable production cost, or false when none was
// provided.
func (c OperationCost) Variable() (costs.ProductionVariableCost, bool) {
	if c.variable == nil {
		return nil, false
	}
	return c.variable, true
}

func (c OperationCost) Fixed() float64    { return c.fixed }
func (c OperationCost) StartUp() float64  { return c.startUp }
func (c OperationCost) ShutDown() float64 { return c.shutDown }
