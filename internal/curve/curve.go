package curve

import (
	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/domain"
)

// Curve is the staircase pricing function for a primary sale. The unit price
// starts at floor and increases by step for every increment units cumulatively
// sold. Pure and stateless; prices are per whole asset unit in the native
// currency's smallest denomination.
type Curve struct {
	floor     *uint256.Int
	step      *uint256.Int
	increment *uint256.Int
}

// New creates a pricing curve with the given floor, step and increment
func New(floor, step, increment *uint256.Int) Curve {
	return Curve{
		floor:     floor.Clone(),
		step:      step.Clone(),
		increment: increment.Clone(),
	}
}

// FromParams creates the pricing curve described by the sale parameters
func FromParams(p domain.Params) Curve {
	return New(p.PriceFloor, p.PriceStep, p.PriceIncrement)
}

// Price returns the unit price at the given cumulative units sold:
// floor + step * (unitsSold / increment). The division truncates toward zero,
// so the price steps up exactly at multiples of increment.
func (c Curve) Price(unitsSold *uint256.Int) (*uint256.Int, error) {
	steps := new(uint256.Int).Div(unitsSold, c.increment)
	price, overflow := new(uint256.Int).MulOverflow(steps, c.step)
	if overflow {
		return nil, domain.ErrAmountOverflow
	}
	price, overflow = price.AddOverflow(price, c.floor)
	if overflow {
		return nil, domain.ErrAmountOverflow
	}
	return price, nil
}

// Cost computes the total cost of buying quantity units (smallest denomination)
// with the entire batch priced at the pre-purchase sold count. The quantity is
// normalized to whole units before multiplying, truncating any fraction.
func (c Curve) Cost(unitsSold, quantity *uint256.Int) (*uint256.Int, error) {
	price, err := c.Price(unitsSold)
	if err != nil {
		return nil, err
	}
	wholeUnits := new(uint256.Int).Div(quantity, domain.UnitScale)
	cost, overflow := new(uint256.Int).MulOverflow(price, wholeUnits)
	if overflow {
		return nil, domain.ErrAmountOverflow
	}
	return cost, nil
}
