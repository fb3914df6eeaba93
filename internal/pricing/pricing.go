// Package pricing suggests fare adjustments from a normalized market state.
//
// The policy is a fixed heuristic over the state's normalized price: high
// fares are cut, mid-range fares held and low fares raised.
package pricing

import (
	"fmt"
	"math"

	"github.com/alex-user-go/voyage/internal/travel"
)

// Action is a discrete price adjustment.
type Action int

const (
	Cut10   Action = 0
	Cut5    Action = 1
	Hold    Action = 2
	Raise5  Action = 3
	Raise10 Action = 4
)

// Policy names the strategy behind every Decision.
const Policy = "heuristic"

// Heuristic thresholds on the normalized price.
const (
	highPrice = 0.7
	midPrice  = 0.55
)

var changes = map[Action]float64{
	Cut10:   -0.10,
	Cut5:    -0.05,
	Hold:    0,
	Raise5:  0.05,
	Raise10: 0.10,
}

// Change returns the relative price change of a, e.g. -0.05 for Cut5.
func (a Action) Change() float64 {
	return changes[a]
}

// State is an observation of the market for one fare:
// [price_norm, demand, days_until_departure]. Only the first element is
// required.
type State []float64

// Decision is the adjustment suggested for a State.
type Decision struct {
	Action      Action  `json:"action"`
	Change      float64 `json:"change"`
	Explanation string  `json:"explanation"`
}

// Decide maps state to an adjustment. A normalized price above 0.7 is cut by
// 5%, above 0.55 held, and anything lower raised by 5%.
func Decide(state State) (Decision, error) {
	if len(state) == 0 {
		return Decision{}, fmt.Errorf("%w: empty state", travel.ErrInvalidInput)
	}
	for i, v := range state {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Decision{}, fmt.Errorf("%w: state[%d] is not a finite number", travel.ErrInvalidInput, i)
		}
	}

	var act Action
	switch priceNorm := state[0]; {
	case priceNorm > highPrice:
		act = Cut5
	case priceNorm > midPrice:
		act = Hold
	default:
		act = Raise5
	}

	return Decision{
		Action:      act,
		Change:      act.Change(),
		Explanation: Policy,
	}, nil
}

// Apply returns price adjusted by d, rounded to the nearest unit.
func (d Decision) Apply(price int) int {
	return int(math.Round(float64(price) * (1 + d.Change)))
}
