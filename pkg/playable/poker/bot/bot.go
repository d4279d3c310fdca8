// Package bot picks actions for computer-controlled players
package bot

import (
	"math"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/action"
)

// Rand is the source of randomness used to mix strategies
type Rand interface {
	Float64() float64
}

// State is what a bot knows when it is asked to act
type State struct {
	// Equity is the last computed win percentage. Zero means not computed yet
	Equity     float64
	Hole       deck.Hand
	Pot        int
	CurrentBet int
	PlayerBet  int
	Stack      int
	MinRaise   int
}

// ToCall returns the amount needed to match the current bet
func (s State) ToCall() int {
	if diff := s.CurrentBet - s.PlayerBet; diff > 0 {
		return diff
	}

	return 0
}

// PotOdds returns the percentage of the resulting pot the call would be
func (s State) PotOdds() float64 {
	toCall := s.ToCall()
	if s.Pot+toCall == 0 {
		return 0
	}

	return float64(toCall) / float64(s.Pot+toCall) * 100
}

// MaxTotal is the largest total bet the player can make this round
func (s State) MaxTotal() int {
	return s.Stack + s.PlayerBet
}

// Decision is the action a bot wants to take
// Amount is the target total bet for bets and raises
type Decision struct {
	Action action.Action
	Amount int
}

// Policy is a heuristic that mixes value betting, trapping and bluffing by equity band
type Policy struct {
	rng Rand
}

// New returns a new Policy
func New(rng Rand) *Policy {
	return &Policy{rng: rng}
}

// Decide returns a legal decision for the state
func (p *Policy) Decide(s State) Decision {
	equity := s.Equity
	if equity == 0 {
		equity = HeuristicEquity(s.Hole)
	}

	toCall := s.ToCall()
	roll := p.rng.Float64()

	var d Decision
	switch {
	case equity > 80:
		if roll < 0.20 {
			d = Decision{Action: action.Call}
		} else {
			d = raise(s, 0.85)
		}
	case equity > 60:
		if toCall > 0 && roll < 0.70 {
			d = Decision{Action: action.Call}
		} else {
			d = raise(s, 0.5)
		}
	case equity > 35:
		if equity >= s.PotOdds() {
			if roll < 0.20 {
				d = raise(s, 0.5)
			} else {
				d = Decision{Action: action.Call}
			}
		} else if roll < 0.10 && float64(toCall) < float64(s.Stack)*0.1 {
			d = Decision{Action: action.Call}
		} else {
			d = Decision{Action: action.Fold}
		}
	default:
		if toCall == 0 {
			if roll < 0.15 {
				d = raise(s, 0.33)
			} else {
				d = Decision{Action: action.Check}
			}
		} else if roll < 0.05 && float64(toCall) < float64(s.Stack)*0.2 {
			d = raise(s, 0.75)
		} else {
			d = Decision{Action: action.Fold}
		}
	}

	return clamp(s, d)
}

// raise sizes a raise as a fraction of the pot, at least the minimum raise and at most all-in
func raise(s State, fraction float64) Decision {
	maxTotal := s.MaxTotal()
	minTotal := s.CurrentBet + s.MinRaise

	target := s.CurrentBet + int(math.Floor(float64(s.Pot)*fraction))
	if target < minTotal {
		target = minTotal
	}

	if target >= maxTotal {
		target = maxTotal
	}

	if s.CurrentBet == 0 {
		return Decision{Action: action.Bet, Amount: target}
	}

	return Decision{Action: action.Raise, Amount: target}
}

func clamp(s State, d Decision) Decision {
	toCall := s.ToCall()

	switch d.Action {
	case action.Check:
		if toCall > 0 {
			d.Action = action.Call
		}
	case action.Fold:
		if toCall == 0 {
			d.Action = action.Check
		}
	case action.Bet, action.Raise:
		maxTotal := s.MaxTotal()
		if maxTotal <= s.CurrentBet {
			return Decision{Action: action.Call}
		}

		if d.Amount >= maxTotal {
			return Decision{Action: action.AllIn, Amount: maxTotal}
		}
	}

	if d.Action == action.Call {
		if toCall == 0 {
			d.Action = action.Check
		}

		d.Amount = 0
	}

	return d
}

// HeuristicEquity is a rough starting hand strength used before a real estimate is available
func HeuristicEquity(hole deck.Hand) float64 {
	if len(hole) != 2 {
		return 0
	}

	r1, r2 := hole[0].Rank, hole[1].Rank
	equity := 40 + r1 + r2
	if r1 == r2 {
		equity = 60 + 2*r1
	}

	if equity > 100 {
		equity = 100
	}

	return float64(equity)
}
