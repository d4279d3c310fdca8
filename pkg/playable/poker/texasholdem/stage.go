package texasholdem

import (
	"encoding/json"
)

// Stage is the betting street of the current hand
type Stage int

// constants for Stage
const (
	StagePreflop Stage = iota
	StageFlop
	StageTurn
	StageRiver
)

// cardsToDeal returns how many community cards are dealt when entering the stage
func (s Stage) cardsToDeal() int {
	switch s {
	case StageFlop:
		return 3
	case StageTurn, StageRiver:
		return 1
	}

	return 0
}

func (s Stage) String() string {
	switch s {
	case StagePreflop:
		return "preflop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	}

	return ""
}

// MarshalJSON encodes JSON
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
