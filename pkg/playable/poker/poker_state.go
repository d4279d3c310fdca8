package poker

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/potmanager"
)

// State provides the current state data for common poker values
type State struct {
	SmallBlind int             `json:"smallBlind"`
	BigBlind   int             `json:"bigBlind"`
	CurrentBet int             `json:"currentBet"`
	MinRaise   int             `json:"minRaise"`
	Pots       potmanager.Pots `json:"pots"`
	Community  deck.Hand       `json:"community"`
}

// PotOdds returns the percentage of the resulting pot a call of toCall would be, to one decimal place
// pending is the sum of all uncollected bets on the table
func (s *State) PotOdds(toCall, pending int) float64 {
	if toCall <= 0 {
		return 0
	}

	total := s.Pots.Total() + pending + toCall
	return float64(int(float64(toCall)/float64(total)*1000+0.5)) / 10
}
