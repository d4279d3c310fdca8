package texasholdem

import (
	"time"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker"
	"holdem-server/pkg/playable/poker/action"
)

// PlayerView is the public state of a player
type PlayerView struct {
	ID              string          `json:"id"`
	Seat            int             `json:"seat"`
	Name            string          `json:"name"`
	IsBot           bool            `json:"isBot"`
	Stack           int             `json:"stack"`
	Hand            deck.Hand       `json:"hand"`
	State           PlayerState     `json:"state"`
	CurrentBet      int             `json:"currentBet"`
	IsAllIn         bool            `json:"isAllIn"`
	ActedThisRound  bool            `json:"actedThisRound"`
	Equity          float64         `json:"equity"`
	PotOdds         float64         `json:"potOdds"`
	HandDescription string          `json:"handDescription,omitempty"`
	Revealed        bool            `json:"revealed"`
	KickPending     bool            `json:"kickPending"`
	Actions         []action.Action `json:"actions,omitempty"`
}

// State is a copy of the table state
type State struct {
	TableID string        `json:"tableId"`
	Players []*PlayerView `json:"players"`
	poker.State
	TurnSeat       int         `json:"turnSeat"`
	ButtonSeat     int         `json:"buttonSeat"`
	Stage          Stage       `json:"stage"`
	HandInProgress bool        `json:"handInProgress"`
	HandNumber     int         `json:"handNumber"`
	GameOver       bool        `json:"gameOver"`
	LastAction     *LastAction `json:"lastAction"`
	LastWinners    []*Winner   `json:"lastWinners"`
}

// Snapshot is an exportable state with the time it was taken
type Snapshot struct {
	State
	Timestamp time.Time `json:"timestamp"`
}

// State returns the unmasked table state
func (t *Table) State() *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state()
}

// Snapshot returns the unmasked table state with a timestamp
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return &Snapshot{
		State:     *t.state(),
		Timestamp: time.Now(),
	}
}

func (t *Table) state() *State {
	ps := &poker.State{
		SmallBlind: t.options.SmallBlind,
		BigBlind:   t.options.BigBlind,
		CurrentBet: t.currentBet,
		MinRaise:   t.minRaise,
		Pots:       t.potManager.Pots().Clone(),
		Community:  t.community.Clone(),
	}

	pending := t.pendingBets()
	players := make([]*PlayerView, len(t.players))
	for i, p := range t.players {
		toCall := 0
		if p.inHand() && t.currentBet > p.bet {
			toCall = t.currentBet - p.bet
		}

		players[i] = &PlayerView{
			ID:              p.id,
			Seat:            p.Seat,
			Name:            p.Name,
			IsBot:           p.IsBot,
			Stack:           p.stack,
			Hand:            p.hole.Clone(),
			State:           p.state,
			CurrentBet:      p.bet,
			IsAllIn:         p.allIn,
			ActedThisRound:  p.acted,
			Equity:          p.equity,
			PotOdds:         ps.PotOdds(toCall, pending),
			HandDescription: p.handDescription,
			Revealed:        p.revealed,
			KickPending:     p.kickPending,
			Actions:         t.actionsFor(p),
		}
	}

	var winners []*Winner
	if t.lastWinners != nil {
		winners = make([]*Winner, len(t.lastWinners))
		for i, w := range t.lastWinners {
			cp := *w
			winners[i] = &cp
		}
	}

	var last *LastAction
	if t.lastAction != nil {
		cp := *t.lastAction
		last = &cp
	}

	return &State{
		TableID:        t.ID,
		Players:        players,
		State:          *ps,
		TurnSeat:       t.turnSeat,
		ButtonSeat:     t.buttonSeat,
		Stage:          t.stage,
		HandInProgress: t.handInProgress,
		HandNumber:     t.handNumber,
		GameOver:       t.gameOver,
		LastAction:     last,
		LastWinners:    winners,
	}
}

// Player returns the view of the player in seat
func (s *State) Player(seat int) *PlayerView {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p
		}
	}

	return nil
}

// MaskedFor returns a copy of the state with other players' hole cards hidden
// Cards shown at showdown stay visible. Equity is private to each player
func (s *State) MaskedFor(seat int) *State {
	masked := *s
	masked.Players = make([]*PlayerView, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		if cp.Seat != seat {
			cp.Equity = 0
			cp.Actions = nil
			if !cp.Revealed {
				cp.Hand = nil
			}
		}

		masked.Players[i] = &cp
	}

	return &masked
}

// ChipsInPlay returns every chip at the table: stacks, current bets and pots
func (s *State) ChipsInPlay() int {
	total := s.Pots.Total()
	for _, p := range s.Players {
		total += p.Stack + p.CurrentBet
	}

	return total
}
