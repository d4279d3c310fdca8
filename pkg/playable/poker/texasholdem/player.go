package texasholdem

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"holdem-server/pkg/deck"
)

// PlayerState is the lifecycle state of a player
type PlayerState int

// constants for PlayerState
const (
	// PlayerStateWaiting joined while a hand was in progress
	PlayerStateWaiting PlayerState = iota
	// PlayerStateReady is seated and no hand is in progress
	PlayerStateReady
	// PlayerStateInGame is dealt into the current hand
	PlayerStateInGame
	PlayerStateFolded
	// PlayerStateSittingOut has no chips
	PlayerStateSittingOut
	// PlayerStateLeft departed and is removed at the next hand start
	PlayerStateLeft
	PlayerStateOffline
)

func (p PlayerState) String() string {
	switch p {
	case PlayerStateWaiting:
		return "WAITING"
	case PlayerStateReady:
		return "READY"
	case PlayerStateInGame:
		return "IN_GAME"
	case PlayerStateFolded:
		return "FOLDED"
	case PlayerStateSittingOut:
		return "SITTING_OUT"
	case PlayerStateLeft:
		return "LEFT"
	case PlayerStateOffline:
		return "OFFLINE"
	}

	panic(fmt.Sprintf("unknown player state: %d", int(p)))
}

// MarshalJSON encodes the state as its name
func (p PlayerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Player is a seated player
type Player struct {
	id    string
	Seat  int
	Name  string
	IsBot bool

	stack int
	bet   int
	hole  deck.Hand
	state PlayerState

	allIn  bool
	acted  bool
	equity float64

	// kickPending removes the player at the next hand start
	kickPending bool

	handDescription string
	// revealed is set when the hole cards were shown at showdown
	revealed bool
}

func newPlayer(seat int, name string, stack int, isBot bool) *Player {
	return &Player{
		id:    uuid.New().String(),
		Seat:  seat,
		Name:  name,
		IsBot: isBot,
		stack: stack,
		state: PlayerStateReady,
	}
}

// Stack returns the chips the player has behind
func (p *Player) Stack() int {
	return p.stack
}

// Bet returns the chips committed this betting round
func (p *Player) Bet() int {
	return p.bet
}

// State returns the player's lifecycle state
func (p *Player) State() PlayerState {
	return p.state
}

// Hole returns the player's hole cards
func (p *Player) Hole() deck.Hand {
	return p.hole
}

// commit moves chips from the stack to the current bet
// The amount is capped by the stack, and the player is all-in once the stack is empty
func (p *Player) commit(amount int) int {
	if amount > p.stack {
		amount = p.stack
	}

	p.stack -= amount
	p.bet += amount
	if p.stack == 0 {
		p.allIn = true
	}

	return amount
}

// canAct returns true if the player can still make decisions this hand
func (p *Player) canAct() bool {
	return p.state == PlayerStateInGame && !p.allIn && p.stack > 0
}

// needsToAct returns true if the player still owes a decision in the current round
func (p *Player) needsToAct(currentBet int) bool {
	return p.canAct() && (!p.acted || p.bet < currentBet)
}

func (p *Player) inHand() bool {
	return p.state == PlayerStateInGame
}

// resetForHand clears every per-hand field
func (p *Player) resetForHand() {
	p.bet = 0
	p.hole = make(deck.Hand, 0, 2)
	p.allIn = false
	p.acted = false
	p.equity = 0
	p.handDescription = ""
	p.revealed = false
}

// potmanager.Participant interface

// ID returns the player's unique id
func (p *Player) ID() string {
	return p.id
}

// IsActive returns true while the player can win chips this hand
func (p *Player) IsActive() bool {
	return p.inHand()
}

// AdjustBalance adds chips to the stack
func (p *Player) AdjustBalance(amount int) {
	p.stack += amount
}
