package texasholdem

import "errors"

// ActionError is a rejection a player caused and can correct
type ActionError string

func (a ActionError) Error() string {
	return string(a)
}

// rejected actions
const (
	ErrNotYourTurn      = ActionError("it is not your turn")
	ErrPlayerCannotAct  = ActionError("player cannot act")
	ErrCannotCheck      = ActionError("cannot check when facing a bet")
	ErrRaiseTooSmall    = ActionError("raise is too small")
	ErrNotEnoughChips   = ActionError("not enough chips")
	ErrNoHandInProgress = ActionError("no hand is in progress")
	ErrUnknownAction    = ActionError("unknown action")
)

// table errors
var (
	ErrTableFull        = errors.New("table is full")
	ErrNotEnoughPlayers = errors.New("at least two players with chips are required")
	ErrDuplicateName    = errors.New("name is already taken")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidName      = errors.New("name must not be empty")
	ErrInvalidStack     = errors.New("starting stack must be positive")
	ErrHandInProgress   = errors.New("a hand is already in progress")
)
