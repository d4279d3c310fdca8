package texasholdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
)

// ApplyAction applies a decision for the player in seat
// amount is the target total bet for the round, and is only used for bets and raises
// A rejected action returns an error and leaves the table untouched
func (t *Table) ApplyAction(seat int, act action.Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.applyAction(seat, act, amount)
}

// Action applies a decision for the named player
func (t *Table) Action(name string, kind string, amount int) error {
	act, err := action.FromString(kind)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByName(name)
	if p == nil {
		return ErrPlayerNotFound
	}

	return t.applyAction(p.Seat, act, amount)
}

// ActionsFor returns the actions the player in seat can currently take
func (t *Table) ActionsFor(seat int) []action.Action {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.actionsFor(t.playerBySeat(seat))
}

func (t *Table) actionsFor(p *Player) []action.Action {
	if p == nil || !t.handInProgress || t.turnSeat != p.Seat || !p.canAct() {
		return nil
	}

	actions := []action.Action{action.Fold}
	if p.bet == t.currentBet {
		actions = append(actions, action.Check)
	} else {
		actions = append(actions, action.Call)
	}

	if p.bet+p.stack > t.currentBet {
		if t.currentBet == 0 {
			actions = append(actions, action.Bet)
		} else {
			actions = append(actions, action.Raise)
		}
	}

	return append(actions, action.AllIn)
}

func (t *Table) applyAction(seat int, act action.Action, amount int) error {
	logger := t.logger.WithFields(logrus.Fields{
		"seat":   seat,
		"action": string(act),
		"amount": amount,
	})

	p, err := t.validateTurn(seat)
	if err != nil {
		logger.WithError(err).Debug("action rejected")
		return err
	}

	logAmount := 0
	switch act {
	case action.Fold:
		t.fold(p)
	case action.Check:
		if p.bet != t.currentBet {
			err = ErrCannotCheck
			break
		}

		p.acted = true
	case action.Call:
		// calling nothing is a check
		logAmount = p.commit(t.currentBet - p.bet)
		p.acted = true
	case action.Bet, action.Raise:
		err = t.raise(p, amount)
		logAmount = amount
	case action.AllIn:
		logAmount = p.bet + p.stack
		if logAmount > t.currentBet {
			err = t.raise(p, logAmount)
			break
		}

		p.commit(p.stack)
		p.acted = true
	default:
		err = ErrUnknownAction
	}

	if err != nil {
		logger.WithError(err).Debug("action rejected")
		return err
	}

	logger.WithField("player", p.Name).Info("player acted")
	t.lastAction = &LastAction{
		Seat:   seat,
		Name:   p.Name,
		Action: string(act),
		Amount: logAmount,
	}

	t.invalidate()
	t.advance(seat, playable.SimpleLogMessageSlice(seat, "{} %s", act.LogMessage(logAmount)))
	return nil
}

func (t *Table) validateTurn(seat int) (*Player, error) {
	if !t.handInProgress {
		return nil, ErrNoHandInProgress
	}

	p := t.playerBySeat(seat)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	if t.turnSeat != seat {
		return nil, ErrNotYourTurn
	}

	if !p.canAct() {
		return nil, ErrPlayerCannotAct
	}

	return p, nil
}

// raise brings the player's bet to target
// A raise must be at least the last raise over the current bet unless it puts the player all-in.
// An all-in above the current bet counts as a raise even when it is short
func (t *Table) raise(p *Player, target int) error {
	increment := target - p.bet
	if increment > p.stack {
		return fmt.Errorf("%w: you can bet at most %d", ErrNotEnoughChips, p.bet+p.stack)
	}

	if target <= t.currentBet {
		return fmt.Errorf("%w: the bet is already %d", ErrRaiseTooSmall, t.currentBet)
	}

	raiseBy := target - t.currentBet
	allIn := increment == p.stack
	if raiseBy < t.minRaise && !allIn {
		return fmt.Errorf("%w: the minimum is %d", ErrRaiseTooSmall, t.currentBet+t.minRaise)
	}

	p.commit(increment)
	p.acted = true
	t.minRaise = raiseBy

	t.currentBet = target
	for _, o := range t.players {
		if o != p && o.canAct() {
			o.acted = false
		}
	}

	return nil
}

func (t *Table) fold(p *Player) {
	p.state = PlayerStateFolded
	p.acted = true

	if t.stage == StagePreflop {
		for _, o := range t.players {
			t.computeEquity(o)
		}
	}
}
