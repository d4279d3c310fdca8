package texasholdem

import (
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/bot"
)

// invalidate cancels every armed timer. A timer that already fired sees a newer generation and does nothing
func (t *Table) invalidate() {
	t.generation++

	for _, timer := range []playable.Timer{t.turnTimer, t.botTimer, t.waitTimer} {
		if timer != nil {
			timer.Stop()
		}
	}

	t.turnTimer = nil
	t.botTimer = nil
	t.waitTimer = nil
}

// setTurn puts the player on the clock
func (t *Table) setTurn(p *Player) {
	t.turnSeat = p.Seat
	gen := t.generation
	seat := p.Seat

	t.turnTimer = t.scheduler.AfterFunc(t.options.TurnTimeout, func() {
		t.onTurnTimeout(gen, seat)
	})

	if p.IsBot {
		t.botTimer = t.scheduler.AfterFunc(t.options.BotDelay, func() {
			t.onBotTurn(gen, seat)
		})
	}

	if t.stage != StagePreflop {
		t.computeEquity(p)
	}
}

// afterSettle publishes the logs and runs fn once the settle delay has passed
func (t *Table) afterSettle(logs []*playable.LogMessage, fn func()) {
	if t.options.SettleDelay == 0 {
		if len(logs) > 0 {
			t.publish(EventState, logs...)
		}

		fn()
		return
	}

	t.publish(EventState, logs...)

	gen := t.generation
	t.waitTimer = t.scheduler.AfterFunc(t.options.SettleDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if gen != t.generation || !t.handInProgress {
			return
		}

		fn()
	})
}

func (t *Table) isCurrent(gen uint64, seat int) bool {
	return gen == t.generation && t.handInProgress && t.turnSeat == seat
}

func (t *Table) onTurnTimeout(gen uint64, seat int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isCurrent(gen, seat) {
		return
	}

	p := t.playerBySeat(seat)
	t.logger.WithFields(logrus.Fields{
		"seat":   seat,
		"player": p.Name,
	}).Info("turn timed out")

	t.lastAction = &LastAction{
		Seat:   seat,
		Name:   p.Name,
		Action: string(action.Fold),
	}

	t.invalidate()
	t.fold(p)
	t.advance(seat, playable.SimpleLogMessageSlice(seat, "{} ran out of time and folded"))
}

func (t *Table) onBotTurn(gen uint64, seat int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isCurrent(gen, seat) {
		return
	}

	p := t.playerBySeat(seat)
	state := t.botState(p)
	d := t.policy.Decide(state)

	logger := t.logger.WithFields(logrus.Fields{
		"seat":    seat,
		"player":  p.Name,
		"equity":  state.Equity,
		"potOdds": state.PotOdds(),
	})
	logger.WithFields(logrus.Fields{
		"action": string(d.Action),
		"amount": d.Amount,
	}).Debug("bot decided")

	if err := t.applyAction(seat, d.Action, d.Amount); err != nil {
		logger.WithError(err).Warn("bot decision rejected")

		fallback := action.Fold
		if p.bet == t.currentBet {
			fallback = action.Check
		}

		if err := t.applyAction(seat, fallback, 0); err != nil {
			logger.WithError(err).Error("bot could not act")
		}
	}
}

func (t *Table) botState(p *Player) bot.State {
	return bot.State{
		Equity:     p.equity,
		Hole:       p.hole,
		Pot:        t.potManager.Total() + t.pendingBets(),
		CurrentBet: t.currentBet,
		PlayerBet:  p.bet,
		Stack:      p.stack,
		MinRaise:   t.minRaise,
	}
}
