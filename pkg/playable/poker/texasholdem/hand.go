package texasholdem

import (
	"github.com/sirupsen/logrus"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/potmanager"
)

// StartHand deals a new hand
// Returns false if a hand is already in progress or fewer than two players have chips
func (t *Table) StartHand() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.startHand()
}

func (t *Table) startHand() bool {
	if t.handInProgress {
		return false
	}

	t.invalidate()
	t.purge()

	funded := 0
	for _, p := range t.players {
		p.resetForHand()
		switch {
		case p.state == PlayerStateOffline:
		case p.stack == 0:
			p.state = PlayerStateSittingOut
		default:
			p.state = PlayerStateInGame
			funded++
		}
	}

	if funded < 2 {
		for _, p := range t.players {
			if p.state == PlayerStateInGame {
				p.state = PlayerStateReady
			}
		}

		t.logger.WithField("players", funded).Info("not enough players to start a hand")
		t.gameOver = true
		t.publish(EventGameOver, playable.SimpleLogMessage(-1, "Game over: not enough players with chips"))
		return false
	}

	t.gameOver = false
	t.handInProgress = true
	t.handNumber++
	t.stage = StagePreflop
	t.community = make(deck.Hand, 0, 5)
	t.potManager.Reset()
	t.lastAction = nil
	t.lastWinners = nil
	t.currentBet = 0
	t.minRaise = t.options.BigBlind
	t.turnSeat = -1

	for _, p := range t.playersAfter(t.buttonSeat) {
		if p.inHand() {
			t.buttonSeat = p.Seat
			break
		}
	}

	t.deck.Reset()
	t.deck.Shuffle()

	logger := t.logger.WithFields(logrus.Fields{
		"hand":   t.handNumber,
		"button": t.buttonSeat,
	})
	logger.Info("starting hand")

	order := t.inHandAfter(t.buttonSeat)
	sb, bb := order[0], order[1]
	if len(order) == 2 {
		// heads-up: the button posts the small blind
		sb, bb = order[1], order[0]
	}

	logs := []*playable.LogMessage{
		playable.SimpleLogMessage(-1, "Hand #%d", t.handNumber),
		playable.SimpleLogMessage(sb.Seat, "{} posted the small blind of %d", sb.commit(t.options.SmallBlind)),
		playable.SimpleLogMessage(bb.Seat, "{} posted the big blind of %d", bb.commit(t.options.BigBlind)),
	}
	t.currentBet = t.options.BigBlind

	if err := t.dealHoleCards(); err != nil {
		t.abortHand(err)
		return false
	}

	for _, p := range t.players {
		t.computeEquity(p)
	}

	t.advance(bb.Seat, logs)
	return true
}

// purge removes players who left or were kicked
func (t *Table) purge() {
	kept := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.state == PlayerStateLeft || p.kickPending {
			t.logger.WithFields(logrus.Fields{
				"seat":   p.Seat,
				"player": p.Name,
			}).Info("removing player")
			continue
		}

		kept = append(kept, p)
	}

	t.players = kept
}

// inHandAfter returns the players in the hand, starting with the first seat after seat
func (t *Table) inHandAfter(seat int) []*Player {
	players := make([]*Player, 0, len(t.players))
	for _, p := range t.playersAfter(seat) {
		if p.inHand() {
			players = append(players, p)
		}
	}

	return players
}

func (t *Table) dealHoleCards() error {
	for i := 0; i < 2; i++ {
		for _, p := range t.players {
			if !p.inHand() {
				continue
			}

			card, err := t.deck.Draw()
			if err != nil {
				return err
			}

			p.hole.AddCard(card)
		}
	}

	return nil
}

func (t *Table) dealCommunity(n int) error {
	for i := 0; i < n; i++ {
		card, err := t.deck.Draw()
		if err != nil {
			return err
		}

		t.community.AddCard(card)
	}

	return nil
}

// advance moves the hand forward after the decision made at seat
func (t *Table) advance(seat int, logs []*playable.LogMessage) {
	if t.countInHand() < 2 {
		t.finishHand(logs)
		return
	}

	if t.roundComplete() {
		t.completeRound(logs)
		return
	}

	t.setTurn(t.nextToAct(seat))
	t.publish(EventState, logs...)
}

// roundComplete returns true once everyone who can act has acted and matched the current bet
func (t *Table) roundComplete() bool {
	for _, p := range t.players {
		if p.needsToAct(t.currentBet) {
			return false
		}
	}

	return true
}

func (t *Table) nextToAct(seat int) *Player {
	for _, p := range t.playersAfter(seat) {
		if p.needsToAct(t.currentBet) {
			return p
		}
	}

	return nil
}

// completeRound collects the bets and moves on to the next street or the showdown
func (t *Table) completeRound(logs []*playable.LogMessage) {
	logs = append(logs, refundLogs(t.collectBets(), "{} took back %d uncalled")...)
	t.turnSeat = -1

	if t.stage == StageRiver {
		t.finishHand(logs)
		return
	}

	runOut := t.countCanAct() <= 1
	t.afterSettle(logs, func() {
		t.nextStreet(runOut)
	})
}

// nextStreet deals the next street. When running out the board, every remaining street is dealt and the hand is settled
func (t *Table) nextStreet(runOut bool) {
	var logs []*playable.LogMessage
	for {
		t.stage++
		if err := t.dealCommunity(t.stage.cardsToDeal()); err != nil {
			t.abortHand(err)
			return
		}

		t.logger.WithFields(logrus.Fields{
			"hand":      t.handNumber,
			"stage":     t.stage.String(),
			"community": t.community.String(),
		}).Info("dealt street")
		logs = append(logs, playable.SimpleLogMessage(-1, "%s: %s", t.stage.String(), t.community.String()))

		if !runOut {
			break
		}

		if t.stage == StageRiver {
			t.finishHand(logs)
			return
		}
	}

	t.currentBet = 0
	t.minRaise = t.options.BigBlind
	for _, p := range t.players {
		p.acted = false
	}

	next := t.nextToAct(t.buttonSeat)
	if next == nil {
		t.completeRound(logs)
		return
	}

	t.setTurn(next)
	t.publish(EventState, logs...)
}

// collectBets moves every outstanding bet into the pots and returns uncalled chips
func (t *Table) collectBets() []potmanager.Refund {
	contributions := make([]potmanager.Contribution, 0, len(t.players))
	for _, p := range t.players {
		if p.bet > 0 || p.inHand() {
			contributions = append(contributions, potmanager.Contribution{
				Participant: p,
				Amount:      p.bet,
			})
		}
	}

	refunds := t.potManager.Collect(contributions)

	for _, p := range t.players {
		p.bet = 0
		if p.inHand() {
			p.allIn = p.stack == 0
		}
	}

	return refunds
}

func refundLogs(refunds []potmanager.Refund, format string) []*playable.LogMessage {
	logs := make([]*playable.LogMessage, 0, len(refunds))
	for _, r := range refunds {
		p := r.Participant.(*Player)
		logs = append(logs, playable.SimpleLogMessage(p.Seat, format, r.Amount))
	}

	return logs
}

// finishHand settles every pot and ends the hand
// When everyone else folded, the chips returned to the last player count as winnings
func (t *Table) finishHand(logs []*playable.LogMessage) {
	t.invalidate()
	t.turnSeat = -1

	refunds := t.collectBets()
	won := make(map[*Player]int)
	if t.countInHand() == 1 {
		for _, r := range refunds {
			won[r.Participant.(*Player)] += r.Amount
		}

		logs = append(logs, refundLogs(refunds, "{} won %d")...)
	} else {
		logs = append(logs, refundLogs(refunds, "{} took back %d uncalled")...)
	}

	logs = append(logs, t.settle(won)...)
	t.endHand(logs)
}

// abortHand returns every chip committed this hand to its owner
func (t *Table) abortHand(err error) {
	t.logger.WithError(err).WithField("hand", t.handNumber).Error("aborting hand")
	t.invalidate()

	for _, pot := range t.potManager.Pots() {
		for id, amount := range pot.Contributions {
			if p := t.playerByID(id); p != nil {
				p.stack += amount
			}
		}
	}

	for _, p := range t.players {
		p.stack += p.bet
		p.bet = 0
	}

	t.potManager.Reset()
	t.turnSeat = -1
	t.endHand(playable.SimpleLogMessageSlice(-1, "The hand was cancelled and all bets were returned"))
}

func (t *Table) endHand(logs []*playable.LogMessage) {
	for _, p := range t.players {
		switch p.state {
		case PlayerStateInGame, PlayerStateFolded, PlayerStateWaiting, PlayerStateSittingOut:
			if p.stack == 0 {
				p.state = PlayerStateLeft
				p.kickPending = true
				logs = append(logs, playable.SimpleLogMessage(p.Seat, "{} is out of chips"))
				continue
			}

			p.state = PlayerStateReady
		}
	}

	t.handInProgress = false
	t.turnSeat = -1
	t.currentBet = 0

	t.logger.WithField("hand", t.handNumber).Info("hand finished")
	t.publish(EventHandEnded, logs...)

	if t.countFunded() < 2 {
		t.gameOver = true
		t.publish(EventGameOver, playable.SimpleLogMessage(-1, "Game over"))
		return
	}

	if t.options.AutoStart {
		gen := t.generation
		t.waitTimer = t.scheduler.AfterFunc(t.options.SettleDelay, func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			if gen != t.generation {
				return
			}

			t.startHand()
		})
	}
}

func (t *Table) countFunded() int {
	n := 0
	for _, p := range t.players {
		if (p.state == PlayerStateReady || p.state == PlayerStateWaiting) && p.stack > 0 {
			n++
		}
	}

	return n
}

func (t *Table) playerByID(id string) *Player {
	for _, p := range t.players {
		if p.id == id {
			return p
		}
	}

	return nil
}
