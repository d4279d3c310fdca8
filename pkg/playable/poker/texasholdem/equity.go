package texasholdem

import (
	"github.com/sirupsen/logrus"
)

// computeEquity estimates the player's win percentage in the background
// The result is discarded if the player is no longer in the same hand and street when it arrives
func (t *Table) computeEquity(p *Player) {
	if !p.inHand() || len(p.hole) != 2 {
		return
	}

	opponents := t.countInHand() - 1
	if opponents < 1 {
		return
	}

	ctx := t.ctx
	hand := t.handNumber
	id := p.id
	hole := p.hole.Clone()
	board := t.community.Clone()

	t.equityWG.Go(func() {
		pct, err := t.estimator.Estimate(ctx, hole, board, opponents)

		t.mu.Lock()
		defer t.mu.Unlock()

		logger := t.logger.WithFields(logrus.Fields{
			"hand":   hand,
			"player": id,
		})

		if err != nil {
			if ctx.Err() == nil {
				logger.WithError(err).Warn("could not compute equity")
			}

			return
		}

		target := t.playerByID(id)
		if !t.handInProgress || t.handNumber != hand || target == nil || !target.inHand() || len(t.community) != len(board) {
			logger.Debug("discarding stale equity")
			return
		}

		target.equity = pct
		t.publish(EventEquity)
	})
}
