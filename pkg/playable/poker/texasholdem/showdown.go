package texasholdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
)

// Winner summarizes what a player won in the last hand
type Winner struct {
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// settle awards every pot to the best hand among the players who contributed to it
// awards holds chips already credited to players, which are included in the winner summary
func (t *Table) settle(awards map[*Player]int) []*playable.LogMessage {
	inHand := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.inHand() {
			inHand = append(inHand, p)
		}
	}

	showdown := len(inHand) > 1
	if showdown && len(t.community) == 5 {
		for _, p := range inHand {
			ranked, err := t.ranker.Rank(append(p.hole.Clone(), t.community...))
			if err != nil {
				t.logger.WithError(err).WithField("seat", p.Seat).Error("could not rank hand")
				continue
			}

			p.handDescription = ranked.Description
		}
	}

	logs := make([]*playable.LogMessage, 0)
	for i, pot := range t.potManager.Pots() {
		potName := "the main pot"
		if i > 0 {
			potName = fmt.Sprintf("side pot #%d", i)
		}

		contestants := make([]*Player, 0, len(inHand))
		for _, p := range inHand {
			if pot.HasContributor(p.id) {
				contestants = append(contestants, p)
			}
		}

		if len(contestants) == 0 {
			t.logger.WithFields(logrus.Fields{
				"hand": t.handNumber,
				"pot":  i,
			}).Error("pot has no contestants")

			if len(inHand) == 0 {
				continue
			}

			contestants = inHand
		}

		winners := t.potWinners(contestants)
		ids := make([]string, len(winners))
		for j, w := range winners {
			ids[j] = w.id
		}

		shares := pot.Split(ids)
		for _, w := range winners {
			share := shares[w.id]
			w.stack += share
			awards[w] += share

			if w.handDescription != "" {
				logs = append(logs, playable.SimpleLogMessage(w.Seat, "{} won %d from %s with %s", share, potName, w.handDescription))
			} else {
				logs = append(logs, playable.SimpleLogMessage(w.Seat, "{} won %d from %s", share, potName))
			}
		}
	}

	t.lastWinners = make([]*Winner, 0, len(awards))
	for _, p := range t.players {
		if amount, ok := awards[p]; ok {
			t.lastWinners = append(t.lastWinners, &Winner{
				Seat:        p.Seat,
				Name:        p.Name,
				Amount:      amount,
				Description: p.handDescription,
			})

			t.logger.WithFields(logrus.Fields{
				"hand":   t.handNumber,
				"seat":   p.Seat,
				"player": p.Name,
				"amount": amount,
			}).Info("player won")
		}
	}

	if showdown {
		for _, p := range inHand {
			p.revealed = true
		}
	}

	t.potManager.Reset()
	return logs
}

// potWinners returns the co-equal best hands among the contestants, in seat order
// If the hands cannot be ranked the pot is split between every contestant
func (t *Table) potWinners(contestants []*Player) []*Player {
	if len(contestants) == 1 {
		return contestants
	}

	hands := make([]deck.Hand, len(contestants))
	for i, p := range contestants {
		hands[i] = append(p.hole.Clone(), t.community...)
	}

	idx, err := t.ranker.Winners(hands)
	if err != nil || len(idx) == 0 {
		t.logger.WithError(err).WithField("hand", t.handNumber).Error("could not determine winners")
		return contestants
	}

	winners := make([]*Player, 0, len(idx))
	for _, i := range idx {
		winners = append(winners, contestants[i])
	}

	return winners
}
