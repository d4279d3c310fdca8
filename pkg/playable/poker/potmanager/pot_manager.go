package potmanager

// PotManager collects betting-round contributions into a main pot and side pots
type PotManager struct {
	pots Pots
}

// New instantiates a new PotManager
func New() *PotManager {
	return &PotManager{
		pots: make(Pots, 0),
	}
}

// Reset removes all pots. It must be called at the start of every hand
func (p *PotManager) Reset() {
	p.pots = make(Pots, 0)
}

// Pots returns the pots in creation order (main pot first)
func (p *PotManager) Pots() Pots {
	return p.pots
}

// Total returns the amount in all pots
func (p *PotManager) Total() int {
	return p.pots.Total()
}

// Collect carves a finished betting round into pot layers
//
// Each pass takes the smallest remaining contribution among active participants as the cap
// and moves up to that cap from every contributor into a new layer. Contested layers are appended
// as pots after those of earlier rounds, even when the same players are eligible. A layer with a
// single active contributor is not contested and is returned to that participant. Chips folded
// players put in above every active contribution are dead money and follow the last layer.
func (p *PotManager) Collect(contributions []Contribution) []Refund {
	remaining := make([]int, len(contributions))
	for i, c := range contributions {
		remaining[i] = c.Amount
	}

	refunds := make([]Refund, 0)
	var lastLayer *Pot
	lastRefund := -1
	for {
		layerCap := 0
		for i, c := range contributions {
			if remaining[i] > 0 && c.Participant.IsActive() && (layerCap == 0 || remaining[i] < layerCap) {
				layerCap = remaining[i]
			}
		}

		if layerCap == 0 {
			break
		}

		layer := newPot()
		var contested []Participant
		for i, c := range contributions {
			if remaining[i] <= 0 {
				continue
			}

			pay := remaining[i]
			if pay > layerCap {
				pay = layerCap
			}

			layer.AddContribution(c.Participant.ID(), pay)
			remaining[i] -= pay

			if c.Participant.IsActive() {
				contested = append(contested, c.Participant)
			}
		}

		if len(contested) == 1 {
			contested[0].AdjustBalance(layer.Total)
			refunds = append(refunds, Refund{Participant: contested[0], Amount: layer.Total})
			lastRefund = len(refunds) - 1
			lastLayer = nil
			continue
		}

		p.pots = append(p.pots, layer)
		lastLayer = layer
		lastRefund = -1
	}

	for i, c := range contributions {
		dead := remaining[i]
		if dead <= 0 {
			continue
		}

		switch {
		case lastRefund >= 0:
			refunds[lastRefund].Participant.AdjustBalance(dead)
			refunds[lastRefund].Amount += dead
		case lastLayer != nil:
			lastLayer.AddContribution(c.Participant.ID(), dead)
		case len(p.pots) > 0:
			p.pots[len(p.pots)-1].AddContribution(c.Participant.ID(), dead)
		default:
			c.Participant.AdjustBalance(dead)
			refunds = append(refunds, Refund{Participant: c.Participant, Amount: dead})
		}
	}

	return refunds
}
