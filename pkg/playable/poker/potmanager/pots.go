package potmanager

import (
	"encoding/json"
	"sort"
)

// Pot is a main pot or side pot
type Pot struct {
	Total         int
	Contributions map[string]int
}

type potJSON struct {
	Total         int            `json:"total"`
	Contributions map[string]int `json:"contributions"`
}

func newPot() *Pot {
	return &Pot{
		Contributions: make(map[string]int),
	}
}

// AddContribution adds chips from a participant
func (p *Pot) AddContribution(id string, amount int) {
	if amount <= 0 {
		return
	}

	p.Contributions[id] += amount
	p.Total += amount
}

// HasContributor returns true if the participant put chips into this pot
func (p *Pot) HasContributor(id string) bool {
	_, ok := p.Contributions[id]
	return ok
}

// Contributors returns the IDs of everyone who contributed, sorted
func (p *Pot) Contributors() []string {
	ids := make([]string, 0, len(p.Contributions))
	for id := range p.Contributions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Split divides the pot evenly between the winners
// winners must be in seat order: any indivisible chips are handed out one at a time starting with the first winner
func (p *Pot) Split(winners []string) map[string]int {
	shares := make(map[string]int, len(winners))
	n := len(winners)
	if n == 0 {
		return shares
	}

	share := p.Total / n
	remainder := p.Total % n
	for i, id := range winners {
		amount := share
		if i < remainder {
			amount++
		}

		shares[id] += amount
	}

	return shares
}

// Clone returns a deep copy of the pot
func (p *Pot) Clone() *Pot {
	cp := &Pot{
		Total:         p.Total,
		Contributions: make(map[string]int, len(p.Contributions)),
	}

	for id, amount := range p.Contributions {
		cp.Contributions[id] = amount
	}

	return cp
}

// MarshalJSON provides custom marshalling
func (p Pot) MarshalJSON() ([]byte, error) {
	return json.Marshal(potJSON{
		Total:         p.Total,
		Contributions: p.Contributions,
	})
}

// Pots is a collection of pots, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Total
	}

	return total
}

// Clone returns a deep copy of the pots
func (p Pots) Clone() Pots {
	cp := make(Pots, len(p))
	for i, pot := range p {
		cp[i] = pot.Clone()
	}

	return cp
}
