package potmanager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/snapshot"
)

type testParticipant struct {
	id      string
	balance int
	active  bool
}

func (t *testParticipant) ID() string {
	return t.id
}

func (t *testParticipant) IsActive() bool {
	return t.active
}

func (t *testParticipant) AdjustBalance(amount int) {
	t.balance += amount
}

func newTestParticipant(id int) *testParticipant {
	return &testParticipant{
		id:     fmt.Sprintf("p%d", id),
		active: true,
	}
}

func contributions(amounts ...int) ([]*testParticipant, []Contribution) {
	participants := make([]*testParticipant, len(amounts))
	c := make([]Contribution, len(amounts))
	for i, amount := range amounts {
		participants[i] = newTestParticipant(i + 1)
		c[i] = Contribution{Participant: participants[i], Amount: amount}
	}

	return participants, c
}

func TestPotManager_Collect_singlePot(t *testing.T) {
	a := assert.New(t)

	_, c := contributions(20, 20, 20, 20)
	pm := New()
	a.Empty(pm.Collect(c))

	a.Equal(1, len(pm.Pots()))
	a.Equal(80, pm.Total())
	a.Equal([]string{"p1", "p2", "p3", "p4"}, pm.Pots()[0].Contributors())
}

func TestPotManager_Collect_allInCalled(t *testing.T) {
	a := assert.New(t)

	// stacks of 100, 1000 and 500: all-in, all-in, call
	ps, c := contributions(100, 1000, 500)
	pm := New()
	refunds := pm.Collect(c)

	pots := pm.Pots()
	a.Equal(2, len(pots))
	a.Equal(300, pots[0].Total)
	a.Equal(800, pots[1].Total)
	a.False(pots[1].HasContributor("p1"))
	snapshot.ValidateSnapshot(t, pots)

	a.Equal([]Refund{{Participant: ps[1], Amount: 500}}, refunds)
	a.Equal(500, ps[1].balance)
}

func TestPotManager_Collect_allInThenFold(t *testing.T) {
	a := assert.New(t)

	// big blind of 10 from p3, who then folds to the all-ins
	ps, c := contributions(100, 1000, 10)
	ps[2].active = false

	pm := New()
	refunds := pm.Collect(c)

	a.Equal(1, len(pm.Pots()))
	a.Equal(210, pm.Total())
	a.Equal(1, len(refunds))
	a.Equal(900, ps[1].balance)
}

func TestPotManager_Collect_uncalledBet(t *testing.T) {
	a := assert.New(t)

	// p1 bets 50 and everyone else folds
	ps, c := contributions(50, 10, 5)
	ps[1].active = false
	ps[2].active = false

	pm := New()
	refunds := pm.Collect(c)

	a.Equal(0, len(pm.Pots()))
	a.Equal([]Refund{{Participant: ps[0], Amount: 65}}, refunds)
	a.Equal(65, ps[0].balance)
}

func TestPotManager_Collect_deadMoneyAboveActive(t *testing.T) {
	a := assert.New(t)

	// p1 bet 100 and left. p2 went all-in for 30 and p3 called 30
	ps, c := contributions(100, 30, 30)
	ps[0].active = false

	pm := New()
	a.Empty(pm.Collect(c))

	a.Equal(1, len(pm.Pots()))
	a.Equal(160, pm.Total())
	a.Equal(100, pm.Pots()[0].Contributions["p1"])
}

func TestPotManager_Collect_deadMoneyToLastPlayer(t *testing.T) {
	a := assert.New(t)

	// the big blind leaves and the small blind is the only player left
	ps, c := contributions(5, 10)
	ps[1].active = false

	pm := New()
	refunds := pm.Collect(c)

	a.Equal(0, len(pm.Pots()))
	a.Equal([]Refund{{Participant: ps[0], Amount: 15}}, refunds)
	a.Equal(15, ps[0].balance)
}

func TestPotManager_Collect_deadMoneyToEarlierPot(t *testing.T) {
	a := assert.New(t)

	ps, c := contributions(50, 50, 50)
	pm := New()
	a.Empty(pm.Collect(c))

	// p2 and p3 are all-in. p1 bets and then leaves
	ps[0].active = false
	a.Empty(pm.Collect([]Contribution{
		{Participant: ps[0], Amount: 40},
		{Participant: ps[1], Amount: 0},
		{Participant: ps[2], Amount: 0},
	}))

	a.Equal(1, len(pm.Pots()))
	a.Equal(190, pm.Total())
}

func TestPotManager_Collect_layersAcrossRounds(t *testing.T) {
	a := assert.New(t)

	ps, c := contributions(100, 300, 300)
	pm := New()
	a.Empty(pm.Collect(c))
	a.Equal(2, len(pm.Pots()))

	// next street: p1 is all-in and contributes nothing
	a.Empty(pm.Collect([]Contribution{
		{Participant: ps[0], Amount: 0},
		{Participant: ps[1], Amount: 50},
		{Participant: ps[2], Amount: 50},
	}))

	pots := pm.Pots()
	a.Equal(3, len(pots))
	a.Equal(300, pots[0].Total)
	a.Equal(400, pots[1].Total)
	a.Equal(100, pots[2].Total)
	a.Equal(200, pots[1].Contributions["p2"])
	a.Equal(50, pots[2].Contributions["p2"])
	a.False(pots[2].HasContributor("p1"))
	a.Equal(800, pm.Total())

	pm.Reset()
	a.Equal(0, pm.Total())
}

func TestPotManager_Collect_checkedAround(t *testing.T) {
	a := assert.New(t)

	_, c := contributions(0, 0, 0)
	pm := New()
	a.Empty(pm.Collect(c))
	a.Equal(0, len(pm.Pots()))
}

func TestPot_Split(t *testing.T) {
	a := assert.New(t)

	pot := newPot()
	pot.AddContribution("p1", 50)
	pot.AddContribution("p2", 50)
	a.Equal(map[string]int{"p1": 50, "p2": 50}, pot.Split([]string{"p1", "p2"}))

	pot = newPot()
	pot.AddContribution("p1", 40)
	pot.AddContribution("p2", 30)
	pot.AddContribution("p3", 30)
	a.Equal(map[string]int{"p1": 34, "p2": 33, "p3": 33}, pot.Split([]string{"p1", "p2", "p3"}))
	a.Equal(map[string]int{"p3": 34, "p1": 33, "p2": 33}, pot.Split([]string{"p3", "p1", "p2"}))

	a.Empty(pot.Split(nil))
}

func TestPots_Total(t *testing.T) {
	a := assert.New(t)

	p1 := newPot()
	p1.AddContribution("a", 10)
	p1.AddContribution("b", 0)
	p2 := newPot()
	p2.AddContribution("a", 15)

	pots := Pots{p1, p2}
	a.Equal(25, pots.Total())
	a.False(p1.HasContributor("b"))

	cp := pots.Clone()
	cp[0].AddContribution("c", 5)
	a.Equal(25, pots.Total())
	a.Equal(30, cp.Total())
}
