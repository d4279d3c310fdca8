package texasholdem

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/playable/poker/action"
)

func TestNewTable_invalidOptions(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.BigBlind = 2
	table, err := NewTable(logrus.StandardLogger(), opts)
	a.EqualError(err, "big blind must be at least the small blind")
	a.Nil(table)

	opts = DefaultOptions()
	opts.MaxPlayers = 1
	_, err = NewTable(logrus.StandardLogger(), opts)
	a.Error(err)
}

func TestTable_StartHand_headsUp(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)

	a.True(table.StartHand())
	a.False(table.StartHand(), "hand already in progress")

	s := table.State()
	a.True(s.HandInProgress)
	a.Equal(StagePreflop, s.Stage)
	a.Equal(0, s.ButtonSeat)
	a.Equal(0, s.TurnSeat, "button posts the small blind and acts first")
	a.Equal(5, s.Player(0).CurrentBet)
	a.Equal(10, s.Player(1).CurrentBet)
	a.Equal([]int{995, 990}, stacks(s))
	a.Equal(10, s.CurrentBet)
	a.Equal(10, s.MinRaise)
	a.Len(s.Player(0).Hand, 2)
	a.Len(s.Player(1).Hand, 2)
	a.Equal(PlayerStateInGame, s.Player(0).State)
	a.Equal([]action.Action{action.Fold, action.Call, action.Raise, action.AllIn}, s.Player(0).Actions)
	a.Nil(s.Player(1).Actions)
	assertChips(t, table, 2000)
}

func TestTable_StartHand_threePlayers(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000, 1000)

	a.True(table.StartHand())
	s := table.State()
	a.Equal(0, s.ButtonSeat)
	a.Equal(0, s.Player(0).CurrentBet)
	a.Equal(5, s.Player(1).CurrentBet)
	a.Equal(10, s.Player(2).CurrentBet)
	a.Equal(0, s.TurnSeat)
}

func TestTable_StartHand_buttonMoves(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)

	a.True(table.StartHand())
	assertAction(t, table, 0, action.Fold)

	s := table.State()
	a.False(s.HandInProgress)
	a.Equal([]int{995, 1005}, stacks(s))
	a.Equal([]*Winner{{Seat: 1, Name: "p1", Amount: 15}}, s.LastWinners)
	a.True(table.hasEvent(EventHandEnded))

	a.True(table.StartHand())
	s = table.State()
	a.Equal(1, s.ButtonSeat)
	a.Equal(1, s.TurnSeat)
	a.Equal(5, s.Player(1).CurrentBet)
	a.Equal(10, s.Player(0).CurrentBet)
}

func TestTable_raiseAndCall(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Raise, 40)
	s := table.State()
	a.Equal(40, s.CurrentBet)
	a.Equal(30, s.MinRaise)
	assertTurn(t, table, 1)

	assertAction(t, table, 1, action.Call)
	s = table.State()
	a.Equal([]int{80}, potTotals(s))
	a.Equal(0, s.Player(0).CurrentBet)
	a.Equal(0, s.Player(1).CurrentBet)
	a.Equal(StageFlop, s.Stage)
	a.Len(s.Community, 3)
	a.Equal(0, s.CurrentBet)
	a.Equal(10, s.MinRaise)
	a.Equal(1, s.TurnSeat, "first seat after the button acts first after the flop")
	assertChips(t, table, 2000)
}

func TestTable_reraises(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Raise, 40)
	a.Equal(30, table.State().MinRaise)

	assertAction(t, table, 1, action.Raise, 120)
	a.Equal(80, table.State().MinRaise)

	a.True(errors.Is(table.ApplyAction(0, action.Raise, 150), ErrRaiseTooSmall))
	assertAction(t, table, 0, action.Raise, 300)
	a.Equal(180, table.State().MinRaise)

	assertAction(t, table, 1, action.Call)
	s := table.State()
	a.Equal([]int{600}, potTotals(s))
	a.Equal(StageFlop, s.Stage)
}

func TestTable_rejectedActions(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)

	a.Equal(ErrNoHandInProgress, table.ApplyAction(0, action.Check, 0))
	a.True(table.StartHand())
	table.WaitForEquity()

	before := table.State()
	a.Equal(ErrNotYourTurn, table.ApplyAction(1, action.Check, 0))
	a.Equal(ErrCannotCheck, table.ApplyAction(0, action.Check, 0))
	a.True(errors.Is(table.ApplyAction(0, action.Raise, 15), ErrRaiseTooSmall))
	a.True(errors.Is(table.ApplyAction(0, action.Raise, 10), ErrRaiseTooSmall))
	a.True(errors.Is(table.ApplyAction(0, action.Raise, 2000), ErrNotEnoughChips))
	a.Equal(ErrPlayerNotFound, table.ApplyAction(7, action.Fold, 0))
	a.True(errors.Is(table.Action("p0", "dance", 0), ErrUnknownAction))
	a.Equal(ErrPlayerNotFound, table.Action("nobody", "fold", 0))
	a.Equal(before, table.State())

	assertAction(t, table, 0, action.Call)
	a.NoError(table.Action("p1", "CHECK", 0))
	a.Equal(StageFlop, table.State().Stage)
}

func TestTable_callWithNothingOwed(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Call)
	assertAction(t, table, 1, action.Call)

	s := table.State()
	a.Equal(StageFlop, s.Stage)
	a.Equal([]int{990, 990}, stacks(s))
	a.Equal([]int{20}, potTotals(s))
	a.Equal("call", s.LastAction.Action)
	a.Equal(0, s.LastAction.Amount)
	assertTurn(t, table, 1)
}

func TestTable_checkedDown(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), riggedDeck("Ks,9h,7c,4d,Jh", "As,Ad", "2c,3d"), 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Call)
	assertAction(t, table, 1, action.Check)
	for _, stage := range []Stage{StageFlop, StageTurn, StageRiver} {
		a.Equal(stage, table.State().Stage)
		assertAction(t, table, 1, action.Check)
		assertAction(t, table, 0, action.Check)
	}

	s := table.State()
	a.False(s.HandInProgress)
	a.Equal([]int{1010, 990}, stacks(s))
	a.Len(s.LastWinners, 1)
	a.Equal("p0", s.LastWinners[0].Name)
	a.Equal(20, s.LastWinners[0].Amount)
	a.NotEmpty(s.LastWinners[0].Description)
	a.True(s.Player(1).Revealed)
	a.Empty(s.Pots)
}

func TestTable_sidePots_allInCalled(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, slowOptions(), nil, 100, 1000, 500)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.AllIn)
	assertAction(t, table, 1, action.AllIn)
	assertAction(t, table, 2, action.Call)

	s := table.State()
	a.Equal([]int{300, 800}, potTotals(s))
	a.Equal([]int{0, 500, 0}, stacks(s))
	a.False(s.Pots[1].HasContributor(s.Player(0).ID))
	a.Len(s.Pots[1].Contributions, 2)
	a.Equal(-1, s.TurnSeat)
	assertChips(t, table, 1600)

	// the board is run out once the settle delay passes
	a.Equal(1, table.scheduler.Advance(slowOptions().SettleDelay))
	s = table.State()
	a.False(s.HandInProgress)
	a.Len(s.Community, 5)
	a.Equal(1600, s.ChipsInPlay())
}

func TestTable_sidePots_allInThenFold(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, slowOptions(), nil, 100, 1000, 500)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.AllIn)
	assertAction(t, table, 1, action.AllIn)
	assertAction(t, table, 2, action.Fold)

	s := table.State()
	a.Equal([]int{210}, potTotals(s))
	a.Equal([]int{0, 900, 490}, stacks(s))
	assertChips(t, table, 1600)

	table.scheduler.Advance(slowOptions().SettleDelay)
	a.Equal(1600, table.State().ChipsInPlay())
}

func TestTable_tieSplit(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), riggedDeck("Ts,Js,Qs,Ks,As", "2c,3d", "4c,5d"), 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Raise, 50)
	assertAction(t, table, 1, action.Call)
	a.Equal([]int{100}, potTotals(table.State()))
	for i := 0; i < 3; i++ {
		assertAction(t, table, 1, action.Check)
		assertAction(t, table, 0, action.Check)
	}

	s := table.State()
	a.Equal([]int{1000, 1000}, stacks(s))
	a.Len(s.LastWinners, 2)
	a.Equal(50, s.LastWinners[0].Amount)
	a.Equal(50, s.LastWinners[1].Amount)
}

func TestTable_threeWaySplit(t *testing.T) {
	a := assert.New(t)

	opts := TestOptions()
	opts.SmallBlind = 1
	opts.BigBlind = 2
	cards := riggedDeck("Ts,Js,Qs,Ks,As", "2c,3d", "4c,5d", "6c,7d", "8c,9d")
	table := newTestTable(t, opts, cards, 1000, 1000, 1000, 1000)
	a.True(table.StartHand())

	assertTurn(t, table, 3)
	assertAction(t, table, 3, action.Raise, 33)
	assertAction(t, table, 0, action.Call)
	assertAction(t, table, 1, action.Fold)
	assertAction(t, table, 2, action.Call)
	a.Equal([]int{100}, potTotals(table.State()))

	for i := 0; i < 3; i++ {
		assertAction(t, table, 2, action.Check)
		assertAction(t, table, 3, action.Check)
		assertAction(t, table, 0, action.Check)
	}

	s := table.State()
	a.Equal([]int{1001, 999, 1000, 1000}, stacks(s))
	a.Equal(34, s.LastWinners[0].Amount)
	a.Equal(0, s.LastWinners[0].Seat)
	a.Equal(33, s.LastWinners[1].Amount)
	a.Equal(33, s.LastWinners[2].Amount)
}

func TestTable_shortAllInReopensAction(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000, 45)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Raise, 30)
	assertAction(t, table, 1, action.Call)
	assertAction(t, table, 2, action.AllIn)

	s := table.State()
	a.Equal(45, s.CurrentBet)
	a.Equal(15, s.MinRaise)
	a.False(s.Player(0).ActedThisRound)
	a.True(s.Player(2).IsAllIn)
	assertTurn(t, table, 0)

	assertAction(t, table, 0, action.Call)
	assertAction(t, table, 1, action.Call)
	s = table.State()
	a.Equal(StageFlop, s.Stage)
	a.Equal([]int{135}, potTotals(s))
}

func TestTable_blindsAllIn(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 5, 8)
	a.True(table.StartHand())

	// both blinds are all-in, so the board is run out immediately
	s := table.State()
	a.False(s.HandInProgress)
	a.Len(s.Community, 5)
	a.Equal(13, s.ChipsInPlay())
}

func TestTable_chipConservation(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000, 600, 250)
	rng := table.rng

	for hand := 0; hand < 20; hand++ {
		if !table.StartHand() {
			break
		}

		for steps := 0; steps < 200; steps++ {
			s := table.State()
			a.Equal(2850, s.ChipsInPlay(), "hand %d step %d", hand, steps)
			if !s.HandInProgress {
				break
			}

			p := s.Player(s.TurnSeat)
			act := p.Actions[rng.Intn(len(p.Actions))]
			amount := 0
			if act == action.Bet || act == action.Raise {
				lo := s.CurrentBet + s.MinRaise
				hi := p.CurrentBet + p.Stack
				if lo >= hi {
					act = action.AllIn
				} else {
					amount = lo + rng.Intn(hi-lo)
				}
			}

			a.NoError(table.ApplyAction(s.TurnSeat, act, amount))
		}

		a.Equal(2850, table.State().ChipsInPlay())
	}
}
