package texasholdem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/bot"
)

// leakyScheduler never cancels a task, so every armed timer eventually fires
type leakyScheduler struct {
	*playable.ManualScheduler
}

type noopTimer struct{}

func (noopTimer) Stop() bool {
	return false
}

func (l leakyScheduler) AfterFunc(d time.Duration, fn func()) playable.Timer {
	l.ManualScheduler.AfterFunc(d, fn)
	return noopTimer{}
}

func TestTable_turnTimeout(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	a.Equal(0, table.scheduler.Advance(29*time.Second))
	a.Equal(1, table.scheduler.Advance(time.Second))

	s := table.State()
	a.False(s.HandInProgress)
	a.Equal([]int{995, 1005}, stacks(s))
	a.Equal("fold", s.LastAction.Action)
	a.Equal(0, table.scheduler.Pending())
}

func TestTable_turnTimeout_rearms(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000, 1000)
	a.True(table.StartHand())

	table.scheduler.Advance(30 * time.Second)
	s := table.State()
	a.Equal(PlayerStateFolded, s.Player(0).State)
	a.Equal(1, s.TurnSeat)

	table.scheduler.Advance(29 * time.Second)
	assertTurn(t, table, 1)

	table.scheduler.Advance(time.Second)
	s = table.State()
	a.False(s.HandInProgress)
	a.Equal([]int{1000, 995, 1005}, stacks(s))
}

func TestTable_actionCancelsTimeout(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	table.scheduler.Advance(20 * time.Second)
	assertAction(t, table, 0, action.Call)
	a.Equal(1, table.scheduler.Pending())

	table.scheduler.Advance(10 * time.Second)
	s := table.State()
	a.True(s.HandInProgress)
	assertTurn(t, table, 1)
}

func TestTable_staleTimerIsIgnored(t *testing.T) {
	a := assert.New(t)

	scheduler := leakyScheduler{playable.NewManualScheduler()}
	table := newTestTable(t, TestOptions(), nil, 1000, 1000)
	table.scheduler = scheduler.ManualScheduler
	WithScheduler(scheduler)(table.Table)

	a.True(table.StartHand())
	assertAction(t, table, 0, action.Call)

	table.scheduler.Advance(20 * time.Second)
	assertAction(t, table, 1, action.Check)
	assertTurn(t, table, 1)

	// the preflop timers for both seats fire while seat 1 is on turn for the flop
	a.Equal(2, table.scheduler.Advance(10*time.Second))
	s := table.State()
	a.True(s.HandInProgress)
	a.Equal(StageFlop, s.Stage)
	a.Equal(PlayerStateInGame, s.Player(1).State)
	assertTurn(t, table, 1)

	table.scheduler.Advance(20 * time.Second)
	s = table.State()
	a.False(s.HandInProgress)
	a.Equal([]int{1010, 990}, stacks(s))
}

func TestTable_settleDelay(t *testing.T) {
	a := assert.New(t)
	table := newTestTable(t, slowOptions(), nil, 1000, 1000)
	a.True(table.StartHand())

	assertAction(t, table, 0, action.Call)
	assertAction(t, table, 1, action.Check)

	s := table.State()
	a.Equal(StagePreflop, s.Stage)
	a.Equal(-1, s.TurnSeat)
	a.Equal([]int{20}, potTotals(s))
	a.Equal(ErrNotYourTurn, table.ApplyAction(1, action.Check, 0))

	table.scheduler.Advance(2 * time.Second)
	s = table.State()
	a.Equal(StageFlop, s.Stage)
	a.Equal(1, s.TurnSeat)
}

func TestTable_autoStart(t *testing.T) {
	a := assert.New(t)

	opts := slowOptions()
	opts.AutoStart = true
	table := newTestTable(t, opts, nil, 1000, 1000)
	a.True(table.StartHand())
	assertAction(t, table, 0, action.Fold)
	a.False(table.State().HandInProgress)

	table.scheduler.Advance(2 * time.Second)
	s := table.State()
	a.True(s.HandInProgress)
	a.Equal(2, s.HandNumber)
	a.Equal(1, s.ButtonSeat)
}

func TestTable_botActs(t *testing.T) {
	a := assert.New(t)

	policy := &fixedPolicy{decision: bot.Decision{Action: action.Check}}
	table := newTestTable(t, TestOptions(), nil, 1000)
	WithBotPolicy(policy)(table.Table)
	_, err := table.JoinBot("robot", 1000)
	a.NoError(err)

	a.True(table.StartHand())
	assertAction(t, table, 0, action.Call)

	a.Equal(2, table.scheduler.RunDue())
	s := table.State()
	a.Equal(StageFlop, s.Stage)
	assertTurn(t, table, 0)
	a.Len(policy.states, 2)
	a.Equal(bot.State{
		Equity:     policy.states[0].Equity,
		Hole:       policy.states[0].Hole,
		Pot:        20,
		CurrentBet: 10,
		PlayerBet:  10,
		Stack:      990,
		MinRaise:   10,
	}, policy.states[0])
	a.Len(policy.states[0].Hole, 2)
	a.Equal(20, policy.states[1].Pot)
}

func TestTable_botIllegalDecisionFallsBack(t *testing.T) {
	a := assert.New(t)

	policy := &fixedPolicy{decision: bot.Decision{Action: action.Raise, Amount: 11}}
	table := newTestTable(t, TestOptions(), nil, 1000)
	WithBotPolicy(policy)(table.Table)
	_, err := table.JoinBot("robot", 1000)
	a.NoError(err)

	a.True(table.StartHand())
	assertAction(t, table, 0, action.Call)
	table.scheduler.RunDue()

	s := table.State()
	a.Equal(StageFlop, s.Stage)
	a.Equal([]int{20}, potTotals(s))
}
