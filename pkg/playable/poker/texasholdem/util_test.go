package texasholdem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/bot"
)

type fixedEstimator struct {
	lock  sync.Mutex
	value float64
	calls int
	// gate blocks every estimate until it is closed
	gate chan struct{}
}

func (f *fixedEstimator) Estimate(ctx context.Context, hole, board deck.Hand, opponents int) (float64, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++

	return f.value, nil
}

type fixedPolicy struct {
	decision bot.Decision
	states   []bot.State
}

func (f *fixedPolicy) Decide(s bot.State) bot.Decision {
	f.states = append(f.states, s)
	return f.decision
}

type testTable struct {
	*Table
	scheduler *playable.ManualScheduler
	estimator *fixedEstimator

	lock   sync.Mutex
	events []Event
}

func newTestTable(t *testing.T, opts Options, cards deck.Hand, stacks ...int) *testTable {
	t.Helper()

	scheduler := playable.NewManualScheduler()
	estimator := &fixedEstimator{value: 50}

	with := []Option{
		WithScheduler(scheduler),
		WithEstimator(estimator),
		WithSeed(1),
	}
	if cards != nil {
		with = append(with, WithDeck(deck.NewFromCards(cards)))
	}

	table, err := NewTable(logrus.StandardLogger(), opts, with...)
	if err != nil {
		t.Fatal(err)
	}

	tt := &testTable{
		Table:     table,
		scheduler: scheduler,
		estimator: estimator,
	}
	table.Subscribe(func(e Event) {
		tt.lock.Lock()
		defer tt.lock.Unlock()
		tt.events = append(tt.events, e)
	})

	for i, stack := range stacks {
		if _, err := table.Join(fmt.Sprintf("p%d", i), stack); err != nil {
			t.Fatal(err)
		}
	}

	t.Cleanup(table.Close)
	return tt
}

// riggedDeck returns a deck that deals the hole cards round-robin, followed by the board
// Each hole entry is a player's two cards, i.e., "As,Kd"
func riggedDeck(board string, holes ...string) deck.Hand {
	cards := make(deck.Hand, 0, 52)
	for i := 0; i < 2; i++ {
		for _, h := range holes {
			cards = append(cards, deck.CardsFromString(h)[i])
		}
	}

	cards = append(cards, deck.CardsFromString(board)...)
	return append(cards, deck.Without(cards)...)
}

func (tt *testTable) lastEvent() Event {
	tt.lock.Lock()
	defer tt.lock.Unlock()

	return tt.events[len(tt.events)-1]
}

func (tt *testTable) hasEvent(typ EventType) bool {
	tt.lock.Lock()
	defer tt.lock.Unlock()

	for _, e := range tt.events {
		if e.Type == typ {
			return true
		}
	}

	return false
}

func assertAction(t *testing.T, table *testTable, seat int, act action.Action, amount ...int) {
	t.Helper()

	amt := 0
	if len(amount) == 1 {
		amt = amount[0]
	}

	assert.NoError(t, table.ApplyAction(seat, act, amt), "seat %d %s", seat, act)
}

func assertTurn(t *testing.T, table *testTable, seat int) {
	t.Helper()
	assert.Equal(t, seat, table.State().TurnSeat)
}

func assertChips(t *testing.T, table *testTable, expected int) {
	t.Helper()
	assert.Equal(t, expected, table.State().ChipsInPlay())
}

func stacks(s *State) []int {
	out := make([]int, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Stack
	}

	return out
}

func potTotals(s *State) []int {
	out := make([]int, len(s.Pots))
	for i, p := range s.Pots {
		out[i] = p.Total
	}

	return out
}

func slowOptions() Options {
	opts := TestOptions()
	opts.SettleDelay = 2 * time.Second
	return opts
}
