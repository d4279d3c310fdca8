package texasholdem

import (
	"sort"

	"holdem-server/pkg/playable"
)

// EventType identifies why an event was published
type EventType string

// event types
const (
	EventState     EventType = "state"
	EventEquity    EventType = "equity"
	EventHandEnded EventType = "hand-ended"
	EventGameOver  EventType = "game-over"
)

// Event is published after every change to the table
// State is unmasked and must be masked before it is sent to a player
type Event struct {
	Type  EventType
	State *State
	Logs  []*playable.LogMessage
}

// Observer receives events
// Observers are called while the table is locked and must not call back into the table
type Observer func(e Event)

// Subscribe registers an observer and returns a function that removes it
func (t *Table) Subscribe(fn Observer) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observerID++
	id := t.observerID
	t.observers[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		delete(t.observers, id)
	}
}

func (t *Table) publish(typ EventType, logs ...*playable.LogMessage) {
	if len(t.observers) == 0 {
		return
	}

	e := Event{
		Type:  typ,
		State: t.state(),
		Logs:  logs,
	}

	ids := make([]int, 0, len(t.observers))
	for id := range t.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		t.observers[id](e)
	}
}
