package room

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"holdem-server/internal/util"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/action"
	"holdem-server/pkg/playable/poker/texasholdem"
)

// errors returned to clients
var (
	ErrNotSeated     = errors.New("you are not seated at the table")
	ErrAlreadySeated = errors.New("you are already seated at the table")
	ErrSeatTaken     = errors.New("that player is still connected")
)

// Dealer hosts a table and relays messages between the table and connected clients
type Dealer struct {
	logger  logrus.FieldLogger
	table   *texasholdem.Table
	clients map[*Client]bool
	lock    sync.RWMutex

	// logMessages and offline are only accessed from the run loop
	logMessages []*playable.LogMessage
	offline     map[int]string

	events        chan texasholdem.Event
	execInRunLoop chan func()
	close         chan bool
	unsubscribe   func()
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(logger logrus.FieldLogger, table *texasholdem.Table) *Dealer {
	return &Dealer{
		logger:        logger.WithField("table", table.ID),
		table:         table,
		clients:       make(map[*Client]bool),
		offline:       make(map[int]string),
		events:        make(chan texasholdem.Event, 256),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Table returns the hosted table
func (d *Dealer) Table() *texasholdem.Table {
	return d.table
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift subscribes to the table and starts the run loop
func (d *Dealer) StartShift() {
	d.unsubscribe = d.table.Subscribe(d.onTableEvent)
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}

	close(d.close)
}

// onTableEvent is called with the table locked, so it only queues the event
func (d *Dealer) onTableEvent(e texasholdem.Event) {
	select {
	case d.events <- e:
	default:
		d.logger.WithField("event", e.Type).Warn("event buffer is full, dropping table event")
	}
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case e := <-d.events:
			d.addLogMessages(e.Logs)
			if e.Type == texasholdem.EventHandEnded {
				d.restoreOffline()
			}

			d.sendTableState(e.Type, e.State, e.Logs)
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		client.Send(newTableStateResponse(texasholdem.EventState, client.seat, d.table.State(), d.logMessages))
	}
}

// RemoveClient removes a client. A seated client's player is marked offline
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		if client.seat < 0 {
			return
		}

		d.offline[client.seat] = client.playerID
		if err := d.table.SetOffline(client.seat, true); err != nil {
			d.logger.WithError(err).WithField("seat", client.seat).Warn("could not mark player offline")
		}
	}

	return nClients == 0
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		res, err := d.handleMessage(c, msg)
		if err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"client": c.String(),
				"action": msg.Action,
			}).Debug("could not perform action")
			c.Send(playable.ErrorResponse(msg.Context, err))
			return
		}

		res.Context = msg.Context
		c.Send(res)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *playable.PayloadIn) (*playable.Response, error) {
	switch msg.Action {
	case "join":
		if c.seat >= 0 {
			return nil, ErrAlreadySeated
		}

		name, _ := msg.AdditionalData.GetString("name")
		stack, _ := msg.AdditionalData.GetInt("stack")
		p, err := d.table.Join(name, stack)
		if err != nil {
			return nil, err
		}

		c.seat = p.Seat
		c.playerID = p.ID()
		return newSeatResponse(msg.Context, p.Seat, p.Name), nil
	case "rejoin":
		if c.seat >= 0 {
			return nil, ErrAlreadySeated
		}

		name, _ := msg.AdditionalData.GetString("name")
		seat, err := d.table.SeatOf(name)
		if err != nil {
			return nil, err
		}

		id, isOffline := d.offline[seat]
		if !isOffline {
			return nil, ErrSeatTaken
		}

		delete(d.offline, seat)
		if err := d.table.SetOffline(seat, false); err != nil {
			return nil, err
		}

		c.seat = seat
		c.playerID = id
		return newSeatResponse(msg.Context, seat, name), nil
	case "joinBot":
		name, _ := msg.AdditionalData.GetString("name")
		if name == "" {
			name = util.GetUniqueName(func(name string) bool {
				_, err := d.table.SeatOf(name)
				return err == nil
			})
		}

		stack, _ := msg.AdditionalData.GetInt("stack")
		p, err := d.table.JoinBot(name, stack)
		if err != nil {
			return nil, err
		}

		return newSeatResponse(msg.Context, p.Seat, p.Name), nil
	case "leave":
		if c.seat < 0 {
			return nil, ErrNotSeated
		}

		if err := d.table.Leave(c.seat); err != nil {
			return nil, err
		}

		c.seat = -1
		c.playerID = ""
		return playable.OK(), nil
	case "start":
		if d.table.State().HandInProgress {
			return nil, texasholdem.ErrHandInProgress
		}

		if !d.table.StartHand() {
			return nil, texasholdem.ErrNotEnoughPlayers
		}

		return playable.OK(), nil
	case "play":
		if c.seat < 0 {
			return nil, ErrNotSeated
		}

		act, err := action.FromString(msg.Subject)
		if err != nil {
			return nil, err
		}

		amount, _ := msg.AdditionalData.GetInt("amount")
		if err := d.table.ApplyAction(c.seat, act, amount); err != nil {
			return nil, err
		}

		return playable.OK(), nil
	case "state":
		return newTableStateResponse(texasholdem.EventState, c.seat, d.table.State(), d.logMessages), nil
	}

	return nil, fmt.Errorf("unknown action: %q", msg.Action)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendTableState(event texasholdem.EventType, state *texasholdem.State, logs []*playable.LogMessage) {
	var current *texasholdem.State
	for _, client := range d.Clients() {
		if client.seat >= 0 && !isSeated(state, client) {
			// the event may predate the client joining
			if current == nil {
				current = d.table.State()
			}

			if !isSeated(current, client) {
				client.seat = -1
				client.playerID = ""
			}
		}

		client.Send(newTableStateResponse(event, client.seat, state, logs))
	}
}

func isSeated(state *texasholdem.State, client *Client) bool {
	p := state.Player(client.seat)
	return p != nil && p.ID == client.playerID
}

// restoreOffline marks disconnected players offline again once their hand is over
// NOTE: must only be called from the run loop
func (d *Dealer) restoreOffline() {
	state := d.table.State()
	for seat, id := range d.offline {
		p := state.Player(seat)
		if p == nil || p.ID != id {
			delete(d.offline, seat)
			continue
		}

		if p.State == texasholdem.PlayerStateOffline {
			continue
		}

		if err := d.table.SetOffline(seat, true); err != nil {
			d.logger.WithError(err).WithField("seat", seat).Warn("could not mark player offline")
		}
	}
}
