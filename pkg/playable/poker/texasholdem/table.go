package texasholdem

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/bot"
	"holdem-server/pkg/playable/poker/handrank"
	"holdem-server/pkg/playable/poker/potmanager"
)

// Estimator computes a win percentage for hole cards
type Estimator interface {
	Estimate(ctx context.Context, hole, board deck.Hand, opponents int) (float64, error)
}

// Ranker ranks seven-card hands
type Ranker interface {
	Rank(cards deck.Hand) (handrank.Ranked, error)
	Winners(hands []deck.Hand) ([]int, error)
}

// BotPolicy picks an action for a bot
type BotPolicy interface {
	Decide(s bot.State) bot.Decision
}

// Table is a No-Limit Texas Hold'em table that persists across hands
// All exported methods are safe for concurrent use
type Table struct {
	ID     string
	logger logrus.FieldLogger

	mu      sync.Mutex
	options Options

	deck      *deck.Deck
	scheduler playable.Scheduler
	estimator Estimator
	ranker    Ranker
	policy    BotPolicy
	rng       *rand.Rand

	// players are sorted by seat
	players []*Player

	community      deck.Hand
	potManager     *potmanager.PotManager
	buttonSeat     int
	currentBet     int
	minRaise       int
	turnSeat       int
	stage          Stage
	handInProgress bool
	handNumber     int
	gameOver       bool

	lastAction  *LastAction
	lastWinners []*Winner

	// generation is bumped whenever a decision point is resolved. Timers armed for an older generation are ignored
	generation uint64
	turnTimer  playable.Timer
	botTimer   playable.Timer
	waitTimer  playable.Timer

	observers  map[int]Observer
	observerID int

	ctx      context.Context
	cancel   context.CancelFunc
	equityWG conc.WaitGroup
}

// LastAction describes the most recent action taken at the table
type LastAction struct {
	Seat   int    `json:"seat"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

// NewTable returns a new table with no players
func NewTable(logger logrus.FieldLogger, opts Options, with ...Option) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	t := &Table{
		ID:         id,
		logger:     logger.WithField("table", id),
		options:    opts,
		players:    make([]*Player, 0, opts.MaxPlayers),
		community:  make(deck.Hand, 0, 5),
		potManager: potmanager.New(),
		buttonSeat: -1,
		turnSeat:   -1,
		observers:  make(map[int]Observer),
		ctx:        ctx,
		cancel:     cancel,
	}

	for _, opt := range with {
		opt(t)
	}

	defaultCollaborators(t)
	return t, nil
}

// Options returns the table options
func (t *Table) Options() Options {
	return t.options
}

// Close stops all timers and waits for background equity calculations to finish
func (t *Table) Close() {
	t.mu.Lock()
	t.invalidate()
	t.cancel()
	t.mu.Unlock()

	t.equityWG.Wait()
}

// WaitForEquity blocks until every equity calculation started so far has been applied
func (t *Table) WaitForEquity() {
	t.equityWG.Wait()
}

// Join seats a new player at the next open seat
// A player who joins during a hand waits for the next one
func (t *Table) Join(name string, stack int) (*Player, error) {
	return t.join(name, stack, false)
}

// JoinBot seats a computer-controlled player
func (t *Table) JoinBot(name string, stack int) (*Player, error) {
	return t.join(name, stack, true)
}

func (t *Table) join(name string, stack int, isBot bool) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if stack == 0 {
		stack = t.options.StartingStack
	}

	if stack < 0 {
		return nil, ErrInvalidStack
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.playerByName(name) != nil {
		return nil, ErrDuplicateName
	}

	seat := t.openSeat()
	if seat < 0 {
		return nil, ErrTableFull
	}

	p := newPlayer(seat, name, stack, isBot)
	if t.handInProgress {
		p.state = PlayerStateWaiting
	}

	t.players = append(t.players, p)
	sort.Slice(t.players, func(i, j int) bool {
		return t.players[i].Seat < t.players[j].Seat
	})

	t.logger.WithFields(logrus.Fields{
		"seat":   seat,
		"player": name,
		"bot":    isBot,
	}).Info("player joined")

	t.gameOver = false
	t.publish(EventState, playable.SimpleLogMessage(seat, "{} sat down with %d", stack))
	return p, nil
}

// Leave removes a player
// A player on turn is folded first. A player still in the hand is marked as left and removed at the next hand start
func (t *Table) Leave(seat int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerBySeat(seat)
	if p == nil {
		return ErrPlayerNotFound
	}

	t.logger.WithFields(logrus.Fields{
		"seat":   seat,
		"player": p.Name,
	}).Info("player left")

	logs := playable.SimpleLogMessageSlice(seat, "{} left the table")
	if !t.handInProgress || p.state == PlayerStateWaiting {
		t.removePlayer(p)
		t.publish(EventState, logs...)
		return nil
	}

	if t.turnSeat == seat {
		t.invalidate()
		t.fold(p)
		p.state = PlayerStateLeft
		p.kickPending = true
		t.advance(seat, logs)
		return nil
	}

	wasInHand := p.inHand()
	p.state = PlayerStateLeft
	p.kickPending = true
	if wasInHand && t.countInHand() < 2 {
		t.invalidate()
		t.finishHand(logs)
		return nil
	}

	t.publish(EventState, logs...)
	return nil
}

// LeaveByName removes a player by name
func (t *Table) LeaveByName(name string) error {
	seat, err := t.SeatOf(name)
	if err != nil {
		return err
	}

	return t.Leave(seat)
}

// SetOffline marks a player as disconnected or reconnected
// An offline player is not dealt into new hands, but still times out of the current one
func (t *Table) SetOffline(seat int, offline bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerBySeat(seat)
	if p == nil {
		return ErrPlayerNotFound
	}

	switch {
	case offline && (p.state == PlayerStateReady || p.state == PlayerStateWaiting || p.state == PlayerStateSittingOut):
		p.state = PlayerStateOffline
	case !offline && p.state == PlayerStateOffline:
		p.state = PlayerStateReady
		if t.handInProgress {
			p.state = PlayerStateWaiting
		}
	default:
		return nil
	}

	t.publish(EventState)
	return nil
}

// SeatOf returns the seat of the named player
func (t *Table) SeatOf(name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.playerByName(name)
	if p == nil {
		return -1, ErrPlayerNotFound
	}

	return p.Seat, nil
}

func (t *Table) openSeat() int {
	if len(t.players) >= t.options.MaxPlayers {
		return -1
	}

	taken := make(map[int]bool, len(t.players))
	for _, p := range t.players {
		taken[p.Seat] = true
	}

	for seat := 0; seat < t.options.MaxPlayers; seat++ {
		if !taken[seat] {
			return seat
		}
	}

	return -1
}

func (t *Table) removePlayer(p *Player) {
	for i, player := range t.players {
		if player == p {
			t.players = append(t.players[:i], t.players[i+1:]...)
			return
		}
	}
}

func (t *Table) playerBySeat(seat int) *Player {
	for _, p := range t.players {
		if p.Seat == seat {
			return p
		}
	}

	return nil
}

func (t *Table) playerByName(name string) *Player {
	for _, p := range t.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}

	return nil
}

// playersAfter returns the players in seat order starting with the first seat after seat
func (t *Table) playersAfter(seat int) []*Player {
	n := len(t.players)
	start := 0
	for start < n && t.players[start].Seat <= seat {
		start++
	}

	ordered := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		ordered = append(ordered, t.players[(start+i)%n])
	}

	return ordered
}

func (t *Table) countInHand() int {
	n := 0
	for _, p := range t.players {
		if p.inHand() {
			n++
		}
	}

	return n
}

func (t *Table) countCanAct() int {
	n := 0
	for _, p := range t.players {
		if p.canAct() {
			n++
		}
	}

	return n
}

func (t *Table) pendingBets() int {
	total := 0
	for _, p := range t.players {
		total += p.bet
	}

	return total
}
