package texasholdem

import (
	"errors"
	"math/rand"
	"time"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable"
	"holdem-server/pkg/playable/poker/bot"
	"holdem-server/pkg/playable/poker/equity"
	"holdem-server/pkg/playable/poker/handrank"
)

// Options configures a table
type Options struct {
	MaxPlayers    int
	SmallBlind    int
	BigBlind      int
	StartingStack int
	TurnTimeout   time.Duration
	// SettleDelay is the pause between a completed round and the next street
	// When zero, the next street is dealt immediately
	SettleDelay time.Duration
	BotDelay    time.Duration
	// AutoStart starts the next hand after SettleDelay when enough players have chips
	AutoStart bool
}

// DefaultOptions returns the default options for a table
func DefaultOptions() Options {
	return Options{
		MaxPlayers:    9,
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 1000,
		TurnTimeout:   30 * time.Second,
		SettleDelay:   2 * time.Second,
		BotDelay:      time.Second,
	}
}

// TestOptions returns the default options with no settle or bot delays
func TestOptions() Options {
	opts := DefaultOptions()
	opts.SettleDelay = 0
	opts.BotDelay = 0

	return opts
}

func validateOptions(opts Options) error {
	if opts.MaxPlayers < 2 {
		return errors.New("max players must be at least 2")
	}

	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be positive")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.StartingStack <= 0 {
		return errors.New("starting stack must be positive")
	}

	if opts.TurnTimeout <= 0 {
		return errors.New("turn timeout must be positive")
	}

	if opts.SettleDelay < 0 || opts.BotDelay < 0 {
		return errors.New("delays must not be negative")
	}

	return nil
}

// Option overrides a collaborator of the table
type Option func(t *Table)

// WithDeck sets the card source
func WithDeck(d *deck.Deck) Option {
	return func(t *Table) {
		t.deck = d
	}
}

// WithScheduler sets the scheduler used for timeouts and delays
func WithScheduler(s playable.Scheduler) Option {
	return func(t *Table) {
		t.scheduler = s
	}
}

// WithEstimator sets the equity estimator
func WithEstimator(e Estimator) Option {
	return func(t *Table) {
		t.estimator = e
	}
}

// WithRanker sets the hand ranker used at showdown
func WithRanker(r Ranker) Option {
	return func(t *Table) {
		t.ranker = r
	}
}

// WithBotPolicy sets the policy bots act with
func WithBotPolicy(p BotPolicy) Option {
	return func(t *Table) {
		t.policy = p
	}
}

// WithRand sets the random source for shuffling and bot decisions
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) {
		t.rng = rng
	}
}

// WithSeed seeds the random source
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed))) // nolint:gosec
}

func defaultCollaborators(t *Table) {
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec
	}

	if t.deck == nil {
		t.deck = deck.New()
		t.deck.SetRand(t.rng)
	}

	if t.scheduler == nil {
		t.scheduler = playable.RealScheduler{}
	}

	if t.estimator == nil {
		t.estimator = equity.New(equity.WithSeed(t.rng.Int63()))
	}

	if t.ranker == nil {
		t.ranker = handrank.New()
	}

	if t.policy == nil {
		t.policy = bot.New(t.rng)
	}
}
