// Package equity estimates the probability that a hand wins at showdown
package equity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/paulhankin/poker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/playable/poker/handrank"
)

// DefaultTrials is the number of Monte Carlo trials per estimate
const DefaultTrials = 5000

// errors returned by the estimator
var (
	ErrHoleCards = errors.New("exactly two hole cards are required")
	ErrBoard     = errors.New("board must have at most five cards")
	ErrOpponents = errors.New("there must be at least one opponent")
	ErrNoCards   = errors.New("not enough unseen cards to simulate")
)

// Estimator computes win percentages
// Preflop values come from a lookup table that is filled lazily and shared between callers
type Estimator struct {
	trials  int
	workers int
	seed    int64

	group   singleflight.Group
	mu      sync.RWMutex
	preflop map[string]float64
}

// Option configures an Estimator
type Option func(e *Estimator)

// WithTrials sets the number of trials per simulation
func WithTrials(trials int) Option {
	return func(e *Estimator) {
		if trials > 0 {
			e.trials = trials
		}
	}
}

// WithWorkers sets how many goroutines share a simulation
func WithWorkers(workers int) Option {
	return func(e *Estimator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithSeed sets the base seed. Each worker derives its own seed from it
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
	}
}

// New returns a new Estimator
func New(opts ...Option) *Estimator {
	e := &Estimator{
		trials:  DefaultTrials,
		workers: 4,
		seed:    1,
		preflop: make(map[string]float64),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Estimate returns the win percentage using the preflop table when the board is empty
func (e *Estimator) Estimate(ctx context.Context, hole, board deck.Hand, opponents int) (float64, error) {
	if len(board) == 0 {
		return e.Preflop(ctx, hole, opponents)
	}

	return e.Postflop(ctx, hole, board, opponents)
}

// Preflop returns the win percentage of the hole cards against opponents random hands
func (e *Estimator) Preflop(ctx context.Context, hole deck.Hand, opponents int) (float64, error) {
	class, err := Class(hole)
	if err != nil {
		return 0, err
	}

	if opponents < 1 {
		return 0, ErrOpponents
	}

	key := fmt.Sprintf("%s/%d", class, opponents)

	e.mu.RLock()
	pct, ok := e.preflop[key]
	e.mu.RUnlock()
	if ok {
		return pct, nil
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		pct, err := e.simulate(ctx, class.Representative(), nil, opponents, e.seed)
		if err != nil {
			return 0.0, err
		}

		e.mu.Lock()
		e.preflop[key] = pct
		e.mu.Unlock()

		return pct, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(float64), nil
}

// Precompute fills the preflop table for every hand class against 1 to maxOpponents opponents
func (e *Estimator) Precompute(ctx context.Context, maxOpponents int) error {
	for _, class := range AllClasses() {
		for n := 1; n <= maxOpponents; n++ {
			if _, err := e.Preflop(ctx, class.Representative(), n); err != nil {
				return err
			}
		}
	}

	return nil
}

// Postflop runs a Monte Carlo simulation for the hole cards with a partial board
func (e *Estimator) Postflop(ctx context.Context, hole, board deck.Hand, opponents int) (float64, error) {
	return e.simulate(ctx, hole, board, opponents, e.seed)
}

type tally struct {
	wins float64
}

func (e *Estimator) simulate(ctx context.Context, hole, board deck.Hand, opponents int, seed int64) (float64, error) {
	if len(hole) != 2 {
		return 0, ErrHoleCards
	}

	if len(board) > 5 {
		return 0, ErrBoard
	}

	if opponents < 1 {
		return 0, ErrOpponents
	}

	known := make([]poker.Card, 0, 7)
	for _, c := range append(hole.Clone(), board...) {
		pc, err := handrank.Card(c)
		if err != nil {
			return 0, err
		}

		known = append(known, pc)
	}

	unseenCards := deck.Without(hole, board)
	unseen := make([]poker.Card, len(unseenCards))
	for i, c := range unseenCards {
		pc, err := handrank.Card(c)
		if err != nil {
			return 0, err
		}

		unseen[i] = pc
	}

	missing := 5 - len(board)
	if missing+2*opponents > len(unseen) {
		return 0, ErrNoCards
	}

	workers := e.workers
	if workers > e.trials {
		workers = e.trials
	}

	results := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		trials := e.trials / workers
		if w < e.trials%workers {
			trials++
		}

		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w))) // nolint:gosec
			pool := make([]poker.Card, len(unseen))
			copy(pool, unseen)

			for i := 0; i < trials; i++ {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				results[w].wins += trial(rng, known, pool, missing, opponents)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	wins := 0.0
	for _, r := range results {
		wins += r.wins
	}

	return math.Round(wins/float64(e.trials)*1000) / 10, nil
}

// trial plays out one random board and returns 1 for a win, 1/n for an n-way tie and 0 for a loss
func trial(rng *rand.Rand, known, pool []poker.Card, missing, opponents int) float64 {
	need := missing + 2*opponents
	for i := 0; i < need; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	var hand [handrank.HandSize]poker.Card
	copy(hand[:], known)
	copy(hand[len(known):], pool[:missing])
	hero := handrank.Eval(&hand)

	tied := 1
	for o := 0; o < opponents; o++ {
		hand[0] = pool[missing+2*o]
		hand[1] = pool[missing+2*o+1]
		s := handrank.Eval(&hand)

		if s > hero {
			return 0
		} else if s == hero {
			tied++
		}
	}

	return 1 / float64(tied)
}
