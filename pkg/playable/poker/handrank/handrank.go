// Package handrank adapts seven-card hand evaluation to deck cards
package handrank

import (
	"errors"
	"fmt"

	"github.com/paulhankin/poker"

	"holdem-server/pkg/deck"
)

// HandSize is the only hand size the evaluator supports (two hole cards and a full board)
const HandSize = 7

// ErrHandSize is returned when a hand is not exactly seven cards
var ErrHandSize = errors.New("hand must contain exactly seven cards")

// Strength is a comparable hand value. A higher value is a better hand
type Strength int16

// Ranked is the result of ranking a hand
type Ranked struct {
	Strength    Strength
	Description string
}

// Gateway ranks hands and picks winners
type Gateway struct{}

// New returns a new Gateway
func New() *Gateway {
	return &Gateway{}
}

// Rank returns the strength and description of a seven-card hand
func (g *Gateway) Rank(cards deck.Hand) (Ranked, error) {
	hand, err := Convert(cards)
	if err != nil {
		return Ranked{}, err
	}

	desc, err := poker.Describe(hand[:])
	if err != nil {
		return Ranked{}, fmt.Errorf("could not describe %s: %w", cards, err)
	}

	return Ranked{
		Strength:    Strength(poker.Eval7(&hand)),
		Description: desc,
	}, nil
}

// Winners returns the indexes of the co-equal best hands, in the order provided
func (g *Gateway) Winners(hands []deck.Hand) ([]int, error) {
	if len(hands) == 0 {
		return nil, errors.New("no hands to compare")
	}

	strengths := make([]Strength, len(hands))
	best := Strength(-1 << 15)
	for i, h := range hands {
		hand, err := Convert(h)
		if err != nil {
			return nil, err
		}

		strengths[i] = Eval(&hand)
		if strengths[i] > best {
			best = strengths[i]
		}
	}

	winners := make([]int, 0, 1)
	for i, s := range strengths {
		if s == best {
			winners = append(winners, i)
		}
	}

	return winners, nil
}

// Eval ranks an already converted hand
func Eval(hand *[HandSize]poker.Card) Strength {
	return Strength(poker.Eval7(hand))
}

// Convert translates seven deck cards to evaluator cards
func Convert(cards deck.Hand) ([HandSize]poker.Card, error) {
	var hand [HandSize]poker.Card
	if len(cards) != HandSize {
		return hand, fmt.Errorf("%w: got %d", ErrHandSize, len(cards))
	}

	for i, c := range cards {
		pc, err := Card(c)
		if err != nil {
			return hand, err
		}

		hand[i] = pc
	}

	return hand, nil
}

// Card translates a single deck card
func Card(c *deck.Card) (poker.Card, error) {
	suit := -1
	for i, s := range deck.Suits {
		if s == c.Suit {
			suit = i
			break
		}
	}

	if suit < 0 {
		return poker.Card(0), fmt.Errorf("unknown suit: %q", c.Suit)
	}

	rank := c.Rank
	if rank == deck.Ace {
		rank = 1
	}

	card, err := poker.MakeCard(poker.Suit(suit), poker.Rank(rank))
	if err != nil {
		return poker.Card(0), fmt.Errorf("invalid card %s: %w", c.Short(), err)
	}

	return card, nil
}
