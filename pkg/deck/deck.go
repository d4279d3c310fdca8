package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"math/rand"
	"time"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	Cards []*Card `json:"cards"`
	rng   *rand.Rand

	// rigged is a fixed draw order. When set, Shuffle() is a no-op and Reset() restores it
	rigged Hand
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
	}

	d.Reset()
	return d
}

// NewFromCards returns a deck that always deals the provided cards in order
// This should only be used by tests
func NewFromCards(cards Hand) *Deck {
	d := &Deck{
		rigged: cards.Clone(),
	}

	d.Reset()
	return d
}

// SetSeed will reseed the random source used by Shuffle()
func (d *Deck) SetSeed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec
}

// SetRand replaces the random source used by Shuffle()
func (d *Deck) SetRand(rng *rand.Rand) {
	d.rng = rng
}

// FullDeck returns all 52 cards in suit order
func FullDeck() Hand {
	cards := make(Hand, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return cards
}

// Reset restores all 52 cards (or the rigged order)
func (d *Deck) Reset() {
	if d.rigged != nil {
		d.Cards = d.rigged.Clone()
		return
	}

	d.Cards = FullDeck()
}

// Shuffle will shuffle the cards that remain in the deck
func (d *Deck) Shuffle() {
	if d.rigged != nil {
		return
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// Without returns every card from a full deck that is not in any of the known hands
func Without(known ...Hand) Hand {
	var seen [52]bool
	for _, h := range known {
		for _, c := range h {
			seen[c.Index()] = true
		}
	}

	remaining := make(Hand, 0, 52)
	for _, c := range FullDeck() {
		if !seen[c.Index()] {
			remaining = append(remaining, c)
		}
	}

	return remaining
}
