package deck

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
)

// Suits lists every suit in deck order
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Card is an individual playing card
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// face cards
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

func (c *Card) String() string {
	var suit string
	switch c.Suit {
	case Clubs:
		suit = "♣"
	case Diamonds:
		suit = "♢"
	case Hearts:
		suit = "♡"
	case Spades:
		suit = "♠"
	default:
		panic("unknown suit")
	}

	return rankSymbol(c.Rank) + suit
}

// Short returns the two character notation used on the wire, i.e., "As" or "Td"
func (c *Card) Short() string {
	return rankSymbol(c.Rank) + string(c.Suit[0])
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c *Card) Equal(card *Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// Index returns a unique value in [0, 52) for the card
func (c *Card) Index() int {
	s := 0
	for i, suit := range Suits {
		if suit == c.Suit {
			s = i
			break
		}
	}

	return s*13 + c.Rank - 2
}

// MarshalJSON encodes the card in its short notation
func (c *Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Short())
}

// UnmarshalJSON decodes a card from its short notation
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	card, err := ParseCard(s)
	if err != nil {
		return err
	}

	*c = *card
	return nil
}

func rankSymbol(rank int) string {
	switch rank {
	case 10:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}

	return strconv.Itoa(rank)
}

var cardRx = regexp.MustCompile(`(?i)^([2-9]|10|[tjqka])([cdhs])\z`)

// ParseCard returns a Card from the string.
// The string must be in the format of <rank><suit>, i.e., "As", "Td", "10h" or "2c"
func ParseCard(s string) (*Card, error) {
	match := cardRx.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return nil, fmt.Errorf("could not parse card: %q", s)
	}

	var rank int
	switch strings.ToUpper(match[1]) {
	case "T", "10":
		rank = 10
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		rank, _ = strconv.Atoi(match[1])
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	}

	return &Card{Rank: rank, Suit: suit}, nil
}

// CardFromString is like ParseCard, but panics on error
// This should only be used by tests
func CardFromString(s string) *Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}

	return card
}

// CardsFromString returns cards from a comma or space separated list, i.e., "As,Kd" or "As Kd"
func CardsFromString(s string) Hand {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	cards := make(Hand, len(fields))
	for i, f := range fields {
		cards[i] = CardFromString(f)
	}

	return cards
}
