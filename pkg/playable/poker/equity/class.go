package equity

import (
	"fmt"
	"strings"

	"holdem-server/pkg/deck"
)

// HandClass is one of the 169 strategically distinct starting hands, i.e., "AA", "AKs" or "72o"
type HandClass string

const rankSymbols = "23456789TJQKA"

// Class returns the starting hand class of the hole cards
func Class(hole deck.Hand) (HandClass, error) {
	if len(hole) != 2 {
		return "", ErrHoleCards
	}

	hi, lo := hole[0], hole[1]
	if lo.Rank > hi.Rank {
		hi, lo = lo, hi
	}

	if hi.Rank == lo.Rank {
		return HandClass(symbol(hi.Rank) + symbol(lo.Rank)), nil
	}

	suffix := "o"
	if hi.Suit == lo.Suit {
		suffix = "s"
	}

	return HandClass(symbol(hi.Rank) + symbol(lo.Rank) + suffix), nil
}

// Representative returns hole cards belonging to the class
func (h HandClass) Representative() deck.Hand {
	hi := strings.IndexByte(rankSymbols, h[0]) + 2
	lo := strings.IndexByte(rankSymbols, h[1]) + 2

	second := deck.Diamonds
	if strings.HasSuffix(string(h), "s") {
		second = deck.Clubs
	}

	return deck.Hand{
		{Rank: hi, Suit: deck.Clubs},
		{Rank: lo, Suit: second},
	}
}

// Pair returns true for pocket pairs
func (h HandClass) Pair() bool {
	return len(h) == 2
}

// Suited returns true for suited hands
func (h HandClass) Suited() bool {
	return strings.HasSuffix(string(h), "s")
}

// AllClasses returns every starting hand class
func AllClasses() []HandClass {
	classes := make([]HandClass, 0, 169)
	for hi := deck.Ace; hi >= 2; hi-- {
		for lo := hi; lo >= 2; lo-- {
			if hi == lo {
				classes = append(classes, HandClass(symbol(hi)+symbol(lo)))
				continue
			}

			classes = append(classes,
				HandClass(symbol(hi)+symbol(lo)+"s"),
				HandClass(symbol(hi)+symbol(lo)+"o"),
			)
		}
	}

	return classes
}

func symbol(rank int) string {
	if rank < 2 || rank > deck.Ace {
		panic(fmt.Sprintf("invalid rank: %d", rank))
	}

	return string(rankSymbols[rank-2])
}
