// Package card provides the primitive card, rank, suit and deck types
// shared by every poker variant the engine can run.
package card

import "fmt"

// Rank is a card's face value. Rank2..RankA covers the standard deck;
// RankJoker is used only by deck types that include jokers.
type Rank int8

const (
	Rank2 Rank = iota
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
	RankJoker
)

func (r Rank) String() string {
	names := []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "Joker"}
	if r >= 0 && int(r) < len(names) {
		return names[r]
	}
	return "?"
}

// ParseRank parses a rank name (as used in rules-file JSON, e.g. "A", "10",
// "K") back into a Rank. The second return is false for an unrecognized name.
func ParseRank(s string) (Rank, bool) {
	names := []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "Joker"}
	for i, n := range names {
		if n == s {
			return Rank(i), true
		}
	}
	return 0, false
}

// Suit is one of the four standard suits. SuitNone is used for jokers and
// for the degenerate die deck.
type Suit int8

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
	SuitNone
)

func (s Suit) String() string {
	names := []string{"♣", "♦", "♥", "♠", ""}
	if s >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Visibility tracks whether a card is shown to the table.
type Visibility int8

const (
	FaceDown Visibility = iota
	FaceUp
)

// WildType marks a card's current wild status. A card can be dynamically
// promoted to wild during play (see internal/eval wild-card rules) and
// later cleared.
type WildType int8

const (
	WildNone WildType = iota
	WildNamed                // plays as any card
	WildBug                  // limited wild: ace, or completes straight/flush
	WildMatching             // wild because it matches a promoted rank/suit
	WildNatural              // the card that triggered the wild rule itself
)

// Card is a single playing card plus the mutable state the engine tracks
// on it across a hand: visibility and wild status.
type Card struct {
	Rank       Rank       `json:"rank"`
	Suit       Suit       `json:"suit"`
	Visibility Visibility `json:"visibility"`
	Wild       WildType   `json:"wild"`
}

// New creates a face-down, non-wild card.
func New(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit, Visibility: FaceDown}
}

// IsJoker reports whether c is a joker (rank only, suit is meaningless).
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// ClearWild reverses any dynamic wild marking on c.
func (c Card) ClearWild() Card {
	c.Wild = WildNone
	return c
}

// MarkWild returns a copy of c marked wild with the given type.
func (c Card) MarkWild(t WildType) Card {
	c.Wild = t
	return c
}

// IsWild reports whether c currently plays as a wild card.
func (c Card) IsWild() bool {
	return c.Wild != WildNone
}

// FaceUpCopy returns a copy of c flipped face up.
func (c Card) FaceUpCopy() Card {
	c.Visibility = FaceUp
	return c
}

// ID returns a stable 0-51 identifier for standard-deck cards, or 52+suit
// offset for jokers (suit is repurposed as a joker index 0/1).
func (c Card) ID() int {
	if c.IsJoker() {
		return 52 + int(c.Suit)
	}
	return int(c.Rank)*4 + int(c.Suit)
}

func (c Card) String() string {
	if c.IsJoker() {
		return "Joker"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Equal compares rank and suit only (ignores visibility/wild state), which
// is what "is this card still in the deck" identity checks need.
func (c Card) Equal(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}
