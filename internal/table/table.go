// Package table implements the table & card model: seats, positions, deck,
// hands, and named community-card subsets (§4.7).
package table

import (
	"fmt"

	"pokerengine/pkg/card"
)

// Position is a seat's tag relative to the button.
type Position string

const (
	PositionButton    Position = "button"
	PositionSmallBlind Position = "small_blind"
	PositionBigBlind  Position = "big_blind"
	PositionUTG       Position = "utg"
	PositionOther     Position = "other"
)

// PlayerHand is an ordered list of cards plus named subsets, per §3: "each
// card may be in at most one named subset; cards not in any subset belong
// to 'default'".
type PlayerHand struct {
	Cards   []card.Card
	Subsets map[string][]int // subset name -> indices into Cards
}

// NewPlayerHand creates an empty hand.
func NewPlayerHand() *PlayerHand {
	return &PlayerHand{Subsets: make(map[string][]int)}
}

// Add appends c to the hand's default ordering and returns its index.
func (h *PlayerHand) Add(c card.Card) int {
	h.Cards = append(h.Cards, c)
	return len(h.Cards) - 1
}

// CardsIn returns the cards belonging to a named subset; "default" (or "")
// returns cards not claimed by any other subset.
func (h *PlayerHand) CardsIn(subset string) []card.Card {
	if subset == "" || subset == "default" {
		claimed := make(map[int]bool)
		for name, idxs := range h.Subsets {
			if name == "default" {
				continue
			}
			for _, i := range idxs {
				claimed[i] = true
			}
		}
		var out []card.Card
		for i, c := range h.Cards {
			if !claimed[i] {
				out = append(out, c)
			}
		}
		return out
	}
	idxs := h.Subsets[subset]
	out := make([]card.Card, len(idxs))
	for i, idx := range idxs {
		out[i] = h.Cards[idx]
	}
	return out
}

// AssignSubset records that the cards at the given indices belong to name.
func (h *PlayerHand) AssignSubset(name string, indices []int) {
	h.Subsets[name] = append([]int(nil), indices...)
}

// ByVisibility returns the hand's cards matching v.
func (h *PlayerHand) ByVisibility(v card.Visibility) []card.Card {
	var out []card.Card
	for _, c := range h.Cards {
		if c.Visibility == v {
			out = append(out, c)
		}
	}
	return out
}

// Player is one seated participant.
type Player struct {
	ID       string
	Name     string
	Stack    int
	Seat     int
	Hand     *PlayerHand
	IsActive bool
	Position Position
}

// Table holds seats, the button, deck, discard pile, and named community
// card subsets.
type Table struct {
	Seats         []*Player // index 0..N-1, nil entries are empty seats
	ButtonSeat    int
	Deck          []card.Card
	DiscardPile   []card.Card
	CommunitySubsets map[string][]card.Card
}

// New creates an empty table with n seats.
func New(n int) *Table {
	return &Table{
		Seats:            make([]*Player, n),
		CommunitySubsets: make(map[string][]card.Card),
	}
}

// Seat places p into the first empty seat, or a specific seat index if
// requested via p.Seat >= 0 and that seat is empty.
func (t *Table) Seat(p *Player) error {
	if p.Seat >= 0 {
		if p.Seat >= len(t.Seats) {
			return fmt.Errorf("table: seat %d out of range", p.Seat)
		}
		if t.Seats[p.Seat] != nil {
			return fmt.Errorf("table: seat %d already occupied", p.Seat)
		}
		t.Seats[p.Seat] = p
		return nil
	}
	for i, s := range t.Seats {
		if s == nil {
			p.Seat = i
			t.Seats[i] = p
			return nil
		}
	}
	return fmt.Errorf("table: no empty seat available")
}

// ActivePlayerIDs returns seated, active players' IDs in seat order starting
// at fromSeat and wrapping around.
func (t *Table) ActivePlayerIDs(fromSeat int) []string {
	var out []string
	n := len(t.Seats)
	for i := 0; i < n; i++ {
		idx := (fromSeat + i) % n
		p := t.Seats[idx]
		if p != nil && p.IsActive {
			out = append(out, p.ID)
		}
	}
	return out
}

// Player returns the seated player with the given ID, or nil.
func (t *Table) Player(id string) *Player {
	for _, p := range t.Seats {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// AssignPositions tags seats relative to the button, using a standard
// SB/BB/UTG/other scheme. Heads-up (2 active players) treats the button as
// also the small blind, matching standard heads-up convention.
func (t *Table) AssignPositions() {
	active := t.ActivePlayerIDs(t.ButtonSeat)
	for _, p := range t.Seats {
		if p != nil {
			p.Position = PositionOther
		}
	}
	if len(active) == 0 {
		return
	}
	button := t.Player(active[0])
	button.Position = PositionButton
	if len(active) == 2 {
		button.Position = PositionSmallBlind
		t.Player(active[1]).Position = PositionBigBlind
		return
	}
	if len(active) > 1 {
		t.Player(active[1]).Position = PositionSmallBlind
	}
	if len(active) > 2 {
		t.Player(active[2]).Position = PositionBigBlind
	}
	if len(active) > 3 {
		t.Player(active[3]).Position = PositionUTG
	}
}

// DealTo draws n cards from the deck into the player's hand.
func (t *Table) DealTo(pid string, n int, visibility card.Visibility) error {
	p := t.Player(pid)
	if p == nil {
		return fmt.Errorf("table: unknown player %s", pid)
	}
	if len(t.Deck) < n {
		return fmt.Errorf("table: deck has %d cards, need %d", len(t.Deck), n)
	}
	for i := 0; i < n; i++ {
		c := t.Deck[0]
		t.Deck = t.Deck[1:]
		c.Visibility = visibility
		p.Hand.Add(c)
	}
	return nil
}

// DealCommunity draws n cards from the deck into a named community subset.
func (t *Table) DealCommunity(subset string, n int, visibility card.Visibility) error {
	if len(t.Deck) < n {
		return fmt.Errorf("table: deck has %d cards, need %d", len(t.Deck), n)
	}
	for i := 0; i < n; i++ {
		c := t.Deck[0]
		t.Deck = t.Deck[1:]
		c.Visibility = visibility
		t.CommunitySubsets[subset] = append(t.CommunitySubsets[subset], c)
	}
	return nil
}

// RemoveCommunitySubset discards subset's cards entirely (board-removal
// games).
func (t *Table) RemoveCommunitySubset(subset string) {
	t.DiscardPile = append(t.DiscardPile, t.CommunitySubsets[subset]...)
	delete(t.CommunitySubsets, subset)
}

// ShuffleAndDeal replaces the deck with a freshly shuffled one of the given
// type, using src for randomness.
func (t *Table) ShuffleAndDeal(deckType card.DeckType, src card.Shuffler) error {
	deck, err := card.NewDeck(deckType)
	if err != nil {
		return err
	}
	card.Shuffle(deck, src)
	t.Deck = deck
	return nil
}
