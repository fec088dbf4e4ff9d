package table

import (
	"testing"

	"pokerengine/pkg/card"
)

func seatedTable(n int, ids ...string) *Table {
	tb := New(n)
	for _, id := range ids {
		tb.Seat(&Player{ID: id, Name: id, Stack: 100, Seat: -1, Hand: NewPlayerHand(), IsActive: true})
	}
	return tb
}

func TestSeatFillsFirstEmptySeat(t *testing.T) {
	tb := New(3)
	p := &Player{ID: "a", Seat: -1, Hand: NewPlayerHand()}
	if err := tb.Seat(p); err != nil {
		t.Fatal(err)
	}
	if p.Seat != 0 {
		t.Fatalf("expected first seat (0), got %d", p.Seat)
	}
	if tb.Seats[0] != p {
		t.Fatal("expected seat 0 to hold the seated player")
	}
}

func TestSeatRejectsOccupiedExplicitSeat(t *testing.T) {
	tb := New(2)
	if err := tb.Seat(&Player{ID: "a", Seat: 0, Hand: NewPlayerHand()}); err != nil {
		t.Fatal(err)
	}
	if err := tb.Seat(&Player{ID: "b", Seat: 0, Hand: NewPlayerHand()}); err == nil {
		t.Fatal("expected an error seating into an already-occupied seat")
	}
}

func TestSeatRejectsWhenTableFull(t *testing.T) {
	tb := New(1)
	if err := tb.Seat(&Player{ID: "a", Seat: -1, Hand: NewPlayerHand()}); err != nil {
		t.Fatal(err)
	}
	if err := tb.Seat(&Player{ID: "b", Seat: -1, Hand: NewPlayerHand()}); err == nil {
		t.Fatal("expected an error seating into a full table")
	}
}

func TestActivePlayerIDsStartsFromGivenSeatAndWraps(t *testing.T) {
	tb := seatedTable(4, "a", "b", "c", "d")
	got := tb.ActivePlayerIDs(2)
	want := []string{"c", "d", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestActivePlayerIDsSkipsInactiveSeats(t *testing.T) {
	tb := seatedTable(3, "a", "b", "c")
	tb.Player("b").IsActive = false
	got := tb.ActivePlayerIDs(0)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected [a c] skipping inactive b, got %v", got)
	}
}

func TestAssignPositionsHeadsUpButtonIsSmallBlind(t *testing.T) {
	tb := seatedTable(2, "a", "b")
	tb.ButtonSeat = 0
	tb.AssignPositions()
	if tb.Player("a").Position != PositionSmallBlind {
		t.Fatalf("expected heads-up button to also be small blind, got %v", tb.Player("a").Position)
	}
	if tb.Player("b").Position != PositionBigBlind {
		t.Fatalf("expected the other heads-up player to be big blind, got %v", tb.Player("b").Position)
	}
}

func TestAssignPositionsFullRingAssignsSBBBUTG(t *testing.T) {
	tb := seatedTable(4, "a", "b", "c", "d")
	tb.ButtonSeat = 0
	tb.AssignPositions()
	if tb.Player("a").Position != PositionButton {
		t.Fatalf("expected a to be button, got %v", tb.Player("a").Position)
	}
	if tb.Player("b").Position != PositionSmallBlind {
		t.Fatalf("expected b to be small blind, got %v", tb.Player("b").Position)
	}
	if tb.Player("c").Position != PositionBigBlind {
		t.Fatalf("expected c to be big blind, got %v", tb.Player("c").Position)
	}
	if tb.Player("d").Position != PositionUTG {
		t.Fatalf("expected d to be utg, got %v", tb.Player("d").Position)
	}
}

func TestDealToMovesCardsFromDeckIntoHandWithVisibility(t *testing.T) {
	tb := seatedTable(1, "a")
	tb.Deck = []card.Card{card.New(card.RankA, card.SuitSpades), card.New(card.RankK, card.SuitHearts)}
	if err := tb.DealTo("a", 2, card.FaceDown); err != nil {
		t.Fatal(err)
	}
	if len(tb.Deck) != 0 {
		t.Fatalf("expected deck drained, got %d left", len(tb.Deck))
	}
	hand := tb.Player("a").Hand
	if len(hand.Cards) != 2 {
		t.Fatalf("expected 2 cards dealt, got %d", len(hand.Cards))
	}
	for _, c := range hand.Cards {
		if c.Visibility != card.FaceDown {
			t.Fatalf("expected face down cards, got %v", c.Visibility)
		}
	}
}

func TestDealToFailsWhenDeckTooShort(t *testing.T) {
	tb := seatedTable(1, "a")
	tb.Deck = []card.Card{card.New(card.RankA, card.SuitSpades)}
	if err := tb.DealTo("a", 2, card.FaceDown); err == nil {
		t.Fatal("expected an error dealing more cards than remain in the deck")
	}
}

func TestDealCommunityAppendsToNamedSubset(t *testing.T) {
	tb := seatedTable(1, "a")
	tb.Deck = []card.Card{
		card.New(card.Rank2, card.SuitClubs),
		card.New(card.Rank3, card.SuitClubs),
		card.New(card.Rank4, card.SuitClubs),
	}
	if err := tb.DealCommunity("flop", 3, card.FaceUp); err != nil {
		t.Fatal(err)
	}
	if len(tb.CommunitySubsets["flop"]) != 3 {
		t.Fatalf("expected 3 flop cards, got %d", len(tb.CommunitySubsets["flop"]))
	}
	for _, c := range tb.CommunitySubsets["flop"] {
		if c.Visibility != card.FaceUp {
			t.Fatal("expected community cards dealt face up")
		}
	}
}

func TestRemoveCommunitySubsetMovesCardsToDiscardPile(t *testing.T) {
	tb := seatedTable(1, "a")
	tb.CommunitySubsets["turn"] = []card.Card{card.New(card.Rank5, card.SuitHearts)}
	tb.RemoveCommunitySubset("turn")
	if _, ok := tb.CommunitySubsets["turn"]; ok {
		t.Fatal("expected the turn subset to be removed")
	}
	if len(tb.DiscardPile) != 1 {
		t.Fatalf("expected the removed card to land in the discard pile, got %d", len(tb.DiscardPile))
	}
}

func TestPlayerHandCardsInDefaultExcludesClaimedSubsets(t *testing.T) {
	h := NewPlayerHand()
	h.Add(card.New(card.RankA, card.SuitSpades))
	h.Add(card.New(card.RankK, card.SuitHearts))
	h.Add(card.New(card.RankQ, card.SuitDiamonds))
	h.AssignSubset("kicker", []int{1})

	def := h.CardsIn("default")
	if len(def) != 2 {
		t.Fatalf("expected 2 unclaimed cards, got %d", len(def))
	}
	kicker := h.CardsIn("kicker")
	if len(kicker) != 1 || kicker[0].Rank != card.RankK {
		t.Fatalf("expected kicker subset to hold the king, got %+v", kicker)
	}
}

func TestPlayerHandByVisibilityFiltersCorrectly(t *testing.T) {
	h := NewPlayerHand()
	h.Add(card.New(card.RankA, card.SuitSpades))
	c2 := card.New(card.RankK, card.SuitHearts)
	c2.Visibility = card.FaceUp
	h.Add(c2)

	up := h.ByVisibility(card.FaceUp)
	if len(up) != 1 || up[0].Rank != card.RankK {
		t.Fatalf("expected only the king to be face up, got %+v", up)
	}
}
