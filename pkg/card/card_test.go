package card

import "testing"

func TestNewReturnsFaceDownNonWildCard(t *testing.T) {
	c := New(RankA, SuitSpades)
	if c.Rank != RankA || c.Suit != SuitSpades {
		t.Fatalf("expected ace of spades, got %+v", c)
	}
	if c.Visibility != FaceDown {
		t.Fatal("expected a newly created card to be face down")
	}
	if c.IsWild() {
		t.Fatal("expected a newly created card to not be wild")
	}
}

func TestIDIsStableAndOrdered(t *testing.T) {
	if id := New(RankA, SuitSpades).ID(); id != 51 {
		t.Fatalf("expected ace of spades to have ID 51 (12*4+3), got %d", id)
	}
	if id := New(Rank2, SuitClubs).ID(); id != 0 {
		t.Fatalf("expected 2 of clubs to have ID 0, got %d", id)
	}
}

func TestJokerIDOffsetsPastTheStandardFiftyTwo(t *testing.T) {
	j0 := Card{Rank: RankJoker, Suit: 0}
	j1 := Card{Rank: RankJoker, Suit: 1}
	if j0.ID() != 52 || j1.ID() != 53 {
		t.Fatalf("expected joker IDs 52/53, got %d/%d", j0.ID(), j1.ID())
	}
	if !j0.IsJoker() {
		t.Fatal("expected a joker card to report IsJoker")
	}
	if New(RankA, SuitSpades).IsJoker() {
		t.Fatal("expected a standard card to not report IsJoker")
	}
}

func TestEqualIgnoresVisibilityAndWildState(t *testing.T) {
	a := New(RankK, SuitHearts)
	b := a.FaceUpCopy().MarkWild(WildNamed)
	if !a.Equal(b) {
		t.Fatal("expected Equal to ignore visibility and wild state")
	}
	if a.Equal(New(RankQ, SuitHearts)) {
		t.Fatal("expected cards of different rank to not be Equal")
	}
}

func TestMarkWildAndClearWildRoundTrip(t *testing.T) {
	c := New(Rank2, SuitClubs)
	if c.IsWild() {
		t.Fatal("expected a fresh card to not be wild")
	}
	wild := c.MarkWild(WildBug)
	if !wild.IsWild() || wild.Wild != WildBug {
		t.Fatalf("expected MarkWild(WildBug) to mark the card wild, got %+v", wild)
	}
	cleared := wild.ClearWild()
	if cleared.IsWild() {
		t.Fatal("expected ClearWild to reverse the wild marking")
	}
}

func TestStringFormatsRankAndSuit(t *testing.T) {
	if got := New(RankA, SuitSpades).String(); got != "A♠" {
		t.Fatalf("expected A♠, got %q", got)
	}
	if got := (Card{Rank: RankJoker}).String(); got != "Joker" {
		t.Fatalf("expected Joker, got %q", got)
	}
}
