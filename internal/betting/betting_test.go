package betting

import "testing"

func newManager(structure Structure) *Manager {
	return New(structure, Stakes{SmallBlind: 1, BigBlind: 2, SmallBet: 2, BigBet: 4}, func() int { return 0 }, func(string) int { return 0 })
}

func TestPlaceBetTracksCurrentBetAndRaiseSize(t *testing.T) {
	m := newManager(NoLimit)
	if err := m.PlaceBet("a", 2, 100, true, false); err != nil {
		t.Fatalf("post blind: %v", err)
	}
	if m.CurrentBet != 2 {
		t.Fatalf("expected current bet 2, got %d", m.CurrentBet)
	}
	if err := m.PlaceBet("b", 6, 100, false, false); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if m.CurrentBet != 6 {
		t.Fatalf("expected current bet 6, got %d", m.CurrentBet)
	}
	if m.LastRaiseSize != 4 {
		t.Fatalf("expected raise size 4, got %d", m.LastRaiseSize)
	}
	if m.LastActorID != "b" {
		t.Fatalf("expected last actor b, got %s", m.LastActorID)
	}
}

func TestPlaceBetRejectsOverStack(t *testing.T) {
	m := newManager(NoLimit)
	if err := m.PlaceBet("a", 500, 100, false, false); err == nil {
		t.Fatal("expected error betting more than stack")
	}
}

func TestRoundCompleteRequiresMatchingBets(t *testing.T) {
	m := newManager(NoLimit)
	active := []string{"a", "b"}
	if m.RoundComplete(active) {
		t.Fatal("round should not be complete before anyone acts")
	}
	if err := m.PlaceBet("a", 10, 100, false, false); err != nil {
		t.Fatal(err)
	}
	if m.RoundComplete(active) {
		t.Fatal("round should not be complete while b hasn't matched")
	}
	if err := m.PlaceBet("b", 10, 100, false, false); err != nil {
		t.Fatal(err)
	}
	if !m.RoundComplete(active) {
		t.Fatal("round should be complete once both match")
	}
}

func TestRoundCompleteSkipsAllInPlayers(t *testing.T) {
	m := newManager(NoLimit)
	active := []string{"a", "b"}
	if err := m.PlaceBet("a", 10, 10, false, false); err != nil {
		t.Fatal(err)
	}
	if !m.bet("a").IsAllIn {
		t.Fatal("expected a to be marked all-in")
	}
	if m.RoundComplete(active) {
		t.Fatal("round should not be complete until b acts")
	}
	if err := m.PlaceBet("b", 10, 100, false, false); err != nil {
		t.Fatal(err)
	}
	if !m.RoundComplete(active) {
		t.Fatal("round should be complete once b matches and a is all-in")
	}
}

func TestGetMinRaiseLimit(t *testing.T) {
	m := newManager(Limit)
	if err := m.PlaceBet("a", 2, 100, false, false); err != nil {
		t.Fatal(err)
	}
	if got, want := m.GetMinRaise("b"), 4; got != want {
		t.Fatalf("expected min raise %d, got %d", want, got)
	}
}

func TestGetMaxBetPotLimit(t *testing.T) {
	m := New(PotLimit, Stakes{SmallBlind: 1, BigBlind: 2}, func() int { return 30 }, func(string) int { return 0 })
	if err := m.PlaceBet("a", 10, 1000, false, false); err != nil {
		t.Fatal(err)
	}
	// call amount 10, pot 30 -> pot-sized raise caps at CurrentBet + pot + call = 10 + 30 + 10 = 50
	if got, want := m.GetMaxBet("b", 1000), 50; got != want {
		t.Fatalf("expected max bet %d, got %d", want, got)
	}
}

func TestNewRoundClearsPerRoundState(t *testing.T) {
	m := newManager(NoLimit)
	if err := m.PlaceBet("a", 10, 100, false, false); err != nil {
		t.Fatal(err)
	}
	m.NewRound(false)
	if m.CurrentBet != 0 {
		t.Fatalf("expected current bet reset to 0, got %d", m.CurrentBet)
	}
	if m.bet("a").HasActed {
		t.Fatal("expected per-round acted flag to clear")
	}
}

func TestCurrentBetForAndMarkFolded(t *testing.T) {
	m := newManager(NoLimit)
	if err := m.PlaceBet("a", 10, 100, false, false); err != nil {
		t.Fatal(err)
	}
	if got := m.CurrentBetFor("a"); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	m.MarkFolded("a")
	if _, ok := m.CurrentBets["a"]; ok {
		t.Fatal("expected folded player's per-round bet state to be cleared")
	}
}
