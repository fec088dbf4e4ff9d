package host

import (
	"context"
	"strings"
	"testing"
	"time"

	"pokerengine/internal/analytics"
	"pokerengine/internal/config"
	"pokerengine/internal/interpreter"
	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/rng"
)

const testHeadsUpHoldem = `{
	"game": "test_host_holdem",
	"players": {"min": 2, "max": 2},
	"deck": {"type": "standard-52"},
	"bettingStructures": ["no-limit"],
	"forcedBets": {"style": "blinds"},
	"bettingOrder": {"initial": "after_big_blind", "subsequent": "dealer"},
	"gamePlay": [
		{"deal": {"target": "hole", "count": 2, "visibility": "face_down"}},
		{"bet": {"round": "preflop"}},
		{"deal": {"target": "community", "subset": "flop", "count": 3, "visibility": "face_up"}},
		{"bet": {"round": "flop"}},
		{"deal": {"target": "community", "subset": "turn", "count": 1, "visibility": "face_up"}},
		{"bet": {"round": "turn"}},
		{"deal": {"target": "community", "subset": "river", "count": 1, "visibility": "face_up"}},
		{"bet": {"round": "river"}},
		{"showdown": {}}
	],
	"showdown": {"pots": [{"name": "high", "hand": {"evalType": "high", "anyCards": [5, 5]}}]}
}`

// stubPublisher records whether it was invoked, without talking to any real
// analytics backend. Tests that do not wire analytics pass a nil Publisher
// instead.
type stubPublisher struct {
	published chan analytics.HandCompletedEvent
	recorded  chan []*analytics.HandEvent
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{
		published: make(chan analytics.HandCompletedEvent, 4),
		recorded:  make(chan []*analytics.HandEvent, 4),
	}
}

func (s *stubPublisher) RecordHandEvents(ctx context.Context, events []*analytics.HandEvent) error {
	s.recorded <- events
	return nil
}

func (s *stubPublisher) PublishHandCompleted(event analytics.HandCompletedEvent) error {
	s.published <- event
	return nil
}

func newTestTable(t *testing.T, publisher Publisher) *Table {
	t.Helper()
	rules, err := rulesfile.Parse(strings.NewReader(testHeadsUpHoldem))
	if err != nil {
		t.Fatal(err)
	}
	rngSystem, err := rng.NewSystem(nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultTableConfig("table-1", "")
	cfg.MinPlayers = 2
	cfg.MaxPlayers = 2
	tbl, err := NewTable(cfg, rules, rngSystem, publisher)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestJoinSeatsPlayersWithinBuyInBounds(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "bob", 500); err != nil {
		t.Fatal(err)
	}
	snap := tbl.State()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 seated players, got %d", len(snap.Players))
	}
}

func TestJoinRejectsBuyInOutsideBounds(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 1); err == nil {
		t.Fatal("expected an error for a buy-in below the configured minimum")
	}
	if err := tbl.Join("p1", "alice", 1_000_000); err == nil {
		t.Fatal("expected an error for a buy-in above the configured maximum")
	}
}

func TestJoinIsIdempotentForAnAlreadySeatedPlayer(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatalf("expected rejoining an already-seated player to be a no-op, got %v", err)
	}
	if got := len(tbl.State().Players); got != 1 {
		t.Fatalf("expected exactly 1 seated player after rejoining, got %d", got)
	}
}

func TestJoinRejectsATableThatIsAlreadyFull(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "bob", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p3", "carol", 500); err != ErrTableFull {
		t.Fatalf("expected ErrTableFull for a third join on a 2-max table, got %v", err)
	}
}

func TestLeaveRemovesASeatedPlayer(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Leave("p1"); err != nil {
		t.Fatal(err)
	}
	if got := len(tbl.State().Players); got != 0 {
		t.Fatalf("expected 0 seated players after Leave, got %d", got)
	}
}

func TestLeaveUnknownPlayerErrors(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Leave("nobody"); err != ErrPlayerNotFound {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

// TestStartDealsAHandOnceEnoughPlayersAreSeated exercises the table's own
// ticker loop (tick() polls every 50ms), so it waits on real wall-clock time
// rather than asserting synchronously.
func TestStartDealsAHandOnceEnoughPlayersAreSeated(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "bob", 500); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tbl.Start(ctx)
	defer tbl.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tbl.State().Phase == string(interpreter.PhaseBetting) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected the table to deal a hand and reach PhaseBetting within 2s, got phase %q", tbl.State().Phase)
}

// TestSubmitActionAppliesAnActionAndAdvancesTheHand drives one full action
// through the running table's goroutine and confirms the state mutates.
func TestSubmitActionAppliesAnActionAndAdvancesTheHand(t *testing.T) {
	tbl := newTestTable(t, nil)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "bob", 500); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tbl.Start(ctx)
	defer tbl.Stop()

	var currentPlayer string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := tbl.State()
		if snap.Phase == string(interpreter.PhaseBetting) && snap.CurrentPlayerID != "" {
			currentPlayer = snap.CurrentPlayerID
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if currentPlayer == "" {
		t.Fatal("expected a hand to reach a betting decision within 2s")
	}

	actionCtx, actionCancel := context.WithTimeout(context.Background(), time.Second)
	defer actionCancel()
	result, err := tbl.SubmitAction(actionCtx, currentPlayer, interpreter.ActionFold, 0, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("expected the fold action to succeed, got error %v", result.Error)
	}
}

// TestPublisherReceivesACompletedHand confirms a heads-up fold (the
// shortest possible hand) reaches the configured Publisher.
func TestPublisherReceivesACompletedHand(t *testing.T) {
	pub := newStubPublisher()
	tbl := newTestTable(t, pub)
	if err := tbl.Join("p1", "alice", 500); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Join("p2", "bob", 500); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tbl.Start(ctx)
	defer tbl.Stop()

	var currentPlayer string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := tbl.State()
		if snap.Phase == string(interpreter.PhaseBetting) && snap.CurrentPlayerID != "" {
			currentPlayer = snap.CurrentPlayerID
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if currentPlayer == "" {
		t.Fatal("expected a hand to reach a betting decision within 2s")
	}

	actionCtx, actionCancel := context.WithTimeout(context.Background(), time.Second)
	defer actionCancel()
	if _, err := tbl.SubmitAction(actionCtx, currentPlayer, interpreter.ActionFold, 0, nil, nil, ""); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-pub.published:
		if event.TableID != "table-1" {
			t.Fatalf("expected the event to be tagged with table-1, got %s", event.TableID)
		}
	case <-time.After(time.Second):
		t.Fatal("expected PublishHandCompleted to fire after a fold-win hand")
	}

	select {
	case events := <-pub.recorded:
		if len(events) != 2 {
			t.Fatalf("expected one hand_analytics row per seated player (2), got %d", len(events))
		}
		for _, e := range events {
			if e.HandID == "" || e.TableID != "table-1" {
				t.Fatalf("expected each event to carry a hand id and table-1, got %+v", e)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("expected RecordHandEvents to fire alongside PublishHandCompleted")
	}
}
