// Package host wraps the generic interpreter.Engine in a channel-driven
// goroutine-per-table loop, grounded on the teacher's Table.gameLoop
// pattern: one goroutine owns the engine, everything else talks to it
// through buffered channels so no caller needs its own locking.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pokerengine/internal/analytics"
	"pokerengine/internal/config"
	"pokerengine/internal/interpreter"
	"pokerengine/internal/metrics"
	"pokerengine/internal/rulesfile"
	"pokerengine/internal/table"
	"pokerengine/pkg/rng"
)

var (
	ErrTableFull       = errors.New("host: table is full")
	ErrNoSeatsAvailable = errors.New("host: no seats available")
	ErrPlayerNotFound  = errors.New("host: player not found")
	ErrHandInProgress  = errors.New("host: a hand is already in progress")
	ErrNotEnoughPlayers = errors.New("host: not enough seated players to start a hand")
)

// actionRequest is one player action queued onto the table's goroutine.
type actionRequest struct {
	playerID    string
	action      interpreter.ActionType
	amount      int
	cards       []int
	declaration []string
	choiceValue string
	result      chan interpreter.ActionResult
}

// seatedPlayer tracks a table's view of one seat, independent of whether
// the player is currently dealt into a hand.
type seatedPlayer struct {
	id    string
	name  string
	stack int
}

// Publisher is the subset of analytics sinks a Table pushes completed
// hands to; cmd/server wires concrete ClickHouse/Kafka implementations,
// tests can supply a stub.
type Publisher interface {
	RecordHandEvents(ctx context.Context, events []*analytics.HandEvent) error
	PublishHandCompleted(event analytics.HandCompletedEvent) error
}

// HandArchiver durably records a finished hand; cmd/server wires this to
// postgres.HandHistoryStore. It's optional, so tests and a bare in-memory
// host can both leave it nil.
type HandArchiver interface {
	RecordHand(ctx context.Context, rec HandHistoryRecord) error
}

// HandHistoryRecord mirrors postgres.HandHistoryRecord without internal/host
// importing internal/storage/postgres; the two shapes are kept in sync by
// hand since the archiver interface exists precisely to decouple them.
type HandHistoryRecord struct {
	HandID      string
	TableID     string
	GameType    string
	NumPlayers  int
	TotalPot    int64
	SidePots    int
	WasShowdown bool
	StackDeltas map[string]int
	PlayedAt    time.Time
}

// Table runs one poker table's hand-after-hand loop in its own goroutine.
type Table struct {
	cfg   config.TableConfig
	rules *rulesfile.GameRules
	rng   *rng.System

	mu      sync.RWMutex
	engine  *interpreter.Engine
	players []*seatedPlayer // nil entries are empty seats
	button  int
	running bool

	actions  chan actionRequest
	stopChan chan struct{}
	wg       sync.WaitGroup
	tickRate time.Duration

	publisher Publisher
	archiver  HandArchiver
	handSeq   int
}

// NewTable constructs a table for the given config and parsed rules file;
// the caller seats players with Join before calling Start.
func NewTable(cfg config.TableConfig, rules *rulesfile.GameRules, rngSystem *rng.System, publisher Publisher) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		cfg:       cfg,
		rules:     rules,
		rng:       rngSystem,
		players:   make([]*seatedPlayer, cfg.MaxPlayers),
		actions:   make(chan actionRequest, 16),
		stopChan:  make(chan struct{}),
		tickRate:  50 * time.Millisecond,
		publisher: publisher,
	}, nil
}

// SetArchiver attaches the optional durable hand-history sink; call before
// Start. A nil archiver (the zero value) leaves hand archiving disabled.
func (t *Table) SetArchiver(archiver HandArchiver) {
	t.archiver = archiver
}

// Start begins the table's loop in a background goroutine.
func (t *Table) Start(ctx context.Context) {
	t.wg.Add(1)
	go t.loop(ctx)
	metrics.ActiveTables.Inc()
}

// Stop gracefully shuts the table's goroutine down.
func (t *Table) Stop() {
	close(t.stopChan)
	t.wg.Wait()
	metrics.ActiveTables.Dec()
}

func (t *Table) loop(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopChan:
			return
		case req := <-t.actions:
			req.result <- t.handleAction(req)
		case <-ticker.C:
			t.tick()
		}
	}
}

// tick starts the next hand once one has finished and enough players are
// seated; the interpreter itself is synchronous, so there is no per-tick
// betting-phase polling the way the teacher's hardcoded engine needed.
func (t *Table) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine != nil && t.engine.Phase != interpreter.PhaseComplete {
		return
	}
	if t.countSeated() < t.cfg.MinPlayers {
		return
	}
	t.startHandLocked()
}

// Join seats a new player, or reconnects one already seated.
func (t *Table) Join(playerID, name string, buyIn int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, p := range t.players {
		if p != nil && p.id == playerID {
			return nil
		}
	}
	if buyIn < t.cfg.BuyInMin || buyIn > t.cfg.BuyInMax {
		return fmt.Errorf("host: buy-in %d outside [%d, %d]", buyIn, t.cfg.BuyInMin, t.cfg.BuyInMax)
	}
	for i, p := range t.players {
		if p == nil {
			t.players[i] = &seatedPlayer{id: playerID, name: name, stack: buyIn}
			return nil
		}
	}
	return ErrTableFull
}

// Leave removes a seated player; mid-hand players are folded first by the
// caller via SubmitAction(ActionFold) before Leave is called.
func (t *Table) Leave(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, p := range t.players {
		if p != nil && p.id == playerID {
			t.players[i] = nil
			return nil
		}
	}
	return ErrPlayerNotFound
}

func (t *Table) countSeated() int {
	n := 0
	for _, p := range t.players {
		if p != nil {
			n++
		}
	}
	return n
}

// startHandLocked builds a fresh Engine from the currently seated players
// and starts dealing. Caller must hold t.mu.
func (t *Table) startHandLocked() {
	var setups []interpreter.PlayerSetup
	for _, p := range t.players {
		if p != nil && p.stack > 0 {
			setups = append(setups, interpreter.PlayerSetup{ID: p.id, Name: p.name, Stack: p.stack})
		}
	}
	if len(setups) < t.cfg.MinPlayers {
		return
	}

	engine, err := interpreter.NewEngine(t.rules, setups, t.rng)
	if err != nil {
		return
	}
	engine.SetStakes(t.cfg.Stakes)
	t.engine = engine
	t.button = (t.button + 1) % len(setups)
	if err := engine.StartHand(); err != nil {
		return
	}
	if engine.Phase == interpreter.PhaseComplete {
		t.finishHandLocked()
	}
}

// handleAction validates and applies one player action against the
// running engine, called only from the table's own goroutine.
func (t *Table) handleAction(req actionRequest) interpreter.ActionResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.engine == nil {
		return interpreter.ActionResult{Success: false, Error: ErrHandInProgress}
	}
	metrics.RecordAction(string(req.action))
	result := t.engine.HandleAction(req.playerID, req.action, req.amount, req.cards, req.declaration, req.choiceValue)
	if result.Success && t.engine.Phase == interpreter.PhaseComplete {
		t.finishHandLocked()
	}
	return result
}

// finishHandLocked applies stack changes back into seated-player state,
// records metrics, and pushes the hand to analytics. Caller must hold t.mu.
func (t *Table) finishHandLocked() {
	if t.engine == nil {
		return
	}
	result := t.engine.Result()
	chipsBefore := make(map[string]int64, len(t.players))
	var engineTable = t.engine.Table
	for _, p := range t.players {
		if p == nil {
			continue
		}
		chipsBefore[p.id] = int64(p.stack)
		if delta, ok := result.StackDeltas[p.id]; ok {
			p.stack += delta
		}
	}

	variant := ""
	bettingType := ""
	if t.rules != nil {
		variant = t.rules.Game
		if len(t.rules.BettingStructures) > 0 {
			bettingType = t.rules.BettingStructures[0]
		}
	}
	wasShowdown := len(result.Results) > 0 && !result.Results[0].FoldWin
	potTotal, sidePots := potSummary(result)
	metrics.RecordHandComplete(variant, potTotal, sidePots, wasShowdown)

	t.handSeq++
	handID := fmt.Sprintf("%s-%d", t.cfg.TableID, t.handSeq)
	numPlayers := t.countSeated()

	if t.publisher != nil {
		events := buildHandEvents(engineTable, t.players, chipsBefore, t.cfg.TableID, handID, variant, bettingType, potTotal, sidePots, numPlayers, wasShowdown)
		go t.publishHand(handID, variant, numPlayers, potTotal, sidePots, wasShowdown, result, events)
	}
	if t.archiver != nil {
		go t.archiveHand(handID, variant, numPlayers, potTotal, sidePots, wasShowdown, result)
	}
}

// buildHandEvents makes one analytics.HandEvent per seated player, the
// per-player rows Sink.RecordHandEvents writes to hand_analytics.
func buildHandEvents(engineTable *table.Table, players []*seatedPlayer, chipsBefore map[string]int64, tableID, handID, variant, bettingType string, potTotal, sidePots, numPlayers int, wasShowdown bool) []*analytics.HandEvent {
	now := time.Now()
	events := make([]*analytics.HandEvent, 0, numPlayers)
	for seat, p := range players {
		if p == nil {
			continue
		}
		position := ""
		if engineTable != nil {
			if tp := engineTable.Player(p.id); tp != nil {
				position = string(tp.Position)
			}
		}
		events = append(events, &analytics.HandEvent{
			EventID:     fmt.Sprintf("%s-%s", handID, p.id),
			HandID:      handID,
			TableID:     tableID,
			GameType:    variant,
			BettingType: bettingType,
			PlayerID:    p.id,
			SeatNumber:  int32(seat),
			Position:    position,
			ChipsBefore: chipsBefore[p.id],
			ChipsAfter:  int64(p.stack),
			TotalPot:    int64(potTotal),
			NumPlayers:  int32(numPlayers),
			SidePots:    int32(sidePots),
			WasShowdown: wasShowdown,
			Timestamp:   now,
		})
	}
	return events
}

func potSummary(result interpreter.GameResult) (total int, sidePots int) {
	potTotals := map[int]int{}
	for _, r := range result.Results {
		for _, a := range r.Awards {
			potTotals[a.PotOrder] += a.Amount
		}
	}
	for _, amt := range potTotals {
		total += amt
	}
	if len(potTotals) > 0 {
		sidePots = len(potTotals) - 1
	}
	return total, sidePots
}

// publishHand sends the finished hand to analytics off the table's
// goroutine; a slow or unreachable sink never stalls gameplay. It touches
// no Table-owned state, so it needs no lock. The per-player hand_analytics
// rows and the hand.completed event are independent RecordHandEvents/
// PublishHandCompleted calls, matching Sink's own separation of ClickHouse
// from Kafka.
func (t *Table) publishHand(handID, variant string, numPlayers, potTotal, sidePots int, wasShowdown bool, result interpreter.GameResult, events []*analytics.HandEvent) {
	if len(events) > 0 {
		t.publisher.RecordHandEvents(context.Background(), events)
	}
	t.publisher.PublishHandCompleted(analytics.HandCompletedEvent{
		HandID:      handID,
		TableID:     t.cfg.TableID,
		GameType:    variant,
		NumPlayers:  numPlayers,
		TotalPot:    potTotal,
		SidePots:    sidePots,
		WasShowdown: wasShowdown,
		StackDeltas: result.StackDeltas,
		Timestamp:   time.Now(),
	})
}

// archiveHand durably records the finished hand off the table's goroutine,
// mirroring publishHand's fire-and-forget shape so a slow database never
// stalls gameplay.
func (t *Table) archiveHand(handID, variant string, numPlayers, potTotal, sidePots int, wasShowdown bool, result interpreter.GameResult) {
	t.archiver.RecordHand(context.Background(), HandHistoryRecord{
		HandID:      handID,
		TableID:     t.cfg.TableID,
		GameType:    variant,
		NumPlayers:  numPlayers,
		TotalPot:    int64(potTotal),
		SidePots:    sidePots,
		WasShowdown: wasShowdown,
		StackDeltas: result.StackDeltas,
		PlayedAt:    time.Now(),
	})
}

// SubmitAction queues a player action onto the table's goroutine and
// blocks for the result, or until ctx is done.
func (t *Table) SubmitAction(ctx context.Context, playerID string, action interpreter.ActionType, amount int, cards []int, declaration []string, choiceValue string) (interpreter.ActionResult, error) {
	req := actionRequest{
		playerID:    playerID,
		action:      action,
		amount:      amount,
		cards:       cards,
		declaration: declaration,
		choiceValue: choiceValue,
		result:      make(chan interpreter.ActionResult, 1),
	}
	select {
	case t.actions <- req:
	case <-ctx.Done():
		return interpreter.ActionResult{}, ctx.Err()
	case <-t.stopChan:
		return interpreter.ActionResult{}, ErrHandInProgress
	}
	select {
	case res := <-req.result:
		return res, nil
	case <-ctx.Done():
		return interpreter.ActionResult{}, ctx.Err()
	}
}

// StateSnapshot is a read-only view of the table for API responses.
type StateSnapshot struct {
	TableID         string
	Phase           string
	CurrentPlayerID string
	Players         []PlayerView
}

// PlayerView is one seat's public-facing state.
type PlayerView struct {
	ID    string
	Name  string
	Stack int
	Seat  int
}

// State returns a snapshot of the table suitable for serializing to API
// clients; it never exposes hidden hole cards.
func (t *Table) State() StateSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := StateSnapshot{TableID: t.cfg.TableID}
	if t.engine != nil {
		snap.Phase = string(t.engine.Phase)
		snap.CurrentPlayerID = t.engine.CurrentPlayerID
	}
	for i, p := range t.players {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, PlayerView{ID: p.id, Name: p.name, Stack: p.stack, Seat: i})
	}
	return snap
}
