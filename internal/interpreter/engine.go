// Package interpreter implements the gameplay interpreter: a step-driven
// state machine that walks a rules file's declarative gameplay script,
// dispatching action types and delegating to the betting manager, pot
// accounting, hand evaluator, and showdown manager (§4.1).
package interpreter

import (
	"fmt"

	"pokerengine/internal/betting"
	"pokerengine/internal/eval"
	"pokerengine/internal/pot"
	"pokerengine/internal/rulesfile"
	"pokerengine/internal/showdown"
	"pokerengine/internal/table"
	"pokerengine/pkg/card"
)

// Phase is the interpreter's current game phase.
type Phase string

const (
	PhaseWaiting             Phase = "waiting"
	PhaseDealing             Phase = "dealing"
	PhaseBetting             Phase = "betting"
	PhaseDrawing             Phase = "drawing"
	PhaseShowdown            Phase = "showdown"
	PhaseProtectionDecision  Phase = "protection_decision"
	PhaseComplete            Phase = "complete"
)

// PlayerSetup describes one seated player at construction time.
type PlayerSetup struct {
	ID    string
	Name  string
	Stack int
}

// Engine is one table's running instance of a parsed GameRules. It owns no
// goroutines and performs no I/O; the host (cmd/server) drives it from a
// single goroutine per table (§5).
type Engine struct {
	Rules *rulesfile.GameRules

	Table   *table.Table
	Betting *betting.Manager
	Pot     *pot.Pot
	Eval    *eval.Registry

	Shuffler card.Shuffler

	CurrentStep int
	Phase       Phase
	CurrentPlayerID string

	choices          map[string]string
	declarations     showdown.Declarations
	pendingExposes   map[string][]int
	pendingPasses    map[string][]int
	pendingDeclares  map[string][]string
	groupState       *groupedStepState
	results          []showdown.Result
	lastActionError  error
	defaultStakesOverride *betting.Stakes

	// roundOrder/roundPos track whose turn it is within a non-betting
	// interactive step (discard/draw/expose/pass/separate/declare/choose).
	roundOrder []string
	roundPos   int

	// startStacks snapshots each player's stack at the start of the hand, so
	// Result() can report net stack deltas once the hand completes.
	startStacks map[string]int

	// bettingOrder tracks whose turn it is within an active betting round,
	// and how many consecutive betting-round turns have passed so the
	// interpreter can detect round completion.
	bettingOrder []string
	bettingPos   int
	bettingStarted bool
	forcedBetsPosted bool

	// firstBettingRoundStarted distinguishes the hand's opening betting round
	// (whose CurrentBet/CurrentBets are already seeded by forced bets) from
	// every later street, which needs a fresh NewRound.
	firstBettingRoundStarted bool

	// completedBetStep is the CurrentStep index whose betting round has
	// already been driven to completion. run() re-enters executeBetStep for
	// the same step index while a player's action is pending, so this is how
	// executeBetStep tells "already resolved, just advance" apart from
	// "a new betting step, do the round setup".
	completedBetStep int

	// protectionOrder/protectionPos/protectionCost/protectionCostName drive a
	// post-deal protection-decision round (§4.1/§4.4): each player dealt a
	// face-down card in turn may pay protectionCost to flip their own
	// just-dealt card face up.
	protectionOrder    []string
	protectionPos      int
	protectionCost     int
	protectionCostName string
}

type groupedStepState struct {
	steps     []rulesfile.Step
	completed map[string]map[int]bool // playerID -> substep index -> done
	current   map[string]int          // playerID -> current substep index
}

// NewEngine constructs an Engine from parsed rules and seats the given
// players in order (matching §6's "parse rules once at construction" flow).
func NewEngine(rules *rulesfile.GameRules, players []PlayerSetup, shuffler card.Shuffler) (*Engine, error) {
	if len(players) < rules.Players.Min || len(players) > rules.Players.Max {
		return nil, fmt.Errorf("interpreter: %w: need %d-%d players, got %d", rulesfile.ErrConfig, rules.Players.Min, rules.Players.Max, len(players))
	}

	t := table.New(len(players))
	var ids []string
	for i, p := range players {
		tp := &table.Player{ID: p.ID, Name: p.Name, Stack: p.Stack, Seat: i, Hand: table.NewPlayerHand(), IsActive: true}
		if err := t.Seat(tp); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}

	e := &Engine{
		Rules:           rules,
		Table:           t,
		Pot:             pot.New(ids),
		Eval:            eval.NewRegistry(),
		Shuffler:        shuffler,
		Phase:           PhaseWaiting,
		choices:         make(map[string]string),
		declarations:    make(showdown.Declarations),
		pendingExposes:  make(map[string][]int),
		pendingPasses:   make(map[string][]int),
		pendingDeclares: make(map[string][]string),
	}
	return e, nil
}

// StartHand shuffles, deals per the gameplay script from step 0, and begins
// execution. The button seat must already be set by the caller before
// calling StartHand for hands after the first.
func (e *Engine) StartHand() error {
	if err := e.Table.ShuffleAndDeal(e.Rules.Deck.Type, e.Shuffler); err != nil {
		return err
	}
	e.Table.AssignPositions()
	e.Pot = pot.New(e.activeSeatedIDs())
	e.CurrentStep = 0
	e.Phase = PhaseDealing
	e.choices = make(map[string]string)
	e.declarations = make(showdown.Declarations)
	e.results = nil
	e.forcedBetsPosted = false
	e.bettingStarted = false
	e.firstBettingRoundStarted = false
	e.completedBetStep = -1

	stakes := e.defaultStakes()
	e.Betting = betting.New(e.structure(), stakes, e.Pot.Total, e.Pot.AnteTotal)

	e.startStacks = make(map[string]int, len(e.Table.Seats))
	for _, p := range e.Table.Seats {
		if p != nil {
			e.startStacks[p.ID] = p.Stack
		}
	}

	return e.run()
}

func (e *Engine) activeSeatedIDs() []string {
	var ids []string
	for _, p := range e.Table.Seats {
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (e *Engine) structure() betting.Structure {
	if len(e.Rules.BettingStructures) == 0 {
		return betting.NoLimit
	}
	return betting.Structure(e.Rules.BettingStructures[0])
}

// defaultStakes picks a conventional stake schedule; a real host overrides
// this via SetStakes before StartHand when table configuration (buy-in,
// blind level) demands a different schedule.
func (e *Engine) defaultStakes() betting.Stakes {
	if e.defaultStakesOverride != nil {
		return *e.defaultStakesOverride
	}
	return betting.Stakes{
		SmallBlind: 1,
		BigBlind:   2,
		Ante:       0,
		SmallBet:   2,
		BigBet:     4,
		BringIn:    1,
	}
}

// SetStakes overrides the engine's betting stakes before StartHand.
func (e *Engine) SetStakes(s betting.Stakes) {
	e.defaultStakesOverride = &s
}

// GameResult reports per-pot winners and stack deltas once a hand completes.
type GameResult struct {
	Results      []showdown.Result
	StackDeltas  map[string]int
}

// Result returns the hand's outcome; only meaningful once Phase==Complete.
func (e *Engine) Result() GameResult {
	deltas := make(map[string]int, len(e.startStacks))
	for _, p := range e.Table.Seats {
		if p == nil {
			continue
		}
		deltas[p.ID] = p.Stack - e.startStacks[p.ID]
	}
	return GameResult{Results: e.results, StackDeltas: deltas}
}
