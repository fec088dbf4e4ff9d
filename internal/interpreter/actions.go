package interpreter

import (
	"fmt"

	"pokerengine/internal/rulesfile"
	"pokerengine/internal/table"
	"pokerengine/pkg/card"
)

// ActionType names a player-initiated action (§4.4).
type ActionType string

const (
	ActionFold     ActionType = "fold"
	ActionCheck    ActionType = "check"
	ActionCall     ActionType = "call"
	ActionBet      ActionType = "bet"
	ActionRaise    ActionType = "raise"
	ActionBringIn  ActionType = "bring_in"
	ActionDiscard  ActionType = "discard"
	ActionDraw     ActionType = "draw"
	ActionExpose   ActionType = "expose"
	ActionPass     ActionType = "pass"
	ActionSeparate ActionType = "separate"
	ActionDeclare  ActionType = "declare"
	ActionChoose   ActionType = "choose"
	ActionProtect  ActionType = "protect"
)

// ValidAction is one legal action for the current player, per
// get_valid_actions.
type ValidAction struct {
	Action ActionType
	Min    int
	Max    int
	Extra  []string
}

// ActionResult reports what handle_action did.
type ActionResult struct {
	Success     bool
	Error       error
	AdvanceStep bool
}

// GetValidActions returns the legal actions for pid given the current step.
func (e *Engine) GetValidActions(pid string) ([]ValidAction, error) {
	if pid != e.CurrentPlayerID {
		return nil, fmt.Errorf("interpreter: it is not %s's turn", pid)
	}
	step := e.currentStepValue()
	switch e.Phase {
	case PhaseBetting:
		return e.bettingValidActions(pid), nil
	case PhaseDrawing:
		return e.nonBettingValidActions(pid, step), nil
	case PhaseProtectionDecision:
		return []ValidAction{{Action: ActionProtect, Min: 0, Max: e.protectionCost, Extra: []string{"pay", "decline"}}}, nil
	default:
		return nil, nil
	}
}

func (e *Engine) currentStepValue() rulesfile.Step {
	if e.groupState != nil {
		return e.groupState.steps[e.groupState.current[e.CurrentPlayerID]]
	}
	if e.CurrentStep < len(e.Rules.GamePlay) {
		return e.Rules.GamePlay[e.CurrentStep]
	}
	return rulesfile.Step{}
}

func (e *Engine) bettingValidActions(pid string) []ValidAction {
	p := e.Table.Player(pid)
	required := e.Betting.GetRequiredBet(pid)
	var actions []ValidAction
	actions = append(actions, ValidAction{Action: ActionFold})
	if required == 0 {
		actions = append(actions, ValidAction{Action: ActionCheck})
	} else {
		max := required
		if p.Stack < max {
			max = p.Stack
		}
		actions = append(actions, ValidAction{Action: ActionCall, Min: max, Max: max})
	}
	if e.Betting.CurrentBet == 0 {
		actions = append(actions, ValidAction{Action: ActionBet, Min: e.Betting.GetMinBet(pid), Max: e.Betting.GetMaxBet(pid, p.Stack)})
	} else {
		minRaise := e.Betting.GetMinRaise(pid)
		maxRaise := e.Betting.GetMaxBet(pid, p.Stack)
		if maxRaise >= minRaise {
			actions = append(actions, ValidAction{Action: ActionRaise, Min: minRaise, Max: maxRaise})
		}
	}
	return actions
}

func (e *Engine) nonBettingValidActions(pid string, step rulesfile.Step) []ValidAction {
	switch step.Kind {
	case rulesfile.StepDiscard:
		return []ValidAction{{Action: ActionDiscard, Min: 0, Max: step.Discard.MaxCount}}
	case rulesfile.StepDraw:
		return []ValidAction{{Action: ActionDraw, Min: 0, Max: step.Draw.MaxCount}}
	case rulesfile.StepExpose:
		return []ValidAction{{Action: ActionExpose, Min: step.Expose.Count, Max: step.Expose.Count}}
	case rulesfile.StepPass:
		return []ValidAction{{Action: ActionPass, Min: step.Pass.Count, Max: step.Pass.Count}}
	case rulesfile.StepSeparate:
		return []ValidAction{{Action: ActionSeparate}}
	case rulesfile.StepDeclare:
		return []ValidAction{{Action: ActionDeclare, Extra: step.Declare.Options}}
	case rulesfile.StepChoose:
		return []ValidAction{{Action: ActionChoose, Extra: step.Choose.Options}}
	}
	return nil
}

// HandleAction validates and applies pid's action (§4.4's handle_action).
func (e *Engine) HandleAction(pid string, action ActionType, amount int, cards []int, declaration []string, choiceValue string) ActionResult {
	if pid != e.CurrentPlayerID {
		return ActionResult{Error: fmt.Errorf("interpreter: it is not %s's turn", pid)}
	}

	var err error
	switch action {
	case ActionFold:
		err = e.applyFold(pid)
	case ActionCheck:
		err = e.applyBet(pid, e.Betting.CurrentBetFor(pid))
	case ActionCall:
		err = e.applyBet(pid, e.Betting.CurrentBet)
	case ActionBet, ActionRaise:
		err = e.applyBet(pid, amount)
	case ActionBringIn:
		err = e.applyBet(pid, amount)
	case ActionDiscard, ActionDraw:
		err = e.applyDiscardDraw(pid, cards, action == ActionDraw)
	case ActionExpose:
		err = e.applyExpose(pid, cards)
	case ActionPass:
		err = e.applyPass(pid, cards)
	case ActionSeparate:
		err = e.applySeparate(pid, cards)
	case ActionDeclare:
		err = e.applyDeclare(pid, declaration)
	case ActionChoose:
		err = e.applyChoose(pid, choiceValue)
	case ActionProtect:
		err = e.applyProtect(pid, choiceValue)
	default:
		err = fmt.Errorf("interpreter: unknown action %q", action)
	}
	if err != nil {
		return ActionResult{Error: err}
	}

	advanced := e.advanceAfterAction(pid)
	if advanced {
		if runErr := e.run(); runErr != nil {
			return ActionResult{Error: runErr}
		}
	}
	return ActionResult{Success: true, AdvanceStep: advanced}
}

func (e *Engine) applyFold(pid string) error {
	p := e.Table.Player(pid)
	if p == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	p.IsActive = false
	e.Pot.Fold(pid)
	e.Betting.MarkFolded(pid)
	return nil
}

func (e *Engine) applyBet(pid string, total int) error {
	p := e.Table.Player(pid)
	if p == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	isAllIn := total-e.Betting.CurrentBetFor(pid) >= p.Stack
	if err := e.Betting.PlaceBet(pid, total, p.Stack, false, false); err != nil {
		return err
	}
	p.Stack -= total - e.priorContribution(pid)
	e.priorContributionSet(pid, total)
	return e.Pot.AddBet(pid, total, isAllIn, false)
}

// priorContribution/priorContributionSet track what a player has already
// taken out of their stack this betting round, so repeated calls to
// applyBet (call then raise in the same round is impossible, but check then
// a later round's bet is common) only deduct the incremental amount.
func (e *Engine) priorContribution(pid string) int {
	return e.Betting.PriorStackDebit[pid]
}

func (e *Engine) priorContributionSet(pid string, total int) {
	if e.Betting.PriorStackDebit == nil {
		e.Betting.PriorStackDebit = make(map[string]int)
	}
	e.Betting.PriorStackDebit[pid] = total
}

func (e *Engine) applyDiscardDraw(pid string, indices []int, replace bool) error {
	p := e.Table.Player(pid)
	if p == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	// A matchRanksSubject step ignores the player's submitted selection
	// entirely: every hole card whose rank appears in the named community
	// subset is auto-discarded (§4.1's matching-ranks rule).
	step := e.currentStepValue()
	subject := ""
	switch {
	case replace && step.Draw != nil:
		subject = step.Draw.MatchRanksSubject
	case !replace && step.Discard != nil:
		subject = step.Discard.MatchRanksSubject
	}
	if subject != "" {
		indices = matchingRankIndices(p.Hand, e.Table.CommunitySubsets[subject])
	}

	discarded := removeIndices(p.Hand, indices)
	e.Table.DiscardPile = append(e.Table.DiscardPile, discarded...)
	if replace {
		return e.Table.DealTo(pid, len(discarded), card.FaceDown)
	}
	return nil
}

// matchingRankIndices finds every card in hand whose rank also appears
// somewhere in community, for the matching-ranks auto-discard rule.
func matchingRankIndices(hand *table.PlayerHand, community []card.Card) []int {
	ranks := make(map[card.Rank]bool, len(community))
	for _, c := range community {
		ranks[c.Rank] = true
	}
	var out []int
	for i, c := range hand.Cards {
		if ranks[c.Rank] {
			out = append(out, i)
		}
	}
	return out
}

func removeIndices(hand *table.PlayerHand, indices []int) []card.Card {
	remove := make(map[int]bool, len(indices))
	for _, i := range indices {
		remove[i] = true
	}
	var removed []card.Card
	var kept []card.Card
	for i, c := range hand.Cards {
		if remove[i] {
			removed = append(removed, c)
		} else {
			kept = append(kept, c)
		}
	}
	hand.Cards = kept
	hand.Subsets = map[string][]int{}
	return removed
}

// applyExpose buffers pid's chosen indices; exposure is applied to every
// player at once in flushExposes, once the whole round has acted, so no
// player's choice is influenced by another's already-visible cards.
func (e *Engine) applyExpose(pid string, indices []int) error {
	if e.Table.Player(pid) == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	e.pendingExposes[pid] = indices
	return nil
}

func (e *Engine) applyPass(pid string, indices []int) error {
	e.pendingPasses[pid] = indices
	return nil
}

// flushExposes turns every buffered index face up, for every player who
// acted this round, in one pass.
func (e *Engine) flushExposes() {
	for pid, indices := range e.pendingExposes {
		p := e.Table.Player(pid)
		if p == nil {
			continue
		}
		for _, i := range indices {
			if i >= 0 && i < len(p.Hand.Cards) {
				p.Hand.Cards[i] = p.Hand.Cards[i].FaceUpCopy()
			}
		}
	}
	e.pendingExposes = make(map[string][]int)
}

// flushPasses exchanges each player's passed cards with their neighbor in
// the configured direction, all at once (pass-the-trash), so no player sees
// another's discards before choosing their own.
func (e *Engine) flushPasses(direction string) {
	active := dealRoundPlayers(e)
	if len(active) == 0 {
		e.pendingPasses = make(map[string][]int)
		return
	}
	recipients := make(map[string]string, len(active))
	for i, pid := range active {
		var to string
		if direction == "right" {
			to = active[(i-1+len(active))%len(active)]
		} else { // left, across, or unspecified default to left neighbor
			to = active[(i+1)%len(active)]
		}
		recipients[pid] = to
	}

	incoming := make(map[string][]card.Card, len(active))
	for pid, indices := range e.pendingPasses {
		p := e.Table.Player(pid)
		if p == nil {
			continue
		}
		passed := removeIndices(p.Hand, indices)
		incoming[recipients[pid]] = append(incoming[recipients[pid]], passed...)
	}
	for pid, cards := range incoming {
		p := e.Table.Player(pid)
		if p == nil {
			continue
		}
		for _, c := range cards {
			p.Hand.Add(c)
		}
	}
	e.pendingPasses = make(map[string][]int)
}

// applySeparate assigns indices to the step's first named subset (e.g.
// "front") and every remaining card to the second (e.g. "back"); a step
// with only one subset name puts every card there.
func (e *Engine) applySeparate(pid string, indices []int) error {
	p := e.Table.Player(pid)
	if p == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	step := e.currentStepValue()
	if step.Separate == nil || len(step.Separate.Into) == 0 {
		return fmt.Errorf("interpreter: separate step has no subset names")
	}
	into := step.Separate.Into
	p.Hand.AssignSubset(into[0], indices)
	if len(into) > 1 {
		chosen := make(map[int]bool, len(indices))
		for _, i := range indices {
			chosen[i] = true
		}
		var rest []int
		for i := range p.Hand.Cards {
			if !chosen[i] {
				rest = append(rest, i)
			}
		}
		p.Hand.AssignSubset(into[1], rest)
	}
	return nil
}

// applyDeclare buffers pid's declaration; declarations become visible to
// the showdown manager only once the whole round has declared, via
// flushDeclares, so no player's choice is informed by another's. A
// declaration must cover every pot share this declare step offers or it is
// rejected outright (spec's resolved ambiguity: partial declarations are not
// allowed through this action, distinct from internal/showdown's own lenient
// fallback for declarations that arrive some other way).
func (e *Engine) applyDeclare(pid string, declaration []string) error {
	step := e.currentStepValue()
	if step.Declare == nil {
		return fmt.Errorf("interpreter: no declare step is active")
	}
	if len(declaration) == 0 {
		return fmt.Errorf("interpreter: %s must declare for at least one pot share", pid)
	}
	valid := make(map[string]bool, len(step.Declare.Options))
	for _, opt := range step.Declare.Options {
		valid[opt] = true
	}
	seen := make(map[string]bool, len(declaration))
	for _, d := range declaration {
		if !valid[d] {
			return fmt.Errorf("interpreter: %q is not a valid declaration option for %s", d, pid)
		}
		if seen[d] {
			return fmt.Errorf("interpreter: %s declared %q more than once", pid, d)
		}
		seen[d] = true
	}
	if len(declaration) != len(step.Declare.Options) {
		return fmt.Errorf("interpreter: %s must declare for every available pot share %v, got %v", pid, step.Declare.Options, declaration)
	}
	e.pendingDeclares[pid] = declaration
	return nil
}

func (e *Engine) flushDeclares() {
	for pid, d := range e.pendingDeclares {
		e.declarations[pid] = d
	}
	e.pendingDeclares = make(map[string][]string)
}

// applyProtect handles a protection-decision response: "pay" deducts the
// configured cost from pid's stack into the pot and flips their most
// recently dealt hole card face up immediately; "decline" (or any other
// value) leaves the card face down.
func (e *Engine) applyProtect(pid string, value string) error {
	if value != "pay" {
		return nil
	}
	p := e.Table.Player(pid)
	if p == nil {
		return fmt.Errorf("interpreter: unknown player %s", pid)
	}
	if p.Stack < e.protectionCost {
		return fmt.Errorf("interpreter: %s cannot afford the %d-chip protection cost", pid, e.protectionCost)
	}
	p.Stack -= e.protectionCost
	e.Pot.AddSidePayment(e.protectionCost)
	if n := len(p.Hand.Cards); n > 0 {
		p.Hand.Cards[n-1] = p.Hand.Cards[n-1].FaceUpCopy()
	}
	return nil
}

func (e *Engine) applyChoose(pid string, value string) error {
	step := e.currentStepValue()
	if step.Choose != nil {
		e.choices[step.Choose.Key] = value
	}
	return nil
}

// advanceAfterAction moves CurrentPlayerID to the next player in the
// current round, or signals the round is over (returning true) so run()
// resumes normal step advancement.
func (e *Engine) advanceAfterAction(pid string) bool {
	switch e.Phase {
	case PhaseBetting:
		active := e.Table.ActivePlayerIDs(e.Table.ButtonSeat)
		if len(active) <= 1 || e.Betting.RoundComplete(active) {
			e.bettingStarted = false
			e.completedBetStep = e.CurrentStep
			return true
		}
		e.bettingPos++
		e.CurrentPlayerID = e.bettingOrder[e.bettingPos%len(e.bettingOrder)]
		return false
	case PhaseDrawing:
		e.roundPos++
		if e.roundPos >= len(e.roundOrder) {
			e.flushRoundBuffers()
			if e.groupState == nil {
				e.CurrentStep++
			}
			return true
		}
		e.CurrentPlayerID = e.roundOrder[e.roundPos]
		return false
	case PhaseProtectionDecision:
		e.protectionPos++
		if e.protectionPos >= len(e.protectionOrder) {
			// A lowest_hole wild rule depends on hole-card visibility, which
			// protection decisions can change, so recompute it now that every
			// player has decided (mirrors the original's post-protection
			// recompute).
			if len(e.Rules.WildCards) > 0 {
				e.applyWildCards(e.Rules.WildCards)
			}
			if e.groupState == nil {
				e.CurrentStep++
			}
			return true
		}
		e.CurrentPlayerID = e.protectionOrder[e.protectionPos]
		return false
	}
	return true
}

// flushRoundBuffers applies whichever per-player buffer the just-finished
// interactive round fills, atomically, per §4.1's expose/pass/declare rule.
func (e *Engine) flushRoundBuffers() {
	step := e.currentStepValue()
	switch step.Kind {
	case rulesfile.StepExpose:
		e.flushExposes()
	case rulesfile.StepPass:
		direction := ""
		if step.Pass != nil {
			direction = step.Pass.Direction
		}
		e.flushPasses(direction)
	case rulesfile.StepDeclare:
		e.flushDeclares()
	}
}
