package interpreter

import (
	"pokerengine/internal/betting"
	"pokerengine/internal/eval"
	"pokerengine/internal/rulesfile"
	"pokerengine/internal/showdown"
	"pokerengine/internal/table"
	"pokerengine/pkg/card"
)

// run advances through non-interactive steps automatically and stops as
// soon as an interactive step needs player input, or the script completes.
func (e *Engine) run() error {
	for e.CurrentStep < len(e.Rules.GamePlay) {
		step := e.Rules.GamePlay[e.CurrentStep]
		if !e.conditionHolds(step.Condition, e.CurrentPlayerID) {
			e.CurrentStep++
			continue
		}

		advanced, waiting, err := e.executeStep(step)
		if err != nil {
			return err
		}
		if waiting {
			return nil
		}
		if advanced {
			e.CurrentStep++
		}
	}
	e.Phase = PhaseComplete
	e.CurrentPlayerID = ""
	return nil
}

// executeStep runs one gameplay step. It returns (advance, waiting, err):
// advance means the interpreter should move to the next step; waiting means
// execution paused for player input (advance happens later, from
// HandleAction).
func (e *Engine) executeStep(step rulesfile.Step) (bool, bool, error) {
	switch step.Kind {
	case rulesfile.StepBet:
		return e.executeBetStep(step.Bet)
	case rulesfile.StepDeal:
		return e.executeDealStep(step.Deal)
	case rulesfile.StepDiscard, rulesfile.StepDraw:
		return e.beginInteractiveRound(dealRoundPlayers(e))
	case rulesfile.StepExpose:
		return e.beginInteractiveRound(dealRoundPlayers(e))
	case rulesfile.StepPass:
		return e.beginInteractiveRound(dealRoundPlayers(e))
	case rulesfile.StepSeparate:
		return e.beginInteractiveRound(dealRoundPlayers(e))
	case rulesfile.StepDeclare:
		return e.beginInteractiveRound(dealRoundPlayers(e))
	case rulesfile.StepChoose:
		return e.beginInteractiveRound([]string{e.chooseDesignee()})
	case rulesfile.StepRemove:
		e.executeRemoveStep(step.Remove)
		return true, false, nil
	case rulesfile.StepRollDie:
		return e.executeRollDie(step.RollDie)
	case rulesfile.StepGrouped:
		return e.executeGroupedStep(step.Grouped)
	case rulesfile.StepShowdown:
		return e.executeShowdownStep(step.Showdown)
	default:
		return true, false, nil
	}
}

// dealRoundPlayers returns the active players in seat order starting at the
// button seat, the default acting order for non-betting interactive steps.
func dealRoundPlayers(e *Engine) []string {
	return e.Table.ActivePlayerIDs(e.Table.ButtonSeat)
}

// chooseDesignee picks the player who acts on a `choose` step: UTG, or the
// button if 3 or fewer players remain (§4.1).
func (e *Engine) chooseDesignee() string {
	active := dealRoundPlayers(e)
	if len(active) == 0 {
		return ""
	}
	if len(active) <= 3 {
		return active[0]
	}
	for _, p := range e.Table.Seats {
		if p != nil && p.Position == table.PositionUTG {
			return p.ID
		}
	}
	return active[0]
}

// beginInteractiveRound sets the engine to wait on the first of order's
// players; used by every step kind that needs per-player input outside of
// betting (discard/draw/expose/pass/separate/declare/choose).
func (e *Engine) beginInteractiveRound(order []string) (bool, bool, error) {
	if len(order) == 0 {
		return true, false, nil
	}
	e.CurrentPlayerID = order[0]
	e.roundOrder = order
	e.roundPos = 0
	e.Phase = PhaseDrawing
	return false, true, nil
}

func (e *Engine) executeDealStep(cfg *rulesfile.DealStep) (bool, bool, error) {
	vis := card.FaceDown
	if cfg.Visibility == "face_up" {
		vis = card.FaceUp
	}
	var dealtTo []string
	switch cfg.Target {
	case "community":
		subset := cfg.Subset
		if subset == "" {
			subset = "board"
		}
		if err := e.Table.DealCommunity(subset, cfg.Count, vis); err != nil {
			return false, false, err
		}
	default: // hole, stud
		dealtTo = dealRoundPlayers(e)
		for _, pid := range dealtTo {
			if err := e.Table.DealTo(pid, cfg.Count, vis); err != nil {
				return false, false, err
			}
		}
	}

	rules := cfg.WildCards
	if len(rules) == 0 {
		rules = e.Rules.WildCards
	}
	if len(rules) > 0 {
		e.applyWildCards(rules)
	}

	if cfg.ProtectionOption != nil && vis == card.FaceDown && len(dealtTo) > 0 {
		e.beginProtectionRound(dealtTo, cfg.ProtectionOption)
		return false, true, nil
	}
	return true, false, nil
}

// applyWildCards runs every configured dynamic wild-card rule (§4.5) against
// the current table state: every seated player's hand and every named
// community subset. Rules are idempotent and re-derive wildness from scratch
// each time, so re-applying after a later deal or a completed protection
// round (which can change which hole cards are face up, affecting
// lowest_hole) is always safe.
func (e *Engine) applyWildCards(rules []rulesfile.WildCardConfig) {
	for _, rule := range rules {
		switch eval.WildRuleType(rule.Type) {
		case eval.WildJoker:
			for _, p := range e.Table.Seats {
				if p != nil {
					p.Hand.Cards = eval.ApplyJokerRule(p.Hand.Cards)
				}
			}
			for name, cards := range e.Table.CommunitySubsets {
				e.Table.CommunitySubsets[name] = eval.ApplyJokerRule(cards)
			}
		case eval.WildRank:
			rank, ok := card.ParseRank(rule.Rank)
			if !ok {
				continue
			}
			for _, p := range e.Table.Seats {
				if p != nil {
					p.Hand.Cards = eval.ApplyRankRule(p.Hand.Cards, rank)
				}
			}
			for name, cards := range e.Table.CommunitySubsets {
				e.Table.CommunitySubsets[name] = eval.ApplyRankRule(cards, rank)
			}
		case eval.WildLastCommunityCard:
			for name, cards := range e.Table.CommunitySubsets {
				e.Table.CommunitySubsets[name] = eval.ApplyLastCommunityCardRule(cards)
			}
		case eval.WildLowestHole:
			vis := card.FaceDown
			if rule.Visibility == "face_up" {
				vis = card.FaceUp
			}
			for _, p := range e.Table.Seats {
				if p != nil {
					p.Hand.Cards = eval.ApplyLowestHoleRule(p.Hand.Cards, vis)
				}
			}
		case eval.WildConditional:
			faceUpWild := rule.Visibility == "face_up"
			faceDownWild := rule.Visibility == "face_down"
			for _, p := range e.Table.Seats {
				if p == nil {
					continue
				}
				for i, c := range p.Hand.Cards {
					p.Hand.Cards[i] = eval.ApplyConditionalRule(c, faceUpWild, faceDownWild)
				}
			}
		}
	}
}

// beginProtectionRound offers each just-dealt-to player, in deal order, the
// chance to pay a named cost to flip their own card face up immediately
// (§4.1/§4.4's protection decision).
func (e *Engine) beginProtectionRound(order []string, opt *rulesfile.ProtectionOption) {
	e.protectionOrder = order
	e.protectionPos = 0
	e.protectionCost = e.Rules.NamedBets[opt.CostName]
	e.protectionCostName = opt.CostName
	e.CurrentPlayerID = order[0]
	e.Phase = PhaseProtectionDecision
}

// executeRemoveStep drops a community subset from play. A single static
// Subject is removed unconditionally; Subjects+Criterion instead choose
// which of several named subsets to drop by a runtime rule.
func (e *Engine) executeRemoveStep(cfg *rulesfile.RemoveStep) {
	if cfg == nil {
		return
	}
	if len(cfg.Subjects) == 0 {
		e.Table.RemoveCommunitySubset(cfg.Subject)
		return
	}
	switch cfg.Criterion {
	case "lowest_card":
		e.removeLowestSubset(cfg.Subjects)
	default:
		for _, s := range cfg.Subjects {
			e.Table.RemoveCommunitySubset(s)
		}
	}
}

// removeLowestSubset drops whichever named subset's most recently dealt
// card (its "river") has the lowest rank; a tie for lowest keeps every named
// subset in play (§4.1: "lowest river card across boards; if tied, keep
// all").
func (e *Engine) removeLowestSubset(subjects []string) {
	type candidate struct {
		name string
		rank card.Rank
	}
	var candidates []candidate
	for _, name := range subjects {
		cards := e.Table.CommunitySubsets[name]
		if len(cards) == 0 {
			continue
		}
		candidates = append(candidates, candidate{name: name, rank: cards[len(cards)-1].Rank})
	}
	if len(candidates) == 0 {
		return
	}
	lowest := candidates[0].rank
	for _, c := range candidates[1:] {
		if c.rank < lowest {
			lowest = c.rank
		}
	}
	var matches []string
	for _, c := range candidates {
		if c.rank == lowest {
			matches = append(matches, c.name)
		}
	}
	if len(matches) != 1 {
		return
	}
	e.Table.RemoveCommunitySubset(matches[0])
}

func (e *Engine) executeRollDie(cfg *rulesfile.RollDieStep) (bool, bool, error) {
	if len(e.Table.Deck) == 0 {
		if err := e.Table.ShuffleAndDeal(card.DeckDie, e.Shuffler); err != nil {
			return false, false, err
		}
	}
	face := e.Table.Deck[0]
	e.Table.Deck = e.Table.Deck[1:]
	e.choices[cfg.Key] = face.Rank.String()
	return true, false, nil
}

func (e *Engine) executeGroupedStep(cfg *rulesfile.GroupedStep) (bool, bool, error) {
	if e.groupState == nil {
		e.groupState = &groupedStepState{
			steps:     cfg.Steps,
			completed: make(map[string]map[int]bool),
			current:   make(map[string]int),
		}
	}
	players := dealRoundPlayers(e)
	for _, pid := range players {
		if e.groupDone(pid) {
			continue
		}
		sub := e.groupState.steps[e.groupState.current[pid]]
		e.CurrentPlayerID = pid
		advanced, waiting, err := e.executeStep(sub)
		if err != nil {
			return false, false, err
		}
		if waiting {
			return false, true, nil
		}
		if advanced {
			e.advanceGroupSubstep(pid)
		}
	}
	for _, pid := range players {
		if !e.groupDone(pid) {
			return false, true, nil
		}
	}
	e.groupState = nil
	return true, false, nil
}

func (e *Engine) groupDone(pid string) bool {
	return e.groupState.current[pid] >= len(e.groupState.steps)
}

func (e *Engine) advanceGroupSubstep(pid string) {
	if e.groupState.completed[pid] == nil {
		e.groupState.completed[pid] = make(map[int]bool)
	}
	e.groupState.completed[pid][e.groupState.current[pid]] = true
	e.groupState.current[pid]++
}

func (e *Engine) executeShowdownStep(cfg *rulesfile.ShowdownStep) (bool, bool, error) {
	results, err := e.runShowdown()
	if err != nil {
		return false, false, err
	}
	e.results = results
	e.creditAwards(results)
	e.Phase = PhaseShowdown
	return true, false, nil
}

// creditAwards pays each result's awarded chips back into the winning
// players' stacks; the pot and betting managers only track chip custody
// during the hand, never the players' own balances.
func (e *Engine) creditAwards(results []showdown.Result) {
	for _, r := range results {
		for _, a := range r.Awards {
			if p := e.Table.Player(a.PlayerID); p != nil {
				p.Stack += a.Amount
			}
		}
	}
}

// betStructureFor resolves the Structure used by this hand's betting
// manager; exposed here so run.go and actions.go share one source of truth.
func (e *Engine) betStructureFor() betting.Structure {
	return e.structure()
}
