package interpreter

import (
	"pokerengine/internal/betting"
	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/card"
)

// executeBetStep opens a voluntary betting round (forced bets are posted by
// the rules file's ForcedBets descriptor the first time a betting phase
// begins, not by individual `bet` steps — see postForcedBetsIfNeeded).
func (e *Engine) executeBetStep(cfg *rulesfile.BetStep) (bool, bool, error) {
	if err := e.postForcedBetsIfNeeded(); err != nil {
		return false, false, err
	}

	active := e.Table.ActivePlayerIDs(e.Table.ButtonSeat)
	if len(active) <= 1 {
		return true, false, nil
	}

	if !e.bettingStarted {
		// run() re-enters this same gameplay step (CurrentStep hasn't moved
		// yet) after a player's action already finished this round; don't
		// redo the round setup, just let the step advance.
		if e.completedBetStep == e.CurrentStep {
			return true, false, nil
		}

		// The opening round's CurrentBets/CurrentBet were already seeded by
		// postForcedBetsIfNeeded (blinds/bring-in); every later street starts
		// its own action fresh, at CurrentBet 0.
		if e.firstBettingRoundStarted {
			e.Pot.StartNewRound()
			e.Betting.NewRound(false)
		} else {
			e.firstBettingRoundStarted = true
		}
		e.bettingOrder = e.firstBettingOrder(active)
		e.bettingPos = 0
		e.bettingStarted = true
	}

	if e.Betting.RoundComplete(active) {
		e.bettingStarted = false
		e.completedBetStep = e.CurrentStep
		return true, false, nil
	}

	e.CurrentPlayerID = e.bettingOrder[e.bettingPos%len(e.bettingOrder)]
	e.Phase = PhaseBetting
	return false, true, nil
}

// postForcedBetsIfNeeded posts antes/blinds/bring-in exactly once per hand,
// the first time a bet step executes.
func (e *Engine) postForcedBetsIfNeeded() error {
	if e.Betting.BettingRound > 0 || e.bettingStarted || e.forcedBetsPosted {
		return nil
	}
	e.forcedBetsPosted = true

	active := e.Table.ActivePlayerIDs(e.Table.ButtonSeat)
	stack := func(pid string) int {
		p := e.Table.Player(pid)
		if p == nil {
			return 0
		}
		return p.Stack - e.Pot.AnteTotal(pid)
	}

	switch betting.ForcedBetKind(e.Rules.ForcedBets.Style) {
	case betting.ForcedAntes:
		if err := e.Betting.HandleForcedBets(betting.ForcedAntes, active, stack, ""); err != nil {
			return err
		}
		return e.settleForcedBets(true)
	case betting.ForcedBlinds:
		order := e.Table.ActivePlayerIDs((e.Table.ButtonSeat + 1) % len(e.Table.Seats))
		if len(active) == 2 {
			order = active
		}
		if err := e.Betting.HandleForcedBets(betting.ForcedBlinds, order, stack, ""); err != nil {
			return err
		}
		return e.settleForcedBets(false)
	case betting.ForcedDealerBlind:
		if err := e.Betting.HandleForcedBets(betting.ForcedDealerBlind, active, stack, ""); err != nil {
			return err
		}
		return e.settleForcedBets(false)
	case betting.ForcedBringIn:
		winner := e.bringInWinner(active)
		if err := e.Betting.HandleForcedBets(betting.ForcedBringIn, active, stack, winner); err != nil {
			return err
		}
		return e.settleForcedBets(false)
	}
	return nil
}

// settleForcedBets applies the betting manager's just-posted forced-bet
// amounts to the table (deducting stacks) and the pot (crediting chips),
// mirroring what applyBet does for voluntary actions. HandleForcedBets only
// updates the betting manager's own bookkeeping, so this is the one place
// those postings actually move chips.
func (e *Engine) settleForcedBets(isAnte bool) error {
	for pid, pb := range e.Betting.CurrentBets {
		already := e.priorContribution(pid)
		delta := pb.Amount - already
		if delta <= 0 {
			continue
		}
		p := e.Table.Player(pid)
		if p == nil {
			continue
		}
		p.Stack -= delta
		e.priorContributionSet(pid, pb.Amount)
		if err := e.Pot.AddBet(pid, pb.Amount, pb.IsAllIn, isAnte); err != nil {
			return err
		}
	}
	return nil
}

// bringInWinner determines who posts bring-in using the rules'
// bringInEval evaluator over each player's exposed cards.
func (e *Engine) bringInWinner(active []string) string {
	if e.Rules.ForcedBets.BringInEval == "" || len(active) == 0 {
		if len(active) > 0 {
			return active[0]
		}
		return ""
	}
	evaluator, err := e.Eval.Get(e.Rules.ForcedBets.BringInEval)
	if err != nil {
		return active[0]
	}
	// Bring-in goes to the player showing the weakest exposed card(s): the
	// worst hand category, and within a tied category the weakest tiebreak
	// (lower Rank and lower OrderedRank win per the evaluators' convention, so
	// the worst hand has the highest Rank and, among equals, the highest
	// OrderedRank).
	var worst string
	var haveWorst bool
	var worstRank, worstOrdered uint16
	for _, pid := range active {
		p := e.Table.Player(pid)
		exposed := p.Hand.ByVisibility(card.FaceUp)
		if len(exposed) == 0 {
			continue
		}
		ranking, err := evaluator.Evaluate(exposed)
		if err != nil {
			continue
		}
		if !haveWorst || ranking.Rank > worstRank || (ranking.Rank == worstRank && ranking.OrderedRank > worstOrdered) {
			worstRank, worstOrdered = ranking.Rank, ranking.OrderedRank
			worst = pid
			haveWorst = true
		}
	}
	if worst == "" {
		return active[0]
	}
	return worst
}

// highHandWinner determines who acts first under a "high_hand" subsequent
// order: the player showing the best exposed-card hand by the rules'
// bringInEval evaluator, the mirror image of bringInWinner's worst-hand
// search (used by e.g. a stud game's post-bring-in streets).
func (e *Engine) highHandWinner(active []string) string {
	if e.Rules.ForcedBets.BringInEval == "" || len(active) == 0 {
		if len(active) > 0 {
			return active[0]
		}
		return ""
	}
	evaluator, err := e.Eval.Get(e.Rules.ForcedBets.BringInEval)
	if err != nil {
		return active[0]
	}
	var best string
	var haveBest bool
	var bestRank, bestOrdered uint16
	for _, pid := range active {
		p := e.Table.Player(pid)
		exposed := p.Hand.ByVisibility(card.FaceUp)
		if len(exposed) == 0 {
			continue
		}
		ranking, err := evaluator.Evaluate(exposed)
		if err != nil {
			continue
		}
		if !haveBest || ranking.Rank < bestRank || (ranking.Rank == bestRank && ranking.OrderedRank < bestOrdered) {
			bestRank, bestOrdered = ranking.Rank, ranking.OrderedRank
			best = pid
			haveBest = true
		}
	}
	if best == "" {
		return active[0]
	}
	return best
}

// firstBettingOrder picks the acting order for a betting round: the
// configured initial order on the first round, or the configured
// subsequent order afterward.
func (e *Engine) firstBettingOrder(active []string) []string {
	var start string
	if e.Betting.BettingRound == 0 {
		switch betting.InitialOrderKind(e.Rules.BettingOrder.Initial) {
		case betting.InitialDealer:
			start = betting.FirstAfterDealer(active, e.buttonPlayerID())
		case betting.InitialBringIn:
			start = e.Betting.LastActorID
		default:
			// active starts at the button; FirstAfterBigBlind wants the
			// small-blind-first order that postForcedBetsIfNeeded posts in.
			order := active
			if len(active) > 2 {
				order = e.Table.ActivePlayerIDs((e.Table.ButtonSeat + 1) % len(e.Table.Seats))
			}
			start = betting.FirstAfterBigBlind(order)
		}
	} else if conds := e.Rules.BettingOrder.Subsequent.Conditions; len(conds) > 0 {
		start = e.subsequentOrderByCondition(conds, active)
	} else {
		kind := betting.SubsequentOrderKind(e.Rules.BettingOrder.Subsequent.Tag)
		switch kind {
		case betting.SubsequentDealer:
			start = betting.FirstAfterDealer(active, e.buttonPlayerID())
		case betting.SubsequentHighHand:
			start = e.highHandWinner(active)
		case betting.SubsequentLastActor:
			start = betting.FirstAfterLastActor(active, e.Betting.LastActorID)
		case betting.SubsequentBringIn:
			start = e.Betting.LastActorID
		default:
			start = betting.FirstAfterDealer(active, e.buttonPlayerID())
		}
	}
	if start == "" {
		start = active[0]
	}
	idx := 0
	for i, pid := range active {
		if pid == start {
			idx = i
			break
		}
	}
	return append(append([]string{}, active[idx:]...), active[:idx]...)
}

// subsequentOrderByCondition picks the first matching entry of a
// conditional subsequent-order list (e.g. "dealer unless the board shows a
// pair, then high_hand") and resolves its tag the same way the plain-tag
// case does.
func (e *Engine) subsequentOrderByCondition(conds []rulesfile.ConditionalOrder, active []string) string {
	tag := ""
	for _, c := range conds {
		if e.conditionHolds(&c.Condition, "") {
			tag = c.Tag
			break
		}
	}
	switch betting.SubsequentOrderKind(tag) {
	case betting.SubsequentDealer:
		return betting.FirstAfterDealer(active, e.buttonPlayerID())
	case betting.SubsequentHighHand:
		return e.highHandWinner(active)
	case betting.SubsequentLastActor:
		return betting.FirstAfterLastActor(active, e.Betting.LastActorID)
	case betting.SubsequentBringIn:
		return e.Betting.LastActorID
	default:
		return betting.FirstAfterDealer(active, e.buttonPlayerID())
	}
}

func (e *Engine) buttonPlayerID() string {
	p := e.Table.Seats[e.Table.ButtonSeat]
	if p == nil {
		return ""
	}
	return p.ID
}
