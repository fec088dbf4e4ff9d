// Package showdown implements the showdown manager: applying evaluator
// output to pots (main + side + conditional sub-pots), splitting odd chips,
// and honoring declarations (§4.6).
package showdown

import (
	"pokerengine/internal/eval"
	"pokerengine/internal/pot"
	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/card"
)

// PlayerHandProvider supplies the card pools a showdown needs to evaluate
// pid's hand, decoupling this package from internal/table.
type PlayerHandProvider func(pid string) eval.CardPools

// Declarations maps player -> declared pot-share names ("high", "low", ...)
// when the variant uses declare-mode instead of cards-speak.
type Declarations map[string][]string

// Result is one pot share's resolution.
type Result struct {
	PotShare string // e.g. "high", "low"
	PotOrder int
	Winners  []string
	Awards   []pot.Award
	FoldWin  bool
}

// Resolve runs §4.6's algorithm against one hand's pots.
func Resolve(
	registry *eval.Registry,
	desc *rulesfile.ShowdownDescriptor,
	p *pot.Pot,
	activePlayers []string,
	seatOrder []string,
	hands PlayerHandProvider,
	declarations Declarations,
	choices map[string]string,
) ([]Result, error) {
	// Step 1: fold-win short-circuit.
	if len(activePlayers) == 1 {
		winner := activePlayers[0]
		var results []Result
		for _, sp := range allSubPots(p) {
			awards := pot.AwardSubPot(sp, []string{winner}, seatOrder, 0)
			results = append(results, Result{PotShare: "fold", PotOrder: sp.Order, Winners: []string{winner}, Awards: awards, FoldWin: true})
		}
		return results, nil
	}

	pots := resolvePotDescriptors(desc, choices)

	var results []Result
	for _, sp := range allSubPots(p) {
		eligible := intersect(activePlayers, eligiblePlayerList(sp))
		if len(eligible) == 0 {
			continue
		}
		results = append(results, resolveSubPot(registry, pots, sp, eligible, seatOrder, hands, declarations, desc.ClassificationPriority)...)
	}
	return results, nil
}

// resolvePotDescriptors picks which PotDescriptor list governs this
// showdown: explicit Pots, or a single synthesized entry from BestHand /
// conditionalBestHands / DefaultBestHand.
func resolvePotDescriptors(desc *rulesfile.ShowdownDescriptor, choices map[string]string) []rulesfile.PotDescriptor {
	if len(desc.Pots) > 0 {
		return desc.Pots
	}
	hand := desc.BestHand
	for _, cond := range desc.ConditionalBestHands {
		if conditionHolds(cond.Condition, choices) {
			h := cond.Hand
			hand = &h
			break
		}
	}
	if hand == nil {
		hand = desc.DefaultBestHand
	}
	if hand == nil {
		return nil
	}
	return []rulesfile.PotDescriptor{{Name: "high", Hand: *hand}}
}

// conditionHolds evaluates only the player_choice condition kind here; the
// richer condition language (board composition, exposed-card checks) lives
// in internal/interpreter, which is the only caller with access to the full
// game state those conditions inspect.
func conditionHolds(cond rulesfile.Condition, choices map[string]string) bool {
	if cond.Type != "player_choice" {
		return true
	}
	val, ok := choices[cond.ChoiceKey]
	if !ok {
		return false
	}
	if cond.Equals != "" {
		return val == cond.Equals
	}
	for _, v := range cond.In {
		if v == val {
			return true
		}
	}
	return false
}

type evaluatedPlayer struct {
	id             string
	ranking        eval.HandRanking
	classification string
	qualifies      bool
	declaredFor    bool
}

func resolveSubPot(
	registry *eval.Registry,
	pots []rulesfile.PotDescriptor,
	sp *pot.SubPot,
	eligible []string,
	seatOrder []string,
	hands PlayerHandProvider,
	declarations Declarations,
	classificationPriority []string,
) []Result {
	var results []Result
	var shareNames []string
	var shareWinners [][]string

	for _, potDesc := range pots {
		var evaluated []evaluatedPlayer
		for _, pid := range eligible {
			if !declaredFor(declarations, pid, potDesc.Name) {
				continue
			}
			ranking, err := eval.FindBestHand(registry, &potDesc.Hand, hands(pid))
			if err != nil {
				continue
			}
			qualifies := true
			if potDesc.Qualifier != nil {
				qualifies = qualifierMet(registry, potDesc.Qualifier, &potDesc.Hand, hands(pid))
			}
			classification := ""
			if potDesc.Classification != nil {
				classification = classify(potDesc.Classification, ranking.Cards)
			}
			evaluated = append(evaluated, evaluatedPlayer{id: pid, ranking: ranking, classification: classification, qualifies: qualifies})
		}

		var classPriority []string
		if potDesc.Classification != nil {
			classPriority = potDesc.Classification.Priority
		}
		winners := bestRanked(evaluated, classPriority)
		if len(winners) == 0 {
			continue
		}
		shareNames = append(shareNames, potDesc.Name)
		shareWinners = append(shareWinners, winners)
	}

	// Split the sub-pot evenly across the shares that found a winner; a share
	// with no winner leaves its part to the others, and the odd chip goes to
	// the first-listed share.
	priority := classificationPriority
	if len(priority) == 0 {
		priority = []string{}
	}
	total := sp.Amount
	for i, winners := range shareWinners {
		amount := total / len(shareWinners)
		if i == 0 {
			amount += total % len(shareWinners)
		}
		awards := pot.AwardByPriority(sp, winners, priority, amount)
		results = append(results, Result{PotShare: shareNames[i], PotOrder: sp.Order, Winners: winners, Awards: awards})
	}

	// Anything left over (no pot shares configured, or all shares failed to
	// qualify) goes to the best plain evaluation among eligible players so
	// chips are never stranded.
	if sp.Amount > 0 && len(pots) > 0 {
		var fallback []evaluatedPlayer
		for _, pid := range eligible {
			ranking, err := eval.FindBestHand(registry, &pots[0].Hand, hands(pid))
			if err != nil {
				continue
			}
			fallback = append(fallback, evaluatedPlayer{id: pid, ranking: ranking, qualifies: true})
		}
		winners := bestRanked(fallback, nil)
		if len(winners) > 0 {
			awards := pot.AwardSubPot(sp, winners, seatOrder, 0)
			results = append(results, Result{PotShare: pots[0].Name, PotOrder: sp.Order, Winners: winners, Awards: awards})
		}
	}
	return results
}

func declaredFor(declarations Declarations, pid, share string) bool {
	if declarations == nil {
		return true
	}
	shares, ok := declarations[pid]
	if !ok {
		return true
	}
	for _, s := range shares {
		if s == share {
			return true
		}
	}
	return false
}

// qualifierMet evaluates pid's cards under the qualifier's own evaluation
// type (using the pot share's card-selection rule, e.g. Omaha's 2+3 combo
// rule) and compares the result against MaxValue. MaxValue is the worst
// qualifying card rank for A-5-style low qualifiers (e.g. "8" for an
// eight-or-better low); an empty MaxValue means the qualifier only needs a
// hand to exist under that evaluation type at all.
func qualifierMet(registry *eval.Registry, q *rulesfile.Qualifier, handDesc *rulesfile.HandDescriptor, pools eval.CardPools) bool {
	qualDesc := *handDesc
	qualDesc.EvalType = q.EvalType
	ranking, err := eval.FindBestHand(registry, &qualDesc, pools)
	if err != nil {
		return false
	}
	if q.MaxValue == "" {
		return true
	}
	threshold := parseRankThreshold(q.MaxValue)
	if threshold == 0 {
		return true
	}
	// The hand must be unpaired (Rank 0) and its highest card, counting an
	// ace as 1, must be at or below the threshold.
	return ranking.Rank == 0 && highestCardAtMost(ranking, threshold)
}

// parseRankThreshold converts a qualifier's MaxValue ("8") into its numeric
// card value; only "6" through "9" are recognized, and any other value
// returns 0, which disables the check (the qualifier then only requires the
// hand to evaluate).
func parseRankThreshold(s string) int {
	switch s {
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// highestCardAtMost reports whether ranking's worst contributing card is at
// or below threshold, scanning ranking.Cards with an ace counted as 1.
func highestCardAtMost(ranking eval.HandRanking, threshold int) bool {
	if len(ranking.Cards) == 0 {
		return true
	}
	worst := 0
	for _, c := range ranking.Cards {
		v := int(c.Rank) + 2
		if c.Rank.String() == "A" {
			v = 1
		}
		if v > worst {
			worst = v
		}
	}
	return worst <= threshold
}

// allocatedAmount splits sp.Amount evenly across the configured pot shares
// unless only one share exists (the common case), in which case it takes
// the whole sub-pot.
func allocatedAmount(sp *pot.SubPot, desc rulesfile.PotDescriptor, all []rulesfile.PotDescriptor) int {
	if len(all) <= 1 {
		return sp.Amount
	}
	return sp.Amount / len(all)
}

// classify converts a ClassificationSpec's rank names into a
// eval.ClassificationRule and labels cards under it.
func classify(spec *rulesfile.ClassificationSpec, cards []card.Card) string {
	ranks := make([]card.Rank, 0, len(spec.Ranks))
	for _, s := range spec.Ranks {
		if r, ok := card.ParseRank(s); ok {
			ranks = append(ranks, r)
		}
	}
	rule := eval.ClassificationRule{Name: spec.Name, Ranks: ranks}
	return rule.Classify(cards)
}

// bestRanked picks the winner(s) among evaluated. When priority is non-empty,
// classification takes precedence over numeric ranking: only players whose
// classification has the best (lowest) PriorityIndex are compared by hand
// strength, so a higher-priority class can beat a numerically stronger hand
// in a worse class (§4.5's classification-priority rule, e.g. Razzdugi's
// face/butt split).
func bestRanked(evaluated []evaluatedPlayer, priority []string) []string {
	pool := evaluated
	if len(priority) > 0 {
		bestIdx := -1
		for _, ep := range evaluated {
			if !ep.qualifies {
				continue
			}
			idx := eval.PriorityIndex(priority, ep.classification)
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
			}
		}
		if bestIdx == -1 {
			return nil
		}
		pool = nil
		for _, ep := range evaluated {
			if ep.qualifies && eval.PriorityIndex(priority, ep.classification) == bestIdx {
				pool = append(pool, ep)
			}
		}
	}

	var best eval.HandRanking
	var winners []string
	first := true
	for _, ep := range pool {
		if !ep.qualifies {
			continue
		}
		if first || ep.ranking.Less(best) {
			best = ep.ranking
			winners = []string{ep.id}
			first = false
		} else if ep.ranking.Equal(best) {
			winners = append(winners, ep.id)
		}
	}
	return winners
}

func allSubPots(p *pot.Pot) []*pot.SubPot {
	out := []*pot.SubPot{p.Main}
	out = append(out, p.SidePots...)
	return out
}

func eligiblePlayerList(sp *pot.SubPot) []string {
	var out []string
	for pid := range sp.EligiblePlayers {
		out = append(out, pid)
	}
	return out
}

func intersect(a []string, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []string
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}
