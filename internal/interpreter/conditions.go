package interpreter

import (
	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/card"
)

// conditionHolds evaluates §4.1's condition language against live engine
// state: all_exposed/any_exposed/none_exposed over a player's cards,
// board_composition over a community subset, and player_choice against a
// value stored by a prior `choose` step.
func (e *Engine) conditionHolds(cond *rulesfile.Condition, playerID string) bool {
	if cond == nil {
		return true
	}
	switch cond.Type {
	case "all_exposed", "any_exposed", "none_exposed":
		return e.exposedCondition(cond, playerID)
	case "board_composition":
		return e.boardCompositionCondition(cond)
	case "player_choice":
		return e.playerChoiceCondition(cond)
	default:
		return true
	}
}

func (e *Engine) exposedCondition(cond *rulesfile.Condition, playerID string) bool {
	p := e.Table.Player(playerID)
	if p == nil {
		return false
	}
	cards := p.Hand.CardsIn(cond.Subject)
	exposedCount := 0
	for _, c := range cards {
		if c.Visibility == card.FaceUp {
			exposedCount++
		}
	}
	switch cond.Type {
	case "all_exposed":
		return len(cards) > 0 && exposedCount == len(cards)
	case "any_exposed":
		return exposedCount > 0
	case "none_exposed":
		return exposedCount == 0
	}
	return false
}

func (e *Engine) boardCompositionCondition(cond *rulesfile.Condition) bool {
	cards := e.Table.CommunitySubsets[cond.Subject]
	switch cond.Criterion {
	case "at_least":
		matches := 0
		rankSet := toRankSet(cond.Ranks)
		suitSet := toSuitSet(cond.Suits)
		for _, c := range cards {
			rankOK := len(rankSet) == 0 || rankSet[c.Rank.String()]
			suitOK := len(suitSet) == 0 || suitSet[c.Suit.String()]
			if rankOK && suitOK {
				matches++
			}
		}
		return matches >= cond.Count
	default:
		return len(cards) >= cond.Count
	}
}

func (e *Engine) playerChoiceCondition(cond *rulesfile.Condition) bool {
	val, ok := e.choices[cond.ChoiceKey]
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
	return len(cond.Equals) == 0 && len(cond.In) == 0
}

func toRankSet(ranks []string) map[string]bool {
	if len(ranks) == 0 {
		return nil
	}
	out := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		out[r] = true
	}
	return out
}

func toSuitSet(suits []string) map[string]bool {
	if len(suits) == 0 {
		return nil
	}
	out := make(map[string]bool, len(suits))
	for _, s := range suits {
		out[s] = true
	}
	return out
}
