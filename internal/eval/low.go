package eval

import (
	"fmt"

	"pokerengine/pkg/card"
)

// A5LowEvaluator ranks Ace-to-Five lowball / Razz hands: aces play low,
// straights and flushes are ignored entirely (they neither help nor hurt),
// and the lowest-ranking unpaired hand wins.
type A5LowEvaluator struct{}

func (A5LowEvaluator) Size() int { return 5 }

func (e A5LowEvaluator) SortCards(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	sortByValueAsc(out, a5Value)
	return out
}

func (e A5LowEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	if len(cards) < 5 {
		return HandRanking{}, fmt.Errorf("eval: a5_low evaluator needs at least 5 cards, got %d", len(cards))
	}
	best, bestCombo := bestOfCombinations(cards, 5, scoreA5Low)
	return HandRanking{
		Rank:        a5Cat(best.cat),
		OrderedRank: best.tiebreak,
		Description: a5Description(best.cat),
		Cards:       bestCombo,
	}, nil
}

// a5Value treats aces as rank 1 (lowest) and 2-K as 2-13; straights/flushes
// are deliberately not detected since classifyFive is never asked to.
func a5Value(r card.Rank) int {
	if r == card.RankA {
		return 1
	}
	return int(r) + 2
}

func scoreA5Low(cards []card.Card) scored {
	// Straights/flushes never count in A-5 low: rank purely by the rank-count
	// pattern (pair/two-pair/trips/...), never by suit or sequence.
	cat, tiebreak := classifyByRankPatternOnly(cards, a5Value)
	return scored{cat, encodeTiebreakDirect(tiebreak...)}
}

// a5Cat/ a5Description remap the shared 0-5 group-pattern category (best to
// worst: no-pair, pair, two-pair, trips, full-house, quads) onto the public
// HandRanking.Rank space untouched — A-5 low has no use for the high-game
// straight/flush categories, so the numbering here is package-local.
func a5Cat(c uint16) uint16 { return c }

func a5Description(c uint16) string {
	names := []string{"no pair", "pair", "two pair", "three of a kind", "full house", "four of a kind"}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// DeuceToSevenLowEvaluator ranks 2-7 lowball (Kansas City) hands: aces play
// high only, straights and flushes count against you exactly as they help in
// a high game, and the lowest-ranking hand overall (ideally 7-5-4-3-2
// unsuited) wins.
type DeuceToSevenLowEvaluator struct{}

func (DeuceToSevenLowEvaluator) Size() int { return 5 }

func (e DeuceToSevenLowEvaluator) SortCards(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	sortByValueAsc(out, rankValue)
	return out
}

func (e DeuceToSevenLowEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	if len(cards) < 5 {
		return HandRanking{}, fmt.Errorf("eval: deuce_to_seven_low evaluator needs at least 5 cards, got %d", len(cards))
	}
	best, bestCombo := bestOfCombinations(cards, 5, scoreDeuceToSeven)
	return HandRanking{
		Rank:        best.cat,
		OrderedRank: best.tiebreak,
		Description: categoryNames[catHighCard-best.cat],
		Cards:       bestCombo,
	}, nil
}

func scoreDeuceToSeven(cards []card.Card) scored {
	catHigh, tiebreak := classifyFive(cards, rankValue, false)
	return scored{catHighCard - catHigh, encodeTiebreakDirect(tiebreak...)}
}

func sortByValueAsc(cards []card.Card, value func(card.Rank) int) {
	for i := 1; i < len(cards); i++ {
		for j := i; j > 0 && value(cards[j-1].Rank) > value(cards[j].Rank); j-- {
			cards[j-1], cards[j] = cards[j], cards[j-1]
		}
	}
}

// classifyByRankPatternOnly classifies a 5-card hand purely by rank-count
// pattern, ignoring suit and sequence entirely (A-5 low and the partial
// high evaluators). Category: 0=no pair (best) .. 5=four of a kind (worst).
func classifyByRankPatternOnly(cards []card.Card, value func(card.Rank) int) (uint16, []int) {
	counts := make(map[int]int)
	for _, c := range cards {
		counts[value(c.Rank)]++
	}
	type group struct{ rank, count int }
	var groups []group
	for r, c := range counts {
		groups = append(groups, group{r, c})
	}
	sortGroupsWorstFirst := func(asc bool) {
		for i := 1; i < len(groups); i++ {
			for j := i; j > 0; j-- {
				swap := groups[j-1].count < groups[j].count ||
					(groups[j-1].count == groups[j].count && rankLess(groups[j-1].rank, groups[j].rank, asc))
				if !swap {
					break
				}
				groups[j-1], groups[j] = groups[j], groups[j-1]
			}
		}
	}
	sortGroupsWorstFirst(true)

	values := make([]int, 0, len(cards))
	for _, c := range cards {
		values = append(values, value(c.Rank))
	}
	sortIntsAsc(values)

	var tiebreak []int
	for _, g := range groups {
		tiebreak = append(tiebreak, g.rank)
	}

	switch {
	case groups[0].count == 4:
		return 5, tiebreak
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		return 4, tiebreak
	case groups[0].count == 3:
		return 3, tiebreak
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return 2, tiebreak
	case groups[0].count == 2:
		return 1, tiebreak
	default:
		return 0, values
	}
}

// rankLess breaks a count tie between two rank groups; asc=true prefers the
// lower rank as "worse" (used by low games, where a low pair rank is good).
func rankLess(a, b int, asc bool) bool {
	if asc {
		return a < b
	}
	return a > b
}

func sortIntsAsc(values []int) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j-1] > values[j]; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}
