package eval

import (
	"fmt"

	"pokerengine/pkg/card"
)

// BadugiEvaluator ranks Badugi hands: the largest subset of up to 4 cards
// with all distinct ranks and all distinct suits wins, ties broken by the
// lowest card values. AceHigh selects Hi-Dugi's ace-high valuation instead of
// standard Badugi's ace-low.
type BadugiEvaluator struct {
	AceHigh bool
}

func (BadugiEvaluator) Size() int { return 4 }

func (e BadugiEvaluator) value(r card.Rank) int {
	if r == card.RankA {
		if e.AceHigh {
			return 14
		}
		return 1
	}
	return int(r) + 2
}

func (e BadugiEvaluator) SortCards(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	sortByValueAsc(out, e.value)
	return out
}

func (e BadugiEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	if len(cards) == 0 {
		return HandRanking{}, fmt.Errorf("eval: badugi evaluator needs at least 1 card")
	}
	limit := len(cards)
	if limit > 4 {
		limit = 4
	}
	var best []card.Card
	for size := limit; size >= 1; size-- {
		combinations(cards, size, func(combo []card.Card) {
			if !isBadugiValid(combo) {
				return
			}
			if best == nil || size > len(best) || (size == len(best) && lowerValueSet(e, combo, best)) {
				best = append([]card.Card(nil), combo...)
			}
		})
		if best != nil {
			break
		}
	}
	if best == nil {
		// Degenerate: every card shares rank or suit with every other; the
		// single lowest card always qualifies on its own.
		best = []card.Card{e.SortCards(cards)[0]}
	}
	values := make([]int, len(best))
	sorted := e.SortCards(best)
	for i, c := range sorted {
		values[i] = e.value(c.Rank)
	}
	return HandRanking{
		Rank:        uint16(4 - len(best)),
		OrderedRank: encodeTiebreakDirect(values...),
		Description: fmt.Sprintf("%d-card badugi", len(best)),
		Cards:       sorted,
	}, nil
}

func isBadugiValid(cards []card.Card) bool {
	ranks := make(map[card.Rank]bool)
	suits := make(map[card.Suit]bool)
	for _, c := range cards {
		if ranks[c.Rank] || suits[c.Suit] {
			return false
		}
		ranks[c.Rank] = true
		suits[c.Suit] = true
	}
	return true
}

func lowerValueSet(e BadugiEvaluator, a, b []card.Card) bool {
	sa, sb := e.SortCards(a), e.SortCards(b)
	for i := range sa {
		va, vb := e.value(sa[i].Rank), e.value(sb[i].Rank)
		if va != vb {
			return va < vb
		}
	}
	return false
}
