package eval

import (
	"fmt"

	"pokerengine/pkg/card"
)

// PartialHighEvaluator ranks a fixed-size partial hand (1-4 cards) the way
// full high hands rank: quads over trips over two pair over a pair over no
// pair, ties broken on the highest group and then the kickers. It groups by
// rank with classifyByRankPatternOnly; straights and flushes are not counted.
// Stud bring-in and lowest/highest-exposed-card determinations need exactly
// this.
type PartialHighEvaluator struct {
	N int
}

func (e PartialHighEvaluator) Size() int { return e.N }

func (e PartialHighEvaluator) SortCards(cards []card.Card) []card.Card {
	return sortedDesc(cards)
}

func (e PartialHighEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	if len(cards) == 0 {
		return HandRanking{}, fmt.Errorf("eval: partial_%d_card_high needs at least 1 card", e.N)
	}
	n := e.N
	if len(cards) < n {
		n = len(cards)
	}
	best, combo := bestOfCombinations(cards, n, scorePartial)
	return HandRanking{
		Rank:        best.cat,
		OrderedRank: best.tiebreak,
		Description: fmt.Sprintf("%d-card high", n),
		Cards:       combo,
	}, nil
}

// scorePartial ranks purely by rank-count pattern and card values; straights
// and flushes are meaningless below 5 cards.
func scorePartial(cards []card.Card) scored {
	cat, tiebreak := classifyByRankPatternOnly(cards, rankValue)
	// classifyByRankPatternOnly lists "no pair" values ascending and paired
	// group ranks highest-first, and numbers its categories from no pair (0)
	// up to quads (5). Reverse the unpaired values and the category order so
	// made hands beat unpaired ones and the highest card is compared first.
	if cat == 0 {
		for i, j := 0, len(tiebreak)-1; i < j; i, j = i+1, j-1 {
			tiebreak[i], tiebreak[j] = tiebreak[j], tiebreak[i]
		}
	}
	return scored{5 - cat, encodeTiebreak(tiebreak...)}
}

// OneCardHighSpadeEvaluator scores a single card, valid only when it is a
// spade; non-spade cards never qualify (used for suit-restricted bonus
// pots such as a high-spade-in-the-hole side bet).
type OneCardHighSpadeEvaluator struct{}

func (OneCardHighSpadeEvaluator) Size() int { return 1 }

func (OneCardHighSpadeEvaluator) SortCards(cards []card.Card) []card.Card {
	return sortedDesc(cards)
}

func (e OneCardHighSpadeEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	var best *card.Card
	for i, c := range cards {
		if c.Suit != card.SuitSpades {
			continue
		}
		if best == nil || rankValue(c.Rank) > rankValue(best.Rank) {
			best = &cards[i]
		}
	}
	if best == nil {
		return HandRanking{Rank: 1, Description: "no qualifying spade"}, nil
	}
	return HandRanking{
		Rank:        0,
		OrderedRank: encodeTiebreak(rankValue(best.Rank)),
		Description: fmt.Sprintf("high spade %s", best),
		Cards:       []card.Card{*best},
	}, nil
}
