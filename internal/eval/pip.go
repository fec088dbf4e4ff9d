package eval

import (
	"fmt"

	"pokerengine/pkg/card"
)

// PipEvaluator scores pip-count games (e.g. "49", where face cards count as
// 10 and the goal is the closest total to a modulus without exceeding it, or
// "zero" where aces count 1 and the closest-to-zero hand wins). Modulus==0
// selects the zero-count variant.
type PipEvaluator struct {
	Modulus           int
	ZeroCardsPipValue int
}

func (PipEvaluator) Size() int { return 0 }

func (e PipEvaluator) SortCards(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	sortByValueAsc(out, e.pipValue)
	return out
}

// pipValue maps a rank to its pip count: numeric cards count face value,
// face cards (J/Q/K) count 10, aces count 1.
func (e PipEvaluator) pipValue(r card.Rank) int {
	switch r {
	case card.RankA:
		return 1
	case card.RankJ, card.RankQ, card.RankK:
		return 10
	default:
		return int(r) + 2
	}
}

func (e PipEvaluator) Evaluate(cards []card.Card) (HandRanking, error) {
	if len(cards) == 0 {
		if e.Modulus == 0 {
			return HandRanking{Rank: 0, OrderedRank: uint16(e.ZeroCardsPipValue), Description: "empty hand"}, nil
		}
		return HandRanking{}, fmt.Errorf("eval: pip evaluator needs at least 1 card")
	}
	total := 0
	for _, c := range cards {
		total += e.pipValue(c.Rank)
	}

	if e.Modulus > 0 {
		pips := total % e.Modulus
		distance := e.Modulus - pips
		if pips == 0 {
			distance = 0
		}
		return HandRanking{
			Rank:        uint16(distance),
			OrderedRank: 0,
			Description: fmt.Sprintf("%d pips (mod %d)", pips, e.Modulus),
			Cards:       cards,
		}, nil
	}

	// Zero-count: closest to zero wins, ties broken by fewer cards used.
	return HandRanking{
		Rank:        uint16(total),
		OrderedRank: uint16(len(cards)),
		Description: fmt.Sprintf("%d pips", total),
		Cards:       cards,
	}, nil
}
