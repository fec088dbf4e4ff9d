package interpreter

import (
	"pokerengine/internal/eval"
	"pokerengine/internal/showdown"
	"pokerengine/pkg/card"
)

// runShowdown builds card pools for every active player and delegates to
// the showdown package for resolution.
func (e *Engine) runShowdown() ([]showdown.Result, error) {
	active := e.Table.ActivePlayerIDs(e.Table.ButtonSeat)
	seatOrder := e.Table.ActivePlayerIDs((e.Table.ButtonSeat + 1) % len(e.Table.Seats))

	community := e.flattenCommunity()
	communitySubsets := make(map[string][]card.Card, len(e.Table.CommunitySubsets))
	for name, cards := range e.Table.CommunitySubsets {
		communitySubsets[name] = append([]card.Card(nil), cards...)
	}
	hands := func(pid string) eval.CardPools {
		p := e.Table.Player(pid)
		if p == nil {
			return eval.CardPools{}
		}
		holeSubsets := make(map[string][]card.Card, len(p.Hand.Subsets))
		for name := range p.Hand.Subsets {
			holeSubsets[name] = p.Hand.CardsIn(name)
		}
		holeSubsets["default"] = p.Hand.CardsIn("default")
		return eval.CardPools{
			Hole:             p.Hand.Cards,
			Community:        community,
			HoleSubsets:      holeSubsets,
			CommunitySubsets: communitySubsets,
		}
	}

	return showdown.Resolve(e.Eval, &e.Rules.Showdown, e.Pot, active, seatOrder, hands, e.declarations, e.choices)
}

func (e *Engine) flattenCommunity() []card.Card {
	var out []card.Card
	for _, cards := range e.Table.CommunitySubsets {
		out = append(out, cards...)
	}
	return out
}
