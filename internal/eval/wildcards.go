package eval

import "pokerengine/pkg/card"

// WildRuleType selects one of §4.5's dynamic wild-card rules.
type WildRuleType string

const (
	WildJoker             WildRuleType = "joker"
	WildRank              WildRuleType = "rank"
	WildLastCommunityCard WildRuleType = "last_community_card"
	WildLowestHole        WildRuleType = "lowest_hole"
	WildConditional       WildRuleType = "conditional"
)

// WildRule configures one dynamic wild-card rule.
type WildRule struct {
	Type WildRuleType

	// Rank is used by WildRank: cards of this rank become wild.
	Rank card.Rank

	// Promote controls what last_community_card promotes: "rank", "suit",
	// or "card" (itself only).
	Promote string

	// Visibility restricts lowest_hole to a single card visibility (face-up
	// or face-down hole cards), and selects which role conditional applies
	// when a card was dealt with that visibility.
	Visibility card.Visibility
}

// ApplyJokerRule marks every joker in cards wild.
func ApplyJokerRule(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	for i, c := range cards {
		if c.IsJoker() {
			c = c.MarkWild(card.WildNamed)
		}
		out[i] = c
	}
	return out
}

// ApplyRankRule marks every card of the given rank wild.
func ApplyRankRule(cards []card.Card, rank card.Rank) []card.Card {
	out := make([]card.Card, len(cards))
	for i, c := range cards {
		if c.Rank == rank {
			c = c.MarkWild(card.WildNamed)
		}
		out[i] = c
	}
	return out
}

// ApplyLastCommunityCardRule promotes the rank of the most recently dealt
// community card to wild, retroactively marking any earlier community cards
// of that rank as well (§4.5: "already-dealt cards of the same rank are
// retroactively marked wild").
func ApplyLastCommunityCardRule(community []card.Card) []card.Card {
	if len(community) == 0 {
		return community
	}
	out := make([]card.Card, len(community))
	copy(out, community)
	wildRank := out[len(out)-1].Rank
	for i, c := range out {
		if c.Rank == wildRank {
			out[i] = c.MarkWild(card.WildMatching)
		}
	}
	out[len(out)-1] = out[len(out)-1].MarkWild(card.WildNatural)
	return out
}

// ApplyLowestHoleRule marks each player's lowest hole card of the given
// visibility wild; recomputed after every new hole card (callers re-invoke
// this each time a card is dealt, per §4.5).
func ApplyLowestHoleRule(hole []card.Card, visibility card.Visibility) []card.Card {
	out := make([]card.Card, len(hole))
	copy(out, hole)
	lowest := -1
	for i, c := range out {
		if c.Visibility != visibility {
			continue
		}
		if lowest == -1 || rankValue(c.Rank) < rankValue(out[lowest].Rank) {
			lowest = i
		}
	}
	for i := range out {
		if out[i].Wild == WildLowestHoleMarker {
			out[i] = out[i].ClearWild()
		}
	}
	if lowest >= 0 {
		out[lowest] = out[lowest].MarkWild(WildLowestHoleMarker)
	}
	return out
}

// WildLowestHoleMarker is the card.WildType this package uses to mark a
// lowest-hole wild card, distinct from a statically-named wild so the
// recompute in ApplyLowestHoleRule can find and clear only its own marks.
const WildLowestHoleMarker = card.WildMatching

// ApplyConditionalRule marks c wild under one of two roles depending on the
// visibility it was dealt with (§4.5's "conditional" rule: face-up gets one
// role, face-down another). faceUpWild/faceDownWild report whether that
// visibility makes the card wild at all.
func ApplyConditionalRule(c card.Card, faceUpWild, faceDownWild bool) card.Card {
	wild := (c.Visibility == card.FaceUp && faceUpWild) || (c.Visibility == card.FaceDown && faceDownWild)
	if wild {
		return c.MarkWild(WildConditionalMarker)
	}
	return c.ClearWild()
}

// WildConditionalMarker marks cards wild under the conditional rule.
const WildConditionalMarker = card.WildBug
