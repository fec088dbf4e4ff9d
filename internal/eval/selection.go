package eval

import (
	"fmt"

	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/card"
)

// CardPools groups the card subsets a player's best hand can be built from:
// their hole cards plus whichever community subsets the variant deals.
// HoleSubsets/CommunitySubsets carry the named-subset breakdown (§3's "each
// card belongs to at most one named subset") for descriptors that restrict
// selection to a specific subset or board instead of the flattened pool.
type CardPools struct {
	Hole      []card.Card
	Community []card.Card

	HoleSubsets      map[string][]card.Card
	CommunitySubsets map[string][]card.Card
}

// FindBestHand implements §4.5's find_best_hand_for_player: given the
// player's card pools, a HandDescriptor, and the evaluator registry, builds
// every valid (hole, community) split the descriptor allows, evaluates each,
// and returns the best.
func FindBestHand(reg *Registry, desc *rulesfile.HandDescriptor, pools CardPools) (HandRanking, error) {
	evaluator, err := reg.Get(desc.EvalType)
	if err != nil {
		return HandRanking{}, err
	}

	candidates := buildCandidates(desc, pools)
	if len(candidates) == 0 {
		return HandRanking{}, fmt.Errorf("eval: no valid card combination for evalType %q", desc.EvalType)
	}

	var best HandRanking
	first := true
	for _, cand := range candidates {
		if len(cand) == 0 && desc.ZeroCardsPipValue == nil {
			continue
		}
		ranking, err := evaluateResolvingWild(evaluator, cand)
		if err != nil {
			if desc.Padding == "allow" {
				continue
			}
			return HandRanking{}, err
		}
		if first || ranking.Less(best) {
			best = ranking
			first = false
		}
	}
	if first {
		return HandRanking{}, fmt.Errorf("eval: no candidate hand could be evaluated for evalType %q", desc.EvalType)
	}
	return best, nil
}

// buildCandidates enumerates every card set the descriptor's selection
// fields permit, matching §4.5's table of holeCards/communityCards/anyCards/
// combinations/padding fields, plus this expansion's hole_subset, cardState,
// and multi-board communityCardCombinations/communityCardSelectCombinations.
func buildCandidates(desc *rulesfile.HandDescriptor, pools CardPools) [][]card.Card {
	hole := pools.Hole
	if desc.HoleSubset != "" && pools.HoleSubsets != nil {
		hole = pools.HoleSubsets[desc.HoleSubset]
	}
	if desc.CardState != "" {
		hole = filterByCardState(hole, desc.CardState)
	}

	communityVariants := communityPoolVariants(desc, pools)

	var out [][]card.Card
	for _, community := range communityVariants {
		out = append(out, buildCandidatesForPools(desc, hole, community)...)
	}

	if len(out) == 0 && desc.ZeroCardsPipValue != nil {
		out = append(out, nil)
	}
	return out
}

// communityPoolVariants resolves the community pool(s) a descriptor draws
// from: the flattened default pool, one of several named groupings tried in
// turn (communityCardCombinations — e.g. a grid's rows/columns/diagonal), or
// every combination of taking exactly one card from each of several named
// subsets (communityCardSelectCombinations — e.g. one card per board).
func communityPoolVariants(desc *rulesfile.HandDescriptor, pools CardPools) [][]card.Card {
	if len(desc.CommunityCardSelectCombinations) > 0 {
		var variants [][]card.Card
		for _, group := range desc.CommunityCardSelectCombinations {
			var perSubset [][]card.Card
			for _, name := range group {
				perSubset = append(perSubset, pools.CommunitySubsets[name])
			}
			cartesianCardProduct(perSubset, func(combo []card.Card) {
				variants = append(variants, append([]card.Card(nil), combo...))
			})
		}
		return variants
	}

	if len(desc.CommunityCardCombinations) > 0 {
		var variants [][]card.Card
		for _, group := range desc.CommunityCardCombinations {
			var pool []card.Card
			for _, name := range group {
				pool = append(pool, pools.CommunitySubsets[name]...)
			}
			variants = append(variants, pool)
		}
		return variants
	}

	return [][]card.Card{pools.Community}
}

// cartesianCardProduct calls fn once per combination formed by taking
// exactly one card from each pool in pools, in order.
func cartesianCardProduct(pools [][]card.Card, fn func([]card.Card)) {
	if len(pools) == 0 {
		return
	}
	combo := make([]card.Card, len(pools))
	var rec func(i int)
	rec = func(i int) {
		if i == len(pools) {
			fn(combo)
			return
		}
		for _, c := range pools[i] {
			combo[i] = c
			rec(i + 1)
		}
	}
	rec(0)
}

func filterByCardState(cards []card.Card, state string) []card.Card {
	var want card.Visibility
	switch state {
	case "face_up":
		want = card.FaceUp
	case "face_down":
		want = card.FaceDown
	default:
		return cards
	}
	var out []card.Card
	for _, c := range cards {
		if c.Visibility == want {
			out = append(out, c)
		}
	}
	return out
}

// buildCandidatesForPools runs the holeCards/communityCards/anyCards/
// combinations selection logic against one resolved (hole, community) pair.
func buildCandidatesForPools(desc *rulesfile.HandDescriptor, hole, community []card.Card) [][]card.Card {
	var out [][]card.Card

	switch {
	case len(desc.Combinations) > 0:
		for _, pair := range desc.Combinations {
			holeN, commN := pair[0], pair[1]
			combinations(hole, minInt(holeN, len(hole)), func(h []card.Card) {
				if len(h) != holeN {
					return
				}
				combinations(community, minInt(commN, len(community)), func(c []card.Card) {
					if len(c) != commN {
						return
					}
					out = append(out, concat(h, c))
				})
			})
		}

	case len(desc.AnyCards) > 0:
		n := desc.AnyCards[0]
		all := concat(hole, community)
		combinations(all, minInt(n, len(all)), func(combo []card.Card) {
			out = append(out, append([]card.Card(nil), combo...))
		})

	default:
		holeN := countSpec(desc.HoleCards, len(hole))
		commN := countSpec(desc.CommunityCards, len(community))
		combinations(hole, minInt(holeN, len(hole)), func(h []card.Card) {
			if len(h) != holeN {
				return
			}
			if commN == 0 {
				out = append(out, append([]card.Card(nil), h...))
				return
			}
			combinations(community, minInt(commN, len(community)), func(c []card.Card) {
				if len(c) != commN {
					return
				}
				out = append(out, concat(h, c))
			})
		})
	}

	if desc.Padding == "allow" && len(out) == 0 {
		out = append(out, concat(hole, community))
	}
	return out
}

// countSpec resolves a §4.5 "int | list<int>" selection field. An empty spec
// means "use everything available" (e.g. stud's community is always empty).
func countSpec(spec []int, available int) int {
	if len(spec) == 0 {
		return available
	}
	return spec[0]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func concat(a, b []card.Card) []card.Card {
	out := make([]card.Card, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// evaluateResolvingWild evaluates cand directly when it holds no wild cards;
// otherwise it tries every substitution for each wild card (every rank/suit
// not already present in cand) and keeps the best resulting ranking, per
// §4.5: wild cards are resolved at evaluation time for conditional rules.
func evaluateResolvingWild(evaluator Evaluator, cand []card.Card) (HandRanking, error) {
	wildIdx := -1
	for i, c := range cand {
		if c.IsWild() {
			wildIdx = i
			break
		}
	}
	if wildIdx == -1 {
		return evaluator.Evaluate(cand)
	}

	var best HandRanking
	first := true
	for r := card.Rank2; r <= card.RankA; r++ {
		for s := card.SuitClubs; s <= card.SuitSpades; s++ {
			sub := card.New(r, s)
			if containsCard(cand, sub, wildIdx) {
				continue
			}
			trial := append([]card.Card(nil), cand...)
			trial[wildIdx] = sub
			ranking, err := evaluateResolvingWild(evaluator, trial)
			if err != nil {
				continue
			}
			if first || ranking.Less(best) {
				best = ranking
				first = false
			}
		}
	}
	if first {
		return HandRanking{}, fmt.Errorf("eval: no valid substitution for wild card")
	}
	return best, nil
}

func containsCard(cards []card.Card, c card.Card, skipIdx int) bool {
	for i, existing := range cards {
		if i == skipIdx {
			continue
		}
		if existing.Equal(c) {
			return true
		}
	}
	return false
}
