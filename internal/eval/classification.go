package eval

import "pokerengine/pkg/card"

// ClassificationRule names a hand "face" or "butt" depending on whether it
// contains any card of the listed ranks (§4.5: "a hand is face if it
// contains any of specified ranks, butt otherwise"). Classification
// overrides numeric comparison at the pot level: a higher-priority class
// wins even with a numerically worse rank.
type ClassificationRule struct {
	Name  string
	Ranks []card.Rank
}

// Classify returns the classification label for cards under rule.
func (rule ClassificationRule) Classify(cards []card.Card) string {
	want := make(map[card.Rank]bool, len(rule.Ranks))
	for _, r := range rule.Ranks {
		want[r] = true
	}
	for _, c := range cards {
		if want[c.Rank] {
			return rule.Name + "_face"
		}
	}
	return rule.Name + "_butt"
}

// PriorityIndex returns the index of label within priority (lower index =
// higher priority), or len(priority) if label is absent — meaning unranked
// classifications always lose to listed ones.
func PriorityIndex(priority []string, label string) int {
	for i, p := range priority {
		if p == label {
			return i
		}
	}
	return len(priority)
}
