package showdown

import (
	"testing"

	"pokerengine/internal/eval"
	"pokerengine/internal/pot"
	"pokerengine/internal/rulesfile"
	"pokerengine/pkg/card"
)

func c(r card.Rank, s card.Suit) card.Card { return card.New(r, s) }

func TestResolveFoldWinShortCircuitsEvaluation(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 10, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 10, false, false); err != nil {
		t.Fatal(err)
	}
	p.Fold("b")

	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{{Name: "high", Hand: rulesfile.HandDescriptor{EvalType: "high", AnyCards: []int{5, 5}}}},
	}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		t.Fatal("hand provider should not be invoked on a fold win")
		return eval.CardPools{}
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].FoldWin {
		t.Fatalf("expected a single fold-win result, got %+v", results)
	}
	if results[0].Winners[0] != "a" {
		t.Fatalf("expected a to win uncontested, got %+v", results[0].Winners)
	}
	total := 0
	for _, award := range results[0].Awards {
		total += award.Amount
	}
	if total != 20 {
		t.Fatalf("expected the whole 20-chip pot awarded, got %d", total)
	}
}

func TestResolveHighHandPicksBestRanking(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 10, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 10, false, false); err != nil {
		t.Fatal(err)
	}

	hands := map[string]eval.CardPools{
		"a": {Hole: []card.Card{c(card.RankA, card.SuitSpades), c(card.RankA, card.SuitHearts), c(card.RankK, card.SuitDiamonds), c(card.RankQ, card.SuitClubs), c(card.RankJ, card.SuitSpades)}},
		"b": {Hole: []card.Card{c(card.RankK, card.SuitSpades), c(card.RankQ, card.SuitHearts), c(card.RankJ, card.SuitDiamonds), c(card.Rank9, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
	}

	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{{Name: "high", Hand: rulesfile.HandDescriptor{EvalType: "high", AnyCards: []int{5, 5}}}},
	}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a", "b"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		return hands[pid]
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if len(results[0].Winners) != 1 || results[0].Winners[0] != "a" {
		t.Fatalf("expected a to win with a pair of aces, got %+v", results[0].Winners)
	}
}

func TestResolveHiLoSplitsPotWhenLowQualifies(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 50, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 50, false, false); err != nil {
		t.Fatal(err)
	}

	// a has the best high hand (a pair); b has a qualifying 8-low.
	hands := map[string]eval.CardPools{
		"a": {Hole: []card.Card{c(card.RankA, card.SuitSpades), c(card.RankA, card.SuitHearts), c(card.RankK, card.SuitDiamonds), c(card.RankQ, card.SuitClubs), c(card.RankJ, card.SuitSpades)}},
		"b": {Hole: []card.Card{c(card.Rank2, card.SuitSpades), c(card.Rank3, card.SuitHearts), c(card.Rank4, card.SuitDiamonds), c(card.Rank5, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
	}

	eight := "8"
	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{
			{Name: "high", Hand: rulesfile.HandDescriptor{EvalType: "high", AnyCards: []int{5, 5}}},
			{Name: "low", Hand: rulesfile.HandDescriptor{EvalType: "a5_low", AnyCards: []int{5, 5}}, Qualifier: &rulesfile.Qualifier{EvalType: "a5_low", MaxValue: eight}},
		},
	}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a", "b"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		return hands[pid]
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both a high and a low share, got %d: %+v", len(results), results)
	}

	byShare := make(map[string]Result, len(results))
	for _, r := range results {
		byShare[r.PotShare] = r
	}
	if byShare["high"].Winners[0] != "a" {
		t.Fatalf("expected a to win the high share, got %+v", byShare["high"])
	}
	if byShare["low"].Winners[0] != "b" {
		t.Fatalf("expected b to win the low share, got %+v", byShare["low"])
	}
	if byShare["high"].Awards[0].Amount != 50 {
		t.Fatalf("expected the high share to take half the pot (50), got %d", byShare["high"].Awards[0].Amount)
	}
	if byShare["low"].Awards[0].Amount != 50 {
		t.Fatalf("expected the low share to take half the pot (50), got %d", byShare["low"].Awards[0].Amount)
	}
}

func TestResolveHiLoAwardsWholePotToHighWhenLowDoesNotQualify(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 50, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 50, false, false); err != nil {
		t.Fatal(err)
	}

	// Neither player holds an unpaired hand at or below an 8, so the low
	// share finds no qualifier and its chips fold back to high.
	hands := map[string]eval.CardPools{
		"a": {Hole: []card.Card{c(card.RankA, card.SuitSpades), c(card.RankA, card.SuitHearts), c(card.RankK, card.SuitDiamonds), c(card.RankQ, card.SuitClubs), c(card.RankJ, card.SuitSpades)}},
		"b": {Hole: []card.Card{c(card.RankK, card.SuitSpades), c(card.RankQ, card.SuitHearts), c(card.RankJ, card.SuitDiamonds), c(card.Rank9, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
	}

	eight := "8"
	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{
			{Name: "high", Hand: rulesfile.HandDescriptor{EvalType: "high", AnyCards: []int{5, 5}}},
			{Name: "low", Hand: rulesfile.HandDescriptor{EvalType: "a5_low", AnyCards: []int{5, 5}}, Qualifier: &rulesfile.Qualifier{EvalType: "a5_low", MaxValue: eight}},
		},
	}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a", "b"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		return hands[pid]
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].PotShare != "high" {
		t.Fatalf("expected only the high share to be awarded, got %+v", results)
	}
	if results[0].Awards[0].Amount != 100 {
		t.Fatalf("expected high to take the entire 100-chip pot, got %d", results[0].Awards[0].Amount)
	}
}

func TestResolveClassificationPriorityBeatsNumericRanking(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 50, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 50, false, false); err != nil {
		t.Fatal(err)
	}

	// a holds a numerically better a5_low (no jack), b holds a numerically
	// worse low that contains a jack. A classification splitting on jack
	// ("face" = contains a jack, "butt" = does not) with priority [face,
	// butt] must let b win despite the worse low ranking (§4.5's
	// classification-priority override).
	hands := map[string]eval.CardPools{
		"a": {Hole: []card.Card{c(card.Rank2, card.SuitSpades), c(card.Rank3, card.SuitHearts), c(card.Rank4, card.SuitDiamonds), c(card.Rank5, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
		"b": {Hole: []card.Card{c(card.Rank2, card.SuitSpades), c(card.Rank3, card.SuitHearts), c(card.Rank4, card.SuitDiamonds), c(card.RankJ, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
	}

	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{
			{
				Name: "low",
				Hand: rulesfile.HandDescriptor{EvalType: "a5_low", AnyCards: []int{5, 5}},
				Classification: &rulesfile.ClassificationSpec{
					Name:     "jack",
					Ranks:    []string{"J"},
					Priority: []string{"jack_face", "jack_butt"},
				},
			},
		},
	}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a", "b"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		return hands[pid]
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || len(results[0].Winners) != 1 || results[0].Winners[0] != "b" {
		t.Fatalf("expected b's jack-containing (face) hand to win over a's numerically better low, got %+v", results)
	}
}

func TestResolveHonorsDeclarations(t *testing.T) {
	p := pot.New([]string{"a", "b"})
	if err := p.AddBet("a", 50, false, false); err != nil {
		t.Fatal(err)
	}
	if err := p.AddBet("b", 50, false, false); err != nil {
		t.Fatal(err)
	}

	hands := map[string]eval.CardPools{
		"a": {Hole: []card.Card{c(card.RankA, card.SuitSpades), c(card.RankA, card.SuitHearts), c(card.RankK, card.SuitDiamonds), c(card.RankQ, card.SuitClubs), c(card.RankJ, card.SuitSpades)}},
		"b": {Hole: []card.Card{c(card.Rank2, card.SuitSpades), c(card.Rank3, card.SuitHearts), c(card.Rank4, card.SuitDiamonds), c(card.Rank5, card.SuitClubs), c(card.Rank7, card.SuitSpades)}},
	}

	eight := "8"
	desc := &rulesfile.ShowdownDescriptor{
		Pots: []rulesfile.PotDescriptor{
			{Name: "high", Hand: rulesfile.HandDescriptor{EvalType: "high", AnyCards: []int{5, 5}}},
			{Name: "low", Hand: rulesfile.HandDescriptor{EvalType: "a5_low", AnyCards: []int{5, 5}}, Qualifier: &rulesfile.Qualifier{EvalType: "a5_low", MaxValue: eight}},
		},
	}
	// b declares high only, despite holding the qualifying low hand - the
	// low share should then have no declared contender and fold into high.
	declarations := Declarations{"a": {"high"}, "b": {"high"}}
	results, err := Resolve(eval.NewRegistry(), desc, p, []string{"a", "b"}, []string{"a", "b"}, func(pid string) eval.CardPools {
		return hands[pid]
	}, declarations, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].PotShare != "high" {
		t.Fatalf("expected only high to be awarded once low has no declared contender, got %+v", results)
	}
	if results[0].Awards[0].Amount != 100 {
		t.Fatalf("expected high to collect the undeclared low share too, got %d", results[0].Awards[0].Amount)
	}
}
