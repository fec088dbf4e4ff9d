package betting

// InitialOrderKind selects which rule determines the first actor of a
// betting round (§4.2's betting_order.initial).
type InitialOrderKind string

const (
	InitialAfterBigBlind InitialOrderKind = "after_big_blind"
	InitialDealer        InitialOrderKind = "dealer"
	InitialBringIn       InitialOrderKind = "bring_in"
)

// SubsequentOrderKind selects the rule for every later betting round.
type SubsequentOrderKind string

const (
	SubsequentDealer    SubsequentOrderKind = "dealer"
	SubsequentHighHand  SubsequentOrderKind = "high_hand"
	SubsequentLastActor SubsequentOrderKind = "last_actor"
	SubsequentBringIn   SubsequentOrderKind = "bring_in"
)

// NextAfter walks active (starting just past fromID) and returns the next
// player, wrapping around. Returns "" only if active is empty; returns
// active[0] if fromID is not in active, and fromID itself if it is the only
// entry.
func NextAfter(active []string, fromID string) string {
	if len(active) == 0 {
		return ""
	}
	idx := indexOf(active, fromID)
	if idx == -1 {
		return active[0]
	}
	return active[(idx+1)%len(active)]
}

// FirstAfterBigBlind returns the first player after the big blind in
// `active` (active[2] in an SB/BB/rest order); active must already be seated
// in dealing order starting from the SB. With fewer than three players it
// returns active[0], the heads-up small blind.
func FirstAfterBigBlind(active []string) string {
	if len(active) < 3 {
		return NextAfter(active, active[len(active)-1])
	}
	return active[2]
}

// FirstAfterDealer returns the first active player after the button.
func FirstAfterDealer(active []string, buttonID string) string {
	return NextAfter(active, buttonID)
}

// FirstAfterLastActor returns the first active player following whoever
// acted last in the prior round.
func FirstAfterLastActor(active []string, lastActorID string) string {
	if lastActorID == "" {
		return firstOf(active)
	}
	return NextAfter(active, lastActorID)
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func firstOf(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
