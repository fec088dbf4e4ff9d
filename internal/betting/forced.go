package betting

import "fmt"

// ForcedBetKind selects which forced-bet posting routine handle_forced_bets
// runs (§4.2).
type ForcedBetKind string

const (
	ForcedAntes      ForcedBetKind = "antes"
	ForcedBlinds     ForcedBetKind = "blinds"
	ForcedBringIn    ForcedBetKind = "bring-in"
	ForcedDealerBlind ForcedBetKind = "dealer-blind"
)

// Stack reports a player's current chip stack; the forced-bet postings need
// this to cap an ante/blind at a short stack.
type Stack func(pid string) int

// HandleForcedBets posts antes, blinds, or bring-in for the given ordered
// active player list (starting from the relevant reference seat — small
// blind, or the bring-in candidate — already rotated into order[0]).
func (m *Manager) HandleForcedBets(kind ForcedBetKind, order []string, stack Stack, bringInWinner string) error {
	switch kind {
	case ForcedAntes:
		for _, pid := range order {
			amt := m.Stakes.Ante
			if s := stack(pid); amt > s {
				amt = s
			}
			if amt <= 0 {
				continue
			}
			if err := m.PlaceBet(pid, amt, stack(pid), true, true); err != nil {
				return err
			}
		}
		return nil

	case ForcedBlinds:
		if len(order) < 2 {
			return fmt.Errorf("betting: blinds require at least 2 active players")
		}
		sb, bb := order[0], order[1]
		if err := postBlind(m, sb, m.Stakes.SmallBlind, stack); err != nil {
			return err
		}
		if err := postBlind(m, bb, m.Stakes.BigBlind, stack); err != nil {
			return err
		}
		return nil

	case ForcedDealerBlind:
		if len(order) < 1 {
			return fmt.Errorf("betting: dealer-blind requires at least 1 active player")
		}
		button := order[0]
		if err := postBlind(m, button, m.Stakes.BigBlind, stack); err != nil {
			return err
		}
		amt := m.Stakes.Ante
		if s := stack(button); amt > s {
			amt = s
		}
		if amt > 0 {
			return m.PlaceBet(button, amt, stack(button), true, true)
		}
		return nil

	case ForcedBringIn:
		if bringInWinner == "" {
			return fmt.Errorf("betting: bring-in requires a determined player")
		}
		amt := m.Stakes.BringIn
		if s := stack(bringInWinner); amt > s {
			amt = s
		}
		m.BringInPosted = true
		m.LastActorID = bringInWinner
		return m.PlaceBet(bringInWinner, amt, stack(bringInWinner), true, false)
	}
	return fmt.Errorf("betting: unknown forced bet kind %q", kind)
}

func postBlind(m *Manager, pid string, amount int, stack Stack) error {
	s := stack(pid)
	if amount > s {
		amount = s
	}
	return m.PlaceBet(pid, amount, s, true, false)
}
