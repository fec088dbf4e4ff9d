// Package betting implements the betting manager: per-round bet tracking,
// forced-bet posting, and validation for limit/no-limit/pot-limit betting
// structures, sharing one BaseBetting core across tagged Manager variants —
// the redesign this package replaces the teacher's per-game subclassing
// with (§9).
package betting

import "fmt"

// PlayerBet is the transient per-round state §3 describes, cleared at the
// start of each betting round.
type PlayerBet struct {
	Amount      int
	HasActed    bool
	PostedBlind bool
	IsAllIn     bool
}

// Structure selects which betting-limit rules apply.
type Structure string

const (
	Limit   Structure = "limit"
	NoLimit Structure = "no-limit"
	PotLimit Structure = "pot-limit"
)

// Stakes configures the fixed amounts a structure needs.
type Stakes struct {
	SmallBlind int
	BigBlind   int
	Ante       int
	SmallBet   int // limit structure only
	BigBet     int // limit structure only
	BringIn    int
}

// Manager is the tagged-variant betting manager: one struct, one Structure
// field, with behavior branching on it rather than three separate types
// each reimplementing the shared bookkeeping.
type Manager struct {
	Structure Structure
	Stakes    Stakes

	CurrentBets   map[string]*PlayerBet
	CurrentBet    int
	BettingRound  int
	LastRaiseSize int
	BringInPosted bool
	LastActorID   string

	// PriorStackDebit tracks, per player, the round-total amount already
	// deducted from their chip stack — the interpreter uses this so a
	// player's stack is debited only the incremental amount of each new bet.
	PriorStackDebit map[string]int

	potTotal  func() int // queried for pot-limit max-bet calc
	anteTotal func(pid string) int
}

// CurrentBetFor returns pid's committed amount this betting round.
func (m *Manager) CurrentBetFor(pid string) int {
	return m.bet(pid).Amount
}

// MarkFolded records that pid is no longer live for round-completion
// purposes (folded players stop counting toward RoundComplete's checks).
func (m *Manager) MarkFolded(pid string) {
	delete(m.CurrentBets, pid)
}

// New constructs a Manager. potTotal and anteTotal let the pot-limit max-bet
// rule consult the live pot without this package importing internal/pot.
func New(structure Structure, stakes Stakes, potTotal func() int, anteTotal func(pid string) int) *Manager {
	return &Manager{
		Structure:   structure,
		Stakes:      stakes,
		CurrentBets:     make(map[string]*PlayerBet),
		PriorStackDebit: make(map[string]int),
		potTotal:        potTotal,
		anteTotal:       anteTotal,
	}
}

func (m *Manager) bet(pid string) *PlayerBet {
	pb, ok := m.CurrentBets[pid]
	if !ok {
		pb = &PlayerBet{}
		m.CurrentBets[pid] = pb
	}
	return pb
}

// GetRequiredBet returns the amount pid must add to call, per §4.2.
func (m *Manager) GetRequiredBet(pid string) int {
	required := m.CurrentBet - m.bet(pid).Amount
	if required < 0 {
		return 0
	}
	return required
}

// GetMinBet returns the lowest total amount a fresh bet (current_bet==0)
// may open for.
func (m *Manager) GetMinBet(pid string) int {
	switch m.Structure {
	case Limit:
		return m.betUnit()
	default:
		if m.Stakes.BigBlind > 0 {
			return m.Stakes.BigBlind
		}
		return 1
	}
}

// GetMinRaise returns the lowest total amount that is a valid raise.
func (m *Manager) GetMinRaise(pid string) int {
	switch m.Structure {
	case Limit:
		return m.CurrentBet + m.betUnit()
	default:
		inc := m.LastRaiseSize
		if inc < m.Stakes.BigBlind {
			inc = m.Stakes.BigBlind
		}
		return m.CurrentBet + inc
	}
}

// GetMaxBet returns the highest total amount pid may bet/raise to, given
// their remaining stack and (for pot-limit) the live pot size.
func (m *Manager) GetMaxBet(pid string, stack int) int {
	current := m.bet(pid).Amount
	switch m.Structure {
	case Limit:
		max := m.CurrentBet + m.betUnit()
		if cap := current + stack; cap < max {
			return cap
		}
		return max
	case PotLimit:
		callAmount := m.GetRequiredBet(pid)
		pot := 0
		if m.potTotal != nil {
			pot = m.potTotal()
		}
		ante := 0
		if m.anteTotal != nil {
			ante = m.anteTotal(pid)
		}
		potRaise := m.CurrentBet + (pot - ante + callAmount)
		if cap := current + stack; cap < potRaise {
			return cap
		}
		return potRaise
	default: // NoLimit
		return current + stack
	}
}

// betUnit selects small_bet or big_bet by betting round: rounds 0-1 use the
// small bet, later rounds the big bet, the conventional limit split.
func (m *Manager) betUnit() int {
	if m.BettingRound <= 1 {
		return m.Stakes.SmallBet
	}
	return m.Stakes.BigBet
}

// PlaceBet records pid's new round-total bet. isForced skips validation
// (used for antes/blinds/bring-in). isAnte means the amount never touches
// CurrentBet and never sets PostedBlind.
func (m *Manager) PlaceBet(pid string, total int, stack int, isForced bool, isAnte bool) error {
	pb := m.bet(pid)
	if !isForced {
		if total < 0 {
			return fmt.Errorf("betting: negative bet for %s", pid)
		}
		if total-pb.Amount > stack {
			return fmt.Errorf("betting: %s cannot bet more than their stack", pid)
		}
	}

	increment := total - pb.Amount
	pb.Amount = total
	pb.HasActed = true
	if increment >= stack {
		pb.IsAllIn = true
	}

	if isAnte {
		return nil
	}

	if total > m.CurrentBet {
		raiseSize := total - m.CurrentBet
		if m.CurrentBet > 0 {
			m.LastRaiseSize = raiseSize
		}
		m.CurrentBet = total
	}
	if !isForced {
		m.LastActorID = pid
	} else if total > 0 {
		pb.PostedBlind = true
	}
	return nil
}

// RoundComplete reports whether every non-folded, non-all-in player has
// acted and matched the current bet.
func (m *Manager) RoundComplete(activePlayerIDs []string) bool {
	for _, pid := range activePlayerIDs {
		pb := m.bet(pid)
		if pb.IsAllIn {
			continue
		}
		if !pb.HasActed {
			return false
		}
		if pb.Amount != m.CurrentBet {
			return false
		}
	}
	return true
}

// NewRound starts a fresh betting round. preserveCurrentBet keeps
// CurrentBet (continuing action after forced bets were posted); otherwise
// per-round state clears and BettingRound increments.
func (m *Manager) NewRound(preserveCurrentBet bool) {
	if preserveCurrentBet {
		return
	}
	m.CurrentBet = 0
	m.CurrentBets = make(map[string]*PlayerBet)
	m.PriorStackDebit = make(map[string]int)
	m.LastRaiseSize = 0
	m.BettingRound++
}
