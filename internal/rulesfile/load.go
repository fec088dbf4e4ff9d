package rulesfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads and validates a rules file from path.
func Load(path string) (*GameRules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rulesfile: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates a rules file from r.
func Parse(r io.Reader) (*GameRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rulesfile: read: %w", err)
	}
	var rules GameRules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("rulesfile: decode: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Validate checks the structural invariants a rules file must satisfy
// before an interpreter.Engine can be built from it (§7 ConfigError).
func (g *GameRules) Validate() error {
	if g.Game == "" {
		return fmt.Errorf("rulesfile: %w: game name is required", ErrConfig)
	}
	if g.Players.Min < 2 {
		return fmt.Errorf("rulesfile: %w: players.min must be >= 2", ErrConfig)
	}
	if g.Players.Max < g.Players.Min {
		return fmt.Errorf("rulesfile: %w: players.max must be >= players.min", ErrConfig)
	}
	if len(g.BettingStructures) == 0 {
		return fmt.Errorf("rulesfile: %w: at least one betting structure is required", ErrConfig)
	}
	if len(g.GamePlay) == 0 {
		return fmt.Errorf("rulesfile: %w: gamePlay must have at least one step", ErrConfig)
	}
	if g.Showdown.BestHand == nil && g.Showdown.DefaultBestHand == nil && len(g.Showdown.Pots) == 0 {
		return fmt.Errorf("rulesfile: %w: showdown must define bestHand, defaultBestHand, or pots", ErrConfig)
	}
	for i, step := range g.GamePlay {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("rulesfile: gamePlay[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(s Step) error {
	switch s.Kind {
	case StepBet:
		if s.Bet == nil {
			return fmt.Errorf("%w: bet step missing config", ErrConfig)
		}
	case StepDeal:
		if s.Deal == nil || s.Deal.Count <= 0 {
			return fmt.Errorf("%w: deal step requires a positive count", ErrConfig)
		}
	case StepGrouped:
		if s.Grouped == nil || len(s.Grouped.Steps) == 0 {
			return fmt.Errorf("%w: grouped step requires at least one substep", ErrConfig)
		}
		for i, sub := range s.Grouped.Steps {
			if sub.Kind == StepGrouped {
				return fmt.Errorf("%w: grouped step substep[%d] may not itself be grouped", ErrConfig, i)
			}
			if sub.Kind == StepBet {
				return fmt.Errorf("%w: grouped step substep[%d] may not be a betting round", ErrConfig, i)
			}
			if err := validateStep(sub); err != nil {
				return fmt.Errorf("substep[%d]: %w", i, err)
			}
		}
	case StepShowdown:
		// ShowdownStep has no required fields of its own.
	}
	return nil
}

// ErrConfig is the sentinel wrapped by every rules-file validation failure,
// matching §7's ConfigError category.
var ErrConfig = fmt.Errorf("invalid rules file")
