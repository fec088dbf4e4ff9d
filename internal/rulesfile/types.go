// Package rulesfile parses the declarative JSON rules file (§6 of the
// engine spec) into strongly-typed step variants, so the interpreter's hot
// path is a type switch instead of repeated ad-hoc map lookups (the
// redesign flag in spec §9: "parse rules once at construction").
package rulesfile

import (
	"encoding/json"
	"fmt"

	"pokerengine/pkg/card"
)

// GameRules is the parsed form of a rules file.
type GameRules struct {
	Game              string             `json:"game"`
	Players           PlayerRange        `json:"players"`
	Deck              DeckSpec           `json:"deck"`
	BettingStructures []string           `json:"bettingStructures"`
	ForcedBets        ForcedBets         `json:"forcedBets"`
	BettingOrder      BettingOrder       `json:"bettingOrder"`
	GamePlay          []Step             `json:"gamePlay"`
	Showdown          ShowdownDescriptor `json:"showdown"`

	// WildCards are static dynamic-wild-card rules applied after every deal
	// step (a deal step's own WildCards field, if set, replaces this list for
	// that step only — see DealStep).
	WildCards []WildCardConfig `json:"wildCards,omitempty"`

	// NamedBets maps a cost name to a chip amount, used by protection-decision
	// deal steps (DealStep.ProtectionOption.CostName).
	NamedBets map[string]int `json:"namedBets,omitempty"`
}

// WildCardConfig configures one of §4.5's dynamic wild-card rules.
type WildCardConfig struct {
	Type       string `json:"type"` // joker | rank | last_community_card | lowest_hole | conditional
	Rank       string `json:"rank,omitempty"`
	Promote    string `json:"promote,omitempty"`    // last_community_card: rank | suit | card
	Visibility string `json:"visibility,omitempty"` // lowest_hole / conditional: face_down | face_up
}

// PlayerRange bounds the number of seated players.
type PlayerRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeckSpec selects the deck type (and, rarely, an explicit card list override).
type DeckSpec struct {
	Type  card.DeckType `json:"type"`
	Cards []string      `json:"cards,omitempty"`
}

// ForcedBets describes the forced-bet structure (§4.2 handle_forced_bets).
type ForcedBets struct {
	Style               string               `json:"style"` // blinds | antes | bring-in | dealer-blind
	Rule                json.RawMessage      `json:"rule,omitempty"`
	BringInEval         string               `json:"bringInEval,omitempty"`
	ConditionalVariations []ConditionalForced `json:"conditionalVariations,omitempty"`
}

// ConditionalForced lets a forced-bet style switch on a runtime condition
// (e.g. dealer-blind variants differ from plain blinds).
type ConditionalForced struct {
	Condition Condition  `json:"condition"`
	ForcedBets ForcedBets `json:"forcedBets"`
}

// BettingOrder describes initial and subsequent action order (§4.2 next_player).
type BettingOrder struct {
	Initial    string           `json:"initial"` // after_big_blind | dealer | bring_in
	Subsequent OrderSubsequent  `json:"subsequent"`
}

// OrderSubsequent is either a plain tag or a conditional list; Tag is set
// when the JSON value was a bare string, Conditions when it was a list.
type OrderSubsequent struct {
	Tag        string               `json:"-"`
	Conditions []ConditionalOrder   `json:"-"`
}

// ConditionalOrder is one entry of a conditional betting-order list.
type ConditionalOrder struct {
	Condition Condition `json:"condition"`
	Tag       string    `json:"tag"`
}

func (o *OrderSubsequent) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		o.Tag = tag
		return nil
	}
	var conds []ConditionalOrder
	if err := json.Unmarshal(data, &conds); err != nil {
		return fmt.Errorf("rulesfile: bettingOrder.subsequent must be a string or condition list: %w", err)
	}
	o.Conditions = conds
	return nil
}

func (o OrderSubsequent) MarshalJSON() ([]byte, error) {
	if o.Conditions != nil {
		return json.Marshal(o.Conditions)
	}
	return json.Marshal(o.Tag)
}

// Condition is the shared condition language used by conditional steps
// (§4.1), conditional forced bets, and conditional betting order.
type Condition struct {
	Type string `json:"type"` // all_exposed | any_exposed | none_exposed | board_composition | player_choice
	// Subject names the player hand-subset or community subset the
	// condition inspects, depending on Type.
	Subject string `json:"subject,omitempty"`
	// Visibility restricts which cards within Subject are examined
	// (used by *_exposed conditions).
	Visibility string `json:"visibility,omitempty"`
	// Criterion is used by board_composition, e.g. "at_least".
	Criterion string `json:"criterion,omitempty"`
	Count     int    `json:"count,omitempty"`
	Ranks     []string `json:"ranks,omitempty"`
	Suits     []string `json:"suits,omitempty"`
	// ChoiceKey/Equals/In are used by player_choice.
	ChoiceKey string   `json:"choiceKey,omitempty"`
	Equals    string   `json:"equals,omitempty"`
	In        []string `json:"in,omitempty"`
}
