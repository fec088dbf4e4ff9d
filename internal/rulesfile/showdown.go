package rulesfile

// ShowdownDescriptor configures §4.6's Showdown Manager for this variant.
type ShowdownDescriptor struct {
	// BestHand names the single evaluation used when there is no hi/lo split
	// and no per-pot qualifier variation.
	BestHand *HandDescriptor `json:"bestHand,omitempty"`

	// ConditionalBestHands lets the evaluation used depend on a runtime
	// Condition (e.g. Omaha Hi-Lo only pays low if a qualifying low exists —
	// modeled here as two pot descriptors rather than a condition, see Pots).
	ConditionalBestHands []ConditionalHand `json:"conditionalBestHands,omitempty"`

	// DefaultBestHand is used when no conditional entry matches.
	DefaultBestHand *HandDescriptor `json:"defaultBestHand,omitempty"`

	// Pots lists each independently-awarded share of the pot (high, low,
	// etc.) a hand can split into. A single-winner game has exactly one
	// entry named "high".
	Pots []PotDescriptor `json:"pots,omitempty"`

	// DeclarationMode selects how players commit to a pot share when the
	// variant requires it instead of cards-speak.
	DeclarationMode string `json:"declarationMode,omitempty"` // cards_speak | declare

	// ClassificationPriority breaks ties between evaluators that could both
	// apply to the same cards (e.g. badugi vs badugi_ace_high).
	ClassificationPriority []string `json:"classificationPriority,omitempty"`
}

// HandDescriptor names one evaluator and the card subsets it draws from.
type HandDescriptor struct {
	EvalType       string   `json:"evalType"`
	HoleSubset     string   `json:"hole_subset,omitempty"`  // restrict hole cards to a named PlayerHand subset (e.g. Badugi's "default")
	CardState      string   `json:"cardState,omitempty"`    // face_up | face_down — filter the hole pool by visibility before selecting
	HoleCards      []int    `json:"holeCards,omitempty"`    // [min,max] usable hole cards, or a fixed count
	CommunityCards []int    `json:"communityCards,omitempty"`
	AnyCards       []int    `json:"anyCards,omitempty"` // usable from either pool, unconstrained split
	Combinations   [][2]int `json:"combinations,omitempty"` // explicit (hole,community) pairs allowed, e.g. Omaha's 2+3
	Padding        string   `json:"padding,omitempty"`       // how to pad hands shorter than the evaluator's natural size

	// CommunityCardCombinations restricts the community pool to one of
	// several named subset groupings tried in turn (e.g. a 3x3 grid's rows,
	// columns, and diagonal); each inner list names the community subsets
	// whose cards combine into one candidate pool.
	CommunityCardCombinations [][]string `json:"communityCardCombinations,omitempty"`

	// CommunityCardSelectCombinations requires taking exactly one card from
	// each named subset in an inner list, trying every such combination
	// (e.g. "one card from each of three boards").
	CommunityCardSelectCombinations [][]string `json:"communityCardSelectCombinations,omitempty"`

	// MinimumCards + ZeroCardsPipValue support pip-count games where a hand
	// with fewer than MinimumCards selected cards still has a defined value
	// (an "empty hand" pip score) instead of failing evaluation.
	MinimumCards      int  `json:"minimumCards,omitempty"`
	ZeroCardsPipValue *int `json:"zeroCardsPipValue,omitempty"`
}

// ConditionalHand pairs a runtime Condition with the HandDescriptor that
// applies when it holds.
type ConditionalHand struct {
	Condition Condition      `json:"condition"`
	Hand      HandDescriptor `json:"hand"`
}

// PotDescriptor is one share of the pot this variant can award (e.g. "high"
// and "low" in a hi/lo split game).
type PotDescriptor struct {
	Name      string          `json:"name"`
	Hand      HandDescriptor  `json:"hand"`
	Qualifier *Qualifier      `json:"qualifier,omitempty"`
	OddChipTo string          `json:"oddChipTo,omitempty"` // high | low, which pot share gets odd chips when tied across shares

	// Classification splits this pot share's winner determination into named
	// sub-categories (e.g. Razzdugi's "face"/"butt" halves of the low share)
	// that are compared by priority order before falling back to numeric
	// hand ranking within the same category.
	Classification *ClassificationSpec `json:"classification,omitempty"`
}

// ClassificationSpec names the rank set a classification rule keys off of
// and the priority order its resulting labels are compared under.
type ClassificationSpec struct {
	Name     string   `json:"name"`
	Ranks    []string `json:"ranks"`
	Priority []string `json:"priority"` // e.g. ["<name>_face", "<name>_butt"]
}

// Qualifier is a minimum-strength gate a pot share must clear to be awarded
// at all (e.g. Omaha Hi-Lo's eight-or-better low qualifier); when a pot share
// has no qualifying hand its chips merge into the other share(s).
type Qualifier struct {
	EvalType string `json:"evalType"`
	// MaxValue ("6" through "9") is the highest card, ace counted low, that a
	// qualifying unpaired hand may hold under the named evaluator (e.g. "8"
	// for eight-or-better); other values skip the card check.
	MaxValue string `json:"maxValue,omitempty"`
}
