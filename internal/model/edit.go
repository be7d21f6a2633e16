package model

// Strategy is the closed set of anchor-relative placement rules. Adding a
// variant requires touching the placement switch in internal/plan, which the
// compiler flags through the exhaustive default case.
type Strategy string

const (
	// StrategyModifier places the insertion immediately before the anchor,
	// separated by a single space.
	StrategyModifier Strategy = "modifier"
	// StrategyParenthetical wraps the insertion in parentheses immediately
	// after the anchor.
	StrategyParenthetical Strategy = "parenthetical"
	// StrategyTail appends the insertion at the end of the line, introduced
	// with a comma.
	StrategyTail Strategy = "tail"
)

// Known reports whether s is one of the three placement strategies.
func (s Strategy) Known() bool {
	switch s {
	case StrategyModifier, StrategyParenthetical, StrategyTail:
		return true
	}
	return false
}

// EditCandidate is a single proposed change produced by the external
// generation service. It is untrusted input: nothing beyond its JSON shape is
// assumed until the constraint validator has scored it. Candidates are never
// mutated, only accepted or rejected.
type EditCandidate struct {
	LineIndex    int      `json:"line_index"`
	Strategy     Strategy `json:"strategy"`
	Anchor       string   `json:"anchor"`
	Insertion    string   `json:"insertion"`
	KeywordsUsed []string `json:"keywords_used"`
}

// ReasonCode identifies why a candidate was rejected.
type ReasonCode string

const (
	ReasonAnchorNotFound        ReasonCode = "ANCHOR_NOT_FOUND"
	ReasonCharLimitExceeded     ReasonCode = "CHAR_LIMIT_EXCEEDED"
	ReasonWordLimitExceeded     ReasonCode = "WORD_LIMIT_EXCEEDED"
	ReasonEditDistanceExceeded  ReasonCode = "EDIT_DISTANCE_EXCEEDED"
	ReasonStructureNotPreserved ReasonCode = "STRUCTURE_NOT_PRESERVED"
	ReasonLineOutOfRange        ReasonCode = "LINE_OUT_OF_RANGE"
	ReasonEmptyAnchor           ReasonCode = "EMPTY_ANCHOR"
	ReasonEmptyInsertion        ReasonCode = "EMPTY_INSERTION"
	ReasonNoKeywords            ReasonCode = "NO_KEYWORDS"
	ReasonTooManyKeywords       ReasonCode = "TOO_MANY_KEYWORDS"
	ReasonUnknownStrategy       ReasonCode = "UNKNOWN_STRATEGY"
	ReasonLineAlreadyEdited     ReasonCode = "LINE_ALREADY_EDITED"
)

// Metrics are the quantitative scores computed while validating a candidate.
type Metrics struct {
	CharDelta    int     `json:"char_delta"`
	WordDelta    int     `json:"word_delta"`
	EditDistance int     `json:"edit_distance"`
	OverlapRatio float64 `json:"overlap_ratio"`
}

// ValidationOutcome is the result of scoring one candidate against one line.
// Accepted is true iff Reasons is empty; all checks run even after the first
// failure so Reasons reports every violation.
type ValidationOutcome struct {
	Accepted bool         `json:"accepted"`
	Reasons  []ReasonCode `json:"reasons,omitempty"`
	Metrics  Metrics      `json:"metrics"`
}

// AppliedEdit records an accepted candidate together with the exact before
// and after text of the line it changed. Owned by the PlanResult that created
// it and never mutated afterwards.
type AppliedEdit struct {
	Candidate EditCandidate `json:"candidate"`
	LineIndex int           `json:"line_index"`
	Before    string        `json:"before"`
	After     string        `json:"after"`
	Metrics   Metrics       `json:"metrics"`
}

// Rejection pairs a rejected candidate with every reason it failed.
type Rejection struct {
	Candidate EditCandidate `json:"candidate"`
	Reasons   []ReasonCode  `json:"reasons"`
}

// DiffLine is one before/after entry of the diff preview, in line order.
// DiffHTML carries a rendered word-level diff for UI display only; it is
// never used to re-apply the change.
type DiffLine struct {
	LineIndex int    `json:"line_index"`
	Before    string `json:"before"`
	After     string `json:"after"`
	DiffHTML  string `json:"diff_html,omitempty"`
}

// PlanResult is the deterministic outcome of applying an edit plan.
type PlanResult struct {
	UpdatedLines    []string      `json:"updated_lines"`
	AppliedEdits    []AppliedEdit `json:"applied_edits"`
	SkippedKeywords []string      `json:"skipped_keywords"`
	DiffPreview     []DiffLine    `json:"diff_preview"`
	Rejections      []Rejection   `json:"rejections,omitempty"`
}

// AppliedKeywords returns the sorted distinct keywords incorporated by the
// applied edits.
func (r *PlanResult) AppliedKeywords() []string {
	set := make(map[string]struct{})
	for _, e := range r.AppliedEdits {
		for _, k := range e.Candidate.KeywordsUsed {
			set[k] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Limits is the structural-preservation constraint profile. It is always
// passed explicitly; the engine keeps no ambient configuration, so one
// process can run different profiles concurrently.
type Limits struct {
	MaxChars             int     `json:"max_chars"`
	MaxWords             int     `json:"max_words"`
	MaxEditDistance      int     `json:"max_edit_distance"`
	MinOverlap           float64 `json:"min_overlap"`
	LocatorMinConfidence float64 `json:"locator_min_confidence"`
	MaxKeywordsPerEdit   int     `json:"max_keywords_per_edit"`
}

// DefaultLimits returns the contract defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxChars:             25,
		MaxWords:             2,
		MaxEditDistance:      25,
		MinOverlap:           0.70,
		LocatorMinConfidence: 0.5,
		MaxKeywordsPerEdit:   5,
	}
}
