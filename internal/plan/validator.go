package plan

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"resume-tailor/internal/model"
	"resume-tailor/internal/textnorm"
)

// Validate scores one candidate against one original line. Pure function of
// its inputs: same (line, candidate, limits) always yields the same outcome.
// Every check runs even after a failure so Reasons lists all violations.
func Validate(originalLine string, c model.EditCandidate, lim model.Limits) model.ValidationOutcome {
	var reasons []model.ReasonCode

	if c.Anchor == "" {
		reasons = append(reasons, model.ReasonEmptyAnchor)
	}
	if c.Insertion == "" {
		reasons = append(reasons, model.ReasonEmptyInsertion)
	}
	if len(c.KeywordsUsed) == 0 {
		reasons = append(reasons, model.ReasonNoKeywords)
	} else if lim.MaxKeywordsPerEdit > 0 && len(c.KeywordsUsed) > lim.MaxKeywordsPerEdit {
		reasons = append(reasons, model.ReasonTooManyKeywords)
	}
	if !c.Strategy.Known() {
		reasons = append(reasons, model.ReasonUnknownStrategy)
	}

	metrics := model.Metrics{
		CharDelta: utf8.RuneCountInString(c.Insertion),
		WordDelta: textnorm.InsertionWordCount(c.Insertion),
	}

	anchored := false
	if c.Anchor != "" {
		_, _, anchored = findAnchor(originalLine, c.Anchor)
		if !anchored {
			reasons = append(reasons, model.ReasonAnchorNotFound)
		}
	}

	// The hypothetical post-edit line comes from the same placement code the
	// applier uses. When it cannot be built, the remaining checks score the
	// unchanged line so the metrics stay meaningful in rejection reports.
	edited := originalLine
	if anchored && c.Strategy.Known() {
		if built, ok := buildEditedLine(originalLine, c); ok {
			edited = built
		}
	}

	if metrics.CharDelta > lim.MaxChars {
		reasons = append(reasons, model.ReasonCharLimitExceeded)
	}
	if metrics.WordDelta > lim.MaxWords {
		reasons = append(reasons, model.ReasonWordLimitExceeded)
	}

	metrics.EditDistance = editDistance(originalLine, edited)
	if metrics.EditDistance > lim.MaxEditDistance {
		reasons = append(reasons, model.ReasonEditDistanceExceeded)
	}

	metrics.OverlapRatio = overlapRatio(originalLine, edited)
	if metrics.OverlapRatio < lim.MinOverlap {
		reasons = append(reasons, model.ReasonStructureNotPreserved)
	}

	return model.ValidationOutcome{
		Accepted: len(reasons) == 0,
		Reasons:  reasons,
		Metrics:  metrics,
	}
}

// editDistance is the character-level Levenshtein distance between a and b.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// overlapRatio is the fraction of the original line's word tokens still
// present in the edited line. An empty original counts as fully preserved.
func overlapRatio(original, edited string) float64 {
	origSet := textnorm.WordSet(original)
	if len(origSet) == 0 {
		return 1.0
	}
	editedSet := textnorm.WordSet(edited)
	shared := 0
	for w := range origSet {
		if _, ok := editedSet[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(origSet))
}
