package plan

import (
	"sort"

	"github.com/sergi/go-diff/diffmatchpatch"

	"resume-tailor/internal/model"
)

// Apply runs the full validate-then-apply pipeline over an untrusted
// candidate set. At most one accepted candidate is applied per line,
// first-accepted-wins by input order; everything else is rejected with
// per-candidate reason codes. The result is byte-identical across runs for
// identical inputs: candidates are walked in input order and all derived
// collections are emitted in line order or sorted.
func Apply(originalLines []string, candidates []model.EditCandidate, lim model.Limits) *model.PlanResult {
	result := &model.PlanResult{
		UpdatedLines: make([]string, len(originalLines)),
	}
	copy(result.UpdatedLines, originalLines)

	winners := make(map[int]model.AppliedEdit)
	requested := make(map[string]struct{})

	for _, c := range candidates {
		for _, k := range c.KeywordsUsed {
			requested[k] = struct{}{}
		}

		if c.LineIndex < 0 || c.LineIndex >= len(originalLines) {
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: c,
				Reasons:   []model.ReasonCode{model.ReasonLineOutOfRange},
			})
			continue
		}

		originalLine := originalLines[c.LineIndex]
		outcome := Validate(originalLine, c, lim)
		if !outcome.Accepted {
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: c,
				Reasons:   outcome.Reasons,
			})
			continue
		}

		if _, taken := winners[c.LineIndex]; taken {
			// Sequential insertions on one line could compound past the
			// per-line limits, so the first accepted candidate keeps the line.
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: c,
				Reasons:   []model.ReasonCode{model.ReasonLineAlreadyEdited},
			})
			continue
		}

		edited, ok := buildEditedLine(originalLine, c)
		if !ok {
			// Validate accepted the anchor, so this cannot happen; guard
			// anyway and surface it as a rejection rather than panicking.
			result.Rejections = append(result.Rejections, model.Rejection{
				Candidate: c,
				Reasons:   []model.ReasonCode{model.ReasonAnchorNotFound},
			})
			continue
		}

		winners[c.LineIndex] = model.AppliedEdit{
			Candidate: c,
			LineIndex: c.LineIndex,
			Before:    originalLine,
			After:     edited,
			Metrics:   outcome.Metrics,
		}
	}

	lineIndexes := make([]int, 0, len(winners))
	for idx := range winners {
		lineIndexes = append(lineIndexes, idx)
	}
	sort.Ints(lineIndexes)

	dmp := diffmatchpatch.New()
	for _, idx := range lineIndexes {
		w := winners[idx]
		result.UpdatedLines[idx] = w.After
		result.AppliedEdits = append(result.AppliedEdits, w)
		diffs := dmp.DiffMain(w.Before, w.After, false)
		result.DiffPreview = append(result.DiffPreview, model.DiffLine{
			LineIndex: idx,
			Before:    w.Before,
			After:     w.After,
			DiffHTML:  dmp.DiffPrettyHtml(diffs),
		})
	}

	// Every requested keyword lands in exactly one of applied or skipped.
	applied := make(map[string]struct{})
	for _, e := range result.AppliedEdits {
		for _, k := range e.Candidate.KeywordsUsed {
			applied[k] = struct{}{}
		}
	}
	skipped := make(map[string]struct{})
	for k := range requested {
		if _, ok := applied[k]; !ok {
			skipped[k] = struct{}{}
		}
	}
	result.SkippedKeywords = sortedStrings(skipped)

	return result
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
