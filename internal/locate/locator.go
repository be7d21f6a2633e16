// Package locate re-finds logical edits inside a separately rendered
// document. The rendered text runs follow the renderer's pagination and line
// breaking, so an anchor that was edited in the flat line array may appear
// split, re-hyphenated, or re-spaced; matching is therefore layered from
// exact substring down to a fuzzy edit-distance ratio, each layer carrying a
// lower confidence.
package locate

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"resume-tailor/internal/model"
	"resume-tailor/internal/textnorm"
)

const (
	exactConfidence      = 1.0
	normalizedConfidence = 0.9
	fuzzyFloor           = 0.5
)

// candidate is one scored run (or run pair) during a search.
type candidate struct {
	pageIndex  int
	runIndex   int
	boxes      []model.Rect
	confidence float64
	matched    string
}

// Locator finds anchor spans in rendered documents.
type Locator struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func New() *Locator {
	return &Locator{dmp: diffmatchpatch.New()}
}

// Locate finds the best span for anchor in doc. It returns false when no run
// clears minConfidence; that is an expected outcome, not an error. Ties are
// broken by earliest page, then earliest run.
func (l *Locator) Locate(doc *model.Document, anchor string, minConfidence float64) (model.LocatedSpan, bool) {
	normAnchor := textnorm.Normalize(anchor)
	if normAnchor == "" || doc == nil {
		return model.LocatedSpan{}, false
	}

	var best *candidate
	for _, page := range doc.Pages {
		for i := range page.Runs {
			c := l.scoreRun(page, i, anchor, normAnchor)
			if c != nil && c.confidence >= minConfidence && better(c, best) {
				best = c
			}
		}
	}
	if best == nil {
		return model.LocatedSpan{}, false
	}
	return model.LocatedSpan{
		PageIndex:   best.pageIndex,
		Boxes:       best.boxes,
		Confidence:  best.confidence,
		MatchedText: best.matched,
	}, true
}

// scoreRun scores run i of page and the concatenation with the following
// run, so anchors split across a rendered line break still match. The best
// tier wins; a weak fuzzy hit on the bare run never shadows a strong match
// on the joined text.
func (l *Locator) scoreRun(page model.Page, i int, anchor, normAnchor string) *candidate {
	run := page.Runs[i]
	var best *candidate

	consider := func(c *candidate) {
		if c.confidence > 0 && better(c, best) {
			best = c
		}
	}

	singleBoxes := []model.Rect{run.Box}
	if strings.Contains(run.Text, anchor) {
		consider(&candidate{page.Index, i, singleBoxes, exactConfidence, run.Text})
	} else if strings.Contains(textnorm.Normalize(run.Text), normAnchor) {
		consider(&candidate{page.Index, i, singleBoxes, normalizedConfidence, run.Text})
	} else {
		conf := l.fuzzyConfidence(textnorm.Normalize(run.Text), normAnchor)
		consider(&candidate{page.Index, i, singleBoxes, conf, run.Text})
	}

	if i+1 < len(page.Runs) {
		next := page.Runs[i+1]
		joined := joinRuns(run.Text, next.Text)
		boxes := []model.Rect{run.Box, next.Box}
		if strings.Contains(textnorm.Normalize(joined), normAnchor) {
			consider(&candidate{page.Index, i, boxes, normalizedConfidence, joined})
		} else {
			conf := l.fuzzyConfidence(textnorm.Normalize(joined), normAnchor)
			consider(&candidate{page.Index, i, boxes, conf, joined})
		}
	}
	return best
}

// joinRuns concatenates two rendered runs. A trailing hyphen is treated as a
// soft line-break hyphen and dropped; otherwise the runs are joined with a
// space.
func joinRuns(a, b string) string {
	a = strings.TrimRight(a, " ")
	if strings.HasSuffix(a, "-") {
		return strings.TrimSuffix(a, "-") + strings.TrimLeft(b, " ")
	}
	return a + " " + strings.TrimLeft(b, " ")
}

// fuzzyConfidence slides an anchor-sized window over the normalized run text
// and converts the best edit-distance ratio into a confidence. The result is
// scaled under the normalized-match tier and floored at fuzzyFloor; 0 means
// no usable match.
func (l *Locator) fuzzyConfidence(normRun, normAnchor string) float64 {
	runRunes := []rune(normRun)
	anchorRunes := []rune(normAnchor)
	if len(anchorRunes) == 0 || len(runRunes) == 0 {
		return 0
	}

	window := len(anchorRunes)
	if window > len(runRunes) {
		window = len(runRunes)
	}

	bestRatio := 0.0
	for start := 0; start+window <= len(runRunes); start++ {
		sub := string(runRunes[start : start+window])
		diffs := l.dmp.DiffMain(sub, normAnchor, false)
		dist := l.dmp.DiffLevenshtein(diffs)
		denom := len(anchorRunes)
		if window > denom {
			denom = window
		}
		ratio := 1.0 - float64(dist)/float64(denom)
		if ratio > bestRatio {
			bestRatio = ratio
		}
	}

	conf := bestRatio * normalizedConfidence
	if conf < fuzzyFloor {
		return 0
	}
	return conf
}

// better prefers higher confidence; on ties, the earlier page then the
// earlier run wins.
func better(c, best *candidate) bool {
	if best == nil {
		return true
	}
	if c.confidence != best.confidence {
		return c.confidence > best.confidence
	}
	if c.pageIndex != best.pageIndex {
		return c.pageIndex < best.pageIndex
	}
	return c.runIndex < best.runIndex
}
