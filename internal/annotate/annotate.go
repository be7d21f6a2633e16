package annotate

import (
	"fmt"
	"strings"

	"resume-tailor/internal/locate"
	"resume-tailor/internal/model"
)

// Placer turns applied edits into overlay marks on the original rendered
// document. It never touches the page content itself: a placed annotation is
// a highlight plus a note, a miss becomes a page-level fallback note, and
// stripping every overlay leaves the source document untouched.
type Placer struct {
	locator *locate.Locator
}

func NewPlacer() *Placer {
	return &Placer{locator: locate.New()}
}

// Annotate runs one annotation pass over doc for every applied edit. A miss
// on one edit never aborts the rest; the result covers everything that could
// be processed. Results are regenerated wholesale on every call.
func (p *Placer) Annotate(doc *model.Document, edits []model.AppliedEdit, lim model.Limits) *model.AnnotationResult {
	result := &model.AnnotationResult{}
	for _, edit := range edits {
		ann := p.annotateOne(doc, edit, lim)
		if ann.Kind == model.AnnotationPlaced {
			result.Placed++
		} else {
			result.Fallbacks++
		}
		result.Annotations = append(result.Annotations, ann)
	}
	return result
}

func (p *Placer) annotateOne(doc *model.Document, edit model.AppliedEdit, lim model.Limits) model.Annotation {
	note := NoteText(edit)

	span, ok := p.locator.Locate(doc, edit.Candidate.Anchor, lim.LocatorMinConfidence)
	if !ok {
		// Widen the probe: the start of the edited line often survives
		// rendering even when the anchor itself does not.
		if phrase := leadingPhrase(edit.Before, 3); phrase != "" && phrase != edit.Candidate.Anchor {
			span, ok = p.locator.Locate(doc, phrase, lim.LocatorMinConfidence)
		}
	}
	if !ok {
		return model.Annotation{
			Kind:     model.AnnotationFallback,
			NoteText: note,
			Edit:     edit,
		}
	}

	return model.Annotation{
		Kind:       model.AnnotationPlaced,
		PageIndex:  span.PageIndex,
		Boxes:      span.Boxes,
		Confidence: span.Confidence,
		NoteText:   note,
		Edit:       edit,
	}
}

// leadingPhrase returns the first n words of line, or "" when the line has
// fewer than n words and would make a weak disambiguator.
func leadingPhrase(line string, n int) string {
	words := strings.Fields(line)
	if len(words) < n {
		return ""
	}
	return strings.Join(words[:n], " ")
}

// NoteText formats the sticky-note body for an edit: the inserted text, the
// strategy, and the keywords it incorporates.
func NoteText(edit model.AppliedEdit) string {
	labels := map[model.Strategy]string{
		model.StrategyModifier:      "Modifier",
		model.StrategyParenthetical: "Parenthetical",
		model.StrategyTail:          "Tail",
	}
	label, ok := labels[edit.Candidate.Strategy]
	if !ok {
		label = string(edit.Candidate.Strategy)
	}
	keywords := strings.Join(edit.Candidate.KeywordsUsed, ", ")
	return fmt.Sprintf("%s: %s\nKeywords: %s", label, edit.Candidate.Insertion, keywords)
}
