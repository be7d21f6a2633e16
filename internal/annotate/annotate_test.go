package annotate

import (
	"strings"
	"testing"

	"resume-tailor/internal/model"
)

func fixtureDoc() *model.Document {
	return &model.Document{Pages: []model.Page{{
		Index: 0, Width: 612, Height: 792,
		Runs: []model.TextRun{
			{Text: "Jordan Reyes", Box: model.Rect{X0: 72, Y0: 40, X1: 200, Y1: 54}},
			{Text: "Built dashboards using Tableau", Box: model.Rect{X0: 72, Y0: 80, X1: 380, Y1: 94}},
			{Text: "Automated reporting pipelines in Python", Box: model.Rect{X0: 72, Y0: 100, X1: 420, Y1: 114}},
		},
	}}}
}

func appliedEdit(anchor, before string) model.AppliedEdit {
	return model.AppliedEdit{
		Candidate: model.EditCandidate{
			LineIndex: 1, Strategy: model.StrategyTail, Anchor: anchor,
			Insertion: ", and Power BI", KeywordsUsed: []string{"Power BI"},
		},
		LineIndex: 1,
		Before:    before,
		After:     before + ", and Power BI",
	}
}

func TestAnnotatePlacesHighlight(t *testing.T) {
	doc := fixtureDoc()
	edit := appliedEdit("Tableau", "Built dashboards using Tableau")

	got := NewPlacer().Annotate(doc, []model.AppliedEdit{edit}, model.DefaultLimits())
	if got.Placed != 1 || got.Fallbacks != 0 {
		t.Fatalf("Placed/Fallbacks = %d/%d, want 1/0", got.Placed, got.Fallbacks)
	}
	ann := got.Annotations[0]
	if ann.Kind != model.AnnotationPlaced {
		t.Errorf("Kind = %q, want placed", ann.Kind)
	}
	if ann.PageIndex != 0 || len(ann.Boxes) == 0 {
		t.Errorf("annotation has no geometry: %+v", ann)
	}
	if ann.Confidence != 1.0 {
		t.Errorf("Confidence = %f, want 1.0", ann.Confidence)
	}
}

func TestAnnotateFallbackOnMiss(t *testing.T) {
	doc := fixtureDoc()
	edit := model.AppliedEdit{
		Candidate: model.EditCandidate{
			LineIndex: 5, Strategy: model.StrategyModifier, Anchor: "Kubernetes cluster",
			Insertion: "managed", KeywordsUsed: []string{"Kubernetes"},
		},
		LineIndex: 5,
		Before:    "Ran workloads somewhere else entirely",
	}

	got := NewPlacer().Annotate(doc, []model.AppliedEdit{edit}, model.DefaultLimits())
	if got.Placed != 0 || got.Fallbacks != 1 {
		t.Fatalf("Placed/Fallbacks = %d/%d, want 0/1", got.Placed, got.Fallbacks)
	}
	ann := got.Annotations[0]
	if ann.Kind != model.AnnotationFallback {
		t.Errorf("Kind = %q, want fallback", ann.Kind)
	}
	if len(ann.Boxes) != 0 {
		t.Errorf("fallback note carries geometry: %+v", ann.Boxes)
	}
	if ann.NoteText == "" {
		t.Error("fallback note lost its text")
	}
}

// When the anchor itself is gone from the rendered text, the start of the
// edited line is probed instead.
func TestAnnotateLeadingPhraseFallbackProbe(t *testing.T) {
	doc := fixtureDoc()
	edit := appliedEdit("sparkline widgets", "Built dashboards using Tableau")

	got := NewPlacer().Annotate(doc, []model.AppliedEdit{edit}, model.DefaultLimits())
	if got.Placed != 1 {
		t.Fatalf("Placed = %d, want 1 via leading-phrase probe", got.Placed)
	}
	ann := got.Annotations[0]
	if ann.PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0", ann.PageIndex)
	}
}

// Annotating is overlay-only: the document text content is identical before
// and after a pass.
func TestAnnotateLeavesContentUntouched(t *testing.T) {
	doc := fixtureDoc()
	before := doc.TextContent()

	edits := []model.AppliedEdit{
		appliedEdit("Tableau", "Built dashboards using Tableau"),
		{Candidate: model.EditCandidate{Anchor: "nowhere at all", Strategy: model.StrategyTail}, Before: "zz"},
	}
	NewPlacer().Annotate(doc, edits, model.DefaultLimits())

	if after := doc.TextContent(); after != before {
		t.Errorf("document content changed:\nbefore: %q\nafter:  %q", before, after)
	}
}

func TestAnnotateEmptyEdits(t *testing.T) {
	got := NewPlacer().Annotate(fixtureDoc(), nil, model.DefaultLimits())
	if len(got.Annotations) != 0 || got.Placed != 0 || got.Fallbacks != 0 {
		t.Errorf("empty edit set produced annotations: %+v", got)
	}
}

func TestNoteText(t *testing.T) {
	edit := appliedEdit("Tableau", "Built dashboards using Tableau")
	got := NoteText(edit)
	want := "Tail: , and Power BI\nKeywords: Power BI"
	if got != want {
		t.Errorf("NoteText = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "Tail: ") {
		t.Errorf("note missing strategy label: %q", got)
	}
}
