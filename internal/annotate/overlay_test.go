package annotate

import (
	"strings"
	"testing"

	"resume-tailor/internal/model"
)

func TestBuildOverlayHTML(t *testing.T) {
	doc := fixtureDoc()
	result := &model.AnnotationResult{
		Annotations: []model.Annotation{
			{
				Kind:       model.AnnotationPlaced,
				PageIndex:  0,
				Boxes:      []model.Rect{{X0: 72, Y0: 80, X1: 380, Y1: 94}},
				Confidence: 1.0,
				NoteText:   "Tail: , and Power BI\nKeywords: Power BI",
			},
			{
				Kind:     model.AnnotationFallback,
				NoteText: "Modifier: managed\nKeywords: Kubernetes",
			},
		},
		Placed:    1,
		Fallbacks: 1,
	}

	html, err := BuildOverlayHTML(doc, result)
	if err != nil {
		t.Fatalf("BuildOverlayHTML: %v", err)
	}

	for _, want := range []string{
		`class="page"`,
		"Built dashboards using Tableau",
		`class="highlight"`,
		`width:308px`,
		`class="note fallback"`,
		"Keywords: Kubernetes",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("overlay HTML missing %q", want)
		}
	}
}

func TestBuildOverlayHTMLEscapesContent(t *testing.T) {
	doc := &model.Document{Pages: []model.Page{{
		Index: 0, Width: 612, Height: 792,
		Runs: []model.TextRun{{Text: `<script>alert("x")</script>`, Box: model.Rect{X0: 10, Y0: 10, X1: 100, Y1: 20}}},
	}}}
	html, err := BuildOverlayHTML(doc, &model.AnnotationResult{})
	if err != nil {
		t.Fatalf("BuildOverlayHTML: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("run text was not escaped")
	}
}

func TestBuildOverlayHTMLRejectsEmptyDocument(t *testing.T) {
	if _, err := BuildOverlayHTML(nil, &model.AnnotationResult{}); err == nil {
		t.Error("nil document accepted")
	}
	if _, err := BuildOverlayHTML(&model.Document{}, &model.AnnotationResult{}); err == nil {
		t.Error("empty document accepted")
	}
}
