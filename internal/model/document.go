package model

import "sort"

// Rect is an axis-aligned bounding box in page coordinates, origin top-left.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// TextRun is one extracted text fragment of a rendered page. Runs follow the
// renderer's own segmentation and do not correspond 1:1 to the plain-text
// line array the plan applier edits.
type TextRun struct {
	Text string `json:"text"`
	Box  Rect   `json:"box"`
}

// Page is one rendered page with its text runs in reading order.
type Page struct {
	Index  int       `json:"index"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Runs   []TextRun `json:"runs"`
}

// Document is the paginated, geometry-bearing representation of the resume,
// produced by an external rendering/extraction step. The engine only reads
// it; annotations go to a derived overlay, never into the page content.
type Document struct {
	Pages []Page `json:"pages"`
}

// TextContent concatenates every run of every page in order. Used by the
// round-trip check that overlays never perturb the source content.
func (d *Document) TextContent() string {
	var out []byte
	for _, p := range d.Pages {
		for _, r := range p.Runs {
			out = append(out, r.Text...)
			out = append(out, '\n')
		}
	}
	return string(out)
}

// LocatedSpan is where an anchor was found in a rendered document. Derived
// data: only meaningful against the document it was computed from.
type LocatedSpan struct {
	PageIndex   int     `json:"page_index"`
	Boxes       []Rect  `json:"boxes"`
	Confidence  float64 `json:"confidence"`
	MatchedText string  `json:"matched_text"`
}

// AnnotationKind distinguishes a placed highlight from a page-level fallback
// note, so callers reviewing correctness can tell "we annotated it" apart
// from "we couldn't find it".
type AnnotationKind string

const (
	AnnotationPlaced   AnnotationKind = "placed"
	AnnotationFallback AnnotationKind = "fallback"
)

// Annotation is one overlay mark for one applied edit. Fallback annotations
// carry no geometry.
type Annotation struct {
	Kind       AnnotationKind `json:"kind"`
	PageIndex  int            `json:"page_index"`
	Boxes      []Rect         `json:"boxes,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	NoteText   string         `json:"note_text"`
	Edit       AppliedEdit    `json:"edit"`
}

// AnnotationResult is the artifact descriptor for one annotation run. It is
// regenerated from scratch on every run, never incrementally updated.
type AnnotationResult struct {
	Annotations []Annotation `json:"annotations"`
	Placed      int          `json:"placed"`
	Fallbacks   int          `json:"fallbacks"`
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
