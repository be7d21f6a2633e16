package annotate

import (
	"bytes"
	"fmt"
	"html/template"

	"resume-tailor/internal/model"
)

// The overlay page reproduces every rendered run at its original position
// and draws highlights and notes as absolutely-positioned elements on top.
// All marks live in a dedicated layer so the artifact with overlays stripped
// is the unmodified page content.
const overlayTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Tailored Resume (Review Copy)</title>
<style>
body { margin: 0; font-family: Helvetica, Arial, sans-serif; }
.page { position: relative; margin: 0 auto; background: #fff; page-break-after: always; border: 1px solid #ddd; }
.run { position: absolute; white-space: pre; font-size: 10pt; }
.overlay .highlight { position: absolute; background: rgba(255, 235, 59, 0.45); }
.overlay .note { position: absolute; font-size: 7pt; background: #fff8c5; border: 1px solid #d4b106; padding: 2px 4px; white-space: pre-line; max-width: 220px; }
.overlay .note.fallback { border-color: #c0392b; color: #c0392b; }
</style>
</head>
<body>
{{range .Pages}}
<div class="page" style="width:{{.Width}}px;height:{{.Height}}px">
  {{range .Runs}}<div class="run" style="left:{{.Box.X0}}px;top:{{.Box.Y0}}px">{{.Text}}</div>
  {{end}}
  <div class="overlay">
  {{range .Marks}}{{if .Fallback}}<div class="note fallback" style="left:40px;top:{{.NoteTop}}px">{{.Note}}</div>
  {{else}}{{range .Boxes}}<div class="highlight" style="left:{{.X0}}px;top:{{.Y0}}px;width:{{.W}}px;height:{{.H}}px"></div>
  {{end}}<div class="note" style="left:{{.NoteLeft}}px;top:{{.NoteTop}}px">{{.Note}}</div>
  {{end}}{{end}}
  </div>
</div>
{{end}}
</body>
</html>`

type overlayBox struct {
	X0, Y0, W, H float64
}

type overlayMark struct {
	Fallback bool
	Boxes    []overlayBox
	NoteLeft float64
	NoteTop  float64
	Note     string
}

type overlayPage struct {
	Width  float64
	Height float64
	Runs   []model.TextRun
	Marks  []overlayMark
}

// BuildOverlayHTML renders the review artifact: the original pages plus one
// overlay layer holding the highlights and notes of an annotation run.
// Fallback notes stack in the top-left of the first page.
func BuildOverlayHTML(doc *model.Document, result *model.AnnotationResult) (string, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return "", fmt.Errorf("overlay: rendered document has no pages")
	}

	pages := make([]overlayPage, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = overlayPage{Width: p.Width, Height: p.Height, Runs: p.Runs}
	}

	fallbackTop := 40.0
	for _, ann := range result.Annotations {
		if ann.Kind == model.AnnotationFallback {
			pages[0].Marks = append(pages[0].Marks, overlayMark{
				Fallback: true,
				NoteTop:  fallbackTop,
				Note:     ann.NoteText,
			})
			fallbackTop += 48
			continue
		}
		if ann.PageIndex < 0 || ann.PageIndex >= len(pages) {
			continue
		}
		mark := overlayMark{Note: ann.NoteText}
		for _, b := range ann.Boxes {
			mark.Boxes = append(mark.Boxes, overlayBox{X0: b.X0, Y0: b.Y0, W: b.X1 - b.X0, H: b.Y1 - b.Y0})
		}
		if len(ann.Boxes) > 0 {
			mark.NoteLeft = ann.Boxes[0].X0
			mark.NoteTop = ann.Boxes[0].Y0 - 34
			if mark.NoteTop < 0 {
				mark.NoteTop = ann.Boxes[0].Y1 + 4
			}
		}
		pages[ann.PageIndex].Marks = append(pages[ann.PageIndex].Marks, mark)
	}

	tpl, err := template.New("overlay").Parse(overlayTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, map[string]interface{}{"Pages": pages}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
