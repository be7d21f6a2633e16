package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/annotate"
	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/plan"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.TailorJob) error
}

// PlanProposer is the external generation service boundary. It returns raw
// edit-plan JSON which the processor treats as untrusted until validated.
type PlanProposer interface {
	ProposeEdits(ctx context.Context, section string, lines []string, keywords []string) ([]byte, error)
}

type Processor struct {
	renderer Renderer
	repo     JobsRepo
	proposer PlanProposer
	placer   *annotate.Placer
}

func NewProcessor(r Renderer, repo JobsRepo, proposer PlanProposer) *Processor {
	return &Processor{renderer: r, repo: repo, proposer: proposer, placer: annotate.NewPlacer()}
}

// Process runs one tailoring job end to end: propose -> validate -> apply ->
// annotate -> render -> persist. Candidate rejections and locator misses are
// data, not errors; only a broken job record aborts the run. The plan result
// survives any downstream annotation or rendering failure.
func (p *Processor) Process(ctx context.Context, job *domain.TailorJob) error {
	if len(job.Lines) == 0 {
		return fmt.Errorf("job %s has no resume lines", job.ID)
	}
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}
	if job.Limits == (model.Limits{}) {
		job.Limits = model.DefaultLimits()
	}

	candidates, aiSkipped := p.proposeCandidates(ctx, job)

	result := plan.Apply(job.Lines, candidates, job.Limits)
	result.SkippedKeywords = mergeSkipped(result, aiSkipped, job.Keywords)
	job.Plan = result
	fmt.Printf("processor: plan applied edits=%d rejected=%d skipped_keywords=%d\n",
		len(result.AppliedEdits), len(result.Rejections), len(result.SkippedKeywords))

	// Annotation runs against the original rendered document, never against
	// the updated text, and its failure never discards the plan.
	if job.Document != nil {
		ann := p.placer.Annotate(job.Document, result.AppliedEdits, job.Limits)
		job.Annotations = ann
		fmt.Printf("processor: annotations placed=%d fallbacks=%d\n", ann.Placed, ann.Fallbacks)

		if err := p.renderArtifact(ctx, job, ann); err != nil {
			fmt.Printf("processor: artifact rendering failed (non-fatal): %v\n", err)
			job.Metadata["artifact_render_error"] = err.Error()
		}
	} else {
		job.Metadata["annotation_skipped"] = "no rendered document supplied"
	}

	job.Status = "completed"
	job.UpdatedAt = time.Now()

	if p.repo != nil {
		if err := p.repo.Save(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// proposeCandidates fetches and validates the edit plan. Any failure along
// the way degrades to an empty candidate set with every requested keyword
// skipped, which is a valid degenerate plan.
func (p *Processor) proposeCandidates(ctx context.Context, job *domain.TailorJob) ([]model.EditCandidate, []string) {
	if p.proposer == nil {
		job.Metadata["proposal_skipped"] = "no generation service configured"
		return nil, job.Keywords
	}

	raw, err := p.proposer.ProposeEdits(ctx, "resume", job.Lines, job.Keywords)
	if err != nil {
		fmt.Printf("processor: edit proposal failed: %v\n", err)
		job.Metadata["proposal_error"] = err.Error()
		return nil, job.Keywords
	}

	proposed, err := model.ParseEditPlan(raw)
	if err != nil {
		fmt.Printf("processor: edit plan rejected: %v\n", err)
		job.Metadata["proposal_error"] = err.Error()
		return nil, job.Keywords
	}
	return proposed.Edits, proposed.SkippedKeywords
}

// renderArtifact prints the overlay to a PDF with retry, then stores it in
// the shared and per-user artifact folders.
func (p *Processor) renderArtifact(ctx context.Context, job *domain.TailorJob, ann *model.AnnotationResult) error {
	if p.renderer == nil {
		return fmt.Errorf("no renderer configured")
	}

	html, err := annotate.BuildOverlayHTML(job.Document, ann)
	if err != nil {
		return err
	}

	ts := time.Now().Format("20060102T150405")
	genDir := filepath.Join("tailor-data", "generated")
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return err
	}
	htmlName := fmt.Sprintf("tailored_%s.html", ts)
	if err := os.WriteFile(filepath.Join(genDir, htmlName), []byte(html), 0o644); err != nil {
		return err
	}
	job.Metadata["generated_html"] = filepath.Join(genDir, htmlName)

	var pdfBytes []byte
	var renderErr error
	attempts := 3
	for i := 0; i < attempts; i++ {
		pdfBytes, renderErr = p.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if len(pdfBytes) > 0 && strings.HasPrefix(string(pdfBytes), "%PDF") {
				break
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		fmt.Printf("processor: render attempt %d failed: %v\n", i+1, renderErr)
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if renderErr != nil {
		return renderErr
	}

	pdfName := fmt.Sprintf("tailored_%s.pdf", ts)
	if err := os.WriteFile(filepath.Join(genDir, pdfName), pdfBytes, 0o644); err != nil {
		return err
	}
	job.Metadata["generated_pdf"] = filepath.Join(genDir, pdfName)

	userDir := filepath.Join("tailor-data", "tailored", job.UserID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return err
	}
	destName := uuid.New().String() + ".pdf"
	destPath := filepath.Join(userDir, destName)
	if err := os.WriteFile(destPath, pdfBytes, 0o644); err != nil {
		return err
	}
	job.Metadata["artifact_path"] = destPath
	return nil
}

// mergeSkipped folds the generation service's own skipped keywords and any
// requested keyword no candidate ever mentioned into the plan's skipped set,
// keeping applied keywords out of it.
func mergeSkipped(result *model.PlanResult, aiSkipped []string, requested []string) []string {
	applied := make(map[string]struct{})
	for _, e := range result.AppliedEdits {
		for _, k := range e.Candidate.KeywordsUsed {
			applied[k] = struct{}{}
		}
	}

	skipped := make(map[string]struct{})
	for _, k := range result.SkippedKeywords {
		skipped[k] = struct{}{}
	}
	for _, k := range aiSkipped {
		skipped[k] = struct{}{}
	}
	for _, k := range requested {
		skipped[k] = struct{}{}
	}
	for k := range applied {
		delete(skipped, k)
	}

	out := make([]string, 0, len(skipped))
	for k := range skipped {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
