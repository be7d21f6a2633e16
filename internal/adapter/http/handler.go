package http

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
)

type JobsReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TailorJob, error)
}

type Handler struct {
	processor *usecase.Processor
	repo      usecase.JobsRepo
	reader    JobsReader
}

func NewHandler(p *usecase.Processor, r usecase.JobsRepo, reader JobsReader) *Handler {
	return &Handler{processor: p, repo: r, reader: reader}
}

type startReq struct {
	UserID     string          `json:"userId"`
	ResumeID   string          `json:"resumeId,omitempty"`
	PostingURL string          `json:"postingUrl,omitempty"`
	Keywords   []string        `json:"keywords"`
	Lines      []string        `json:"lines"`
	Document   *model.Document `json:"document,omitempty"`
	Limits     *limitsPatch    `json:"limits,omitempty"`
}

// limitsPatch overrides individual limit fields; fields the caller leaves
// out keep the default profile values.
type limitsPatch struct {
	MaxChars             *int     `json:"max_chars,omitempty"`
	MaxWords             *int     `json:"max_words,omitempty"`
	MaxEditDistance      *int     `json:"max_edit_distance,omitempty"`
	MinOverlap           *float64 `json:"min_overlap,omitempty"`
	LocatorMinConfidence *float64 `json:"locator_min_confidence,omitempty"`
	MaxKeywordsPerEdit   *int     `json:"max_keywords_per_edit,omitempty"`
}

func (p *limitsPatch) apply(base model.Limits) model.Limits {
	if p == nil {
		return base
	}
	if p.MaxChars != nil {
		base.MaxChars = *p.MaxChars
	}
	if p.MaxWords != nil {
		base.MaxWords = *p.MaxWords
	}
	if p.MaxEditDistance != nil {
		base.MaxEditDistance = *p.MaxEditDistance
	}
	if p.MinOverlap != nil {
		base.MinOverlap = *p.MinOverlap
	}
	if p.LocatorMinConfidence != nil {
		base.LocatorMinConfidence = *p.LocatorMinConfidence
	}
	if p.MaxKeywordsPerEdit != nil {
		base.MaxKeywordsPerEdit = *p.MaxKeywordsPerEdit
	}
	return base
}

func (h *Handler) StartTailor(c *fiber.Ctx) error {
	var req startReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	if len(req.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lines are required"})
	}
	if len(req.Keywords) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "keywords are required"})
	}

	limits := req.Limits.apply(model.DefaultLimits())

	job := &domain.TailorJob{
		ID:          uuid.New(),
		UserID:      uid,
		PostingURL:  req.PostingURL,
		SourceLabel: sourceLabel(req.PostingURL),
		Keywords:    req.Keywords,
		Lines:       req.Lines,
		Document:    req.Document,
		Limits:      limits,
		Status:      "pending",
		Metadata:    map[string]interface{}{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if req.ResumeID != "" {
		if rid, err := uuid.Parse(req.ResumeID); err == nil {
			job.ResumeID = &rid
		}
	}

	// persist initial job (best-effort)
	if h.repo != nil {
		if err := h.repo.Save(context.Background(), job); err != nil {
			log.Printf("warning: failed to save job: %v", err)
		}
	}

	// spawn background processing
	go func(j *domain.TailorJob) {
		ctx := context.Background()
		if err := h.processor.Process(ctx, j); err != nil {
			log.Printf("job %s failed: %v", j.ID.String(), err)
		}
	}(job)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobId": job.ID.String(), "status": "started"})
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}
	if h.reader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "job store unavailable"})
	}
	job, err := h.reader.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

func (h *Handler) GetArtifact(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}
	if h.reader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "job store unavailable"})
	}
	job, err := h.reader.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	path, _ := job.Metadata["artifact_path"].(string)
	if path == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no artifact for job"})
	}
	c.Set("Content-Disposition", "inline")
	return c.SendFile(path)
}

// sourceLabel derives a tidy display label (eTLD+1) from a job posting URL.
func sourceLabel(postingURL string) string {
	if postingURL == "" {
		return ""
	}
	candidate := postingURL
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return postingURL
	}
	host := parsed.Hostname()
	if host == "" {
		return postingURL
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
