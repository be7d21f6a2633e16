package domain

import (
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/model"
)

// TailorJob is one keyword-tailoring run over an uploaded resume. Lines and
// Document come from external extraction/rendering steps; the job record
// tracks status and carries the artifacts the pipeline produces.
type TailorJob struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"user_id"`
	ResumeID    *uuid.UUID             `json:"resume_id,omitempty"`
	PostingURL  string                 `json:"posting_url,omitempty"`
	SourceLabel string                 `json:"source_label,omitempty"`
	Keywords    []string               `json:"keywords"`
	Lines       []string               `json:"lines"`
	Document    *model.Document        `json:"document,omitempty"`
	Limits      model.Limits           `json:"limits"`
	Status      string                 `json:"status"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	Plan        *model.PlanResult       `json:"plan,omitempty"`
	Annotations *model.AnnotationResult `json:"annotations,omitempty"`
}
