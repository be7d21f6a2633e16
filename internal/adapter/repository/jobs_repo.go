package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
)

// TailorJobsRepo persists tailoring jobs and their results. A nil pool makes
// every call a no-op so the pipeline can run without a database (local
// checks, tests).
type TailorJobsRepo struct {
	pool *pgxpool.Pool
}

func NewTailorJobsRepo(pool *pgxpool.Pool) *TailorJobsRepo {
	return &TailorJobsRepo{pool: pool}
}

func (r *TailorJobsRepo) Save(ctx context.Context, j *domain.TailorJob) error {
	if r.pool == nil {
		return nil
	}

	metaB, _ := json.Marshal(j.Metadata)

	_, err := r.pool.Exec(ctx, `INSERT INTO tailor_jobs (id, user_id, resume_id, posting_url, source_label, status, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET resume_id = EXCLUDED.resume_id, posting_url = EXCLUDED.posting_url, source_label = EXCLUDED.source_label, status = EXCLUDED.status, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.UserID, j.ResumeID, j.PostingURL, j.SourceLabel, j.Status, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return err
	}

	// Best-effort: persist the plan and annotation outcome alongside the job.
	if j.Plan != nil {
		planB, err := json.Marshal(j.Plan)
		if err != nil {
			return fmt.Errorf("marshal plan result: %w", err)
		}
		var annB []byte
		if j.Annotations != nil {
			annB, _ = json.Marshal(j.Annotations)
		}
		artifact := ""
		if j.Metadata != nil {
			if p, ok := j.Metadata["artifact_path"].(string); ok {
				artifact = p
			}
		}
		if _, e := r.pool.Exec(ctx, `INSERT INTO tailor_results (job_id, plan, annotations, artifact_path, created_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (job_id) DO UPDATE SET plan = EXCLUDED.plan, annotations = EXCLUDED.annotations, artifact_path = EXCLUDED.artifact_path`,
			j.ID, planB, annB, artifact, time.Now()); e != nil {
			fmt.Printf("jobs_repo: unable to upsert tailor_results row (non-fatal): %v\n", e)
		}
	}

	return nil
}

// GetByID loads a job row; Plan and Annotations are rehydrated from the
// results table when present.
func (r *TailorJobsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TailorJob, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("jobs repo has no database")
	}

	j := &domain.TailorJob{}
	var metaB []byte
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, resume_id, posting_url, source_label, status, metadata, created_at, updated_at
		FROM tailor_jobs WHERE id = $1`, id)
	if err := row.Scan(&j.ID, &j.UserID, &j.ResumeID, &j.PostingURL, &j.SourceLabel, &j.Status, &metaB, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	if len(metaB) > 0 {
		_ = json.Unmarshal(metaB, &j.Metadata)
	}

	var planB, annB []byte
	err := r.pool.QueryRow(ctx, `SELECT plan, annotations FROM tailor_results WHERE job_id = $1`, id).Scan(&planB, &annB)
	if err == nil {
		if len(planB) > 0 {
			var plan model.PlanResult
			if e := json.Unmarshal(planB, &plan); e == nil {
				j.Plan = &plan
			}
		}
		if len(annB) > 0 {
			var ann model.AnnotationResult
			if e := json.Unmarshal(annB, &ann); e == nil {
				j.Annotations = &ann
			}
		}
	}

	return j, nil
}
