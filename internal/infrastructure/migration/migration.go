package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_tailor_jobs",
			Up: func(ctx context.Context, pool *pgxpool.Pool) error {
				return createTailorJobs(ctx, pool)
			},
		},
		{
			Name: "create_tailor_results",
			Up: func(ctx context.Context, pool *pgxpool.Pool) error {
				return createTailorResults(ctx, pool)
			},
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createTailorJobs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS tailor_jobs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			resume_id UUID,
			posting_url TEXT,
			source_label TEXT,
			status TEXT NOT NULL,
			metadata JSONB DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		slog.Warn("Error creating tailor_jobs table (may already exist)", "error", err)
		return nil
	}

	slog.Info("Successfully ensured tailor_jobs table")
	return nil
}

func createTailorResults(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS tailor_results (
			job_id UUID PRIMARY KEY REFERENCES tailor_jobs(id),
			plan JSONB NOT NULL,
			annotations JSONB,
			artifact_path TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		slog.Warn("Error creating tailor_results table (may already exist)", "error", err)
		return nil
	}

	slog.Info("Successfully ensured tailor_results table")
	return nil
}
