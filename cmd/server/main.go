package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	httpadapter "resume-tailor/internal/adapter/http"
	repo "resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/infrastructure/migration"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	infra "resume-tailor/pkg/infrastructure"
)

func main() {
	ctx := context.Background()

	// infra setup
	pool, err := infra.NewTailorPool(ctx)
	if err != nil {
		log.Printf("warning: tailor DB not available: %v", err)
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			log.Printf("warning: migrations failed: %v", err)
		}
	}

	renderer := infra.NewChromedpRenderer()
	jobsRepo := repo.NewTailorJobsRepo(pool)
	processor := usecase.NewProcessor(renderer, jobsRepo, ai.NewClient())

	app := fiber.New(fiber.Config{BodyLimit: 20 * 1024 * 1024})

	h := httpadapter.NewHandler(processor, jobsRepo, jobsRepo)
	app.Post("/tailor/start", h.StartTailor)
	app.Get("/tailor/:id", h.GetJob)
	app.Get("/tailor/:id/artifact", h.GetArtifact)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
