package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
)

// tailorcheck runs the tailoring pipeline end to end against a fixture
// resume and a mock generation service, without a database or Chrome.

func startMockAI(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/edit-plan", func(w http.ResponseWriter, r *http.Request) {
		plan := map[string]interface{}{
			"edits": []map[string]interface{}{
				{
					"line_index":    2,
					"strategy":      "tail",
					"anchor":        "Tableau",
					"insertion":     ", and Power BI",
					"keywords_used": []string{"Power BI"},
				},
				{
					"line_index":    3,
					"strategy":      "modifier",
					"anchor":        "pipelines",
					"insertion":     "Airflow",
					"keywords_used": []string{"Airflow"},
				},
				{
					// Deliberately over budget; the validator must reject it.
					"line_index":    4,
					"strategy":      "parenthetical",
					"anchor":        "stakeholders",
					"insertion":     "cross-functional leadership skills",
					"keywords_used": []string{"leadership"},
				},
			},
			"skipped_keywords": []string{"Kubernetes"},
		}
		b, _ := json.Marshal(plan)
		out, _ := json.Marshal(map[string]interface{}{"agent": "mock", "output": string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("mock ai server failed: %v", err)
		}
	}()
	return srv
}

func fixtureDocument() *model.Document {
	return &model.Document{Pages: []model.Page{
		{
			Index: 0, Width: 612, Height: 792,
			Runs: []model.TextRun{
				{Text: "Jordan Reyes", Box: model.Rect{X0: 72, Y0: 60, X1: 240, Y1: 78}},
				{Text: "Data Analyst", Box: model.Rect{X0: 72, Y0: 84, X1: 180, Y1: 98}},
				{Text: "Built dashboards using Table-", Box: model.Rect{X0: 72, Y0: 140, X1: 420, Y1: 154}},
				{Text: "au for executive reporting", Box: model.Rect{X0: 72, Y0: 158, X1: 380, Y1: 172}},
				{Text: "Automated reporting pipelines in Python", Box: model.Rect{X0: 72, Y0: 180, X1: 440, Y1: 194}},
				{Text: "Presented insights to stakeholders", Box: model.Rect{X0: 72, Y0: 202, X1: 400, Y1: 216}},
			},
		},
	}}
}

func main() {
	os.Setenv("AI_SERVICE_URL", "http://127.0.0.1:8000")

	srv := startMockAI(":8000")
	defer srv.Shutdown(context.Background())

	jobsRepo := repository.NewTailorJobsRepo(nil)
	processor := usecase.NewProcessor(nil, jobsRepo, ai.NewClient())

	job := &domain.TailorJob{
		ID:     uuid.New(),
		UserID: uuid.MustParse("9136d765-327d-4cf3-bf1c-98aa1449e52d"),
		Keywords: []string{
			"Power BI", "Airflow", "leadership", "Kubernetes",
		},
		Lines: []string{
			"Jordan Reyes",
			"Data Analyst",
			"Built dashboards using Tableau",
			"Automated reporting pipelines in Python",
			"Presented insights to stakeholders",
		},
		Document: fixtureDocument(),
		Limits:   model.DefaultLimits(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := processor.Process(ctx, job); err != nil {
		fmt.Printf("Process failed: %v\n", err)
		return
	}

	fmt.Println("--- change log ---")
	for _, e := range job.Plan.AppliedEdits {
		fmt.Printf("line %d [%s]\n  - %s\n  + %s\n", e.LineIndex, e.Candidate.Strategy, e.Before, e.After)
	}
	fmt.Println("--- rejections ---")
	for _, r := range job.Plan.Rejections {
		fmt.Printf("line %d: %v\n", r.Candidate.LineIndex, r.Reasons)
	}
	fmt.Printf("skipped keywords: %v\n", job.Plan.SkippedKeywords)
	if job.Annotations != nil {
		fmt.Printf("annotations: placed=%d fallbacks=%d\n", job.Annotations.Placed, job.Annotations.Fallbacks)
	}
}
