package plan

import (
	"reflect"
	"strings"
	"testing"

	"resume-tailor/internal/model"
)

func TestValidateAcceptsTailInsertion(t *testing.T) {
	line := "Built dashboards using Tableau"
	c := model.EditCandidate{
		LineIndex:    0,
		Strategy:     model.StrategyTail,
		Anchor:       "Tableau",
		Insertion:    ", and Power BI",
		KeywordsUsed: []string{"Power BI"},
	}

	got := Validate(line, c, model.DefaultLimits())
	if !got.Accepted {
		t.Fatalf("expected accept, got reasons %v", got.Reasons)
	}
	if got.Metrics.CharDelta != 14 {
		t.Errorf("CharDelta = %d, want 14", got.Metrics.CharDelta)
	}
	if got.Metrics.WordDelta != 2 {
		t.Errorf("WordDelta = %d, want 2", got.Metrics.WordDelta)
	}
	if got.Metrics.EditDistance != 14 {
		t.Errorf("EditDistance = %d, want 14", got.Metrics.EditDistance)
	}
	if got.Metrics.OverlapRatio != 1.0 {
		t.Errorf("OverlapRatio = %f, want 1.0", got.Metrics.OverlapRatio)
	}
}

func TestValidateRejections(t *testing.T) {
	line := "Built dashboards using Tableau"
	lim := model.DefaultLimits()

	tests := []struct {
		name        string
		c           model.EditCandidate
		wantReasons []model.ReasonCode
	}{
		{
			name: "Insertion over char budget",
			c: model.EditCandidate{
				Strategy: model.StrategyParenthetical, Anchor: "Tableau",
				Insertion:    strings.Repeat("x", 30),
				KeywordsUsed: []string{"x"},
			},
			wantReasons: []model.ReasonCode{model.ReasonCharLimitExceeded, model.ReasonEditDistanceExceeded},
		},
		{
			name: "Anchor not found",
			c: model.EditCandidate{
				Strategy: model.StrategyTail, Anchor: "Snowflake",
				Insertion: "dbt", KeywordsUsed: []string{"dbt"},
			},
			wantReasons: []model.ReasonCode{model.ReasonAnchorNotFound},
		},
		{
			name: "Too many words",
			c: model.EditCandidate{
				Strategy: model.StrategyTail, Anchor: "Tableau",
				Insertion: "Spark Kafka Flink", KeywordsUsed: []string{"Spark"},
			},
			wantReasons: []model.ReasonCode{model.ReasonWordLimitExceeded},
		},
		{
			name: "Empty anchor and insertion",
			c: model.EditCandidate{
				Strategy: model.StrategyTail, Anchor: "", Insertion: "",
				KeywordsUsed: []string{"x"},
			},
			wantReasons: []model.ReasonCode{model.ReasonEmptyAnchor, model.ReasonEmptyInsertion},
		},
		{
			name: "Unknown strategy",
			c: model.EditCandidate{
				Strategy: model.Strategy("rewrite"), Anchor: "Tableau",
				Insertion: "x", KeywordsUsed: []string{"x"},
			},
			wantReasons: []model.ReasonCode{model.ReasonUnknownStrategy},
		},
		{
			name: "No keywords",
			c: model.EditCandidate{
				Strategy: model.StrategyTail, Anchor: "Tableau",
				Insertion: "dbt", KeywordsUsed: nil,
			},
			wantReasons: []model.ReasonCode{model.ReasonNoKeywords},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(line, tt.c, lim)
			if got.Accepted {
				t.Fatalf("expected rejection")
			}
			for _, want := range tt.wantReasons {
				if !hasReason(got.Reasons, want) {
					t.Errorf("reasons %v missing %v", got.Reasons, want)
				}
			}
		})
	}
}

// All checks run even after a failure so every violation is reported.
func TestValidateReportsAllViolations(t *testing.T) {
	line := "Short"
	c := model.EditCandidate{
		Strategy:     model.StrategyTail,
		Anchor:       "nowhere",
		Insertion:    strings.Repeat("word ", 8),
		KeywordsUsed: []string{"a"},
	}
	got := Validate(line, c, model.DefaultLimits())
	for _, want := range []model.ReasonCode{
		model.ReasonAnchorNotFound,
		model.ReasonCharLimitExceeded,
		model.ReasonWordLimitExceeded,
	} {
		if !hasReason(got.Reasons, want) {
			t.Errorf("reasons %v missing %v", got.Reasons, want)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	line := "Built dashboards using Tableau"
	c := model.EditCandidate{
		Strategy: model.StrategyTail, Anchor: "Tableau",
		Insertion: ", and Power BI", KeywordsUsed: []string{"Power BI"},
	}
	lim := model.DefaultLimits()
	first := Validate(line, c, lim)
	second := Validate(line, c, lim)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("outcomes differ:\n%+v\n%+v", first, second)
	}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name     string
		original string
		edited   string
		want     float64
	}{
		{name: "Pure insertion preserves all", original: "Built dashboards", edited: "Built dashboards, Tableau", want: 1.0},
		{name: "Rewrite loses words", original: "a b c d", edited: "a x y z", want: 0.25},
		{name: "Empty original", original: "", edited: "anything", want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapRatio(tt.original, tt.edited); got != tt.want {
				t.Errorf("overlapRatio(%q, %q) = %f, want %f", tt.original, tt.edited, got, tt.want)
			}
		})
	}
}

func hasReason(reasons []model.ReasonCode, want model.ReasonCode) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
