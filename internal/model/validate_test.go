package model

import "testing"

const goodPlanJSON = `{
  "edits": [
    {
      "line_index": 2,
      "strategy": "tail",
      "anchor": "Tableau",
      "insertion": ", and Power BI",
      "keywords_used": ["Power BI"]
    }
  ],
  "skipped_keywords": ["Kubernetes"]
}`

func TestParseEditPlan(t *testing.T) {
	plan, err := ParseEditPlan([]byte(goodPlanJSON))
	if err != nil {
		t.Fatalf("ParseEditPlan: %v", err)
	}
	if len(plan.Edits) != 1 {
		t.Fatalf("Edits = %d, want 1", len(plan.Edits))
	}
	e := plan.Edits[0]
	if e.LineIndex != 2 || e.Strategy != StrategyTail || e.Anchor != "Tableau" {
		t.Errorf("decoded edit = %+v", e)
	}
	if len(plan.SkippedKeywords) != 1 || plan.SkippedKeywords[0] != "Kubernetes" {
		t.Errorf("SkippedKeywords = %v", plan.SkippedKeywords)
	}
}

func TestValidateEditPlanJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"Unknown strategy value",
			`{"edits": [{"line_index": 0, "strategy": "rewrite", "anchor": "a", "insertion": "b", "keywords_used": []}], "skipped_keywords": []}`,
		},
		{
			"Negative line index",
			`{"edits": [{"line_index": -1, "strategy": "tail", "anchor": "a", "insertion": "b", "keywords_used": []}], "skipped_keywords": []}`,
		},
		{
			"Missing anchor field",
			`{"edits": [{"line_index": 0, "strategy": "tail", "insertion": "b", "keywords_used": []}], "skipped_keywords": []}`,
		},
		{
			"Missing skipped_keywords",
			`{"edits": []}`,
		},
		{
			"Extra top-level property",
			`{"edits": [], "skipped_keywords": [], "commentary": "looks good"}`,
		},
		{
			"Extra edit property",
			`{"edits": [{"line_index": 0, "strategy": "tail", "anchor": "a", "insertion": "b", "keywords_used": [], "confidence": 0.9}], "skipped_keywords": []}`,
		},
		{
			"Keywords of wrong type",
			`{"edits": [{"line_index": 0, "strategy": "tail", "anchor": "a", "insertion": "b", "keywords_used": [1, 2]}], "skipped_keywords": []}`,
		},
		{
			"Not an object",
			`["edits"]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateEditPlanJSON([]byte(tt.raw)); err == nil {
				t.Errorf("accepted invalid plan: %s", tt.raw)
			}
		})
	}
}

func TestValidateEditPlanJSONAcceptsEmptyPlan(t *testing.T) {
	raw := `{"edits": [], "skipped_keywords": []}`
	if err := ValidateEditPlanJSON([]byte(raw)); err != nil {
		t.Errorf("empty plan rejected: %v", err)
	}
}
