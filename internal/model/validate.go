package model

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// editPlanSchema is the strict shape the external generation service must
// produce. Shape-level validation runs before any candidate is decoded; the
// constraint validator then scores each candidate on its own.
const editPlanSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "edits": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "line_index": {"type": "integer", "minimum": 0},
          "strategy": {"type": "string", "enum": ["modifier", "parenthetical", "tail"]},
          "anchor": {"type": "string"},
          "insertion": {"type": "string"},
          "keywords_used": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["line_index", "strategy", "anchor", "insertion", "keywords_used"]
      }
    },
    "skipped_keywords": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["edits", "skipped_keywords"]
}`

// ProposedPlan is the decoded edit-plan payload: the candidate set plus the
// keywords the generation service declined to place.
type ProposedPlan struct {
	Edits           []EditCandidate `json:"edits"`
	SkippedKeywords []string        `json:"skipped_keywords"`
}

// ValidateEditPlanJSON validates raw edit-plan JSON against the schema.
func ValidateEditPlanJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(editPlanSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("edit plan validation failed: %s", msgs)
}

// ParseEditPlan validates and decodes raw edit-plan JSON.
func ParseEditPlan(raw []byte) (*ProposedPlan, error) {
	if err := ValidateEditPlanJSON(raw); err != nil {
		return nil, err
	}
	var plan ProposedPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("edit plan decode failed: %w", err)
	}
	return &plan, nil
}
