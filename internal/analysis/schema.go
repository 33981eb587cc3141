package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cvpilot/cv-analyzer/constants"
)

// BuildResponseJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model is asked to follow, as a generic map. It is embedded in the prompt as
// an unenforceable contract; Normalize re-validates everything.
func BuildResponseJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"scores", "analysis"},
		"properties": map[string]any{
			"scores": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"experience", "education", "skills", "presentation", "achievements", "overall"},
				"properties": map[string]any{
					"experience":   scoreProp(),
					"education":    scoreProp(),
					"skills":       scoreProp(),
					"presentation": scoreProp(),
					"achievements": scoreProp(),
					"overall":      scoreProp(),
				},
			},
			"analysis": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"summary", "strengths", "weaknesses", "recommendations", "career_level", "industry_fit"},
				"properties": map[string]any{
					"summary":         map[string]any{"type": "string", "minLength": 1},
					"strengths":       stringListProp(),
					"weaknesses":      stringListProp(),
					"recommendations": stringListProp(),
					"career_level":    map[string]any{"type": "string", "enum": constants.CareerLevels},
					"industry_fit":    stringListProp(),
				},
			},
			"keywords":             stringListProp(),
			"experience_years":     map[string]any{"type": "integer", "minimum": 0},
			"education_level":      map[string]any{"type": "string"},
			"certifications":       stringListProp(),
			"languages":            stringListProp(),
			"contact_completeness": scoreProp(),
			"ats_score":            scoreProp(),
			"improvement_priority": stringListProp(),
		},
	}
}

// BuildResultJSONSchema returns the schema of the canonical normalized Result.
// Normalize validates its own output against this before returning, so a bug
// in the defaulting rules can never leak an out-of-contract record.
func BuildResultJSONSchema() map[string]any {
	schema := BuildResponseJSONSchema()
	props := schema["properties"].(map[string]any)

	// Persisted scale is 0–100 integers for the two document-hygiene scores.
	props["contact_completeness"] = map[string]any{"type": "integer", "minimum": 0, "maximum": 100}
	props["ats_score"] = map[string]any{"type": "integer", "minimum": 0, "maximum": 100}
	props["degraded"] = map[string]any{"type": "boolean"}

	analysisProps := props["analysis"].(map[string]any)["properties"].(map[string]any)
	analysisProps["strengths"] = map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"minItems": 1,
	}

	schema["required"] = []string{
		"scores", "analysis", "keywords", "experience_years", "education_level",
		"certifications", "languages", "contact_completeness", "ats_score",
		"improvement_priority",
	}
	return schema
}

func scoreProp() map[string]any {
	return map[string]any{"type": "number", "minimum": constants.ScoreMin, "maximum": constants.ScoreMax}
}

func stringListProp() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
