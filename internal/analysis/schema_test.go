package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseSchemaAcceptsWellFormedResponse(t *testing.T) {
	doc := []byte(`{
		"scores":{"experience":8,"education":7,"skills":9,"presentation":6,"achievements":7,"overall":7.4},
		"analysis":{"summary":"Good.","strengths":["a"],"weaknesses":["b"],"recommendations":["c"],"career_level":"Senior","industry_fit":["SaaS"]}
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(BuildResponseJSONSchema(), doc))
}

func TestResponseSchemaRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"score above ten",
			`{"scores":{"experience":11,"education":5,"skills":5,"presentation":5,"achievements":5,"overall":5},
			  "analysis":{"summary":"x","strengths":[],"weaknesses":[],"recommendations":[],"career_level":"Senior","industry_fit":[]}}`,
		},
		{
			"unknown career level",
			`{"scores":{"experience":5,"education":5,"skills":5,"presentation":5,"achievements":5,"overall":5},
			  "analysis":{"summary":"x","strengths":[],"weaknesses":[],"recommendations":[],"career_level":"Wizard","industry_fit":[]}}`,
		},
		{
			"missing analysis",
			`{"scores":{"experience":5,"education":5,"skills":5,"presentation":5,"achievements":5,"overall":5}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSONAgainstSchema(BuildResponseJSONSchema(), []byte(tt.doc)))
		})
	}
}

func TestResultSchemaTightensHygieneScoresAndStrengths(t *testing.T) {
	// Valid under the response schema (0-10 hygiene scores, empty strengths),
	// but rejected by the stricter persisted-result schema.
	doc := []byte(`{
		"scores":{"experience":5,"education":5,"skills":5,"presentation":5,"achievements":5,"overall":5},
		"analysis":{"summary":"x","strengths":[],"weaknesses":[],"recommendations":[],"career_level":"Senior","industry_fit":[]},
		"keywords":[],"experience_years":0,"education_level":"Not specified",
		"certifications":[],"languages":[],
		"contact_completeness":7.5,"ats_score":7,"improvement_priority":[]
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(BuildResponseJSONSchema(), doc))
	assert.Error(t, ValidateJSONAgainstSchema(BuildResultJSONSchema(), doc))
}
