package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptIsDeterministic(t *testing.T) {
	text := "Jane Doe\nSenior Software Engineer\n10 years of Go and PostgreSQL."
	assert.Equal(t, BuildPrompt(text), BuildPrompt(text))
}

func TestBuildPromptEmbedsDocumentText(t *testing.T) {
	text := "UNIQUE-MARKER-7731 backend engineer"
	prompt := BuildPrompt(text)
	assert.Contains(t, prompt, text)
}

func TestBuildPromptContract(t *testing.T) {
	prompt := BuildPrompt("some cv text")

	// Every field the normalizer reads must be asked for.
	for _, field := range []string{
		`"scores"`, `"experience"`, `"education"`, `"skills"`,
		`"presentation"`, `"achievements"`, `"overall"`,
		`"analysis"`, `"summary"`, `"strengths"`, `"weaknesses"`,
		`"recommendations"`, `"career_level"`, `"industry_fit"`,
		`"keywords"`, `"experience_years"`, `"education_level"`,
		`"certifications"`, `"languages"`, `"contact_completeness"`,
		`"ats_score"`, `"improvement_priority"`,
	} {
		assert.Contains(t, prompt, field)
	}

	for _, level := range []string{"Entry-level", "Mid-level", "Senior", "Executive"} {
		assert.Contains(t, prompt, level)
	}

	assert.True(t, strings.HasSuffix(prompt,
		"Respond only with valid JSON, no additional text or formatting."))
}

func TestBuildPromptEmbedsResponseSchema(t *testing.T) {
	prompt := BuildPrompt("cv")
	schema := mustJSON(BuildResponseJSONSchema())
	require.NotEmpty(t, schema)
	assert.Contains(t, prompt, schema)
}
