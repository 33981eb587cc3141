// Package analysis turns untrusted generative-model output into the
// validated, bounded analysis record the rest of the system may rely on.
package analysis

// Scores holds the six numeric dimensions, each bounded to [0, 10].
type Scores struct {
	Experience   float64 `json:"experience"`
	Education    float64 `json:"education"`
	Skills       float64 `json:"skills"`
	Presentation float64 `json:"presentation"`
	Achievements float64 `json:"achievements"`
	Overall      float64 `json:"overall"`
}

// Narrative is the free-text feedback block. After normalization Summary is
// never empty, Strengths has at least one entry, and CareerLevel is one of
// constants.CareerLevels.
type Narrative struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	CareerLevel     string   `json:"career_level"`
	IndustryFit     []string `json:"industry_fit"`
}

// Result is the canonical analysis record. Every Result returned by
// Normalize satisfies all range and shape constraints unconditionally;
// no downstream consumer needs to re-check.
//
// ContactCompleteness and ATSScore are stored on a 0–100 integer scale;
// the model reports them on 0–10 and Normalize rescales.
type Result struct {
	Scores              Scores    `json:"scores"`
	Narrative           Narrative `json:"analysis"`
	Keywords            []string  `json:"keywords"`
	ExperienceYears     int       `json:"experience_years"`
	EducationLevel      string    `json:"education_level"`
	Certifications      []string  `json:"certifications"`
	Languages           []string  `json:"languages"`
	ContactCompleteness int       `json:"contact_completeness"`
	ATSScore            int       `json:"ats_score"`
	ImprovementPriority []string  `json:"improvement_priority"`

	// Degraded marks a placeholder record built without a usable model
	// response. Degraded results are never persisted as completed analyses.
	Degraded bool `json:"degraded,omitempty"`
}

// Fallback strings used when the model omits required narrative fields.
const (
	fallbackSummary  = "The document was analyzed but the model did not provide a summary."
	fallbackStrength = "Professional experience demonstrated in the document."

	defaultEducationLevel = "Not specified"
)
