package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
)

// Normalize parses, validates, clamps, and defaults the raw model output into
// a canonical Result. The input is completely untrusted: the prompt schema is
// a request, not a guarantee. Policies, in order:
//
//  1. Markdown code fences are stripped before parsing.
//  2. Unparseable JSON fails with ErrNormalizationFailed (see DegradedResult
//     for the operator-facing placeholder; it is never returned here).
//  3. Top-level "scores" and "analysis" objects are both required; absence is
//     a normalization failure, not a partial result.
//  4. Each score dimension must be numeric within [0, 10]; anything else is
//     replaced with the neutral 5. In-range values pass through untouched.
//  5. If "overall" itself was missing or invalid it is recomputed as the mean
//     of the other five dimensions instead of staying at the neutral default.
//  6. List fields and the narrative strings get renderable defaults so no
//     downstream consumer needs nil checks.
//  7. contact_completeness and ats_score are clamped and rescaled to 0–100.
//
// The returned Result satisfies every constraint of BuildResultJSONSchema.
func Normalize(raw string) (*Result, error) {
	cleaned := stripCodeFences(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, fmt.Errorf("%w: parse model output: %v", common.ErrNormalizationFailed, err)
	}

	scoresObj, ok := m["scores"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing scores object", common.ErrNormalizationFailed)
	}
	narrativeObj, ok := m["analysis"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing analysis object", common.ErrNormalizationFailed)
	}

	res := &Result{
		Scores:              normalizeScores(scoresObj),
		Narrative:           normalizeNarrative(narrativeObj),
		Keywords:            dedupe(toStringList(m["keywords"])),
		ExperienceYears:     normalizeYears(m["experience_years"]),
		EducationLevel:      normalizeEducationLevel(m["education_level"]),
		Certifications:      toStringList(m["certifications"]),
		Languages:           toStringList(m["languages"]),
		ContactCompleteness: normalizeHygieneScore(m["contact_completeness"]),
		ATSScore:            normalizeHygieneScore(m["ats_score"]),
		ImprovementPriority: toStringList(m["improvement_priority"]),
	}

	// Self-check: a defaulting bug must fail loudly rather than leak an
	// out-of-contract record.
	encoded, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", common.ErrNormalizationFailed, err)
	}
	if err := ValidateJSONAgainstSchema(BuildResultJSONSchema(), encoded); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNormalizationFailed, err)
	}
	return res, nil
}

// DegradedResult builds a structurally complete placeholder for attempts where
// the model output was unusable. Every field carries a neutral default and
// Degraded is set, so it can never be mistaken for a genuine analysis.
func DegradedResult() *Result {
	return &Result{
		Scores: Scores{
			Experience:   constants.NeutralScore,
			Education:    constants.NeutralScore,
			Skills:       constants.NeutralScore,
			Presentation: constants.NeutralScore,
			Achievements: constants.NeutralScore,
			Overall:      constants.NeutralScore,
		},
		Narrative: Narrative{
			Summary:         fallbackSummary,
			Strengths:       []string{fallbackStrength},
			Weaknesses:      []string{},
			Recommendations: []string{},
			CareerLevel:     constants.DefaultCareerLevel,
			IndustryFit:     []string{},
		},
		Keywords:            []string{},
		ExperienceYears:     0,
		EducationLevel:      defaultEducationLevel,
		Certifications:      []string{},
		Languages:           []string{},
		ContactCompleteness: 50,
		ATSScore:            50,
		ImprovementPriority: []string{},
		Degraded:            true,
	}
}

// stripCodeFences removes a leading/trailing Markdown fence. Models routinely
// wrap JSON in ```json fences despite instructions not to.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func normalizeScores(obj map[string]any) Scores {
	experience, _ := validScore(obj["experience"])
	education, _ := validScore(obj["education"])
	skills, _ := validScore(obj["skills"])
	presentation, _ := validScore(obj["presentation"])
	achievements, _ := validScore(obj["achievements"])

	// The model's numeric judgment is trusted inside the valid range; an
	// out-of-range or missing overall is recomputed from the five dimensions
	// so the record stays self-consistent.
	overall, ok := validScore(obj["overall"])
	if !ok {
		overall = (experience + education + skills + presentation + achievements) / 5
	}

	return Scores{
		Experience:   experience,
		Education:    education,
		Skills:       skills,
		Presentation: presentation,
		Achievements: achievements,
		Overall:      overall,
	}
}

// validScore returns the value unchanged when it is numeric and within
// [0, 10], and the neutral default otherwise. The second return reports
// whether the original value was usable.
func validScore(v any) (float64, bool) {
	f, ok := toNumber(v)
	if !ok || f < constants.ScoreMin || f > constants.ScoreMax {
		return constants.NeutralScore, false
	}
	return f, true
}

func normalizeNarrative(obj map[string]any) Narrative {
	summary, _ := obj["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		summary = fallbackSummary
	}

	strengths := toStringList(obj["strengths"])
	if len(strengths) == 0 {
		strengths = []string{fallbackStrength}
	}

	return Narrative{
		Summary:         summary,
		Strengths:       strengths,
		Weaknesses:      toStringList(obj["weaknesses"]),
		Recommendations: toStringList(obj["recommendations"]),
		CareerLevel:     normalizeCareerLevel(obj["career_level"]),
		IndustryFit:     toStringList(obj["industry_fit"]),
	}
}

func normalizeCareerLevel(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	for _, level := range constants.CareerLevels {
		if strings.EqualFold(s, level) {
			return level
		}
	}
	return constants.DefaultCareerLevel
}

// normalizeHygieneScore maps contact_completeness / ats_score onto the 0–100
// integer scale. The model reports 0–10, so values at or below 10 are
// rescaled; larger values are assumed to already be percentages. Missing or
// non-numeric values get the neutral midpoint, out-of-range values are
// clamped — a bogus extreme is worse than a neutral placeholder.
func normalizeHygieneScore(v any) int {
	f, ok := toNumber(v)
	if !ok {
		return 50
	}
	if f < 0 {
		return 0
	}
	if f <= constants.ScoreMax {
		f *= 10
	}
	if f > 100 {
		return 100
	}
	return int(math.Round(f))
}

func normalizeYears(v any) int {
	f, ok := toNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

func normalizeEducationLevel(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultEducationLevel
	}
	return s
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toStringList converts a decoded JSON value into a string slice. Absent or
// non-list values become an empty list; non-string elements are skipped.
func toStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
