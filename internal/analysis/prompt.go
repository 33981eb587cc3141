package analysis

import (
	"encoding/json"
	"strings"
)

// BuildPrompt renders the analysis prompt for one document. Pure and
// deterministic: the same text always yields the same prompt. The embedded
// schema is the same map Normalize expects, so prompt and validator can never
// drift apart.
func BuildPrompt(text string) string {
	parts := []string{
		"You are an expert HR professional and career advisor. Analyze the following CV/Resume comprehensively and provide a detailed evaluation.",
		"",
		"Respond with a single JSON object containing:",
		"",
		`1. "scores" object with numerical ratings (0-10) for:`,
		`   - "experience": work experience relevance, progression, and achievements`,
		`   - "education": educational background strength and relevance`,
		`   - "skills": technical competencies, soft skills, and skill diversity`,
		`   - "presentation": formatting, clarity, structure, and professional presentation`,
		`   - "achievements": quantifiable accomplishments, awards, and notable contributions`,
		`   - "overall": holistic candidate assessment considering all factors`,
		"",
		`2. "analysis" object with professional feedback:`,
		`   - "summary": 2-3 sentence overall assessment`,
		`   - "strengths": 3-5 key strengths with specific examples from the CV`,
		`   - "weaknesses": 2-4 areas for improvement with constructive suggestions`,
		`   - "recommendations": 3-5 specific, actionable recommendations`,
		`   - "career_level": exactly one of "Entry-level", "Mid-level", "Senior", "Executive"`,
		`   - "industry_fit": industries or roles this candidate is best suited for`,
		"",
		`3. "keywords": 10-15 important technical and professional keywords found`,
		`4. "experience_years": estimated years of professional experience (integer)`,
		`5. "education_level": highest education level reached`,
		`6. "certifications": professional certifications mentioned`,
		`7. "languages": languages mentioned, with proficiency if stated`,
		`8. "contact_completeness": contact information completeness (0-10)`,
		`9. "ats_score": applicant-tracking-system friendliness (0-10)`,
		`10. "improvement_priority": top 3 improvement areas, most important first`,
		"",
		"The response MUST match this JSON Schema exactly:",
		mustJSON(BuildResponseJSONSchema()),
		"",
		"CV Text:",
		text,
		"",
		"Respond only with valid JSON, no additional text or formatting.",
	}
	return strings.Join(parts, "\n")
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
