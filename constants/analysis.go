package constants

// Score bounds for the six analysis dimensions on the model's scale.
const (
	ScoreMin     = 0.0
	ScoreMax     = 10.0
	NeutralScore = 5.0
)

// CareerLevels is the fixed enumeration for the narrative career_level field.
var CareerLevels = []string{"Entry-level", "Mid-level", "Senior", "Executive"}

// DefaultCareerLevel is used when the model's value does not match the enum.
const DefaultCareerLevel = "Mid-level"
