package aitext

import "resumeiq/internal/resume"

const (
	fieldSummarySuggestions    = "summarySuggestions"
	fieldSkillsSuggestions     = "skillsSuggestions"
	fieldExperienceSuggestions = "experienceSuggestions"
	fieldProjectsSuggestions   = "projectsSuggestions"
	fieldOverallAdvice         = "overallAdvice"

	fieldMatchScore             = "matchScore"
	fieldStrengths              = "strengths"
	fieldMissingSkills          = "missingSkills"
	fieldImprovementSuggestions = "improvementSuggestions"
)

// SuggestionsSpec describes the suggestions payload.
var SuggestionsSpec = Spec{
	{Name: fieldSummarySuggestions, Kind: Strings},
	{Name: fieldSkillsSuggestions, Kind: Strings},
	{Name: fieldExperienceSuggestions, Kind: Strings},
	{Name: fieldProjectsSuggestions, Kind: Strings},
	{Name: fieldOverallAdvice, Kind: String},
}

// ComparisonSpec describes the comparison payload.
var ComparisonSpec = Spec{
	{Name: fieldMatchScore, Kind: Number},
	{Name: fieldStrengths, Kind: Strings},
	{Name: fieldMissingSkills, Kind: Strings},
	{Name: fieldImprovementSuggestions, Kind: Strings},
}

// ParseSuggestions recovers SuggestionsData from the raw suggestions text.
func ParseSuggestions(raw string) (resume.SuggestionsData, bool) {
	obj, ok := Extract(raw, SuggestionsSpec)
	if !ok {
		return resume.SuggestionsData{}, false
	}
	data := resume.SuggestionsData{
		SummarySuggestions:    obj.Strings(fieldSummarySuggestions),
		SkillsSuggestions:     obj.Strings(fieldSkillsSuggestions),
		ExperienceSuggestions: obj.Strings(fieldExperienceSuggestions),
		ProjectsSuggestions:   obj.Strings(fieldProjectsSuggestions),
	}
	if advice, ok := obj.String(fieldOverallAdvice); ok {
		data.OverallAdvice = &advice
	}
	return data, true
}

// ParseComparison recovers ParsedComparison from the raw comparison text.
func ParseComparison(raw string) (resume.ParsedComparison, bool) {
	obj, ok := Extract(raw, ComparisonSpec)
	if !ok {
		return resume.ParsedComparison{}, false
	}
	parsed := resume.ParsedComparison{
		Strengths:              obj.Strings(fieldStrengths),
		MissingSkills:          obj.Strings(fieldMissingSkills),
		ImprovementSuggestions: obj.Strings(fieldImprovementSuggestions),
	}
	if score, ok := obj.Number(fieldMatchScore); ok {
		parsed.MatchScore = &score
	}
	return parsed, true
}
