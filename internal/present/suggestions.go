package present

import (
	"strings"

	"resumeiq/internal/aitext"
	"resumeiq/internal/resume"
)

// SuggestionsView is the display decision for the AI suggestions region.
type SuggestionsView struct {
	Mode   Mode   `json:"mode"`
	Raw    string `json:"raw,omitempty"`
	Advice string `json:"advice,omitempty"`
	Cards  []Card `json:"cards,omitempty"`
}

var suggestionRules = []listRule[resume.SuggestionsData]{
	{title: "Summary", get: func(d resume.SuggestionsData) []string { return d.SummarySuggestions }},
	{title: "Skills", get: func(d resume.SuggestionsData) []string { return d.SkillsSuggestions }},
	{title: "Experience", get: func(d resume.SuggestionsData) []string { return d.ExperienceSuggestions }},
	{title: "Projects", get: func(d resume.SuggestionsData) []string { return d.ProjectsSuggestions }},
}

// SelectSuggestions parses raw and decides how to show it.
func SelectSuggestions(raw string) SuggestionsView {
	data, ok := aitext.ParseSuggestions(raw)
	return Suggestions(raw, data, ok)
}

// Suggestions decides the suggestions display from an extraction result.
func Suggestions(raw string, data resume.SuggestionsData, structured bool) SuggestionsView {
	if !structured {
		if strings.TrimSpace(raw) == "" {
			return SuggestionsView{Mode: ModeNone}
		}
		return SuggestionsView{Mode: ModeRawFallback, Raw: raw}
	}
	if !hasAnySuggestion(data) {
		return SuggestionsView{Mode: ModeNone}
	}
	view := SuggestionsView{Mode: ModeStructured, Cards: applyRules(data, suggestionRules)}
	if data.OverallAdvice != nil && strings.TrimSpace(*data.OverallAdvice) != "" {
		view.Advice = *data.OverallAdvice
	}
	if len(view.Cards) == 0 && view.Advice == "" {
		return SuggestionsView{Mode: ModeNone}
	}
	return view
}

func hasAnySuggestion(d resume.SuggestionsData) bool {
	for _, r := range suggestionRules {
		if len(r.get(d)) > 0 {
			return true
		}
	}
	return d.OverallAdvice != nil && strings.TrimSpace(*d.OverallAdvice) != ""
}
