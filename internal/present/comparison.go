package present

import (
	"math"
	"strconv"

	"resumeiq/internal/aitext"
	"resumeiq/internal/resume"
)

// Tier is the color band of a score.
type Tier string

const (
	TierGood    Tier = "good"
	TierWarning Tier = "warning"
	TierPoor    Tier = "poor"
)

// MatchTier bands a match score: good at 70 and above, warning from 40, poor below.
func MatchTier(score float64) Tier {
	switch {
	case score >= 70:
		return TierGood
	case score >= 40:
		return TierWarning
	default:
		return TierPoor
	}
}

// Gauge is the match score meter.
type Gauge struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
	Tier  Tier    `json:"tier"`
	// Width is the bar fill, clamped to 0-100.
	Width float64 `json:"width"`
}

func newGauge(score float64) *Gauge {
	return &Gauge{
		Score: score,
		Label: strconv.FormatFloat(score, 'f', -1, 64) + "%",
		Tier:  MatchTier(score),
		Width: math.Max(0, math.Min(100, score)),
	}
}

// ComparisonView is the display decision for the comparison result region.
type ComparisonView struct {
	Mode  Mode   `json:"mode"`
	Raw   string `json:"raw,omitempty"`
	Gauge *Gauge `json:"gauge,omitempty"`
	Cards []Card `json:"cards,omitempty"`
}

var comparisonRules = []listRule[resume.ParsedComparison]{
	{title: "Strengths", get: func(p resume.ParsedComparison) []string { return p.Strengths }},
	{title: "Missing Skills", get: func(p resume.ParsedComparison) []string { return p.MissingSkills }},
	{title: "Improvement Suggestions", get: func(p resume.ParsedComparison) []string { return p.ImprovementSuggestions }, wide: true},
}

// SelectComparison parses raw and decides how to show it.
func SelectComparison(raw string) ComparisonView {
	parsed, ok := aitext.ParseComparison(raw)
	return Comparison(raw, parsed, ok)
}

// Comparison decides the comparison display from an extraction result.
// Without structure the raw text is always shown, even when empty. A
// structured result that yields no gauge and no card falls back to the raw
// text when there is any.
func Comparison(raw string, parsed resume.ParsedComparison, structured bool) ComparisonView {
	if !structured {
		return ComparisonView{Mode: ModeRawFallback, Raw: raw}
	}
	view := ComparisonView{Mode: ModeStructured, Cards: applyRules(parsed, comparisonRules)}
	if parsed.MatchScore != nil {
		view.Gauge = newGauge(*parsed.MatchScore)
	}
	if view.Gauge == nil && len(view.Cards) == 0 {
		if raw == "" {
			return ComparisonView{Mode: ModeNone}
		}
		return ComparisonView{Mode: ModeRawFallback, Raw: raw}
	}
	return view
}
