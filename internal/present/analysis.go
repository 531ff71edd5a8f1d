package present

import (
	"fmt"
	"math"

	"resumeiq/internal/resume"
)

const scoreMax = 100

// ScoreCard is one score tile.
type ScoreCard struct {
	Label     string `json:"label"`
	Value     int    `json:"value"`
	Max       int    `json:"max"`
	Percent   int    `json:"percent"`
	Tone      Tier   `json:"tone"`
	Highlight bool   `json:"highlight,omitempty"`
}

// NewScoreCard computes the percent fill and tone for a score.
// Tone is good at 80 percent and above, warning from 50, poor below.
func NewScoreCard(label string, value, outOf int) ScoreCard {
	if outOf <= 0 {
		outOf = scoreMax
	}
	pct := int(math.Min(100, math.Round(float64(value)/float64(outOf)*100)))
	tone := TierPoor
	switch {
	case pct >= 80:
		tone = TierGood
	case pct >= 50:
		tone = TierWarning
	}
	return ScoreCard{Label: label, Value: value, Max: outOf, Percent: pct, Tone: tone}
}

// ScoreCards returns the score tiles with the total highlighted last.
func ScoreCards(s resume.ScoreSet) []ScoreCard {
	total := NewScoreCard("Total Score", int(s.TotalScore), scoreMax)
	total.Highlight = true
	return []ScoreCard{
		NewScoreCard("ATS Score", int(s.ATSScore), scoreMax),
		NewScoreCard("Structure", int(s.StructureScore), scoreMax),
		NewScoreCard("Readability", int(s.ReadabilityScore), scoreMax),
		total,
	}
}

// SectionCards renders the present sections in display order.
func SectionCards(sections resume.SectionMap) []Card {
	var cards []Card
	for _, sec := range sections.Ordered() {
		var (
			card Card
			ok   bool
		)
		if sec.Content.IsList {
			card, ok = ListCard(sec.Key.Label(), sec.Content.Items)
		} else {
			card, ok = TextCard(sec.Key.Label(), sec.Content.Text)
		}
		if ok {
			cards = append(cards, card)
		}
	}
	return cards
}

// AnalysisView is everything the analyze result region shows.
type AnalysisView struct {
	FileName    string          `json:"fileName"`
	FileSize    string          `json:"fileSize"`
	Scores      []ScoreCard     `json:"scores"`
	Sections    []Card          `json:"sections,omitempty"`
	Suggestions SuggestionsView `json:"suggestions"`
}

// Analysis builds the analyze result view.
func Analysis(res resume.AnalyzeResult) AnalysisView {
	return AnalysisView{
		FileName:    res.File.Name,
		FileSize:    SizeKB(res.File.Size),
		Scores:      ScoreCards(res.Scores),
		Sections:    SectionCards(res.Sections),
		Suggestions: SelectSuggestions(res.RawSuggestions),
	}
}

// SizeKB formats a byte count as kilobytes with one decimal.
func SizeKB(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
