package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeiq/internal/resume"
)

func TestListCard(t *testing.T) {
	tests := []struct {
		name   string
		items  []string
		wantOK bool
		want   Card
	}{
		{name: "nil", items: nil},
		{name: "empty", items: []string{}},
		{name: "only empties", items: []string{"", ""}},
		{name: "whitespace only", items: []string{"  ", "\n"}},
		{name: "one", items: []string{"only one"}, wantOK: true, want: Card{Title: "T", Paragraph: "only one"}},
		{name: "one after filtering", items: []string{"", "kept"}, wantOK: true, want: Card{Title: "T", Paragraph: "kept"}},
		{name: "many", items: []string{"a", "", "b"}, wantOK: true, want: Card{Title: "T", Items: []string{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ListCard("T", tt.items)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTextCard(t *testing.T) {
	_, ok := TextCard("Summary", "")
	assert.False(t, ok)
	_, ok = TextCard("Summary", "   ")
	assert.False(t, ok)
	card, ok := TextCard("Summary", "Engineer")
	require.True(t, ok)
	assert.False(t, card.IsList())
	assert.Equal(t, "Engineer", card.Paragraph)
}

func TestSelectSuggestionsModes(t *testing.T) {
	t.Run("none with empty raw", func(t *testing.T) {
		assert.Equal(t, ModeNone, SelectSuggestions("").Mode)
	})
	t.Run("raw fallback for prose", func(t *testing.T) {
		v := SelectSuggestions("Add metrics to your bullet points.")
		assert.Equal(t, ModeRawFallback, v.Mode)
		assert.Equal(t, "Add metrics to your bullet points.", v.Raw)
	})
	t.Run("nothing for unexpected keys", func(t *testing.T) {
		assert.Equal(t, ModeNone, SelectSuggestions(`{"foo":["bar"]}`).Mode)
	})
	t.Run("nothing for blank advice only", func(t *testing.T) {
		assert.Equal(t, ModeNone, SelectSuggestions(`{"overallAdvice":"   ","skillsSuggestions":[null]}`).Mode)
	})
	t.Run("nothing for whitespace entries", func(t *testing.T) {
		v := SelectSuggestions(`{"summarySuggestions":["   "],"skillsSuggestions":[""]}`)
		assert.Equal(t, ModeNone, v.Mode)
		assert.Empty(t, v.Cards)
	})
	t.Run("advice only", func(t *testing.T) {
		v := SelectSuggestions(`{"overallAdvice":"Lead with impact"}`)
		assert.Equal(t, ModeStructured, v.Mode)
		assert.Equal(t, "Lead with impact", v.Advice)
		assert.Empty(t, v.Cards)
	})
}

func TestSelectSuggestionsCardOrder(t *testing.T) {
	raw := "```json\n" + `{
		"projectsSuggestions": ["p1", "p2"],
		"experienceSuggestions": ["e1"],
		"skillsSuggestions": [],
		"summarySuggestions": ["s1", "s2"]
	}` + "\n```"
	v := SelectSuggestions(raw)
	require.Equal(t, ModeStructured, v.Mode)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, "Summary", v.Cards[0].Title)
	assert.Equal(t, []string{"s1", "s2"}, v.Cards[0].Items)
	assert.Equal(t, "Experience", v.Cards[1].Title)
	assert.Equal(t, "e1", v.Cards[1].Paragraph)
	assert.Equal(t, "Projects", v.Cards[2].Title)
	assert.Empty(t, v.Advice)
}

func TestMatchTier(t *testing.T) {
	assert.Equal(t, TierGood, MatchTier(100))
	assert.Equal(t, TierGood, MatchTier(70))
	assert.Equal(t, TierWarning, MatchTier(69))
	assert.Equal(t, TierWarning, MatchTier(40))
	assert.Equal(t, TierPoor, MatchTier(39))
	assert.Equal(t, TierPoor, MatchTier(0))
}

func TestSelectComparison(t *testing.T) {
	t.Run("structured with gauge", func(t *testing.T) {
		v := SelectComparison(`{"matchScore":70,"strengths":["Go","SQL"],"missingSkills":["K8s"],"improvementSuggestions":[]}`)
		require.Equal(t, ModeStructured, v.Mode)
		require.NotNil(t, v.Gauge)
		assert.Equal(t, TierGood, v.Gauge.Tier)
		assert.Equal(t, "70%", v.Gauge.Label)
		require.Len(t, v.Cards, 2)
		assert.Equal(t, "Strengths", v.Cards[0].Title)
		assert.Equal(t, "Missing Skills", v.Cards[1].Title)
		assert.Equal(t, "K8s", v.Cards[1].Paragraph)
	})
	t.Run("non numeric score omits gauge", func(t *testing.T) {
		v := SelectComparison(`{"matchScore":"69","strengths":["Go","SQL"]}`)
		require.Equal(t, ModeStructured, v.Mode)
		assert.Nil(t, v.Gauge)
		require.Len(t, v.Cards, 1)
	})
	t.Run("gauge width is clamped", func(t *testing.T) {
		v := SelectComparison(`{"matchScore":140}`)
		require.NotNil(t, v.Gauge)
		assert.Equal(t, float64(100), v.Gauge.Width)
	})
	t.Run("raw fallback for prose", func(t *testing.T) {
		v := SelectComparison("Strong match overall.")
		assert.Equal(t, ModeRawFallback, v.Mode)
		assert.Equal(t, "Strong match overall.", v.Raw)
	})
	t.Run("raw fallback even when empty", func(t *testing.T) {
		v := SelectComparison("")
		assert.Equal(t, ModeRawFallback, v.Mode)
		assert.Empty(t, v.Raw)
	})
	t.Run("unexpected keys fall back to raw", func(t *testing.T) {
		raw := `{"verdict":"good"}`
		v := SelectComparison(raw)
		assert.Equal(t, ModeRawFallback, v.Mode)
		assert.Equal(t, raw, v.Raw)
	})
}

func TestScoreCards(t *testing.T) {
	cards := ScoreCards(resume.ScoreSet{ATSScore: 80, StructureScore: 79, ReadabilityScore: 49, TotalScore: 120})
	require.Len(t, cards, 4)
	assert.Equal(t, TierGood, cards[0].Tone)
	assert.Equal(t, TierWarning, cards[1].Tone)
	assert.Equal(t, TierPoor, cards[2].Tone)
	assert.Equal(t, 100, cards[3].Percent)
	assert.True(t, cards[3].Highlight)
	assert.Equal(t, "Total Score", cards[3].Label)
}

func TestSectionCards(t *testing.T) {
	cards := SectionCards(resume.SectionMap{
		resume.SectionSkills:    {Items: []string{"Go", "SQL"}, IsList: true},
		resume.SectionSummary:   {Text: "Engineer"},
		resume.SectionEducation: {Text: ""},
		resume.SectionProjects:  {Items: []string{"only one"}, IsList: true},
	})
	require.Len(t, cards, 3)
	assert.Equal(t, "Summary", cards[0].Title)
	assert.Equal(t, "Skills", cards[1].Title)
	assert.True(t, cards[1].IsList())
	assert.Equal(t, "Projects", cards[2].Title)
	assert.False(t, cards[2].IsList())
}

func TestSizeKB(t *testing.T) {
	assert.Equal(t, "2.0 KB", SizeKB(2048))
	assert.Equal(t, "0.5 KB", SizeKB(512))
}
