package aitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReturnsNoneForGarbage(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t ",
		"Here are some suggestions: be concise.",
		"{not json",
		"```json\nnot json either\n```",
		"```\n```",
		"[1, 2, 3]",
		"null",
		`"just a string"`,
		"42",
		`{"a":1} trailing {"b":2}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			obj, ok := Extract(in, SuggestionsSpec)
			assert.False(t, ok)
			assert.Nil(t, obj)
		})
	}
}

func TestExtractUnexpectedKeysOnly(t *testing.T) {
	obj, ok := Extract(`{"foo": ["a"], "bar": "b"}`, SuggestionsSpec)
	require.True(t, ok)
	assert.Empty(t, obj)

	data, ok := ParseSuggestions(`{"foo": ["a"]}`)
	require.True(t, ok)
	assert.Nil(t, data.SummarySuggestions)
	assert.Nil(t, data.OverallAdvice)
}

func TestExtractFencedMatchesUnfenced(t *testing.T) {
	payload := `{"summarySuggestions":["a","b"],"overallAdvice":"x"}`
	cases := map[string]string{
		"json tag":        "```json\n" + payload + "\n```",
		"no tag":          "```\n" + payload + "\n```",
		"other tag":       "```JSON\n" + payload + "\n```",
		"inline":          "```json " + payload + "```",
		"with prose":      "Sure! Here you go:\n```json\n" + payload + "\n```\nGood luck.",
		"padded":          "\n\n   ```json\r\n" + payload + "\r\n```   \n",
		"bare whitespace": "  " + payload + "  ",
	}

	want, ok := ParseSuggestions(payload)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, want.SummarySuggestions)
	require.NotNil(t, want.OverallAdvice)
	require.Equal(t, "x", *want.OverallAdvice)

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseSuggestions(in)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractCoercesSequences(t *testing.T) {
	data, ok := ParseSuggestions(`{"skillsSuggestions": ["a", 2, null, "", "b"]}`)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "2", "b"}, data.SkillsSuggestions)
}

func TestExtractStringifiesScalars(t *testing.T) {
	data, ok := ParseSuggestions(`{"projectsSuggestions": [true, false, 2.5, 1e3, {"k":"v"}, [1,2]]}`)
	require.True(t, ok)
	assert.Equal(t, []string{"true", "false", "2.5", "1000", `{"k":"v"}`, "[1,2]"}, data.ProjectsSuggestions)
}

func TestExtractWrongShapesAreAbsent(t *testing.T) {
	data, ok := ParseSuggestions(`{"summarySuggestions": "one", "skillsSuggestions": [], "overallAdvice": 5}`)
	require.True(t, ok)
	assert.Nil(t, data.SummarySuggestions)
	assert.NotNil(t, data.SkillsSuggestions)
	assert.Empty(t, data.SkillsSuggestions)
	assert.Nil(t, data.OverallAdvice)
}

func TestExtractAllFalsyYieldsEmptyNotAbsent(t *testing.T) {
	data, ok := ParseSuggestions(`{"experienceSuggestions": [null, ""]}`)
	require.True(t, ok)
	require.NotNil(t, data.ExperienceSuggestions)
	assert.Empty(t, data.ExperienceSuggestions)
}

func TestParseComparison(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantScore *float64
		strengths []string
	}{
		{
			name:      "numeric score",
			raw:       "```json\n{\"matchScore\": 72, \"strengths\": [\"Go\"], \"missingSkills\": []}\n```",
			wantOK:    true,
			wantScore: ptr(72),
			strengths: []string{"Go"},
		},
		{
			name:   "string score is absent",
			raw:    `{"matchScore": "72"}`,
			wantOK: true,
		},
		{
			name:      "fractional score",
			raw:       `{"matchScore": 39.5}`,
			wantOK:    true,
			wantScore: ptr(39.5),
		},
		{
			name: "prose",
			raw:  "The candidate is a strong match.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseComparison(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantScore, got.MatchScore)
			assert.Equal(t, tt.strengths, got.Strengths)
		})
	}
}

func TestUnfence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Unfence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", Unfence("  plain \n"))
	assert.Equal(t, `{"a":1}`, Unfence("```{\"a\":1}```"))
}

func ptr(f float64) *float64 { return &f }
