package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeResultDecodesWireShape(t *testing.T) {
	body := `{
		"file": {"fileName": "cv.pdf", "size": 2048},
		"resumeText": "Jane Doe\nEngineer",
		"sections": {
			"summary": "Backend engineer",
			"skills": ["Go", "SQL", 3, null],
			"education": null,
			"hobbies": "chess"
		},
		"scores": {"atsScore": 81, "structureScore": 64.6, "readabilityScore": "70", "totalScore": 72},
		"suggestions": "{\"overallAdvice\":\"tighten\"}"
	}`

	var res AnalyzeResult
	require.NoError(t, json.Unmarshal([]byte(body), &res))

	assert.Equal(t, "cv.pdf", res.File.Name)
	assert.Equal(t, int64(2048), res.File.Size)
	assert.Equal(t, Score(81), res.Scores.ATSScore)
	assert.Equal(t, Score(65), res.Scores.StructureScore)
	assert.Equal(t, Score(70), res.Scores.ReadabilityScore)
	assert.Equal(t, `{"overallAdvice":"tighten"}`, res.RawSuggestions)

	require.Len(t, res.Sections, 2)
	assert.Equal(t, SectionContent{Text: "Backend engineer"}, res.Sections[SectionSummary])
	assert.Equal(t, SectionContent{Items: []string{"Go", "SQL", "3", ""}, IsList: true}, res.Sections[SectionSkills])
	_, hasEducation := res.Sections[SectionEducation]
	assert.False(t, hasEducation)
}

func TestSectionMapOrderedFollowsDisplayOrder(t *testing.T) {
	m := SectionMap{
		SectionOther:   {Text: "o"},
		SectionSummary: {Text: "s"},
		SectionSkills:  {Items: []string{"Go"}, IsList: true},
	}
	ordered := m.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, SectionSummary, ordered[0].Key)
	assert.Equal(t, SectionSkills, ordered[1].Key)
	assert.Equal(t, SectionOther, ordered[2].Key)
	assert.Equal(t, "Skills", ordered[1].Key.Label())
}

func TestScoreNonNumericDecodesAsZero(t *testing.T) {
	s := Score(50)
	require.NoError(t, json.Unmarshal([]byte(`"high"`), &s))
	assert.Equal(t, Score(0), s)
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Equal(t, Score(0), s)

	var scores ScoreSet
	require.NoError(t, json.Unmarshal([]byte(`{"atsScore":"N/A","totalScore":88}`), &scores))
	assert.Equal(t, Score(0), scores.ATSScore)
	assert.Equal(t, Score(88), scores.TotalScore)
}

func TestFileMetaAcceptsBothNameKeys(t *testing.T) {
	var m FileMeta
	require.NoError(t, json.Unmarshal([]byte(`{"name":"old.pdf","size":10}`), &m))
	assert.Equal(t, FileMeta{Name: "old.pdf", Size: 10}, m)

	require.NoError(t, json.Unmarshal([]byte(`{"fileName":"new.pdf","name":"ignored.pdf","size":5}`), &m))
	assert.Equal(t, FileMeta{Name: "new.pdf", Size: 5}, m)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"new.pdf","size":5}`, string(out))
}
