package resume

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"resumeiq/internal/shared/telemetry"
)

// FileMeta describes the uploaded file as echoed back by the analysis API.
// The API sends the name as "fileName"; "name" is accepted too.
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (m *FileMeta) UnmarshalJSON(data []byte) error {
	var wire struct {
		FileName string `json:"fileName"`
		Name     string `json:"name"`
		Size     int64  `json:"size"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Name = wire.FileName
	if m.Name == "" {
		m.Name = wire.Name
	}
	m.Size = wire.Size
	return nil
}

// Score is a 0-100 score. It decodes from any JSON number (rounded) or a
// numeric string. Anything else decodes as 0 and is logged.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		telemetry.Warn("score.unparseable", map[string]any{"value": raw})
		*s = 0
		return nil
	}
	*s = Score(math.Round(f))
	return nil
}

// ScoreSet holds the externally computed scores.
type ScoreSet struct {
	ATSScore         Score `json:"atsScore"`
	StructureScore   Score `json:"structureScore"`
	ReadabilityScore Score `json:"readabilityScore"`
	TotalScore       Score `json:"totalScore"`
}

// AnalyzeResult is the success body of POST /api/resume/analyze.
type AnalyzeResult struct {
	File           FileMeta   `json:"file"`
	ResumeText     string     `json:"resumeText"`
	Sections       SectionMap `json:"sections"`
	Scores         ScoreSet   `json:"scores"`
	RawSuggestions string     `json:"suggestions"`
}

// CompareRequest is the JSON body of POST /api/resume/compare.
type CompareRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// CompareResult is the success body of POST /api/resume/compare.
type CompareResult struct {
	ComparisonText string `json:"comparison"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// SuggestionsData is recovered from AnalyzeResult.RawSuggestions.
// A nil slice or nil pointer means the field was absent or unusable.
type SuggestionsData struct {
	SummarySuggestions    []string `json:"summarySuggestions,omitempty"`
	SkillsSuggestions     []string `json:"skillsSuggestions,omitempty"`
	ExperienceSuggestions []string `json:"experienceSuggestions,omitempty"`
	ProjectsSuggestions   []string `json:"projectsSuggestions,omitempty"`
	OverallAdvice         *string  `json:"overallAdvice,omitempty"`
}

// ParsedComparison is recovered from CompareResult.ComparisonText.
type ParsedComparison struct {
	MatchScore             *float64 `json:"matchScore,omitempty"`
	Strengths              []string `json:"strengths,omitempty"`
	MissingSkills          []string `json:"missingSkills,omitempty"`
	ImprovementSuggestions []string `json:"improvementSuggestions,omitempty"`
}
