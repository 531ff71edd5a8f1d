package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionKey names one of the fixed résumé sections.
type SectionKey string

const (
	SectionSummary    SectionKey = "summary"
	SectionExperience SectionKey = "experience"
	SectionEducation  SectionKey = "education"
	SectionSkills     SectionKey = "skills"
	SectionProjects   SectionKey = "projects"
	SectionOther      SectionKey = "other"
)

// SectionKeys lists the sections in display order.
var SectionKeys = []SectionKey{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionOther,
}

var sectionLabels = map[SectionKey]string{
	SectionSummary:    "Summary",
	SectionExperience: "Experience",
	SectionEducation:  "Education",
	SectionSkills:     "Skills",
	SectionProjects:   "Projects",
	SectionOther:      "Other",
}

// Label returns the display title for the section.
func (k SectionKey) Label() string {
	if label, ok := sectionLabels[k]; ok {
		return label
	}
	return string(k)
}

// SectionContent is either free text or an ordered list of strings.
type SectionContent struct {
	Text   string
	Items  []string
	IsList bool
}

func (c SectionContent) MarshalJSON() ([]byte, error) {
	if c.IsList {
		items := c.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(c.Text)
}

func (c *SectionContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			switch t := v.(type) {
			case nil:
				items = append(items, "")
			case string:
				items = append(items, t)
			default:
				items = append(items, fmt.Sprint(t))
			}
		}
		*c = SectionContent{Items: items, IsList: true}
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = SectionContent{Text: text}
		return nil
	default:
		*c = SectionContent{Text: string(data)}
		return nil
	}
}

// SectionMap maps section keys to content. Absent keys are omitted from display.
type SectionMap map[SectionKey]SectionContent

// UnmarshalJSON keeps only known section keys and drops null values.
func (m *SectionMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(SectionMap, len(raw))
	for _, key := range SectionKeys {
		value, ok := raw[string(key)]
		if !ok || string(bytes.TrimSpace(value)) == "null" {
			continue
		}
		var content SectionContent
		if err := json.Unmarshal(value, &content); err != nil {
			return fmt.Errorf("section %s: %w", key, err)
		}
		out[key] = content
	}
	*m = out
	return nil
}

// Section is one present section in display order.
type Section struct {
	Key     SectionKey
	Content SectionContent
}

// Ordered returns the present sections in display order.
func (m SectionMap) Ordered() []Section {
	out := make([]Section, 0, len(m))
	for _, key := range SectionKeys {
		if content, ok := m[key]; ok {
			out = append(out, Section{Key: key, Content: content})
		}
	}
	return out
}
