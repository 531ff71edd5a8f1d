// Package aitext recovers structured data from loosely formatted AI output.
//
// The AI backend is asked for JSON but may wrap it in a fenced code block,
// add prose, or return something else entirely. Nothing in this package
// returns an error: callers get either a structured Object or "none".
package aitext

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the expected shape of a field.
type Kind int

const (
	// Strings is an ordered sequence of strings.
	Strings Kind = iota
	// String is a single string.
	String
	// Number is a single JSON number.
	Number
)

// Field names one expected field and its shape.
type Field struct {
	Name string
	Kind Kind
}

// Spec is the set of fields to coerce from a payload.
type Spec []Field

// Value holds a coerced field. Exactly one member is set, matching the Field kind.
type Value struct {
	Strings []string
	String  string
	Number  float64
}

// Object holds the coerced fields that were present with a usable shape.
// Fields absent from the map were missing or had the wrong type.
type Object map[string]Value

// Strings returns the sequence for name, or nil when absent.
func (o Object) Strings(name string) []string {
	if v, ok := o[name]; ok {
		return v.Strings
	}
	return nil
}

// String returns the string for name and whether it was present.
func (o Object) String(name string) (string, bool) {
	v, ok := o[name]
	return v.String, ok
}

// Number returns the number for name and whether it was present.
func (o Object) Number(name string) (float64, bool) {
	v, ok := o[name]
	return v.Number, ok
}

// fenceRE matches the first triple-backtick block, with an optional language tag.
var fenceRE = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?(.*?)\\r?\\n?[ \\t]*```")

// Extract trims raw, unwraps a fenced block if one is present, parses the
// candidate as a JSON object and coerces the fields named in spec.
// ok is false when there is no usable structure.
func Extract(raw string, spec Spec) (obj Object, ok bool) {
	candidate := Unfence(raw)
	if candidate == "" {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}

	obj = make(Object, len(spec))
	for _, f := range spec {
		v, present := payload[f.Name]
		if !present {
			continue
		}
		switch f.Kind {
		case Strings:
			if items, ok := coerceStrings(v); ok {
				obj[f.Name] = Value{Strings: items}
			}
		case String:
			if s, ok := v.(string); ok {
				obj[f.Name] = Value{String: s}
			}
		case Number:
			if n, ok := v.(json.Number); ok {
				if num, err := n.Float64(); err == nil {
					obj[f.Name] = Value{Number: num}
				}
			}
		}
	}
	return obj, true
}

// Unfence trims raw and returns the inner content of the first fenced code
// block, or the trimmed text when there is none.
func Unfence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fenceRE.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// coerceStrings stringifies each element and drops empty results.
// A non-array value is reported as absent.
func coerceStrings(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return formatNumber(t)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return ""
		}
		return strings.TrimSpace(buf.String())
	}
}

func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return n.String()
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
