// Package upload validates candidate résumé files before they are used.
package upload

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
)

const (
	// DefaultMaxSize is the largest accepted file, 5 MiB.
	DefaultMaxSize int64 = 5 << 20
	// DefaultAccept is the accepted MIME pattern.
	DefaultAccept = "application/pdf"

	sniffLen = 512
)

// File is a candidate upload held in memory.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
	// Pages is the PDF page count when it could be determined.
	Pages int
}

// Reason classifies a rejection.
type Reason string

const (
	ReasonTooLarge  Reason = "too_large"
	ReasonWrongType Reason = "wrong_type"
)

// ValidationError is a non-fatal rejection with a user-facing message.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Gate accepts or rejects files against a size limit and a MIME pattern.
// It remembers the last rejection message until a file is accepted.
type Gate struct {
	maxSize int64
	accept  string
	pattern *regexp.Regexp

	mu      sync.Mutex
	message string
}

// NewGate builds a gate. Zero values fall back to the defaults; an accept
// pattern of "*" accepts every type.
func NewGate(maxSize int64, accept string) *Gate {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	accept = strings.TrimSpace(accept)
	if accept == "" {
		accept = DefaultAccept
	}
	return &Gate{
		maxSize: maxSize,
		accept:  accept,
		pattern: compileAccept(accept),
	}
}

// MaxSize returns the size limit in bytes.
func (g *Gate) MaxSize() int64 { return g.maxSize }

// Accept returns the accepted MIME pattern.
func (g *Gate) Accept() string { return g.accept }

// LimitLabel formats the size limit for display, e.g. "5MB".
func (g *Gate) LimitLabel() string { return formatLimit(g.maxSize) }

// Message returns the current validation message, if any.
func (g *Gate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Clear drops the current validation message.
func (g *Gate) Clear() {
	g.mu.Lock()
	g.message = ""
	g.mu.Unlock()
}

// Validate checks f without touching the gate's message.
func (g *Gate) Validate(f File) error {
	if f.Size > g.maxSize {
		return &ValidationError{Reason: ReasonTooLarge, Message: fmt.Sprintf("File must be under %s", formatLimit(g.maxSize))}
	}
	if !g.pattern.MatchString(mediaType(f.ContentType)) {
		return &ValidationError{Reason: ReasonWrongType, Message: typeMessage(g.accept)}
	}
	return nil
}

// Offer runs f through the gate. On rejection the message is recorded and
// onSelect is not called. On acceptance the message is cleared and onSelect
// receives the file.
func (g *Gate) Offer(f File, onSelect func(File)) error {
	if err := g.Validate(f); err != nil {
		g.mu.Lock()
		g.message = err.Error()
		g.mu.Unlock()
		return err
	}
	g.Clear()
	if onSelect != nil {
		onSelect(f)
	}
	return nil
}

// DetectContentType returns declared unless it is empty or generic, in which
// case the type is sniffed from the first bytes of data.
func DetectContentType(declared string, data []byte) string {
	mt := mediaType(declared)
	if mt != "" && mt != "application/octet-stream" {
		return declared
	}
	n := len(data)
	if n > sniffLen {
		n = sniffLen
	}
	return http.DetectContentType(data[:n])
}

func compileAccept(accept string) *regexp.Regexp {
	var alts []string
	for _, part := range strings.Split(accept, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(part), `\*`, ".*"))
	}
	if len(alts) == 0 {
		return regexp.MustCompile(".*")
	}
	return regexp.MustCompile("^(?:" + strings.Join(alts, "|") + ")$")
}

func mediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}

func formatLimit(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	const kib = 1 << 10
	if n%kib == 0 {
		return fmt.Sprintf("%dKB", n/kib)
	}
	return fmt.Sprintf("%d bytes", n)
}

func typeMessage(accept string) string {
	if strings.EqualFold(accept, DefaultAccept) {
		return "Only PDF files are allowed"
	}
	return "File type must match " + accept
}
