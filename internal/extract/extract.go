// Package extract inspects accepted résumé PDFs locally. The analysis itself
// happens in the external API; this only reports what the dashboard shows
// next to the selected file.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned when the payload does not start with a PDF header.
var ErrNotPDF = errors.New("not a pdf document")

// Info summarizes a PDF.
type Info struct {
	Pages int
	// TextChars is the length of the extractable plain text. Zero usually
	// means a scanned document the analysis API will struggle with.
	TextChars int
}

// HasText reports whether any text could be extracted.
func (i Info) HasText() bool { return i.TextChars > 0 }

// Inspect reads the page count and, best effort, the amount of plain text.
func Inspect(ctx context.Context, data []byte) (info Info, err error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return Info{}, ErrNotPDF
	}

	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			info = Info{}
			err = fmt.Errorf("inspect pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("inspect pdf: %w", err)
	}
	info.Pages = reader.NumPage()
	info.TextChars = plainTextLen(reader)
	return info, nil
}

func plainTextLen(reader *pdf.Reader) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	plain, err := reader.GetPlainText()
	if err != nil {
		return 0
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return 0
	}
	return len(strings.TrimSpace(buf.String()))
}
