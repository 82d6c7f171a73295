// Package ingest converts uploaded documents to plain text for injection
// into a conversation transcript.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType reports an upload with a file extension the extractor
// cannot handle. Callers reject these before touching the transcript.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extract returns the plain text of an uploaded document and the number of
// chunks it decomposed into (pages for PDF, one for plain text).
func Extract(filename string, data []byte) (string, int, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return string(data), 1, nil
	case ".pdf":
		return extractPDF(data)
	default:
		return "", 0, ErrUnsupportedType
	}
}

func extractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("read pdf: %w", err)
	}

	var (
		pages []string
		total = r.NumPage()
	)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), len(pages), nil
}

// SystemTurnContent builds the transcript entry for an ingested document,
// tagged so repeat uploads of the same file are recognizable.
func SystemTurnContent(prefix, filename, text string) string {
	return prefix + filename + "\n\n" + text
}
