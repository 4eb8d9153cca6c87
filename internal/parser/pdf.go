// Package parser extracts per-page plain text from PDF documents.
package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
)

var pdfMagic = []byte("%PDF-")

// Metadata keys attached to every Document.
const (
	MetaPage   = "page"
	MetaSource = "source"
)

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// LoadPDF returns one Document per page with extractable text, in page order.
// Pages whose text is empty or whitespace-only are skipped. A PDF without any
// text yields an empty slice and a nil error.
func LoadPDF(data []byte, source string) (docs []domain.Document, err error) {
	if !IsPDF(data) {
		return nil, domain.ErrNotPDF
	}

	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: %v", domain.ErrDocumentParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open reader: %w", domain.ErrDocumentParse, err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrDocumentParse, i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Page: i,
			Text: text,
			Metadata: map[string]string{
				MetaPage:   strconv.Itoa(i),
				MetaSource: source,
			},
		})
	}
	return docs, nil
}
