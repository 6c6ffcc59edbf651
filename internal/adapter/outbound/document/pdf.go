package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quickai/server/internal/port/outbound"
)

// DefaultMaxSize is the largest accepted document.
const DefaultMaxSize = 5 << 20

// Document errors.
var (
	ErrTooLarge    = errors.New("document exceeds size limit")
	ErrNotPDF      = errors.New("document is not a PDF")
	ErrUnreadable  = errors.New("document could not be read")
	ErrNoTextFound = errors.New("document contains no text")
)

type pdfReader struct {
	maxSize int
}

// NewPDFReader creates a PDF text extractor.
func NewPDFReader(maxSize int) outbound.DocumentReaderPort {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &pdfReader{maxSize: maxSize}
}

func (r *pdfReader) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if len(data) > r.maxSize {
		return "", ErrTooLarge
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", ErrNotPDF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text = strings.TrimSpace(string(raw))
	if text == "" {
		return "", ErrNoTextFound
	}
	return text, nil
}

// Compile-time check
var _ outbound.DocumentReaderPort = (*pdfReader)(nil)
