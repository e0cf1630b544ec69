// Package extractor turns uploaded resume files into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/khoahotran/resume-builder/internal/application/service"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"
)

type textExtractor struct{}

func NewTextExtractor() service.TextExtractor {
	return textExtractor{}
}

func (textExtractor) Supports(contentType string) bool {
	switch contentType {
	case MimePDF, MimeDOCX, MimePlain:
		return true
	}
	return false
}

func (textExtractor) Detect(data []byte) string {
	return Detect(data)
}

func (e textExtractor) Extract(ctx context.Context, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = Detect(data)
	}

	var (
		text string
		err  error
	)
	switch contentType {
	case MimePlain:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file is not valid utf-8")
		}
		text = string(data)
	case MimePDF:
		text, err = extractPDFText(data)
	case MimeDOCX:
		text, err = extractDocxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Detect sniffs the media type from the file header and reduces it to one of
// the supported types, or returns the detected type unchanged.
func Detect(data []byte) string {
	mtype := mimetype.Detect(data)
	for _, supported := range []string{MimePDF, MimeDOCX, MimePlain} {
		if mtype.Is(supported) {
			return supported
		}
	}
	return mtype.String()
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml body.
	raw := doc.Editable().GetContent()
	raw = docxParagraphEnd.ReplaceAllString(raw, "\n")
	raw = docxTag.ReplaceAllString(raw, "")
	// covers numeric references such as &#8217; as well as named entities
	return html.UnescapeString(raw), nil
}
