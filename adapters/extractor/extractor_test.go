package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, l := range lines {
		doc.Cell(0, 8, l)
		doc.Ln(8)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func sampleDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	e := NewTextExtractor()

	out, err := e.Extract(context.Background(), MimePlain, []byte("  Jane Doe\nGo, SQL \n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo, SQL", out)

	_, err = e.Extract(context.Background(), MimePlain, []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExtract_PDF(t *testing.T) {
	data := samplePDF(t, "Jane Doe", "Software Engineer")

	out, err := NewTextExtractor().Extract(context.Background(), MimePDF, data)
	require.NoError(t, err)

	assert.NotEmpty(t, out)
	assert.Contains(t, out, "Jane")
}

func TestExtract_PDF_Malformed(t *testing.T) {
	_, err := NewTextExtractor().Extract(context.Background(), MimePDF, []byte("%PDF-1.4 not really"))
	assert.Error(t, err)
}

func TestExtract_DOCX(t *testing.T) {
	data := sampleDOCX(t, "Jane Doe", "Go &amp; SQL")

	out, err := NewTextExtractor().Extract(context.Background(), MimeDOCX, data)
	require.NoError(t, err)

	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Go & SQL")
	assert.NotContains(t, out, "<w:t>")
}

func TestExtract_DOCX_NumericEntities(t *testing.T) {
	data := sampleDOCX(t, "Jane&#8217;s CV", "2019 &#x2013; 2023")

	out, err := NewTextExtractor().Extract(context.Background(), MimeDOCX, data)
	require.NoError(t, err)

	assert.Contains(t, out, "Jane’s CV")
	assert.Contains(t, out, "2019 – 2023")
	assert.NotContains(t, out, "&#")
}

func TestExtract_SniffsWhenTypeMissing(t *testing.T) {
	out, err := NewTextExtractor().Extract(context.Background(), "", []byte("Jane Doe, Go developer"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe, Go developer", out)

	assert.Equal(t, MimePDF, Detect(samplePDF(t, "x")))
	assert.Equal(t, MimePlain, Detect([]byte("hello")))
}

func TestExtract_Unsupported(t *testing.T) {
	e := NewTextExtractor()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	assert.False(t, e.Supports("image/png"))
	assert.True(t, e.Supports(MimeDOCX))
	assert.Equal(t, "image/png", e.Detect(png))

	_, err := e.Extract(context.Background(), "", png)
	assert.Error(t, err)
}
