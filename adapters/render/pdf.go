// Package render turns resumes into PDF documents and model Markdown into
// sanitized HTML.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

type pdfRenderer struct {
	compress bool
}

// NewPDFRenderer lays resumes out on A4 portrait pages. compress=false keeps
// content streams readable, which is what tests use.
func NewPDFRenderer(compress bool) service.ResumeRenderer {
	return pdfRenderer{compress: compress}
}

func (p pdfRenderer) RenderPDF(w io.Writer, r *resume.Resume) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(p.compress)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle(r.FullName+" Resume", true)
	doc.AddPage()

	// core fonts are cp1252
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, tr(r.FullName), "", 1, "L", false, 0, "")

	contact := []string{r.Email}
	if r.Phone != "" {
		contact = append(contact, r.Phone)
	}
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, lineHeight, tr(strings.Join(contact, " | ")), "", 1, "L", false, 0, "")

	if r.Summary != "" {
		section(doc, tr, "Summary")
		doc.MultiCell(0, lineHeight, tr(r.Summary), "", "L", false)
	}

	if len(r.Experience) > 0 {
		section(doc, tr, "Experience")
		for _, e := range r.Experience {
			doc.SetFont("Helvetica", "B", 11)
			doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("%s at %s", e.Role, e.Company)), "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "I", 10)
			if e.Duration != "" {
				doc.CellFormat(0, lineHeight, tr(e.Duration), "", 1, "L", false, 0, "")
			}
			doc.SetFont("Helvetica", "", 10)
			if e.Description != "" {
				doc.MultiCell(0, lineHeight, tr(e.Description), "", "L", false)
			}
			doc.Ln(1)
		}
	}

	if len(r.Education) > 0 {
		section(doc, tr, "Education")
		doc.SetFont("Helvetica", "", 10)
		for _, e := range r.Education {
			line := fmt.Sprintf("%s, %s", e.Degree, e.Institution)
			if e.Year != "" {
				line += " (" + e.Year + ")"
			}
			doc.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
		}
	}

	if len(r.Skills) > 0 {
		section(doc, tr, "Skills")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, lineHeight, tr(strings.Join(r.Skills, ", ")), "", "L", false)
	}

	if len(r.Projects) > 0 {
		section(doc, tr, "Projects")
		for _, pr := range r.Projects {
			doc.SetFont("Helvetica", "B", 11)
			doc.CellFormat(0, lineHeight, tr(pr.Title), "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 10)
			if pr.Description != "" {
				doc.MultiCell(0, lineHeight, tr(pr.Description), "", "L", false)
			}
			if pr.Link != "" {
				doc.SetTextColor(0, 0, 180)
				doc.CellFormat(0, lineHeight, tr(pr.Link), "", 1, "L", false, 0, pr.Link)
				doc.SetTextColor(0, 0, 0)
			}
		}
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to lay out resume: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func section(doc *fpdf.Fpdf, tr func(string) string, title string) {
	doc.Ln(3)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	doc.Ln(1)
}
