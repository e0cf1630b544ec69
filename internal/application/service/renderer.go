package service

import (
	"io"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
)

type ResumeRenderer interface {
	RenderPDF(w io.Writer, r *resume.Resume) error
}

type MarkdownRenderer interface {
	ToSafeHTML(markdown string) (string, error)
}
