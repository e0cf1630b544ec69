package resume

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

var whitespace = regexp.MustCompile(`\s+`)

type ExportResumeUseCase struct {
	resumeRepo resume.Repository
	renderer   service.ResumeRenderer
}

func NewExportResumeUseCase(repo resume.Repository, renderer service.ResumeRenderer) *ExportResumeUseCase {
	return &ExportResumeUseCase{resumeRepo: repo, renderer: renderer}
}

type ExportResumeOutput struct {
	FileName string
	PDF      []byte
}

func (uc *ExportResumeUseCase) Execute(ctx context.Context, input GetResumeInput) (*ExportResumeOutput, error) {
	ctx, span := tracer.Start(ctx, "ExportResume")
	defer span.End()

	r, err := findOwned(ctx, uc.resumeRepo, input.ResumeID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := uc.renderer.RenderPDF(&buf, r); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to render resume pdf", err)
	}
	return &ExportResumeOutput{FileName: ExportFileName(r.FullName), PDF: buf.Bytes()}, nil
}

// ExportFileName turns "Jane  Doe" into "Jane_Doe_Resume.pdf".
func ExportFileName(fullName string) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(fullName), "_")
	if name == "" {
		name = "My"
	}
	return name + "_Resume.pdf"
}
