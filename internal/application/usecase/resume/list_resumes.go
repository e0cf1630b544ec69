package resume

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
)

type ListResumesUseCase struct {
	resumeRepo resume.Repository
}

func NewListResumesUseCase(repo resume.Repository) *ListResumesUseCase {
	return &ListResumesUseCase{resumeRepo: repo}
}

func (uc *ListResumesUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	ctx, span := tracer.Start(ctx, "ListResumes")
	defer span.End()

	return uc.resumeRepo.ListByOwner(ctx, ownerID)
}
