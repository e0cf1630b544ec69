package resume

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
)

type DeleteResumeUseCase struct {
	resumeRepo resume.Repository
}

func NewDeleteResumeUseCase(repo resume.Repository) *DeleteResumeUseCase {
	return &DeleteResumeUseCase{resumeRepo: repo}
}

type DeleteResumeInput struct {
	ResumeID uuid.UUID
	OwnerID  uuid.UUID
}

func (uc *DeleteResumeUseCase) Execute(ctx context.Context, input DeleteResumeInput) error {
	ctx, span := tracer.Start(ctx, "DeleteResume")
	defer span.End()

	if _, err := findOwned(ctx, uc.resumeRepo, input.ResumeID, input.OwnerID); err != nil {
		return err
	}
	if err := uc.resumeRepo.Delete(ctx, input.ResumeID, input.OwnerID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete resume failed: %w", err)
	}
	return nil
}
