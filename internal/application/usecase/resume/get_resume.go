package resume

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type GetResumeUseCase struct {
	resumeRepo resume.Repository
}

func NewGetResumeUseCase(repo resume.Repository) *GetResumeUseCase {
	return &GetResumeUseCase{resumeRepo: repo}
}

type GetResumeInput struct {
	ResumeID uuid.UUID
	OwnerID  uuid.UUID
}

func (uc *GetResumeUseCase) Execute(ctx context.Context, input GetResumeInput) (*resume.Resume, error) {
	ctx, span := tracer.Start(ctx, "GetResume")
	defer span.End()

	return findOwned(ctx, uc.resumeRepo, input.ResumeID, input.OwnerID)
}

// findOwned loads a resume and applies the ownership predicate. A resume
// owned by someone else is reported exactly like a missing one.
func findOwned(ctx context.Context, repo resume.Repository, id, ownerID uuid.UUID) (*resume.Resume, error) {
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.OwnedBy(ownerID) {
		return nil, apperror.NewNotFound("Resume", id.String())
	}
	return r, nil
}
