package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type UpdateResumeUseCase struct {
	resumeRepo resume.Repository
}

func NewUpdateResumeUseCase(repo resume.Repository) *UpdateResumeUseCase {
	return &UpdateResumeUseCase{resumeRepo: repo}
}

// UpdateResumeInput replaces every non-nil field. Nil fields keep their
// stored value.
type UpdateResumeInput struct {
	ResumeID   uuid.UUID
	OwnerID    uuid.UUID
	FullName   *string
	Email      *string
	Phone      *string
	Education  *[]resume.Education
	Experience *[]resume.Experience
	Skills     *[]string
	Projects   *[]resume.Project
	Summary    *string
}

func (uc *UpdateResumeUseCase) Execute(ctx context.Context, input UpdateResumeInput) (*resume.Resume, error) {
	ctx, span := tracer.Start(ctx, "UpdateResume")
	defer span.End()

	r, err := findOwned(ctx, uc.resumeRepo, input.ResumeID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		r.FullName = *input.FullName
	}
	if input.Email != nil {
		r.Email = *input.Email
	}
	if input.Phone != nil {
		r.Phone = *input.Phone
	}
	if input.Education != nil {
		r.Education = *input.Education
	}
	if input.Experience != nil {
		r.Experience = *input.Experience
	}
	if input.Skills != nil {
		r.Skills = *input.Skills
	}
	if input.Projects != nil {
		r.Projects = *input.Projects
	}
	if input.Summary != nil {
		r.Summary = *input.Summary
	}
	r.Normalize()
	r.UpdatedAt = time.Now().UTC()

	if err := r.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.resumeRepo.Update(ctx, r); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update resume failed: %w", err)
	}
	return r, nil
}
