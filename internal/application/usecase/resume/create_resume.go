package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

var tracer = otel.Tracer("resume_usecase")

type CreateResumeUseCase struct {
	resumeRepo resume.Repository
	uploadRepo upload.Repository
	logger     logger.Logger
}

func NewCreateResumeUseCase(rRepo resume.Repository, uRepo upload.Repository, log logger.Logger) *CreateResumeUseCase {
	return &CreateResumeUseCase{resumeRepo: rRepo, uploadRepo: uRepo, logger: log}
}

type CreateResumeInput struct {
	OwnerID    uuid.UUID
	FullName   string
	Email      string
	Phone      string
	Education  []resume.Education
	Experience []resume.Experience
	Skills     []string
	Projects   []resume.Project
	Summary    string
	// UploadID optionally links the new resume to one of the caller's uploads.
	UploadID *uuid.UUID
}

func (uc *CreateResumeUseCase) Execute(ctx context.Context, input CreateResumeInput) (*resume.Resume, error) {
	ctx, span := tracer.Start(ctx, "CreateResume")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", input.OwnerID.String()))

	now := time.Now().UTC()
	r := &resume.Resume{
		ID:         uuid.New(),
		OwnerID:    input.OwnerID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Education:  input.Education,
		Experience: input.Experience,
		Skills:     input.Skills,
		Projects:   input.Projects,
		Summary:    input.Summary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Normalize()

	if err := r.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if input.UploadID != nil {
		up, err := uc.uploadRepo.FindByID(ctx, *input.UploadID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if err != nil || up.OwnerID != input.OwnerID {
			return nil, apperror.NewNotFound("Upload", input.UploadID.String())
		}
		r.UploadID = &up.ID
		r.FileURL = up.FileURL
		r.ExtractedText = up.ExtractedText
	}

	if err := uc.resumeRepo.Save(ctx, r); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("Resume created", zap.String("resume_id", r.ID.String()), zap.String("owner_id", r.OwnerID.String()))
	return r, nil
}
