package upload

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type GetLatestUploadUseCase struct {
	uploadRepo upload.Repository
}

func NewGetLatestUploadUseCase(r upload.Repository) *GetLatestUploadUseCase {
	return &GetLatestUploadUseCase{uploadRepo: r}
}

type LatestUploadOutput struct {
	Upload   *upload.ResumeUpload
	Analysis *upload.Analysis
}

// Execute returns the caller's most recent upload. Analysis is nil until the
// worker has processed it.
func (uc *GetLatestUploadUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*LatestUploadOutput, error) {
	up, err := uc.uploadRepo.LatestByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewAppError(apperror.ErrNotFound, "No resume found for this user", ownerID.String(), nil)
		}
		return nil, err
	}

	a, err := uc.uploadRepo.FindAnalysis(ctx, up.ID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	return &LatestUploadOutput{Upload: up, Analysis: a}, nil
}
