package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/prompt"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

// AnalyzeUploadUseCase runs in the worker for every resume.uploaded event.
type AnalyzeUploadUseCase struct {
	uploadRepo upload.Repository
	gateway    service.Gateway
	logger     logger.Logger
}

func NewAnalyzeUploadUseCase(r upload.Repository, g service.Gateway, log logger.Logger) *AnalyzeUploadUseCase {
	return &AnalyzeUploadUseCase{uploadRepo: r, gateway: g, logger: log}
}

type AnalyzeUploadInput struct {
	UploadID uuid.UUID
	OwnerID  uuid.UUID
}

func (uc *AnalyzeUploadUseCase) Execute(ctx context.Context, input AnalyzeUploadInput) (*upload.Analysis, error) {
	ctx, span := tracer.Start(ctx, "AnalyzeUpload")
	defer span.End()

	l := uc.logger.With(zap.String("upload_id", input.UploadID.String()))

	up, err := uc.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, fmt.Errorf("load upload: %w", err)
	}
	if up.OwnerID != input.OwnerID {
		return nil, apperror.NewPermissionDenied(fmt.Sprintf("upload %s does not belong to %s", input.UploadID, input.OwnerID))
	}

	text, err := uc.gateway.Generate(ctx, prompt.Analytics(up.ExtractedText))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate analysis: %w", err)
	}

	a := &upload.Analysis{
		UploadID:  up.ID,
		OwnerID:   up.OwnerID,
		Content:   text,
		Model:     uc.gateway.Model(),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.uploadRepo.SaveAnalysis(ctx, a); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	l.Info("Upload analysed", zap.Int("length", len(text)))
	return a, nil
}
