package upload

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

const msgProcessingFailed = "Error processing resume"

var tracer = otel.Tracer("upload_usecase")

type UploadResumeUseCase struct {
	uploadRepo upload.Repository
	extractor  service.TextExtractor
	uploader   service.Uploader
	publisher  service.UploadEventPublisher
	folder     string
	logger     logger.Logger
}

// NewUploadResumeUseCase wires the upload pipeline. publisher may be nil, in
// which case no background analysis is requested.
func NewUploadResumeUseCase(
	r upload.Repository,
	e service.TextExtractor,
	u service.Uploader,
	p service.UploadEventPublisher,
	folder string,
	log logger.Logger,
) *UploadResumeUseCase {
	return &UploadResumeUseCase{uploadRepo: r, extractor: e, uploader: u, publisher: p, folder: folder, logger: log}
}

type UploadResumeInput struct {
	OwnerID     uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
}

func (uc *UploadResumeUseCase) Execute(ctx context.Context, input UploadResumeInput) (*upload.ResumeUpload, error) {
	ctx, span := tracer.Start(ctx, "UploadResume")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner_id", input.OwnerID.String()),
		attribute.Int("size", len(input.Data)),
	)

	l := uc.logger.With(zap.String("owner_id", input.OwnerID.String()), zap.String("file_name", input.FileName))

	if len(input.Data) == 0 {
		return nil, apperror.NewInvalidInput("No file uploaded", nil)
	}
	contentType := baseMediaType(input.ContentType)
	if contentType == "" {
		contentType = uc.extractor.Detect(input.Data)
	}
	if !uc.extractor.Supports(contentType) {
		return nil, apperror.NewInvalidInput("Unsupported file type: "+contentType, nil)
	}

	text, err := uc.extractor.Extract(ctx, contentType, input.Data)
	if err != nil {
		l.Error("Text extraction failed", err)
		span.RecordError(err)
		return nil, apperror.NewUpstream(msgProcessingFailed, err)
	}

	uploadID := uuid.New()
	folder := path.Join(uc.folder, "users", input.OwnerID.String())
	fileURL, err := uc.uploader.Upload(ctx, bytes.NewReader(input.Data), folder, uploadID.String(), contentType)
	if err != nil {
		l.Error("Storing uploaded file failed", err)
		span.RecordError(err)
		return nil, apperror.NewUpstream(msgProcessingFailed, err)
	}

	rec := &upload.ResumeUpload{
		ID:            uploadID,
		OwnerID:       input.OwnerID,
		FileName:      input.FileName,
		ContentType:   contentType,
		FileURL:       fileURL,
		ExtractedText: text,
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.uploadRepo.Save(ctx, rec); err != nil {
		go func() {
			if derr := uc.uploader.Delete(context.Background(), folder, uploadID.String()); derr != nil {
				l.Error("Failed to remove orphaned upload", derr, zap.String("upload_id", uploadID.String()))
			}
		}()
		return nil, err
	}

	if uc.publisher != nil {
		go func() {
			if err := uc.publisher.PublishResumeUploaded(context.Background(), rec.ID, rec.OwnerID); err != nil {
				l.Error("Failed to publish 'resume.uploaded' event", err, zap.String("upload_id", rec.ID.String()))
			}
		}()
	}

	l.Info("Resume uploaded", zap.String("upload_id", rec.ID.String()), zap.Int("text_length", len(text)))
	return rec, nil
}

// baseMediaType strips parameters such as "; charset=utf-8".
func baseMediaType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}
