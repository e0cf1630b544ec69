package ai

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/domain/ats"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/prompt"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

const (
	OpSummary     = "summary"
	OpCoverLetter = "cover_letter"
	OpATSScore    = "ats_score"
	OpAnalytics   = "analytics"
	OpATSLatest   = "ats_score_latest"
)

var failureMessages = map[string]string{
	OpSummary:     "Failed to generate summary",
	OpCoverLetter: "Failed to generate cover letter",
	OpATSScore:    "Failed to generate ATS score",
	OpAnalytics:   "Failed to analyze resume",
	OpATSLatest:   "Error generating ATS score",
}

var tracer = otel.Tracer("ai_usecase")

// AIUseCase builds one prompt per request and passes it to the gateway.
// Gateway errors are logged here and replaced with a fixed message.
type AIUseCase struct {
	gateway    service.Gateway
	uploadRepo upload.Repository
	logger     logger.Logger
}

func NewAIUseCase(g service.Gateway, uRepo upload.Repository, log logger.Logger) *AIUseCase {
	return &AIUseCase{gateway: g, uploadRepo: uRepo, logger: log}
}

type SummaryInput struct {
	OwnerID    uuid.UUID
	FullName   string
	Skills     []string
	Experience []resume.Experience
	Projects   []resume.Project
}

type CoverLetterInput struct {
	OwnerID     uuid.UUID
	FullName    string
	Skills      []string
	Experience  []resume.Experience
	JobTitle    string
	CompanyName string
}

type ATSInput struct {
	OwnerID        uuid.UUID
	ResumeText     string
	JobDescription string
}

type ATSLatestOutput struct {
	UploadID uuid.UUID
	Analysis string
	Score    ats.Score
}

func (uc *AIUseCase) Summary(ctx context.Context, in SummaryInput) (string, error) {
	p := prompt.Summary(prompt.SummaryInput{
		FullName:   in.FullName,
		Skills:     in.Skills,
		Experience: in.Experience,
		Projects:   in.Projects,
	})
	return uc.generate(ctx, OpSummary, in.OwnerID, p)
}

func (uc *AIUseCase) CoverLetter(ctx context.Context, in CoverLetterInput) (string, error) {
	p := prompt.CoverLetter(prompt.CoverLetterInput{
		FullName:    in.FullName,
		Skills:      in.Skills,
		Experience:  in.Experience,
		JobTitle:    in.JobTitle,
		CompanyName: in.CompanyName,
	})
	return uc.generate(ctx, OpCoverLetter, in.OwnerID, p)
}

func (uc *AIUseCase) ATSScore(ctx context.Context, in ATSInput) (string, error) {
	p := prompt.ATSScore(prompt.ATSInput{ResumeText: in.ResumeText, JobDescription: in.JobDescription})
	return uc.generate(ctx, OpATSScore, in.OwnerID, p)
}

func (uc *AIUseCase) Analytics(ctx context.Context, ownerID uuid.UUID, resumeText string) (string, error) {
	return uc.generate(ctx, OpAnalytics, ownerID, prompt.Analytics(resumeText))
}

// ATSAgainstLatest scores the caller's most recent upload against a job
// description. ResumeText on the input is ignored.
func (uc *AIUseCase) ATSAgainstLatest(ctx context.Context, in ATSInput) (*ATSLatestOutput, error) {
	up, err := uc.uploadRepo.LatestByOwner(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewAppError(apperror.ErrNotFound, "No resume found for this user", in.OwnerID.String(), nil)
		}
		return nil, err
	}

	p := prompt.ATSAgainstUpload(prompt.ATSInput{ResumeText: up.ExtractedText, JobDescription: in.JobDescription})
	text, err := uc.generate(ctx, OpATSLatest, in.OwnerID, p)
	if err != nil {
		return nil, err
	}
	return &ATSLatestOutput{UploadID: up.ID, Analysis: text, Score: ats.ParseScore(text)}, nil
}

func (uc *AIUseCase) generate(ctx context.Context, op string, ownerID uuid.UUID, p string) (string, error) {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", ownerID.String()), attribute.Int("prompt_length", len(p)))

	l := uc.logger.With(zap.String("operation", op), zap.String("owner_id", ownerID.String()))

	text, err := uc.gateway.Generate(service.WithOperation(ctx, op), p)
	if err != nil {
		l.Error("Model gateway call failed", err)
		span.RecordError(err)
		return "", apperror.NewUpstream(failureMessages[op], err)
	}
	l.Info("Model response generated", zap.Int("response_length", len(text)))
	return text, nil
}
