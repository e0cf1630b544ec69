package upload

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResumeUpload records one file ingestion. It is written once and never
// updated.
type ResumeUpload struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"user"`
	FileName      string    `json:"fileName"`
	ContentType   string    `json:"contentType"`
	FileURL       string    `json:"fileUrl"`
	ExtractedText string    `json:"extractedText"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Analysis is the background analytics report produced for an upload.
type Analysis struct {
	UploadID  uuid.UUID `json:"uploadId"`
	OwnerID   uuid.UUID `json:"user"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Save(ctx context.Context, u *ResumeUpload) error
	FindByID(ctx context.Context, id uuid.UUID) (*ResumeUpload, error)
	// LatestByOwner returns the most recently created upload of ownerID.
	LatestByOwner(ctx context.Context, ownerID uuid.UUID) (*ResumeUpload, error)
	// SaveAnalysis is idempotent per upload; a redelivered event overwrites.
	SaveAnalysis(ctx context.Context, a *Analysis) error
	FindAnalysis(ctx context.Context, uploadID uuid.UUID) (*Analysis, error)
}
