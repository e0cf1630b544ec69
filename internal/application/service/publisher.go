package service

import (
	"context"

	"github.com/google/uuid"
)

type UploadEventPublisher interface {
	PublishResumeUploaded(ctx context.Context, uploadID, ownerID uuid.UUID) error
}
