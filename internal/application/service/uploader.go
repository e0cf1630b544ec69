package service

import (
	"context"
	"io"
)

// Uploader stores an uploaded file and returns a URL that references it.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID, contentType string) (string, error)
	Delete(ctx context.Context, folder, publicID string) error
}
