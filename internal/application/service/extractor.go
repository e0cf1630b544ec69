package service

import "context"

type TextExtractor interface {
	// Extract returns the plain text of data. contentType may be empty, in
	// which case the type is sniffed from the bytes.
	Extract(ctx context.Context, contentType string, data []byte) (string, error)
	Supports(contentType string) bool
	// Detect sniffs the media type from the file header.
	Detect(data []byte) string
}
