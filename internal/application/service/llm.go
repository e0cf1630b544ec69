package service

import (
	"context"
)

// Gateway sends one prompt to a hosted text model and returns the whole
// response. Implementations select a single fixed model and never retry.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}
