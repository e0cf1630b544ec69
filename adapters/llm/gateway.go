// Package llm holds the model gateways. Only the server process holds the
// provider key; clients never talk to a provider directly.
package llm

import (
	"context"
	"fmt"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

func NewGateway(ctx context.Context, cfg config.Config, log logger.Logger) (service.Gateway, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return NewGeminiAdapter(ctx, cfg, log)
	case "openai":
		return NewOpenAIAdapter(cfg, log)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}
