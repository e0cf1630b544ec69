package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

type geminiAdapter struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

// NewGeminiAdapter talks to the Gemini API with the server's own key.
func NewGeminiAdapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.Gateway, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot init gemini client: %w", err)
	}

	log.Info("Gemini gateway initialized", zap.String("model", cfg.AI.Model))
	return &geminiAdapter{client: client, model: cfg.AI.Model, log: log}, nil
}

func (a *geminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

func (a *geminiAdapter) Model() string {
	return a.model
}
