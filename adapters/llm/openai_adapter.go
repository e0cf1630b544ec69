package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/logger"
)

type openAIAdapter struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOpenAIAdapter works against OpenAI or any server speaking its chat
// completions API (Ollama, vLLM) when AI_BASE_URL is set.
func NewOpenAIAdapter(cfg config.Config, log logger.Logger) (service.Gateway, error) {
	if cfg.AI.APIKey == "" && cfg.AI.BaseURL == "" {
		return nil, fmt.Errorf("openai api key or base url is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		clientCfg.BaseURL = cfg.AI.BaseURL
	}

	log.Info("OpenAI-compatible gateway initialized",
		zap.String("model", cfg.AI.Model),
		zap.String("base_url", clientCfg.BaseURL))
	return &openAIAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.AI.Model,
		log:    log,
	}, nil
}

func (a *openAIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (a *openAIAdapter) Model() string {
	return a.model
}
