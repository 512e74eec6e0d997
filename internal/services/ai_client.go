package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/linguaspark/linguaspark-backend/internal/platform/gemini"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/platform/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type AIConfig struct {
	// Provider is "openrouter" or "gemini". Empty picks whichever has a key,
	// preferring OpenRouter.
	Provider   string
	OpenRouter openrouter.Config
	Gemini     gemini.Config
}

func NewAIClient(ctx context.Context, log *logger.Logger, cfg AIConfig) (llm.Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case strings.TrimSpace(cfg.OpenRouter.APIKey) != "":
			provider = ProviderOpenRouter
		case strings.TrimSpace(cfg.Gemini.APIKey) != "":
			provider = ProviderGemini
		default:
			return nil, fmt.Errorf("no AI provider configured: set OPENROUTER_API_KEY or GEMINI_API_KEY")
		}
	}
	var (
		client llm.Client
		err    error
	)
	switch provider {
	case ProviderOpenRouter:
		client, err = openrouter.NewClient(log, cfg.OpenRouter)
	case ProviderGemini:
		client, err = gemini.NewClient(ctx, log, cfg.Gemini)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s client: %w", provider, err)
	}
	log.Info("AI client ready", "provider", client.Provider())
	return client, nil
}
