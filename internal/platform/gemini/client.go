package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const providerName = "gemini"

type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

type client struct {
	log   *logger.Logger
	genai *genai.Client
	cfg   Config
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (llm.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &client{log: log.With("service", "GeminiClient"), genai: gc, cfg: cfg}, nil
}

func (c *client) Provider() string { return providerName }

func (c *client) Prompt(ctx context.Context, prompt string, opts llm.Options) (llm.Completion, error) {
	if strings.TrimSpace(prompt) == "" {
		return llm.Completion{}, fmt.Errorf("prompt required")
	}
	temp := float32(c.cfg.Temperature)
	if opts.Temperature != nil {
		temp = float32(*opts.Temperature)
	}
	maxTokens := c.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	gcfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(maxTokens),
	}
	if opts.JSON {
		gcfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), gcfg)
	if err != nil {
		return llm.Completion{}, wrapError(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return llm.Completion{}, fmt.Errorf("gemini: empty completion")
	}
	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return llm.Completion{Text: text, TokensUsed: tokens, Model: c.cfg.Model}, nil
}

// wrapError converts genai API errors into llm.ProviderError so the
// classifier sees status and provider code; other errors pass through.
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Code:       apiErr.Status,
			Message:    apiErr.Message,
		}
	}
	return err
}
