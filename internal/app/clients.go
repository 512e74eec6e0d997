package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linguaspark/linguaspark-backend/internal/platform/contentstore"
	"github.com/linguaspark/linguaspark-backend/internal/platform/gemini"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/platform/openrouter"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

const contentKeyPrefix = "linguaspark:content"

type Clients struct {
	AI      llm.Client
	Redis   *goredis.Client
	Content contentstore.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := services.NewAIClient(ctx, log, services.AIConfig{
		Provider: cfg.AIProvider,
		OpenRouter: openrouter.Config{
			APIKey:     cfg.OpenRouterAPIKey,
			BaseURL:    cfg.OpenRouterBaseURL,
			Model:      cfg.OpenRouterModel,
			MaxRetries: cfg.AIMaxRetries,
			Title:      "LinguaSpark",
		},
		Gemini: gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		},
	})
	if err != nil {
		return Clients{}, err
	}

	opts := contentstore.Options{TTL: cfg.ContentTTL, Capacity: cfg.ContentCapacity}
	if cfg.RedisAddr == "" {
		log.Info("content hand-off store in memory", "ttl", cfg.ContentTTL.String(), "capacity", cfg.ContentCapacity)
		return Clients{AI: ai, Content: contentstore.NewMemory(opts)}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("content hand-off store on redis", "addr", cfg.RedisAddr)
	return Clients{
		AI:      ai,
		Redis:   rdb,
		Content: contentstore.NewRedis(rdb, contentKeyPrefix, opts),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
