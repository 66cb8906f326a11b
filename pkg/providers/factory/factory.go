package factory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/config"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
	"github.com/promarceloborges/Ecolesson/pkg/providers/gemini"
	"github.com/promarceloborges/Ecolesson/pkg/providers/openai"
	"github.com/promarceloborges/Ecolesson/pkg/providers/replay"
)

// CreateSource 根据配置创建文本流来源
func CreateSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (providers.Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case "gemini":
		return createGeminiSource(ctx, cfg, logger)
	case "openai":
		return createOpenAISource(cfg, logger)
	case "replay":
		return createReplaySource(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
}

// createGeminiSource 创建 Gemini 来源
func createGeminiSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (providers.Source, error) {
	gc := gemini.DefaultConfig()
	gc.APIKey = cfg.Gemini.APIKey
	gc.APIEndpoint = cfg.Gemini.Endpoint
	if cfg.Gemini.Model != "" {
		gc.Model = cfg.Gemini.Model
	}
	gc.Temperature = cfg.Gemini.Temperature
	gc.References = providers.LoadReferenceData(cfg.Reference.BNCCPath, cfg.Reference.SAEBPath, logger)

	src, err := gemini.New(ctx, gc, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// createOpenAISource 创建 OpenAI 来源
func createOpenAISource(cfg *config.Config, logger *zap.Logger) (providers.Source, error) {
	oc := openai.DefaultConfig()
	oc.APIKey = cfg.OpenAI.APIKey
	oc.APIEndpoint = cfg.OpenAI.BaseURL
	if cfg.OpenAI.Model != "" {
		oc.Model = cfg.OpenAI.Model
	}
	oc.Temperature = cfg.OpenAI.Temperature
	if cfg.OpenAI.MaxTokens > 0 {
		oc.MaxTokens = cfg.OpenAI.MaxTokens
	}
	oc.OrgID = cfg.OpenAI.OrgID
	oc.References = providers.LoadReferenceData(cfg.Reference.BNCCPath, cfg.Reference.SAEBPath, logger)

	src, err := openai.New(oc, logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// createReplaySource 创建回放来源
func createReplaySource(cfg *config.Config) (providers.Source, error) {
	if cfg.Replay.File == "" {
		return nil, fmt.Errorf("replay provider requires replay.file")
	}
	var opts []replay.Option
	if cfg.Replay.DelayMs > 0 {
		opts = append(opts, replay.WithDelay(time.Duration(cfg.Replay.DelayMs)*time.Millisecond))
	}
	src, err := replay.FromFile(cfg.Replay.File, cfg.Replay.ChunkSize, opts...)
	if err != nil {
		return nil, err
	}
	return src, nil
}
