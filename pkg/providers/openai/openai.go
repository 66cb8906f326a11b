package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
)

// DefaultModel 默认模型
const DefaultModel = "gpt-4o-mini"

// getModel 根据字符串获取模型常量
func getModel(model string) openai.ChatModel {
	switch model {
	case "gpt-4o":
		return openai.ChatModelGPT4o
	case "gpt-4o-mini":
		return openai.ChatModelGPT4oMini
	default:
		// 对于新模型或兼容服务的自定义模型，使用字符串
		return openai.ChatModel(model)
	}
}

// Config OpenAI配置（使用官方SDK）
type Config struct {
	providers.BaseConfig
	MaxTokens  int                     `json:"max_tokens"`
	OrgID      string                  `json:"org_id,omitempty"` // 可选的组织ID
	References providers.ReferenceData `json:"-"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	cfg := Config{
		BaseConfig: providers.DefaultConfig(),
		MaxTokens:  8192,
		References: providers.EmptyReferenceData(),
	}
	cfg.Model = DefaultModel
	return cfg
}

// Source OpenAI 兼容接口的文本流来源
type Source struct {
	config Config
	client openai.Client
	logger *zap.Logger
}

// 确保 Source 实现 providers.Source 接口
var _ providers.Source = (*Source)(nil)

// New 创建新的 OpenAI 来源
func New(config Config, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	// 构建客户端选项
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// 不自动重试，由用户重新触发
		option.WithMaxRetries(0),
	}

	// 添加自定义端点（如果有）
	if config.APIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(config.APIEndpoint))
	}

	// 添加组织ID（如果有）
	if config.OrgID != "" {
		opts = append(opts, option.WithOrganization(config.OrgID))
	}

	// 添加自定义头部
	for k, v := range config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &Source{
		config: config,
		client: openai.NewClient(opts...),
		logger: logger.With(zap.String("provider", "openai")),
	}, nil
}

// Name 获取提供商名称
func (s *Source) Name() string {
	return "openai"
}

// Stream 流式生成（返回channel）
func (s *Source) Stream(ctx context.Context, req *lessonplan.Request) (<-chan providers.Fragment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 构建消息
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(providers.SystemInstruction(s.config.References)),
		openai.UserMessage(providers.UserPrompt(req)),
	}

	// 创建流式请求
	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    getModel(s.config.Model),
	}

	// 设置可选参数
	if s.config.Temperature > 0 {
		params.Temperature = openai.Float(s.config.Temperature)
	}
	if s.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.config.MaxTokens))
	}

	stream := s.client.Chat.Completions.NewStreaming(ctx, params)
	out := make(chan providers.Fragment)

	// 在goroutine中处理流
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !providers.SendFragment(ctx, out, providers.Fragment{
				Text:  chunk.Choices[0].Delta.Content,
				Model: chunk.Model,
			}) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			s.logger.Warn("openai stream failed", zap.Error(err))
			providers.SendFragment(ctx, out, providers.Fragment{Err: err})
		}
	}()

	return out, nil
}
