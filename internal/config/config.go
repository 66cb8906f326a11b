package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// GeminiConfig Gemini 提供商配置
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// OpenAIConfig OpenAI 兼容提供商配置
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	OrgID       string  `mapstructure:"org_id"`
}

// ReplayConfig 回放来源配置
type ReplayConfig struct {
	File      string `mapstructure:"file"`       // 已保存的响应文件
	ChunkSize int    `mapstructure:"chunk_size"` // 每个片段的字符数
	DelayMs   int    `mapstructure:"delay_ms"`   // 片段间延迟（毫秒）
}

// ReferenceConfig BNCC/SAEB 参考数据
type ReferenceConfig struct {
	BNCCPath string `mapstructure:"bncc_path"`
	SAEBPath string `mapstructure:"saeb_path"`
}

// ProgressConfig 进度估计配置
type ProgressConfig struct {
	ExpectedLength int `mapstructure:"expected_length"` // 完整文档的经验平均字符数
}

// ExportConfig 导出配置
type ExportConfig struct {
	OutputDir        string  `mapstructure:"output_dir"`
	RasterScale      float64 `mapstructure:"raster_scale"`       // 栅格化缩放倍数
	Background       string  `mapstructure:"background"`         // 栅格背景色（#rrggbb）
	AllowCrossOrigin bool    `mapstructure:"allow_cross_origin"` // 允许跨域资源
	PageSize         string  `mapstructure:"page_size"`          // 纸张尺寸，目前仅支持 A4
}

// Config 保存所有配置
type Config struct {
	Provider  string          `mapstructure:"provider"` // gemini | openai | replay
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Replay    ReplayConfig    `mapstructure:"replay"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Export    ExportConfig    `mapstructure:"export"`
	Debug     bool            `mapstructure:"debug"`
	LogLevel  string          `mapstructure:"log_level"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 查找家目录中的配置文件
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".ecolesson")
		v.SetConfigType("yaml")
	}

	// 读取环境变量，例如 ECOLESSON_GEMINI_API_KEY
	v.SetEnvPrefix("ECOLESSON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// 兼容常见的无前缀环境变量
	if config.Gemini.APIKey == "" {
		config.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if config.OpenAI.APIKey == "" {
		config.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 检查配置
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "replay":
	default:
		return fmt.Errorf("unsupported provider: %q", c.Provider)
	}
	if c.Progress.ExpectedLength <= 0 {
		return fmt.Errorf("progress.expected_length must be positive")
	}
	if c.Export.RasterScale <= 0 {
		return fmt.Errorf("export.raster_scale must be positive")
	}
	if !strings.EqualFold(c.Export.PageSize, "A4") {
		return fmt.Errorf("unsupported page size: %q", c.Export.PageSize)
	}
	return nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   8192,
		},
		Replay: ReplayConfig{
			ChunkSize: 64,
		},
		Progress: ProgressConfig{
			ExpectedLength: 4500,
		},
		Export: ExportConfig{
			OutputDir:        ".",
			RasterScale:      2,
			Background:       "#ffffff",
			AllowCrossOrigin: true,
			PageSize:         "A4",
		},
		LogLevel: "info",
	}
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("provider", d.Provider)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.endpoint", "")
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.temperature", d.Gemini.Temperature)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.temperature", d.OpenAI.Temperature)
	v.SetDefault("openai.max_tokens", d.OpenAI.MaxTokens)
	v.SetDefault("openai.org_id", "")

	v.SetDefault("replay.file", "")
	v.SetDefault("replay.chunk_size", d.Replay.ChunkSize)
	v.SetDefault("replay.delay_ms", d.Replay.DelayMs)

	v.SetDefault("reference.bncc_path", "")
	v.SetDefault("reference.saeb_path", "")

	v.SetDefault("progress.expected_length", d.Progress.ExpectedLength)

	v.SetDefault("export.output_dir", d.Export.OutputDir)
	v.SetDefault("export.raster_scale", d.Export.RasterScale)
	v.SetDefault("export.background", d.Export.Background)
	v.SetDefault("export.allow_cross_origin", d.Export.AllowCrossOrigin)
	v.SetDefault("export.page_size", d.Export.PageSize)
}
