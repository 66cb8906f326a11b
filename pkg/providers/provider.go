// Package providers 定义了模型文本流的来源接口以及各提供商共享的提示词、参考数据与错误分类
package providers

import (
	"context"
	"time"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`
	Model       string `json:"model"`

	// 生成参数
	Temperature float64 `json:"temperature"`

	// 请求超时（仅作用于建立连接，不限制流本身）
	Timeout time.Duration `json:"timeout"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Temperature: 0.7,
		Headers:     make(map[string]string),
	}
}

// Fragment 流式响应块
//
// Err 非空表示流以错误结束，此时 Text 无意义且通道随后关闭。
type Fragment struct {
	Text  string
	Model string
	Err   error
}

// Source 文本片段来源
type Source interface {
	// Stream 发起一次生成，返回按到达顺序输出片段的通道。
	// 通道正常关闭表示完成；错误通过最后一个带 Err 的片段传递。
	Stream(ctx context.Context, req *lessonplan.Request) (<-chan Fragment, error)

	// Name 获取提供商名称
	Name() string
}

// SendFragment 在上下文未取消时发送片段，返回是否发送成功
func SendFragment(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
