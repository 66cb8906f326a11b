// Package replay 提供一个确定性的文本流来源：按固定大小回放已保存的响应
package replay

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
)

// DefaultChunkSize 默认每个片段的字符数
const DefaultChunkSize = 64

// Source 回放来源
type Source struct {
	fragments []string
	err       error
	delay     time.Duration
}

var _ providers.Source = (*Source)(nil)

// Option 回放来源选项
type Option func(*Source)

// WithError 在所有片段之后以错误结束
func WithError(err error) Option {
	return func(s *Source) {
		s.err = err
	}
}

// WithDelay 设置片段之间的延迟
func WithDelay(d time.Duration) Option {
	return func(s *Source) {
		s.delay = d
	}
}

// New 按给定顺序回放片段
func New(fragments []string, opts ...Option) *Source {
	s := &Source{fragments: fragments}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromText 将文本按字符数切分后回放
func FromText(text string, chunkSize int, opts ...Option) *Source {
	return New(Split(text, chunkSize), opts...)
}

// FromFile 回放文件内容
func FromFile(path string, chunkSize int, opts ...Option) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	return FromText(string(raw), chunkSize, opts...), nil
}

// Split 按字符（rune）数切分文本，不会拆开多字节字符
func Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Name 获取提供商名称
func (s *Source) Name() string {
	return "replay"
}

// Stream 回放片段
func (s *Source) Stream(ctx context.Context, req *lessonplan.Request) (<-chan providers.Fragment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := make(chan providers.Fragment)
	go func() {
		defer close(out)
		for _, text := range s.fragments {
			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return
				}
			}
			if !providers.SendFragment(ctx, out, providers.Fragment{Text: text, Model: "replay"}) {
				return
			}
		}
		if s.err != nil {
			providers.SendFragment(ctx, out, providers.Fragment{Err: s.err})
		}
	}()
	return out, nil
}
