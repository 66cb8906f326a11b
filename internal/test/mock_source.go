package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
)

// MockSource 是一个模拟的片段来源
type MockSource struct {
	mock.Mock
}

// Stream 返回预先设置的通道
func (m *MockSource) Stream(ctx context.Context, req *lessonplan.Request) (<-chan providers.Fragment, error) {
	args := m.Called(ctx, req)
	ch, _ := args.Get(0).(<-chan providers.Fragment)
	return ch, args.Error(1)
}

// Name 返回来源名称
func (m *MockSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// FragmentChannel 将文本与可选的结束错误装入已关闭的缓冲通道
func FragmentChannel(texts []string, err error) <-chan providers.Fragment {
	ch := make(chan providers.Fragment, len(texts)+1)
	for _, t := range texts {
		ch <- providers.Fragment{Text: t}
	}
	if err != nil {
		ch <- providers.Fragment{Err: err}
	}
	close(ch)
	return ch
}
