// Package stream 实现文本片段的累积、进度估计以及最终的 JSON 定稿
package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
)

// Accumulator 按到达顺序拼接片段的缓冲区
//
// 一个 Accumulator 只属于一次请求，不跨请求复用。
type Accumulator struct {
	buf strings.Builder
}

// Append 追加一个片段，空片段不产生任何效果，返回是否发生了变化
func (a *Accumulator) Append(fragment string) bool {
	if fragment == "" {
		return false
	}
	a.buf.WriteString(fragment)
	return true
}

// String 返回当前缓冲区
func (a *Accumulator) String() string {
	return a.buf.String()
}

// Len 返回当前缓冲区的字节长度
func (a *Accumulator) Len() int {
	return a.buf.Len()
}

// Reset 丢弃缓冲区
func (a *Accumulator) Reset() {
	a.buf.Reset()
}

// UpdateFunc 每追加一个非空片段后以最新缓冲区调用
type UpdateFunc func(buffer string)

// Accumulate 消费片段通道直到其关闭，返回完整缓冲区
//
// 来源以错误结束时丢弃已累积的内容并返回传输错误；上下文取消时返回包装了 ctx.Err() 的 lessonplan.ErrCancelled。
func Accumulate(ctx context.Context, fragments <-chan providers.Fragment, onUpdate UpdateFunc) (string, error) {
	var acc Accumulator
	for {
		select {
		case <-ctx.Done():
			acc.Reset()
			return "", fmt.Errorf("%w: %w", lessonplan.ErrCancelled, ctx.Err())
		case f, ok := <-fragments:
			if !ok {
				return acc.String(), nil
			}
			if f.Err != nil {
				acc.Reset()
				return "", providers.ClassifyError(f.Err)
			}
			if acc.Append(f.Text) && onUpdate != nil {
				onUpdate(acc.String())
			}
		}
	}
}
