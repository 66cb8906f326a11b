// Package generator 管理一次课程计划生成请求的生命周期：打开数据流、汇报进度、定稿
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/stream"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
)

// ProgressFunc 接收进度快照
type ProgressFunc func(requestID string, p stream.Progress)

// Option 定义生成器选项
type Option func(*Generator)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithEstimator 设置进度估计器
func WithEstimator(e *stream.Estimator) Option {
	return func(g *Generator) {
		if e != nil {
			g.estimator = e
		}
	}
}

// Generator 同一时刻只服务一个请求，新请求会取消正在进行的请求
type Generator struct {
	source    providers.Source
	estimator *stream.Estimator
	logger    *zap.Logger

	// emitMu 串行化进度回调与请求切换：begin 和 Cancel 会等待正在执行的回调返回
	emitMu sync.Mutex

	mu         sync.Mutex
	seq        uint64
	superseded uint64 // 最近一次被新请求取代的序号
	current    string
	cancel     context.CancelFunc
}

// New 创建生成器
func New(source providers.Source, opts ...Option) *Generator {
	g := &Generator{
		source:    source,
		estimator: stream.NewEstimator(stream.DefaultExpectedLength),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 执行一次生成并返回定稿后的课程计划
//
// 进度回调只针对仍然是当前请求的数据调用，回调内不能再调用 Generate 或 Cancel。
// 请求被取代时返回 lessonplan.ErrSuperseded，被取消时返回 lessonplan.ErrCancelled。
func (g *Generator) Generate(ctx context.Context, req *lessonplan.Request, onProgress ProgressFunc) (*lessonplan.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	ctx, seq, requestID := g.begin(ctx)
	defer g.end(seq)

	log := g.logger.With(zap.String("requestID", requestID), zap.String("source", g.source.Name()))
	log.Info("generation started",
		zap.String("knowledgeObject", req.KnowledgeObject),
		zap.Int("durationMin", req.LessonDurationMin),
		zap.Int("lessonCount", req.LessonCount),
		zap.String("detailLevel", string(req.DetailLevel)))
	start := time.Now()

	emit := func(p stream.Progress) {
		if onProgress == nil {
			return
		}
		g.emitMu.Lock()
		defer g.emitMu.Unlock()
		if g.isCurrent(seq) {
			onProgress(requestID, p)
		}
	}
	emit(g.estimator.Estimate(""))

	fragments, err := g.source.Stream(ctx, req)
	if err != nil {
		if ctx.Err() != nil || !g.isCurrent(seq) {
			return nil, g.abortReason(ctx, seq)
		}
		log.Error("failed to open fragment source", zap.Error(err))
		return nil, providers.ClassifyError(err)
	}

	buffer, err := stream.Accumulate(ctx, fragments, func(buf string) {
		emit(g.estimator.Estimate(buf))
	})
	// 取代或取消优先于来源报告的任何错误
	if ctx.Err() != nil || !g.isCurrent(seq) {
		err = g.abortReason(ctx, seq)
	}
	if err != nil {
		log.Warn("generation aborted", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	resp, err := stream.Finalize(buffer)
	if err != nil {
		log.Error("failed to finalize response", zap.Error(err), zap.Int("bufferLength", len(buffer)))
		return nil, err
	}

	emit(g.estimator.Complete())
	log.Info("generation completed",
		zap.String("title", resp.Plan.Title),
		zap.Int("stages", len(resp.Plan.Methodology)),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// Cancel 取消正在进行的请求（如果有）
func (g *Generator) Cancel() {
	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.seq++
	g.current = ""
}

// CurrentRequest 返回当前请求的 ID，空闲时为空
func (g *Generator) CurrentRequest() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

func (g *Generator) begin(parent context.Context) (context.Context, uint64, string) {
	ctx, cancel := context.WithCancel(parent)

	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.logger.Info("superseding in-flight request", zap.String("requestID", g.current))
		g.cancel()
		g.superseded = g.seq
	}
	g.seq++
	g.cancel = cancel
	g.current = uuid.NewString()
	return ctx, g.seq, g.current
}

func (g *Generator) end(seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seq != seq {
		return
	}
	if g.cancel != nil {
		g.cancel()
	}
	g.cancel = nil
	g.current = ""
}

func (g *Generator) isCurrent(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq == seq
}

func (g *Generator) wasSuperseded(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.superseded == seq
}

// abortReason 返回不再是当前请求时的错误：被新请求取代，或者被取消
func (g *Generator) abortReason(ctx context.Context, seq uint64) error {
	if g.wasSuperseded(seq) {
		return lessonplan.ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", lessonplan.ErrCancelled, err)
	}
	return lessonplan.ErrCancelled
}
