// Package export 实现导出流水线：格式注册、导出互斥以及文件命名
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// Renderer 将课程计划渲染为某种格式的字节流
type Renderer interface {
	// Format 格式名（txt、docx、pdf）
	Format() string
	// Extension 文件扩展名，不带点
	Extension() string
	// Render 写入渲染结果，不得修改 resp
	Render(ctx context.Context, resp *lessonplan.Response, w io.Writer) error
}

// Publisher 将课程计划发送到远程目标
type Publisher interface {
	Target() string
	Publish(ctx context.Context, resp *lessonplan.Response) error
}

// StateKind 导出状态
type StateKind int

const (
	// Idle 空闲
	Idle StateKind = iota
	// Exporting 正在导出
	Exporting
)

// State 导出门状态；Format 仅在 Exporting 时有意义
type State struct {
	Kind   StateKind
	Format string
}

func (s State) String() string {
	if s.Kind == Exporting {
		return "exporting(" + s.Format + ")"
	}
	return "idle"
}

// Result 一次导出的结果
type Result struct {
	Format   string
	Path     string
	Bytes    int
	Duration time.Duration
}

// Manager 管理所有导出，同一时刻最多一个导出在进行
type Manager struct {
	outputDir  string
	logger     *zap.Logger
	renderers  map[string]Renderer
	publishers map[string]Publisher

	mu    sync.Mutex
	state State
}

// Option 定义管理器选项
type Option func(*Manager)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRenderer 注册渲染器
func WithRenderer(r Renderer) Option {
	return func(m *Manager) {
		m.renderers[r.Format()] = r
	}
}

// WithPublisher 注册远程目标
func WithPublisher(p Publisher) Option {
	return func(m *Manager) {
		m.publishers[p.Target()] = p
	}
}

// NewManager 创建导出管理器
func NewManager(outputDir string, opts ...Option) *Manager {
	if outputDir == "" {
		outputDir = "."
	}
	m := &Manager{
		outputDir:  outputDir,
		logger:     zap.NewNop(),
		renderers:  make(map[string]Renderer),
		publishers: make(map[string]Publisher),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State 返回当前导出状态
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Formats 返回已注册的本地格式
func (m *Manager) Formats() []string {
	formats := make([]string, 0, len(m.renderers))
	for f := range m.renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Targets 返回已注册的远程目标
func (m *Manager) Targets() []string {
	targets := make([]string, 0, len(m.publishers))
	for t := range m.publishers {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// acquire 从 Idle 进入 Exporting，已在导出时直接拒绝
func (m *Manager) acquire(format string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Kind == Exporting {
		m.logger.Warn("export rejected",
			zap.String("requested", format),
			zap.String("state", m.state.String()))
		return lessonplan.ErrExportInProgress
	}
	m.state = State{Kind: Exporting, Format: format}
	return nil
}

func (m *Manager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{Kind: Idle}
}

// Export 渲染并写出文件 plano_de_aula_<title>.<ext>
//
// 渲染在内存中完成后才写文件，失败时不会留下不完整的文件。
func (m *Manager) Export(ctx context.Context, resp *lessonplan.Response, format string) (*Result, error) {
	r, ok := m.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err := m.acquire(format); err != nil {
		return nil, err
	}
	defer m.release()

	start := time.Now()
	log := m.logger.With(zap.String("format", format))
	log.Info("export started")

	if resp == nil {
		return nil, lessonplan.NewError(lessonplan.KindRenderPrecondition, "no lesson plan to export", lessonplan.ErrNilDocument)
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, resp, &buf); err != nil {
		log.Error("render failed", zap.Error(err))
		if lessonplan.KindOf(err) != "" {
			return nil, err
		}
		return nil, lessonplan.NewError(lessonplan.KindExport, "render "+format, err)
	}

	path := filepath.Join(m.outputDir, FileName(resp.Plan.Title, r.Extension()))
	if err := writeFile(path, buf.Bytes()); err != nil {
		log.Error("write failed", zap.String("path", path), zap.Error(err))
		return nil, lessonplan.NewError(lessonplan.KindExport, "write "+path, err)
	}

	res := &Result{Format: format, Path: path, Bytes: buf.Len(), Duration: time.Since(start)}
	log.Info("export completed",
		zap.String("path", path),
		zap.Int("bytes", res.Bytes),
		zap.Duration("elapsed", res.Duration))
	return res, nil
}

// Publish 通过同一导出门发送到远程目标
func (m *Manager) Publish(ctx context.Context, resp *lessonplan.Response, target string) error {
	p, ok := m.publishers[target]
	if !ok {
		return fmt.Errorf("unsupported publish target: %s", target)
	}
	if err := m.acquire(target); err != nil {
		return err
	}
	defer m.release()

	if resp == nil {
		return lessonplan.NewError(lessonplan.KindRenderPrecondition, "no lesson plan to publish", lessonplan.ErrNilDocument)
	}
	return p.Publish(ctx, resp)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
