package pdf

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

const rasterImageName = "lesson-plan"

var errNilSurface = errors.New("visual surface is nil")

// Option 定义渲染器选项
type Option func(*Renderer)

// WithRasterizer 替换栅格化实现
func WithRasterizer(r Rasterizer) Option {
	return func(rd *Renderer) {
		rd.rasterizer = r
	}
}

// WithRasterOptions 设置栅格化参数
func WithRasterOptions(opts RasterOptions) Option {
	return func(rd *Renderer) {
		rd.options = opts
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(rd *Renderer) {
		if logger != nil {
			rd.logger = logger
		}
	}
}

// WithClock 设置页脚日期的时间来源
func WithClock(now func() time.Time) Option {
	return func(rd *Renderer) {
		rd.now = now
	}
}

// Renderer 分页视觉渲染器
type Renderer struct {
	rasterizer Rasterizer
	options    RasterOptions
	logger     *zap.Logger
	now        func() time.Time
}

// NewRenderer 创建 PDF 渲染器，默认使用 GGRasterizer
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		options: DefaultRasterOptions(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rasterizer == nil {
		gr, err := NewGGRasterizer()
		if err != nil {
			return nil, err
		}
		r.rasterizer = gr
	}
	return r, nil
}

// Format 返回格式名
func (r *Renderer) Format() string { return "pdf" }

// Extension 返回文件扩展名
func (r *Renderer) Extension() string { return "pdf" }

// Render 构建打印布局并输出 PDF
func (r *Renderer) Render(ctx context.Context, resp *lessonplan.Response, w io.Writer) error {
	if resp == nil {
		return lessonplan.ErrNilDocument
	}
	return r.RenderSurface(ctx, BuildSurface(resp, r.now()), w)
}

// RenderSurface 栅格化给定表面并按 A4 切片输出
func (r *Renderer) RenderSurface(ctx context.Context, s *Surface, w io.Writer) error {
	if s == nil {
		return lessonplan.NewError(lessonplan.KindRenderPrecondition, "print template not found", errNilSurface)
	}

	start := time.Now()
	img, err := r.rasterizer.Rasterize(ctx, s, r.options)
	if err != nil {
		return lessonplan.NewError(lessonplan.KindExport, "rasterize surface", err)
	}
	bounds := img.Bounds()

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return lessonplan.NewError(lessonplan.KindExport, "encode raster", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetTitle(s.Title, true)
	doc.SetCreator(Producer, true)

	pageW, pageH := doc.GetPageSize()
	pages := Paginate(bounds.Dx(), bounds.Dy(), pageW, pageH)

	imgOpts := fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	doc.RegisterImageOptionsReader(rasterImageName, imgOpts, &encoded)
	for _, p := range pages.Placements {
		doc.AddPage()
		doc.ImageOptions(rasterImageName, 0, p.Y, pages.ImageWidth, pages.ImageHeight, false, imgOpts, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return lessonplan.NewError(lessonplan.KindExport, "write pdf", err)
	}

	r.logger.Debug("pdf rendered",
		zap.Int("rasterWidth", bounds.Dx()),
		zap.Int("rasterHeight", bounds.Dy()),
		zap.Int("pages", pages.Pages()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
