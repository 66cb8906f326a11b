package pdf

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	lineHeightFactor = 1.45
	bulletGlyph      = "•"
	bulletGap        = 14.0
)

// RasterOptions 栅格化参数
type RasterOptions struct {
	Scale            float64 // 像素缩放倍数
	Background       string  // 背景色 #rrggbb
	AllowCrossOrigin bool    // 是否允许加载跨域资源
}

// DefaultRasterOptions 返回默认栅格化参数
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{Scale: 2, Background: "#ffffff", AllowCrossOrigin: true}
}

// Rasterizer 将视觉表面转换为单张图片
type Rasterizer interface {
	Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (image.Image, error)
}

type faceKey struct {
	size   float64
	bold   bool
	italic bool
}

// fontSet 解析后的字体以及按字号缓存的 face
type fontSet struct {
	regular, bold, italic *truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func loadFontSet() (*fontSet, error) {
	parse := func(name string, ttf []byte) (*truetype.Font, error) {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s TTF: %w", name, err)
		}
		return f, nil
	}

	regular, err := parse("regular", goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := parse("bold", gobold.TTF)
	if err != nil {
		return nil, err
	}
	italic, err := parse("italic", goitalic.TTF)
	if err != nil {
		return nil, err
	}
	return &fontSet{regular: regular, bold: bold, italic: italic, faces: make(map[faceKey]font.Face)}, nil
}

func (fs *fontSet) face(size float64, bold, italic bool) font.Face {
	key := faceKey{size: size, bold: bold, italic: italic}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.faces[key]; ok {
		return f
	}
	ttf := fs.regular
	switch {
	case bold:
		ttf = fs.bold
	case italic:
		ttf = fs.italic
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	fs.faces[key] = f
	return f
}

// placedText 布局完成后的一行文本，坐标为设备像素，Y 为行顶
type placedText struct {
	X, Y  float64
	Text  string
	Right bool
	Style TextStyle
}

type placedRule struct {
	Y, X1, X2 float64
	Thickness float64
	Color     string
}

// layout 栅格化前的排版结果
type layout struct {
	Width, Height int
	Texts         []placedText
	Rules         []placedRule
}

// GGRasterizer 基于 gg 和 Go 字体的栅格化实现；布局中没有外部资源，AllowCrossOrigin 不影响输出
type GGRasterizer struct {
	fonts *fontSet
}

// NewGGRasterizer 创建栅格化器
func NewGGRasterizer() (*GGRasterizer, error) {
	fonts, err := loadFontSet()
	if err != nil {
		return nil, err
	}
	return &GGRasterizer{fonts: fonts}, nil
}

// Rasterize 先测量排版得到总高度，再在同一尺寸的画布上绘制
func (r *GGRasterizer) Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (image.Image, error) {
	if s == nil {
		return nil, fmt.Errorf("rasterize: %w", errNilSurface)
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("rasterize: scale must be positive, got %v", opts.Scale)
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}

	l := r.layout(s, opts.Scale)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(l.Width, l.Height)
	dc.SetHexColor(opts.Background)
	dc.Clear()

	for _, rule := range l.Rules {
		dc.SetHexColor(rule.Color)
		dc.DrawRectangle(rule.X1, rule.Y, rule.X2-rule.X1, rule.Thickness)
		dc.Fill()
	}
	for _, t := range l.Texts {
		dc.SetFontFace(r.fonts.face(t.Style.Size*opts.Scale, t.Style.Bold, t.Style.Italic))
		dc.SetHexColor(t.Style.Color)
		ax := 0.0
		if t.Right {
			ax = 1
		}
		dc.DrawStringAnchored(t.Text, t.X, t.Y, ax, 1)
	}
	return dc.Image(), nil
}

// layout 计算每一行的位置，scale 应用于所有尺寸
func (r *GGRasterizer) layout(s *Surface, scale float64) *layout {
	measure := gg.NewContext(1, 1)
	width := s.Width * scale
	pad := s.Padding * scale
	contentRight := width - pad

	l := &layout{Width: int(math.Ceil(width))}
	y := pad
	for _, e := range s.Elements {
		switch e.Kind {
		case ElementSpace:
			y += e.Height * scale
		case ElementRule:
			t := math.Max(1, e.Height*scale)
			l.Rules = append(l.Rules, placedRule{Y: y, X1: pad, X2: contentRight, Thickness: t, Color: e.Color})
			y += t
		case ElementText:
			size := e.Style.Size * scale
			measure.SetFontFace(r.fonts.face(size, e.Style.Bold, e.Style.Italic))
			lineHeight := size * lineHeightFactor
			x := pad + e.Indent*scale
			if e.Bullet {
				l.Texts = append(l.Texts, placedText{X: x, Y: y, Text: bulletGlyph, Style: e.Style})
				x += bulletGap * scale
			}
			if e.Right != "" {
				l.Texts = append(l.Texts, placedText{X: contentRight, Y: y, Text: e.Right, Right: true, Style: e.Style})
			}
			lines := []string{""}
			if e.Text != "" {
				lines = measure.WordWrap(e.Text, contentRight-x)
			}
			for _, line := range lines {
				if line != "" {
					l.Texts = append(l.Texts, placedText{X: x, Y: y, Text: line, Style: e.Style})
				}
				y += lineHeight
			}
		}
	}
	y += pad

	minHeight := SurfaceMinHeight * scale
	if y < minHeight {
		y = minHeight
	}
	l.Height = int(math.Ceil(y))
	return l
}
