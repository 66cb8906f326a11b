package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/test"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

const (
	a4Width  = 210.0
	a4Height = 297.0
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		rasterHeight int
		wantPages    int
	}{
		{"shorter than a page", 1000, 1},
		{"exactly one page", 2970, 1},
		{"just over one page", 2971, 2},
		{"2.3 pages", 6831, 3},
		{"exactly three pages", 8910, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Paginate(2100, tt.rasterHeight, a4Width, a4Height)
			assert.Equal(t, tt.wantPages, l.Pages())
			assert.Equal(t, a4Width, l.ImageWidth)
			assert.InDelta(t, float64(tt.rasterHeight)/10, l.ImageHeight, 1e-9)
		})
	}
}

func TestPaginateOffsets(t *testing.T) {
	l := Paginate(2100, 6831, a4Width, a4Height)
	require.Len(t, l.Placements, 3)

	assert.Equal(t, Placement{Page: 1, Y: 0}, l.Placements[0])
	for i, p := range l.Placements {
		assert.Equal(t, i+1, p.Page)
		assert.InDelta(t, -float64(i)*a4Height, p.Y, 1e-9)
	}
}

func TestPaginateInvalid(t *testing.T) {
	assert.Zero(t, Paginate(0, 100, a4Width, a4Height).Pages())
	assert.Zero(t, Paginate(100, 100, a4Width, 0).Pages())
}

func TestBuildSurface(t *testing.T) {
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := BuildSurface(test.SamplePlan(), date)

	assert.Equal(t, SurfaceWidth, s.Width)
	texts := s.Texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, "FOTOSSÍNTESE: A ENERGIA DAS PLANTAS", texts[0])

	joined := strings.Join(texts, "\n")
	order := []string{
		"Ciências • 7º ano",
		"1. FUNDAMENTAÇÃO PEDAGÓGICA",
		"EF07CI07: Caracterizar os principais ecossistemas brasileiros.",
		"2. METODOLOGIA E ATIVIDADES",
		"Abertura (10 min)",
		"Desenvolvimento (30 min)",
		"Fechamento (10 min)",
		"3. AVALIAÇÃO",
		"4. RECURSOS E ADAPTAÇÕES",
		"[VÍDEO] Como as plantas se alimentam",
		"5. OBSERVAÇÕES",
		"Gerado por EcoLesson",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(joined, want)
		require.GreaterOrEqual(t, idx, 0, "missing %q", want)
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}

	var header, footer *Element
	for i := range s.Elements {
		switch s.Elements[i].Text {
		case "Ciências • 7º ano":
			header = &s.Elements[i]
		case "Gerado por EcoLesson":
			footer = &s.Elements[i]
		}
	}
	require.NotNil(t, header)
	require.NotNil(t, footer)
	assert.Equal(t, "Duração: 50 min (1 aulas)", header.Right)
	assert.Equal(t, "10/03/2026", footer.Right)
}

func TestBuildSurfaceSkipsEmptyObservations(t *testing.T) {
	plan := test.SamplePlan()
	plan.Plan.Observations = ""
	plan.Plan.Methodology[0].Resources = []string{}

	joined := strings.Join(BuildSurface(plan, time.Now()).Texts(), "\n")
	assert.NotContains(t, joined, "OBSERVAÇÕES")
	assert.NotContains(t, joined, "Recursos: \n")
}

func TestGGRasterizer(t *testing.T) {
	r, err := NewGGRasterizer()
	require.NoError(t, err)

	s := BuildSurface(test.SamplePlan(), time.Now())
	img, err := r.Rasterize(context.Background(), s, RasterOptions{Scale: 1, Background: "#ffffff"})
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 794, b.Dx())
	assert.GreaterOrEqual(t, b.Dy(), 1123)

	// 左上角是背景色
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{cr, cg, cb})

	_, err = r.Rasterize(context.Background(), nil, DefaultRasterOptions())
	assert.Error(t, err)
	_, err = r.Rasterize(context.Background(), s, RasterOptions{Scale: 0})
	assert.Error(t, err)
}

func TestGGRasterizerScale(t *testing.T) {
	r, err := NewGGRasterizer()
	require.NoError(t, err)

	s := BuildSurface(test.SamplePlan(), time.Now())
	l1 := r.layout(s, 1)
	l2 := r.layout(s, 2)
	assert.Equal(t, 794, l1.Width)
	assert.Equal(t, 1588, l2.Width)
	assert.Equal(t, len(l1.Rules), len(l2.Rules))
}

func TestGGRasterizerLongContentGrows(t *testing.T) {
	r, err := NewGGRasterizer()
	require.NoError(t, err)

	plan := test.SamplePlan()
	for i := 0; i < 80; i++ {
		plan.Plan.Objectives = append(plan.Plan.Objectives, strings.Repeat("Objetivo longo que ocupa espaço. ", 4))
	}
	l := r.layout(BuildSurface(plan, time.Now()), 1)
	assert.Greater(t, l.Height, 1123)
}

// fixedRasterizer 返回固定尺寸的纯色图片
type fixedRasterizer struct {
	width, height int
	gotOpts       RasterOptions
}

func (f *fixedRasterizer) Rasterize(_ context.Context, _ *Surface, opts RasterOptions) (image.Image, error) {
	f.gotOpts = opts
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img, nil
}

func countPages(pdf string) int {
	return strings.Count(pdf, "/Type /Page") - strings.Count(pdf, "/Type /Pages")
}

func TestRenderPages(t *testing.T) {
	raster := &fixedRasterizer{width: 210, height: 683}
	opts := RasterOptions{Scale: 2, Background: "#ffffff", AllowCrossOrigin: true}
	r, err := NewRenderer(WithRasterizer(raster), WithRasterOptions(opts), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), test.SamplePlan(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
	assert.Equal(t, 3, countPages(buf.String()))
	assert.Equal(t, opts, raster.gotOpts)
}

func TestRenderSinglePage(t *testing.T) {
	r, err := NewRenderer(WithRasterizer(&fixedRasterizer{width: 210, height: 297}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), test.SamplePlan(), &buf))
	assert.Equal(t, 1, countPages(buf.String()))
}

func TestRenderWithDefaultRasterizer(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	r, err := NewRenderer(WithRasterOptions(RasterOptions{Scale: 1, Background: "#ffffff"}), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), test.SamplePlan(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
	assert.GreaterOrEqual(t, countPages(buf.String()), 1)
}

func TestRenderPreconditions(t *testing.T) {
	r, err := NewRenderer(WithRasterizer(&fixedRasterizer{width: 10, height: 10}))
	require.NoError(t, err)

	err = r.RenderSurface(context.Background(), nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindRenderPrecondition))
	assert.Equal(t, "Template de impressão não encontrado.", lessonplan.UserMessage(err))

	assert.ErrorIs(t, r.Render(context.Background(), nil, &bytes.Buffer{}), lessonplan.ErrNilDocument)
}
