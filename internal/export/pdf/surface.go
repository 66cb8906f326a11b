// Package pdf 实现分页视觉导出：固定宽度布局、栅格化、按页切片并输出 A4 PDF
package pdf

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// 布局尺寸，单位为 CSS 像素（96 dpi）
const (
	SurfaceWidth     = 794.0  // A4 宽度
	SurfaceMinHeight = 1123.0 // A4 高度
	surfacePadding   = 24.0
	Producer         = "EcoLesson"
)

// ElementKind 元素类型
type ElementKind int

const (
	// ElementText 自动换行的文本
	ElementText ElementKind = iota
	// ElementRule 水平分隔线
	ElementRule
	// ElementSpace 垂直留白
	ElementSpace
)

// TextStyle 文本样式
type TextStyle struct {
	Size   float64 // 字号（像素）
	Bold   bool
	Italic bool
	Color  string // #rrggbb
}

// 模板使用的样式
var (
	styleTitle   = TextStyle{Size: 24, Bold: true, Color: "#111827"}
	styleMeta    = TextStyle{Size: 14, Bold: true, Color: "#374151"}
	styleSection = TextStyle{Size: 18, Bold: true, Color: "#1f2937"}
	styleStage   = TextStyle{Size: 16, Bold: true, Color: "#111827"}
	styleLabel   = TextStyle{Size: 14, Bold: true, Color: "#1f2937"}
	styleBody    = TextStyle{Size: 14, Color: "#1f2937"}
	styleSmall   = TextStyle{Size: 12, Color: "#4b5563"}
	styleLink    = TextStyle{Size: 12, Color: "#6b7280"}
	styleFooter  = TextStyle{Size: 12, Color: "#9ca3af"}
)

// Element 布局元素
type Element struct {
	Kind   ElementKind
	Text   string
	Right  string // 与首行右对齐的附加文本
	Style  TextStyle
	Indent float64
	Bullet bool
	Height float64 // Space 的高度或 Rule 的粗细
	Color  string  // Rule 颜色
}

// Surface 不感知分页的固定宽度视觉表面
type Surface struct {
	Title    string
	Width    float64
	Padding  float64
	Elements []Element
}

// Texts 返回所有文本元素的内容，按布局顺序
func (s *Surface) Texts() []string {
	var out []string
	for _, e := range s.Elements {
		if e.Kind == ElementText {
			out = append(out, e.Text)
		}
	}
	return out
}

type surfaceBuilder struct {
	s     *Surface
	upper cases.Caser
}

func (b *surfaceBuilder) text(style TextStyle, text string) {
	b.s.Elements = append(b.s.Elements, Element{Kind: ElementText, Style: style, Text: text})
}

func (b *surfaceBuilder) bullet(style TextStyle, indent float64, text string) {
	b.s.Elements = append(b.s.Elements, Element{Kind: ElementText, Style: style, Text: text, Indent: indent, Bullet: true})
}

func (b *surfaceBuilder) space(h float64) {
	b.s.Elements = append(b.s.Elements, Element{Kind: ElementSpace, Height: h})
}

func (b *surfaceBuilder) rule(thickness float64, color string) {
	b.s.Elements = append(b.s.Elements, Element{Kind: ElementRule, Height: thickness, Color: color})
}

func (b *surfaceBuilder) section(n int, title string) {
	b.space(20)
	b.text(styleSection, b.upper.String(fmt.Sprintf("%d. %s", n, title)))
	b.rule(1, "#d1d5db")
	b.space(8)
}

// BuildSurface 生成打印模板的布局
func BuildSurface(resp *lessonplan.Response, generatedAt time.Time) *Surface {
	p := &resp.Plan
	b := &surfaceBuilder{
		s:     &Surface{Title: p.Title, Width: SurfaceWidth, Padding: surfacePadding},
		upper: cases.Upper(language.BrazilianPortuguese),
	}

	// 页眉
	b.text(styleTitle, b.upper.String(p.Title))
	b.space(8)
	b.s.Elements = append(b.s.Elements, Element{
		Kind:  ElementText,
		Style: styleMeta,
		Text:  fmt.Sprintf("%s • %s", p.CurricularComponent, p.GradeLabel),
		Right: fmt.Sprintf("Duração: %d min (%d aulas)", p.TotalDurationMin, p.LessonCount),
	})
	b.space(12)
	b.rule(2, "#1f2937")

	// 1. 教学依据
	b.section(1, "Fundamentação Pedagógica")
	b.text(styleLabel, "Competência Específica:")
	b.text(styleBody, fmt.Sprintf("%s - %s", p.Competency.Code, p.Competency.Text))
	b.space(8)
	b.text(styleLabel, "Habilidades:")
	for _, s := range p.Skills {
		b.bullet(styleBody, 4, fmt.Sprintf("%s: %s", s.Code, s.Text))
	}
	b.space(8)
	b.text(styleLabel, "Objetivos de Aprendizagem:")
	for _, o := range p.Objectives {
		b.bullet(styleBody, 4, o)
	}
	if len(p.Descriptors) > 0 {
		b.space(8)
		b.text(styleLabel, "Descritores (SAEB):")
		for _, d := range p.Descriptors {
			b.bullet(styleBody, 4, fmt.Sprintf("%s: %s", d.Code, d.Text))
		}
	}

	// 2. 教学方法
	b.section(2, "Metodologia e Atividades")
	for i, stage := range p.Methodology {
		if i > 0 {
			b.space(12)
		}
		b.text(styleStage, fmt.Sprintf("%s (%d min)", stage.Label, stage.DurationMinutes))
		b.text(TextStyle{Size: 12, Bold: true, Color: "#4b5563"}, "Atividades:")
		for _, a := range stage.Activities {
			b.bullet(styleBody, 16, a)
		}
		if len(stage.Resources) > 0 {
			b.text(styleSmall, "Recursos: "+strings.Join(stage.Resources, ", "))
		}
	}

	// 3. 评估
	b.section(3, "Avaliação")
	b.text(styleLabel, "Critérios:")
	for _, c := range p.Assessment.Criteria {
		b.bullet(styleBody, 4, c)
	}
	b.space(8)
	b.text(styleLabel, "Instrumentos:")
	b.text(styleBody, strings.Join(p.Assessment.Instruments, ", "))

	// 4. 资源与适配
	b.section(4, "Recursos e Adaptações")
	b.text(styleLabel, "Material de Apoio:")
	for _, m := range p.SupportMaterials {
		b.bullet(styleBody, 4, fmt.Sprintf("[%s] %s", b.upper.String(m.Kind), m.Title))
		if m.Link != "" {
			b.s.Elements = append(b.s.Elements, Element{Kind: ElementText, Style: styleLink, Text: m.Link, Indent: 28})
		}
	}
	b.space(8)
	b.text(styleLabel, "Adaptações para Inclusão (NEE):")
	for _, a := range p.Adaptations {
		b.bullet(styleBody, 4, a)
	}

	// 5. 备注，仅在非空时出现
	if p.Observations != "" {
		b.section(5, "Observações")
		for _, line := range strings.Split(p.Observations, "\n") {
			b.text(styleBody, line)
		}
	}

	// 页脚
	b.space(32)
	b.rule(1, "#d1d5db")
	b.space(8)
	b.s.Elements = append(b.s.Elements, Element{
		Kind:  ElementText,
		Style: styleFooter,
		Text:  "Gerado por " + Producer,
		Right: generatedAt.Format("02/01/2006"),
	})
	return b.s
}
