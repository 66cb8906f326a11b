// Package text 将课程计划渲染为纯文本
package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

const separator = "========================================"

// Renderer 纯文本渲染器，输出只取决于输入
type Renderer struct{}

// NewRenderer 创建纯文本渲染器
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Format 返回格式名
func (r *Renderer) Format() string { return "txt" }

// Extension 返回文件扩展名
func (r *Renderer) Extension() string { return "txt" }

// Render 将课程计划写入 w
func (r *Renderer) Render(ctx context.Context, resp *lessonplan.Response, w io.Writer) error {
	if resp == nil {
		return lessonplan.ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	r.write(bw, &resp.Plan)
	return bw.Flush()
}

// String 直接返回渲染结果
func (r *Renderer) String(resp *lessonplan.Response) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	r.write(bw, &resp.Plan)
	_ = bw.Flush()
	return sb.String()
}

func (r *Renderer) write(w *bufio.Writer, p *lessonplan.LessonPlan) {
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
		w.WriteByte('\n')
	}
	bullet := func(s string) { line("- %s", s) }
	// Caser 有内部状态，每次渲染单独创建
	upper := cases.Upper(language.BrazilianPortuguese)

	// 标题
	line("PLANO DE AULA: %s", p.Title)
	line("Série/Turma: %s | Disciplina: %s", p.GradeLabel, p.CurricularComponent)
	line("Duração: %d min | Aulas: %d", p.TotalDurationMin, p.LessonCount)
	line(separator)
	line("")

	line("FUNDAMENTAÇÃO PEDAGÓGICA")
	line("Competência Específica: %s - %s", p.Competency.Code, p.Competency.Text)
	line("Habilidades:")
	for _, s := range p.Skills {
		line("- %s: %s", s.Code, s.Text)
	}
	line("Objetivos de Aprendizagem:")
	for _, o := range p.Objectives {
		bullet(o)
	}
	if len(p.Descriptors) > 0 {
		line("Descritor(es):")
		for _, d := range p.Descriptors {
			line("- %s: %s", d.Code, d.Text)
		}
	}
	line("")

	line("METODOLOGIA E ATIVIDADES")
	for _, stage := range p.Methodology {
		line("")
		line("--- %s (%d min) ---", upper.String(stage.Label), stage.DurationMinutes)
		line("Atividades:")
		for _, a := range stage.Activities {
			bullet(a)
		}
		line("Recursos: %s", strings.Join(stage.Resources, ", "))
	}
	line("")

	line("AVALIAÇÃO")
	line("Critérios:")
	for _, c := range p.Assessment.Criteria {
		bullet(c)
	}
	line("Instrumentos: %s", strings.Join(p.Assessment.Instruments, ", "))
	line("")

	line("RECURSOS E ADAPTAÇÕES")
	line("Material de Apoio:")
	for _, m := range p.SupportMaterials {
		line("- [%s] %s: %s", m.Kind, m.Title, m.Link)
	}
	line("Adaptações NEE:")
	for _, a := range p.Adaptations {
		bullet(a)
	}
	line("")

	line("OBSERVAÇÕES:")
	line("%s", p.Observations)
}
