package docx

import (
	"fmt"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// Build 按纯文本渲染相同的章节顺序构造块树
//
// 每个教学阶段是一个三级标题，其活动作为子节点中的嵌套项目符号。
func Build(resp *lessonplan.Response) *Document {
	p := &resp.Plan
	doc := &Document{Title: p.Title}
	add := func(b ...Block) { doc.Blocks = append(doc.Blocks, b...) }

	add(heading(1, p.Title))
	add(paragraph(italic(fmt.Sprintf("%s - %s", p.GradeLabel, p.CurricularComponent))))
	add(paragraph(plain(fmt.Sprintf("Duração: %d min | Aulas: %d", p.TotalDurationMin, p.LessonCount))))
	if len(p.KnowledgeObjects) > 0 {
		add(paragraph(bold("Objetos do Conhecimento: "), plain(strings.Join(p.KnowledgeObjects, "; "))))
	}
	add(paragraph())

	// 1. 教学依据
	add(heading(2, "Fundamentação Pedagógica"))
	add(paragraph(bold("Competência Específica:")))
	add(paragraph(plain(fmt.Sprintf("%s: %s", p.Competency.Code, p.Competency.Text))))
	add(paragraph(bold("Habilidades:")))
	for _, s := range p.Skills {
		add(bullet(0, fmt.Sprintf("%s: %s", s.Code, s.Text)))
	}
	add(paragraph(bold("Objetivos de Aprendizagem:")))
	for _, o := range p.Objectives {
		add(bullet(0, o))
	}
	if len(p.Descriptors) > 0 {
		add(paragraph(bold("Descritor(es):")))
		for _, d := range p.Descriptors {
			add(bullet(0, fmt.Sprintf("%s: %s", d.Code, d.Text)))
		}
	}
	add(paragraph())

	// 2. 教学方法
	add(heading(2, "Metodologia e Atividades"))
	for _, stage := range p.Methodology {
		add(stageBlock(stage))
	}
	add(paragraph())

	// 3. 评估
	add(heading(2, "Avaliação"))
	add(paragraph(bold("Critérios:")))
	for _, c := range p.Assessment.Criteria {
		add(bullet(0, c))
	}
	add(paragraph(bold("Instrumentos:"), italic(" "+strings.Join(p.Assessment.Instruments, ", "))))
	add(paragraph())

	// 4. 资源与适配
	add(heading(2, "Recursos e Adaptações"))
	add(paragraph(bold("Material de Apoio:")))
	for _, m := range p.SupportMaterials {
		add(bullet(0, fmt.Sprintf("[%s] %s: %s", m.Kind, m.Title, m.Link)))
	}
	add(paragraph(bold("Adaptações NEE:")))
	for _, a := range p.Adaptations {
		add(bullet(0, a))
	}

	if strings.TrimSpace(p.Observations) != "" {
		add(paragraph())
		add(heading(2, "Observações"))
		add(paragraph(plain(p.Observations)))
	}
	return doc
}

func stageBlock(stage lessonplan.MethodologyStage) Block {
	activities := Block{Type: BlockBullet, Level: 0, Runs: []Run{bold("Atividades:")}}
	for _, a := range stage.Activities {
		activities.Children = append(activities.Children, bullet(1, a))
	}

	h := heading(3, fmt.Sprintf("%s (%d min)", stage.Label, stage.DurationMinutes))
	h.Children = []Block{
		activities,
		paragraph(bold("Recursos:"), italic(" "+strings.Join(stage.Resources, ", "))),
	}
	return h
}
