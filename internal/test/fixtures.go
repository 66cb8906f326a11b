package test

import (
	"encoding/json"
	"testing"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// SampleRequest 返回一个合法的生成请求
func SampleRequest() *lessonplan.Request {
	return &lessonplan.Request{
		Modality:            "Ensino Fundamental - Anos Finais",
		CurricularComponent: "Ciências",
		Subject:             "Ciências",
		GradeLabel:          "7º ano",
		KnowledgeObject:     "Fotossíntese",
		LessonDurationMin:   50,
		LessonCount:         1,
		DetailLevel:         lessonplan.DetailStandard,
	}
}

// SamplePlan 返回一个完整的课程计划，所有列表字段均非 nil
func SamplePlan() *lessonplan.Response {
	return &lessonplan.Response{
		Meta: lessonplan.Meta{
			GeneratedBy:     "EcoLesson",
			Timestamp:       "2026-03-10T12:00:00Z",
			TemplateVersion: "1.0",
		},
		Plan: lessonplan.LessonPlan{
			Title:               "Fotossíntese: a energia das plantas",
			CurricularComponent: "Ciências",
			Subject:             "Ciências",
			GradeLabel:          "7º ano",
			KnowledgeObjects:    []string{"Fotossíntese", "Cadeias alimentares"},
			TotalDurationMin:    50,
			LessonCount:         1,
			Competency: lessonplan.Competency{
				Code: "CE3",
				Text: "Analisar fenômenos naturais e processos tecnológicos.",
			},
			Skills: []lessonplan.Skill{
				{Code: "EF07CI07", Text: "Caracterizar os principais ecossistemas brasileiros."},
			},
			Objectives: []string{
				"Compreender o processo de fotossíntese.",
				"Relacionar a fotossíntese às cadeias alimentares.",
			},
			Descriptors: []lessonplan.Descriptor{
				{Code: "D1", Text: "Identificar informações explícitas em um texto."},
			},
			Methodology: []lessonplan.MethodologyStage{
				{
					Label:           "Abertura",
					DurationMinutes: 10,
					Activities:      []string{"Roda de conversa sobre plantas."},
					Resources:       []string{"Quadro", "Imagens"},
				},
				{
					Label:           "Desenvolvimento",
					DurationMinutes: 30,
					Activities:      []string{"Experimento com folhas.", "Registro em grupo."},
					Resources:       []string{"Folhas", "Lupa"},
				},
				{
					Label:           "Fechamento",
					DurationMinutes: 10,
					Activities:      []string{"Síntese coletiva."},
					Resources:       []string{},
				},
			},
			SupportMaterials: []lessonplan.SupportMaterial{
				{Kind: "vídeo", Title: "Como as plantas se alimentam", Link: "https://example.org/video"},
			},
			Assessment: lessonplan.AssessmentStrategy{
				Criteria:    []string{"Participação", "Registro do experimento"},
				Instruments: []string{"Rubrica", "Diário de bordo"},
			},
			Adaptations:  []string{"Material em fonte ampliada."},
			Observations: "Verificar a disponibilidade do laboratório.",
		},
	}
}

// SamplePlanJSON 返回 SamplePlan 的 JSON 文本
func SamplePlanJSON(t testing.TB) string {
	t.Helper()
	data, err := json.MarshalIndent(SamplePlan(), "", "  ")
	if err != nil {
		t.Fatalf("marshal sample plan: %v", err)
	}
	return string(data)
}
