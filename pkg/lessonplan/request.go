package lessonplan

import (
	"fmt"
	"strings"
)

// DetailLevel 详细程度
type DetailLevel string

const (
	DetailSummary  DetailLevel = "resumo"
	DetailStandard DetailLevel = "completo"
	DetailDetailed DetailLevel = "detalhado"
)

// ParseDetailLevel 解析详细程度，同时接受英文别名
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "resumo", "summary":
		return DetailSummary, nil
	case "", "completo", "standard":
		return DetailStandard, nil
	case "detalhado", "detailed":
		return DetailDetailed, nil
	default:
		return "", fmt.Errorf("unknown detail level %q", s)
	}
}

// Request 生成请求
type Request struct {
	Modality            string      `json:"modalidade_ensino"`
	CurricularComponent string      `json:"componente_curricular"`
	Subject             string      `json:"disciplina"`
	GradeLabel          string      `json:"serie_turma"`
	KnowledgeObject     string      `json:"objeto_conhecimento"`
	LessonDurationMin   int         `json:"duracao_aula_min"`
	LessonCount         int         `json:"numero_aulas"`
	DetailLevel         DetailLevel `json:"nivel_detalhe"`
}

// Validate 在打开任何数据流之前检查请求
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("request is nil")
	}
	if strings.TrimSpace(r.KnowledgeObject) == "" {
		return fmt.Errorf("knowledge object is required")
	}
	if r.LessonDurationMin <= 0 {
		return fmt.Errorf("lesson duration must be positive, got %d", r.LessonDurationMin)
	}
	if r.LessonCount <= 0 {
		return fmt.Errorf("lesson count must be positive, got %d", r.LessonCount)
	}
	switch r.DetailLevel {
	case DetailSummary, DetailStandard, DetailDetailed:
	default:
		return fmt.Errorf("unknown detail level %q", r.DetailLevel)
	}
	return nil
}
