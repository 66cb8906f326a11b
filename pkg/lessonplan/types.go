// Package lessonplan 定义了课程计划的规范数据模型、生成请求以及错误分类
package lessonplan

// Meta 生成来源信息
type Meta struct {
	GeneratedBy     string `json:"gerado_por"`
	Timestamp       string `json:"timestamp"`
	TemplateVersion string `json:"versao_template"`
}

// Competency 特定能力（BNCC）
type Competency struct {
	Code string `json:"codigo"`
	Text string `json:"texto"`
}

// Skill 技能（BNCC 代码 + 描述）
type Skill struct {
	Code string `json:"codigo"`
	Text string `json:"texto"`
}

// Descriptor SAEB 描述符
type Descriptor struct {
	Code string `json:"codigo"`
	Text string `json:"texto"`
}

// MethodologyStage 教学方法中的一个阶段
type MethodologyStage struct {
	Label           string   `json:"etapa"`
	DurationMinutes int      `json:"duracao_min"`
	Activities      []string `json:"atividades"`
	Resources       []string `json:"recursos"`
}

// SupportMaterial 辅助材料
type SupportMaterial struct {
	Kind  string `json:"tipo"`
	Title string `json:"titulo"`
	Link  string `json:"link"`
}

// AssessmentStrategy 评估策略
type AssessmentStrategy struct {
	Criteria    []string           `json:"criterios"`
	Instruments []string           `json:"instrumentos"`
	Weights     map[string]float64 `json:"pesos,omitempty"`
}

// LessonPlan 课程计划本体
type LessonPlan struct {
	Title               string             `json:"titulo"`
	CurricularComponent string             `json:"componente_curricular"`
	Subject             string             `json:"disciplina"`
	GradeLabel          string             `json:"serie_turma"`
	KnowledgeObjects    []string           `json:"objetos_do_conhecimento"`
	TotalDurationMin    int                `json:"duracao_total_min"`
	LessonCount         int                `json:"numero_de_aulas"`
	Competency          Competency         `json:"competencia_especifica"`
	Skills              []Skill            `json:"habilidades"`
	Objectives          []string           `json:"objetivos_de_aprendizagem"`
	Descriptors         []Descriptor       `json:"descritores"`
	Methodology         []MethodologyStage `json:"metodologia"`
	SupportMaterials    []SupportMaterial  `json:"material_de_apoio"`
	Assessment          AssessmentStrategy `json:"estrategia_de_avaliacao"`
	Adaptations         []string           `json:"adapitacoes_nee"`
	Observations        string             `json:"observacoes"`
	ExportFormats       []string           `json:"export_formats,omitempty"`
	ValidationHash      string             `json:"hash_validacao,omitempty"`
}

// Response 一次生成的完整结果（meta + plano_aula）
//
// Response 在定稿之后只读，渲染器不得修改它。
type Response struct {
	Meta Meta       `json:"meta"`
	Plan LessonPlan `json:"plano_aula"`
}

// Normalize 将所有缺失的列表字段替换为空切片，保证渲染器永远不需要区分 nil 与空
func (r *Response) Normalize() {
	p := &r.Plan
	p.KnowledgeObjects = orEmpty(p.KnowledgeObjects)
	p.Objectives = orEmpty(p.Objectives)
	p.Adaptations = orEmpty(p.Adaptations)
	p.Assessment.Criteria = orEmpty(p.Assessment.Criteria)
	p.Assessment.Instruments = orEmpty(p.Assessment.Instruments)
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Descriptors == nil {
		p.Descriptors = []Descriptor{}
	}
	if p.Methodology == nil {
		p.Methodology = []MethodologyStage{}
	}
	for i := range p.Methodology {
		p.Methodology[i].Activities = orEmpty(p.Methodology[i].Activities)
		p.Methodology[i].Resources = orEmpty(p.Methodology[i].Resources)
	}
	if p.SupportMaterials == nil {
		p.SupportMaterials = []SupportMaterial{}
	}
}

// StagesDuration 返回所有阶段时长之和（不做强制校验，仅供展示）
func (p *LessonPlan) StagesDuration() int {
	total := 0
	for _, s := range p.Methodology {
		total += s.DurationMinutes
	}
	return total
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
