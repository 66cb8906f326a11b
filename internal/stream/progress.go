package stream

import (
	"math"
	"strings"
	"unicode/utf16"
)

// DefaultExpectedLength 完整课程计划 JSON 的经验平均长度（字符）
const DefaultExpectedLength = 4500

// 进度阶段标签
const (
	PhaseStarting   = "Iniciando a IA..."
	PhaseCompleted  = "Plano de aula concluído!"
	maxStreamingPct = 99
)

// phaseMarker 缓冲区中出现某个字段名即进入对应阶段
type phaseMarker struct {
	marker string
	label  string
}

// phases 按生成顺序排列，后匹配的优先
var phases = []phaseMarker{
	{`"objetivos_de_aprendizagem"`, "Definindo objetivos..."},
	{`"habilidades"`, "Mapeando a BNCC..."},
	{`"metodologia"`, "Estruturando a metodologia..."},
	{`"material_de_apoio"`, "Selecionando recursos..."},
	{`"estrategia_de_avaliacao"`, "Criando critérios de avaliação..."},
	{`"adapitacoes_nee"`, "Adaptando para inclusão..."},
}

// Progress 一次进度快照
type Progress struct {
	Percent int
	Phase   string
	Done    bool
}

// Estimator 根据原始缓冲区估计完成度，不做任何结构化解析
type Estimator struct {
	expectedLength int
}

// NewEstimator 创建估计器，expectedLength 非正时使用默认值
func NewEstimator(expectedLength int) *Estimator {
	if expectedLength <= 0 {
		expectedLength = DefaultExpectedLength
	}
	return &Estimator{expectedLength: expectedLength}
}

// Estimate 计算流式过程中的进度，百分比始终在 [0, 99] 内
func (e *Estimator) Estimate(buffer string) Progress {
	return Progress{
		Percent: e.Percent(buffer),
		Phase:   Phase(buffer),
	}
}

// Percent 计算百分比：min(99, round(100 * len / expected))，长度按 UTF-16 编码单元计
func (e *Estimator) Percent(buffer string) int {
	n := utf16Len(buffer)
	pct := int(math.Round(100 * float64(n) / float64(e.expectedLength)))
	if pct < 0 {
		return 0
	}
	if pct > maxStreamingPct {
		return maxStreamingPct
	}
	return pct
}

// Complete 返回定稿成功后的进度，这是唯一能达到 100 的途径
func (e *Estimator) Complete() Progress {
	return Progress{Percent: 100, Phase: PhaseCompleted, Done: true}
}

// Phase 返回缓冲区对应的阶段标签
func Phase(buffer string) string {
	label := PhaseStarting
	for _, p := range phases {
		if strings.Contains(buffer, p.marker) {
			label = p.label
		}
	}
	return label
}

// utf16Len 按 UTF-16 编码单元计算长度，BMP 以外的字符计为 2
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
