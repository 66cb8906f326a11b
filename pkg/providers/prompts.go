package providers

import (
	"fmt"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// SystemInstruction 构建系统提示词
func SystemInstruction(refs ReferenceData) string {
	var b strings.Builder
	b.WriteString("Você é um especialista em pedagogia e design instrucional, fluente em português do Brasil (pt-BR).\n")
	b.WriteString("Sua tarefa é criar planos de aula detalhados e de alta qualidade, alinhados à Base Nacional Comum Curricular (BNCC) e ao SAEB.\n\n")
	b.WriteString("UTILIZE AS SEGUINTES BASES DE DADOS PARA REFERÊNCIA:\n\n")
	b.WriteString("--- DADOS BNCC (COMPETÊNCIAS E HABILIDADES) ---\n")
	b.Write(refs.BNCC)
	b.WriteString("\n-----------------------------------------------\n\n")
	b.WriteString("--- DADOS SAEB (MATRIZES DE REFERÊNCIA) ---\n")
	b.Write(refs.SAEB)
	b.WriteString("\n-------------------------------------------\n\n")
	b.WriteString(`Instruções de Uso dos Dados:
1. Consulte a base BNCC para encontrar o código da habilidade (ex: EF01LP01, EM13LGG101) que melhor se adapta ao tema. O campo 'texto_full' contém a descrição.
2. Consulte a base SAEB para encontrar descritores. A base está estruturada por DISCIPLINA e ANO (ex: saeb.lingua_portuguesa.5_ano.descritores).
   - Use o nível escolar e a disciplina mais próximos da solicitação.
   - Se a disciplina ou o ano exato não existirem, use o nível mais próximo como referência.

Diretrizes de Geração do JSON:
- Retorne estritamente um objeto JSON válido, sem texto fora do JSON.
- O objeto raiz tem as chaves "meta" e "plano_aula" e segue o schema fornecido.
- Para 'competencia_especifica' e 'habilidades', use os dados da BNCC. Se não encontrar exato, infira o código correto da BNCC.
- Para 'descritores', use os dados do SAEB.
- Para 'material_de_apoio', se o tipo for 'Vídeo', o link DEVE ser uma URL de busca do YouTube.
- O conteúdo deve ser original, prático e adaptado à realidade das escolas brasileiras.
- Inclua adaptações claras para alunos com NEE (Necessidades Educacionais Especiais).
`)
	return b.String()
}

// UserPrompt 构建用户提示词
func UserPrompt(req *lessonplan.Request) string {
	component := req.CurricularComponent
	if req.Subject != "" && req.Subject != component {
		component = fmt.Sprintf("%s / %s", component, req.Subject)
	}
	return fmt.Sprintf(`Por favor, gere um plano de aula completo com base nos seguintes parâmetros:

Parâmetros da Solicitação:
- Modalidade de Ensino: %s
- Componente Curricular/Disciplina: %s
- Série/Turma: %s
- Objeto do Conhecimento/Conteúdo: %s
- Duração da Aula (minutos): %d
- Número de Aulas: %d
- Nível de Detalhe: %s
- Língua: pt-BR
`,
		req.Modality,
		component,
		req.GradeLabel,
		req.KnowledgeObject,
		req.LessonDurationMin,
		req.LessonCount,
		req.DetailLevel,
	)
}
