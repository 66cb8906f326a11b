package gemini

import "github.com/google/generative-ai-go/genai"

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func integer() *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger}
}

func number() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func coded() *genai.Schema {
	return object(map[string]*genai.Schema{
		"codigo": str(),
		"texto":  str(),
	}, "codigo", "texto")
}

// ResponseSchema 返回与课程计划数据模型一致的响应 schema
func ResponseSchema() *genai.Schema {
	meta := object(map[string]*genai.Schema{
		"gerado_por":      str(),
		"timestamp":       str(),
		"versao_template": str(),
	}, "gerado_por", "timestamp", "versao_template")

	stage := object(map[string]*genai.Schema{
		"etapa":       str(),
		"duracao_min": integer(),
		"atividades":  arrayOf(str()),
		"recursos":    arrayOf(str()),
	}, "etapa", "duracao_min", "atividades", "recursos")

	material := object(map[string]*genai.Schema{
		"tipo":   str(),
		"titulo": str(),
		"link":   str(),
	}, "tipo", "titulo", "link")

	assessment := object(map[string]*genai.Schema{
		"criterios":    arrayOf(str()),
		"instrumentos": arrayOf(str()),
		"pesos": object(map[string]*genai.Schema{
			"prova":        number(),
			"atividade":    number(),
			"participacao": number(),
		}),
	}, "criterios", "instrumentos")

	plan := object(map[string]*genai.Schema{
		"titulo":                    str(),
		"componente_curricular":     str(),
		"disciplina":                str(),
		"serie_turma":               str(),
		"objetos_do_conhecimento":   arrayOf(str()),
		"duracao_total_min":         integer(),
		"numero_de_aulas":           integer(),
		"competencia_especifica":    coded(),
		"habilidades":               arrayOf(coded()),
		"objetivos_de_aprendizagem": arrayOf(str()),
		"descritores":               arrayOf(coded()),
		"metodologia":               arrayOf(stage),
		"material_de_apoio":         arrayOf(material),
		"estrategia_de_avaliacao":   assessment,
		"adapitacoes_nee":           arrayOf(str()),
		"observacoes":               str(),
		"export_formats":            arrayOf(str()),
		"hash_validacao":            str(),
	},
		"titulo", "componente_curricular", "disciplina", "serie_turma",
		"objetos_do_conhecimento", "duracao_total_min", "numero_de_aulas",
		"competencia_especifica", "habilidades", "objetivos_de_aprendizagem",
		"descritores", "metodologia", "material_de_apoio", "estrategia_de_avaliacao",
		"adapitacoes_nee", "observacoes",
	)

	return object(map[string]*genai.Schema{
		"meta":       meta,
		"plano_aula": plan,
	}, "meta", "plano_aula")
}
