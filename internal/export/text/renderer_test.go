package text

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promarceloborges/Ecolesson/internal/test"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

func TestRenderHeader(t *testing.T) {
	out := NewRenderer().String(test.SamplePlan())
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "PLANO DE AULA: Fotossíntese: a energia das plantas", lines[0])
	assert.Equal(t, "Série/Turma: 7º ano | Disciplina: Ciências", lines[1])
	assert.Equal(t, "Duração: 50 min | Aulas: 1", lines[2])
	assert.Equal(t, separator, lines[3])
	assert.Equal(t, "", lines[4])
}

func TestRenderSections(t *testing.T) {
	out := NewRenderer().String(test.SamplePlan())

	for _, want := range []string{
		"FUNDAMENTAÇÃO PEDAGÓGICA\nCompetência Específica: CE3 - Analisar fenômenos naturais e processos tecnológicos.\n",
		"Habilidades:\n- EF07CI07: Caracterizar os principais ecossistemas brasileiros.\n",
		"Descritor(es):\n- D1: Identificar informações explícitas em um texto.\n",
		"\n--- ABERTURA (10 min) ---\nAtividades:\n- Roda de conversa sobre plantas.\nRecursos: Quadro, Imagens\n",
		"--- FECHAMENTO (10 min) ---\nAtividades:\n- Síntese coletiva.\nRecursos: \n",
		"AVALIAÇÃO\nCritérios:\n- Participação\n- Registro do experimento\nInstrumentos: Rubrica, Diário de bordo\n\n",
		"Material de Apoio:\n- [vídeo] Como as plantas se alimentam: https://example.org/video\n",
		"Adaptações NEE:\n- Material em fonte ampliada.\n\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "OBSERVAÇÕES:\nVerificar a disponibilidade do laboratório.\n"))
}

func TestRenderStageOrder(t *testing.T) {
	out := NewRenderer().String(test.SamplePlan())

	a := strings.Index(out, "--- ABERTURA")
	d := strings.Index(out, "--- DESENVOLVIMENTO")
	f := strings.Index(out, "--- FECHAMENTO")
	require.True(t, a >= 0 && d >= 0 && f >= 0)
	assert.Less(t, a, d)
	assert.Less(t, d, f)
}

func TestRenderOmitsEmptyDescriptors(t *testing.T) {
	plan := test.SamplePlan()
	plan.Plan.Descriptors = []lessonplan.Descriptor{}

	out := NewRenderer().String(plan)
	assert.NotContains(t, out, "Descritor(es):")
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer()
	var a, b bytes.Buffer
	require.NoError(t, r.Render(context.Background(), test.SamplePlan(), &a))
	require.NoError(t, r.Render(context.Background(), test.SamplePlan(), &b))
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, r.String(test.SamplePlan()), a.String())
}

func TestRenderNil(t *testing.T) {
	err := NewRenderer().Render(context.Background(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, lessonplan.ErrNilDocument)
}
