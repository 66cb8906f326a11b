package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promarceloborges/Ecolesson/internal/test"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

func headings(doc *Document, level int) []string {
	var out []string
	doc.Walk(func(b Block, _ int) {
		if b.Type == BlockHeading && b.Level == level {
			out = append(out, b.Text())
		}
	})
	return out
}

func TestBuildSectionOrder(t *testing.T) {
	doc := Build(test.SamplePlan())

	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, BlockHeading, doc.Blocks[0].Type)
	assert.Equal(t, 1, doc.Blocks[0].Level)
	assert.Equal(t, "Fotossíntese: a energia das plantas", doc.Blocks[0].Text())

	subtitle := doc.Blocks[1]
	require.Len(t, subtitle.Runs, 1)
	assert.True(t, subtitle.Runs[0].Italic)
	assert.Equal(t, "7º ano - Ciências", subtitle.Runs[0].Text)

	assert.Equal(t, []string{
		"Fundamentação Pedagógica",
		"Metodologia e Atividades",
		"Avaliação",
		"Recursos e Adaptações",
		"Observações",
	}, headings(doc, 2))
	assert.Equal(t, []string{
		"Abertura (10 min)",
		"Desenvolvimento (30 min)",
		"Fechamento (10 min)",
	}, headings(doc, 3))
}

func TestBuildNestedActivities(t *testing.T) {
	doc := Build(test.SamplePlan())

	var stage *Block
	for i := range doc.Blocks {
		if doc.Blocks[i].Type == BlockHeading && doc.Blocks[i].Text() == "Desenvolvimento (30 min)" {
			stage = &doc.Blocks[i]
		}
	}
	require.NotNil(t, stage)
	require.Len(t, stage.Children, 2)

	activities := stage.Children[0]
	assert.Equal(t, BlockBullet, activities.Type)
	assert.Equal(t, "Atividades:", activities.Text())
	require.Len(t, activities.Children, 2)
	for i, want := range []string{"Experimento com folhas.", "Registro em grupo."} {
		assert.Equal(t, BlockBullet, activities.Children[i].Type)
		assert.Equal(t, 1, activities.Children[i].Level)
		assert.Equal(t, want, activities.Children[i].Text())
	}

	resources := stage.Children[1]
	require.Len(t, resources.Runs, 2)
	assert.True(t, resources.Runs[0].Bold)
	assert.True(t, resources.Runs[1].Italic)
	assert.Equal(t, " Folhas, Lupa", resources.Runs[1].Text)
}

func TestBuildOptionalSections(t *testing.T) {
	plan := test.SamplePlan()
	plan.Plan.Descriptors = []lessonplan.Descriptor{}
	plan.Plan.Observations = "  "

	doc := Build(plan)
	assert.NotContains(t, headings(doc, 2), "Observações")

	found := false
	doc.Walk(func(b Block, _ int) {
		if b.Text() == "Descritor(es):" {
			found = true
		}
	})
	assert.False(t, found)
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = content
	}
	return files
}

func TestPackage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(context.Background(), test.SamplePlan(), &buf))

	files := readZip(t, buf.Bytes())
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/styles.xml",
		"word/numbering.xml",
	} {
		assert.Contains(t, files, name)
	}

	docXML := string(files["word/document.xml"])
	assert.True(t, strings.HasPrefix(docXML, xml.Header))
	assert.Contains(t, docXML, `<w:pStyle w:val="Heading3"></w:pStyle>`)
	assert.Contains(t, docXML, `<w:ilvl w:val="1"></w:ilvl>`)
	assert.Contains(t, docXML, "Experimento com folhas.")

	// 文档必须是格式良好的 XML
	dec := xml.NewDecoder(strings.NewReader(docXML))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	// 阶段在文档中的顺序与输入一致
	a := strings.Index(docXML, "Abertura (10 min)")
	d := strings.Index(docXML, "Desenvolvimento (30 min)")
	f := strings.Index(docXML, "Fechamento (10 min)")
	assert.True(t, a >= 0 && a < d && d < f)
}

func TestPackageEscapesText(t *testing.T) {
	plan := test.SamplePlan()
	plan.Plan.Title = `Frações <1/2> & "metades"`

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(context.Background(), plan, &buf))
	docXML := string(readZip(t, buf.Bytes())["word/document.xml"])
	assert.Contains(t, docXML, "Frações &lt;1/2&gt; &amp; &#34;metades&#34;")
}

func TestPackageNil(t *testing.T) {
	assert.ErrorIs(t, NewPackager().Package(nil, io.Discard), lessonplan.ErrNilDocument)
	assert.ErrorIs(t, NewRenderer().Render(context.Background(), nil, io.Discard), lessonplan.ErrNilDocument)
}
