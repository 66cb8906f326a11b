package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

const (
	bulletNumID   = "1"
	maxListLevels = 3
	// A4，单位 twip（1/1440 英寸）
	a4WidthTwip  = "11906"
	a4HeightTwip = "16838"
	marginTwip   = "1134"
)

// Packager 只负责将块树序列化为 .docx 容器
type Packager struct{}

// NewPackager 创建打包器
func NewPackager() *Packager {
	return &Packager{}
}

// Package 将文档写为 zip 容器
func (p *Packager) Package(doc *Document, w io.Writer) error {
	if doc == nil {
		return lessonplan.ErrNilDocument
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		v    interface{}
	}{
		{"[Content_Types].xml", newContentTypes()},
		{"_rels/.rels", packageRelationships()},
		{"word/_rels/document.xml.rels", documentRelationships()},
		{"word/document.xml", buildDocumentXML(doc)},
		{"word/styles.xml", newStyles()},
		{"word/numbering.xml", newNumbering()},
	}
	for _, part := range parts {
		if err := writeXMLPart(zw, part.name, part.v); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func writeXMLPart(zw *zip.Writer, name string, v interface{}) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	enc := xml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return enc.Flush()
}

// buildDocumentXML 将块树展开为段落序列
func buildDocumentXML(doc *Document) *wordDocument {
	d := &wordDocument{
		XmlnsW: wordprocessingMLNamespace,
		Body: body{
			SectPr: sectPr{
				PageSize:   pageSize{W: a4WidthTwip, H: a4HeightTwip},
				PageMargin: pageMargin{Top: marginTwip, Right: marginTwip, Bottom: marginTwip, Left: marginTwip},
			},
		},
	}
	doc.Walk(func(b Block, _ int) {
		d.Body.Paragraphs = append(d.Body.Paragraphs, toParagraph(b))
	})
	return d
}

func toParagraph(b Block) wParagraph {
	var para wParagraph
	switch b.Type {
	case BlockHeading:
		level := clamp(b.Level, 1, 3)
		para.Properties = &paragraphProps{Style: &valAttr{Val: "Heading" + strconv.Itoa(level)}}
	case BlockBullet:
		level := clamp(b.Level, 0, maxListLevels-1)
		para.Properties = &paragraphProps{
			Style: &valAttr{Val: "ListParagraph"},
			Numbering: &numberingPr{
				Level: valAttr{Val: strconv.Itoa(level)},
				NumID: valAttr{Val: bulletNumID},
			},
		}
	}
	for _, r := range b.Runs {
		para.Runs = append(para.Runs, toRun(r))
	}
	return para
}

func toRun(r Run) wRun {
	run := wRun{Text: wText{Text: r.Text}}
	if strings.TrimSpace(r.Text) != r.Text {
		run.Text.Space = "preserve"
	}
	if r.Bold || r.Italic {
		run.Properties = &runProps{}
		if r.Bold {
			run.Properties.Bold = &struct{}{}
		}
		if r.Italic {
			run.Properties.Italic = &struct{}{}
		}
	}
	return run
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newContentTypes() *contentTypes {
	const wml = "application/vnd.openxmlformats-officedocument.wordprocessingml."
	return &contentTypes{
		Xmlns: contentTypesNamespace,
		Defaults: []contentDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []contentOverride{
			{PartName: "/word/document.xml", ContentType: wml + "document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: wml + "styles+xml"},
			{PartName: "/word/numbering.xml", ContentType: wml + "numbering+xml"},
		},
	}
}

func packageRelationships() *relationships {
	return &relationships{
		Xmlns: relationshipsNamespace,
		Relationships: []relationship{
			{ID: "rId1", Type: officeDocumentRelType, Target: "word/document.xml"},
		},
	}
}

func documentRelationships() *relationships {
	return &relationships{
		Xmlns: relationshipsNamespace,
		Relationships: []relationship{
			{ID: "rId1", Type: stylesRelType, Target: "styles.xml"},
			{ID: "rId2", Type: numberingRelType, Target: "numbering.xml"},
		},
	}
}

func newStyles() *styles {
	headingSizes := []string{"36", "30", "26"} // 半磅
	s := &styles{
		XmlnsW: wordprocessingMLNamespace,
		Styles: []style{
			{Type: "paragraph", StyleID: "Normal", Name: valAttr{Val: "Normal"}},
			{
				Type:    "paragraph",
				StyleID: "ListParagraph",
				Name:    valAttr{Val: "List Paragraph"},
				BasedOn: &valAttr{Val: "Normal"},
			},
		},
	}
	for i, size := range headingSizes {
		level := strconv.Itoa(i + 1)
		s.Styles = append(s.Styles, style{
			Type:      "paragraph",
			StyleID:   "Heading" + level,
			Name:      valAttr{Val: "heading " + level},
			BasedOn:   &valAttr{Val: "Normal"},
			Paragraph: &paragraphProps{Spacing: &spacingAttrs{Before: "240", After: "120"}},
			Run:       &styleRunProps{Bold: &struct{}{}, Size: &valAttr{Val: size}, Color: &valAttr{Val: "1F4E3D"}},
		})
	}
	return s
}

func newNumbering() *numbering {
	glyphs := []string{"•", "◦", "▪"}
	an := abstractNum{ID: "0"}
	for i := 0; i < maxListLevels; i++ {
		left := strconv.Itoa(720 * (i + 1))
		an.Levels = append(an.Levels, numLevel{
			Level:     strconv.Itoa(i),
			Start:     valAttr{Val: "1"},
			NumFmt:    valAttr{Val: "bullet"},
			LevelText: valAttr{Val: glyphs[i]},
			Paragraph: &levelParagraph{Indent: indent{Left: left, Hanging: "360"}},
		})
	}
	return &numbering{
		XmlnsW:       wordprocessingMLNamespace,
		AbstractNums: []abstractNum{an},
		Nums:         []num{{ID: bulletNumID, AbstractNum: valAttr{Val: "0"}}},
	}
}

// Renderer 组合块树构造与打包
type Renderer struct {
	packager *Packager
}

// NewRenderer 创建 docx 渲染器
func NewRenderer() *Renderer {
	return &Renderer{packager: NewPackager()}
}

// Format 返回格式名
func (r *Renderer) Format() string { return "docx" }

// Extension 返回文件扩展名
func (r *Renderer) Extension() string { return "docx" }

// Render 构造块树并打包写入 w
func (r *Renderer) Render(ctx context.Context, resp *lessonplan.Response, w io.Writer) error {
	if resp == nil {
		return lessonplan.ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.packager.Package(Build(resp), w)
}
