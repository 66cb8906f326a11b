package docx

import "encoding/xml"

// DOCX XML 命名空间
const (
	wordprocessingMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relationshipsNamespace    = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNamespace     = "http://schemas.openxmlformats.org/package/2006/content-types"
	officeDocumentRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	stylesRelType             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	numberingRelType          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

// wordDocument word/document.xml
type wordDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    body     `xml:"w:body"`
}

type body struct {
	Paragraphs []wParagraph `xml:"w:p"`
	SectPr     sectPr       `xml:"w:sectPr"`
}

type wParagraph struct {
	Properties *paragraphProps `xml:"w:pPr"`
	Runs       []wRun          `xml:"w:r"`
}

type paragraphProps struct {
	Style     *valAttr      `xml:"w:pStyle"`
	Numbering *numberingPr  `xml:"w:numPr"`
	Spacing   *spacingAttrs `xml:"w:spacing"`
}

type numberingPr struct {
	Level valAttr `xml:"w:ilvl"`
	NumID valAttr `xml:"w:numId"`
}

type spacingAttrs struct {
	After  string `xml:"w:after,attr,omitempty"`
	Before string `xml:"w:before,attr,omitempty"`
}

type valAttr struct {
	Val string `xml:"w:val,attr"`
}

type wRun struct {
	Properties *runProps `xml:"w:rPr"`
	Text       wText     `xml:"w:t"`
}

type runProps struct {
	Bold   *struct{} `xml:"w:b"`
	Italic *struct{} `xml:"w:i"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// sectPr A4 页面，单位为 twip
type sectPr struct {
	PageSize   pageSize   `xml:"w:pgSz"`
	PageMargin pageMargin `xml:"w:pgMar"`
}

type pageSize struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type pageMargin struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
}

// contentTypes [Content_Types].xml
type contentTypes struct {
	XMLName   xml.Name          `xml:"Types"`
	Xmlns     string            `xml:"xmlns,attr"`
	Defaults  []contentDefault  `xml:"Default"`
	Overrides []contentOverride `xml:"Override"`
}

type contentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationships _rels/*.rels
type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Xmlns         string         `xml:"xmlns,attr"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// styles word/styles.xml
type styles struct {
	XMLName xml.Name `xml:"w:styles"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Styles  []style  `xml:"w:style"`
}

type style struct {
	Type      string          `xml:"w:type,attr"`
	StyleID   string          `xml:"w:styleId,attr"`
	Name      valAttr         `xml:"w:name"`
	BasedOn   *valAttr        `xml:"w:basedOn"`
	Paragraph *paragraphProps `xml:"w:pPr"`
	Run       *styleRunProps  `xml:"w:rPr"`
}

type styleRunProps struct {
	Bold   *struct{} `xml:"w:b"`
	Italic *struct{} `xml:"w:i"`
	Size   *valAttr  `xml:"w:sz"`
	Color  *valAttr  `xml:"w:color"`
}

// numbering word/numbering.xml
type numbering struct {
	XMLName      xml.Name      `xml:"w:numbering"`
	XmlnsW       string        `xml:"xmlns:w,attr"`
	AbstractNums []abstractNum `xml:"w:abstractNum"`
	Nums         []num         `xml:"w:num"`
}

type abstractNum struct {
	ID     string     `xml:"w:abstractNumId,attr"`
	Levels []numLevel `xml:"w:lvl"`
}

type numLevel struct {
	Level     string          `xml:"w:ilvl,attr"`
	Start     valAttr         `xml:"w:start"`
	NumFmt    valAttr         `xml:"w:numFmt"`
	LevelText valAttr         `xml:"w:lvlText"`
	Paragraph *levelParagraph `xml:"w:pPr"`
}

type levelParagraph struct {
	Indent indent `xml:"w:ind"`
}

type indent struct {
	Left    string `xml:"w:left,attr"`
	Hanging string `xml:"w:hanging,attr"`
}

type num struct {
	ID          string  `xml:"w:numId,attr"`
	AbstractNum valAttr `xml:"w:abstractNumId"`
}
