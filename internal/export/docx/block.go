// Package docx 将课程计划构造成类型化的块树，并打包为 .docx 容器
package docx

// BlockType 块类型
type BlockType int

const (
	// BlockHeading 标题，Level 为 1-3
	BlockHeading BlockType = iota
	// BlockParagraph 普通段落
	BlockParagraph
	// BlockBullet 项目符号，Level 为嵌套深度（从 0 开始）
	BlockBullet
)

func (t BlockType) String() string {
	switch t {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

// Run 一段具有统一格式的文本
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Block 文档树节点；Children 按顺序排在节点自身之后
type Block struct {
	Type     BlockType
	Level    int
	Runs     []Run
	Children []Block
}

// Text 返回块自身的纯文本（不含子节点）
func (b Block) Text() string {
	var s string
	for _, r := range b.Runs {
		s += r.Text
	}
	return s
}

// Document 块树的根
type Document struct {
	Title  string
	Blocks []Block
}

// Walk 深度优先遍历所有块，depth 为树中的嵌套层数
func (d *Document) Walk(fn func(b Block, depth int)) {
	var walk func(blocks []Block, depth int)
	walk = func(blocks []Block, depth int) {
		for _, b := range blocks {
			fn(b, depth)
			walk(b.Children, depth+1)
		}
	}
	walk(d.Blocks, 0)
}

func heading(level int, text string) Block {
	return Block{Type: BlockHeading, Level: level, Runs: []Run{{Text: text}}}
}

func paragraph(runs ...Run) Block {
	return Block{Type: BlockParagraph, Runs: runs}
}

func bullet(level int, text string) Block {
	return Block{Type: BlockBullet, Level: level, Runs: []Run{{Text: text}}}
}

func bold(text string) Run {
	return Run{Text: text, Bold: true}
}

func italic(text string) Run {
	return Run{Text: text, Italic: true}
}

func plain(text string) Run {
	return Run{Text: text}
}
