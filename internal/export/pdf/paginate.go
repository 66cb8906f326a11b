package pdf

// pageEpsilon 忽略浮点误差造成的空白页（毫米）
const pageEpsilon = 1e-6

// Placement 图片在某一页上的放置位置，单位毫米
type Placement struct {
	Page int     // 从 1 开始
	Y    float64 // 图片顶边相对页顶的偏移，非正
}

// PageLayout 切片结果
type PageLayout struct {
	ImageWidth  float64
	ImageHeight float64
	Placements  []Placement
}

// Pages 返回页数
func (l PageLayout) Pages() int {
	return len(l.Placements)
}

// Paginate 将整张栅格图按页宽缩放，再按页高切片
//
// 每一页都放置完整的图片，通过负偏移露出对应部分：第一页偏移为 0，
// 之后每页偏移为 -(imgHeight - remaining)。
func Paginate(rasterWidth, rasterHeight int, pageWidth, pageHeight float64) PageLayout {
	if rasterWidth <= 0 || rasterHeight <= 0 || pageWidth <= 0 || pageHeight <= 0 {
		return PageLayout{}
	}

	imgHeight := float64(rasterHeight) * pageWidth / float64(rasterWidth)
	l := PageLayout{ImageWidth: pageWidth, ImageHeight: imgHeight}

	remaining := imgHeight
	l.Placements = append(l.Placements, Placement{Page: 1, Y: 0})
	remaining -= pageHeight

	for remaining > pageEpsilon {
		l.Placements = append(l.Placements, Placement{
			Page: len(l.Placements) + 1,
			Y:    -(imgHeight - remaining),
		})
		remaining -= pageHeight
	}
	return l
}
