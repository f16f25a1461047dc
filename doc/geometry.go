package doc

import "strings"

// PageSize 描述纵向摆放时的页面尺寸（pt）。
type PageSize struct {
	Width  float64
	Height float64
}

// 常用纸张尺寸（纵向，pt）。
var (
	A3     = PageSize{841.8898, 1190.5512}
	A4     = PageSize{595.2756, 841.8898}
	A5     = PageSize{419.5276, 595.2756}
	Letter = PageSize{612, 792}
	Legal  = PageSize{612, 1008}
)

var pagePresets = map[string]PageSize{
	"A3":     A3,
	"A4":     A4,
	"A5":     A5,
	"LETTER": Letter,
	"LEGAL":  Legal,
}

// PageSizeByName 按名称（不区分大小写）查找预设纸张，找不到时返回 false。
func PageSizeByName(name string) (PageSize, bool) {
	s, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// Orientation 表示页面方向。横向在开页时交换宽高。
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// oriented 返回按方向摆放后的实际宽高。
func (s PageSize) oriented(o Orientation) (w, h float64) {
	if o == Landscape {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// Margins 以 pt 为单位描述四边页边距。
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// geometry 记录当前页面的尺寸与可写区域边界。
// 坐标系与 PDF 一致：原点左下角，y 向上增长，因此 contentStartY 是可写
// 区域的顶边（数值最大），contentEndY 是底边。
type geometry struct {
	pageW, pageH  float64
	contentStartX float64 // 左边界 = 左边距
	contentStartY float64 // 顶边界 = 页高 - 上边距
	contentEndX   float64 // 右边界 = 页宽 - 右边距
	contentEndY   float64 // 底边界 = 下边距
	contentW      float64
	contentH      float64
}

func computeGeometry(pageW, pageH float64, m Margins) geometry {
	return geometry{
		pageW:         pageW,
		pageH:         pageH,
		contentStartX: m.Left,
		contentStartY: pageH - m.Top,
		contentEndX:   pageW - m.Right,
		contentEndY:   m.Bottom,
		contentW:      pageW - m.Left - m.Right,
		contentH:      pageH - m.Top - m.Bottom,
	}
}

// clamp 把坐标约束到可写区域内。
func (g geometry) clamp(x, y float64) (float64, float64) {
	if x < g.contentStartX {
		x = g.contentStartX
	}
	if x > g.contentEndX {
		x = g.contentEndX
	}
	if y > g.contentStartY {
		y = g.contentStartY
	}
	if y < g.contentEndY {
		y = g.contentEndY
	}
	return x, y
}
