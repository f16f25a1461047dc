package renderer

import (
	"image"
	"image/color"
	"io"
)

// Font 描述一个字体引用，由具体 Device 负责解析与加载。
// Src 支持文件路径或 "system:<名称>"（由系统字体库查找）。
type Font struct {
	Name  string
	Src   string
	Style string // Regular/Bold/Italic 等，空值等同 Regular
}

// Metrics 提供文本度量，布局引擎据此做换行与对齐计算。
// 对相同输入必须返回确定的结果（引擎不做缓存，逐行重新询问）。
// 所有返回值单位均为 pt。
type Metrics interface {
	// TextWidth 返回文本在给定字体与字号下的渲染宽度。
	TextWidth(font Font, size float64, text string) (float64, error)
	// LineHeight 返回给定字体与字号下的行距（随字体度量与字号缩放）。
	LineHeight(font Font, size float64) (float64, error)
}

// Page 是一张已打开的页面表面。坐标单位为 pt，原点在页面左下角，y 轴向上
// （与 PDF 一致）。文本绘制坐标为基线位置。
type Page interface {
	// SetFont 设定后续文本绘制使用的字体与字号。
	SetFont(font Font, size float64) error
	// SetTextColor 设定文本填充色。
	SetTextColor(c color.Color)
	// SetCharSpacing 设定字符间距（pt），用于两端对齐的拉伸；0 表示恢复默认。
	SetCharSpacing(v float64)
	// DrawText 在 (x, y) 基线处绘制一行文本。
	DrawText(x, y float64, text string) error
	// DrawLine 绘制一条线段，用于表格边框。
	DrawLine(x1, y1, x2, y2 float64) error
	// DrawImage 以 (x, y) 为左下角绘制图片，缩放到 w×h。
	DrawImage(x, y float64, img image.Image, w, h float64) error
	// Close 声明本页内容已完结，之后不应再有绘制调用。
	// Device 可以把真正的序列化推迟到 Output。
	Close() error
}

// Device 打开页面并最终输出整份文档。
type Device interface {
	Metrics
	// OpenPage 新建一张 width×height（pt）的页面。
	OpenPage(width, height float64) (Page, error)
	// Output 将所有页面序列化写入 w。之后 Device 不再可用。
	Output(w io.Writer) error
}
