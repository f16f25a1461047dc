// Package doc 实现分页布局引擎：在固定尺寸、带边距的页面序列上排布
// 文本、图片与表格，维护精确的光标位置，并在内容越过可写区域底边时
// 自动开新页。具体的绘制与文本度量委托给 renderer.Device。
//
// Doc 不支持并发使用：所有操作都在单一调用链上同步完成。
package doc

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/heksemann/hexpdf/renderer"
)

// Flag 是对齐与排版选项的位掩码。
type Flag int

const (
	Center  Flag = 1  // 居中对齐
	Left    Flag = 2  // 左对齐（默认）
	Right   Flag = 4  // 右对齐
	Justify Flag = 8  // 两端对齐（段落最后一行除外）
	Newline Flag = 16 // 仅用于图片：放置后把光标移到图片下方
)

// 默认样式参数，可通过对应 setter 调整。
const (
	DefaultNormalFontSize  = 10
	DefaultTitle1FontSize  = 20
	DefaultTitle2FontSize  = 15
	DefaultTableCellMargin = 5
)

var (
	// ErrFinished 表示文档已经 Finish，不再接受任何绘制。
	ErrFinished = errors.New("hexpdf: document already finished")
	// ErrNoPage 表示没有可用的页面表面（开页失败）。
	ErrNoPage = errors.New("hexpdf: no active page")
	// ErrBadTable 表示表格输入不满足前置条件（行形状不一致、宽度非正等）。
	ErrBadTable = errors.New("hexpdf: invalid table input")
)

// openedPage 记录一张已打开的页面及其打开时的几何信息，
// 页脚回写阶段需要逐页使用各自的几何。
type openedPage struct {
	surface renderer.Page
	geom    geometry
}

// Doc 是一份正在排版的文档。布局状态（光标、样式、页面生命周期）
// 全部集中在这里，没有包级可变状态。
type Doc struct {
	dev   renderer.Device
	page  renderer.Page // 当前页，nil 表示还没有开页
	pages []openedPage

	size     PageSize
	orient   Orientation
	margins  Margins
	geom     geometry
	pageNum  int // 已打开的页数
	finished bool

	// 样式状态。字体或字号变化会立即重算 lineSep 并重新作用到当前页。
	font      renderer.Font
	fontSize  float64
	lineSep   float64
	textColor color.Color

	normalSize float64
	title1Size float64
	title2Size float64
	cellMargin float64

	cursorX float64
	cursorY float64

	// suppress 为 true 时引擎不会自行开新页，由复合操作（表格）
	// 在安全的行边界上自行断页。
	suppress bool

	footer *Footer
	logger *log.Logger
}

// New 创建一份 A4 纵向、四边 50pt 边距、Helvetica 10pt 的文档。
// 第一页在首次绘制或显式 NewPage 时才真正打开。
func New(dev renderer.Device) *Doc {
	d := &Doc{
		dev:        dev,
		size:       A4,
		margins:    Margins{Top: 50, Right: 50, Bottom: 50, Left: 50},
		font:       renderer.Font{Name: "Helvetica", Src: "system:Helvetica"},
		fontSize:   DefaultNormalFontSize,
		textColor:  color.Black,
		normalSize: DefaultNormalFontSize,
		title1Size: DefaultTitle1FontSize,
		title2Size: DefaultTitle2FontSize,
		cellMargin: DefaultTableCellMargin,
		logger:     log.Default(),
	}
	w, h := d.size.oriented(d.orient)
	d.geom = computeGeometry(w, h, d.margins)
	d.cursorX = d.geom.contentStartX
	d.cursorY = d.geom.contentStartY
	d.recalcLineSep()
	return d
}

// SetLogger 替换降级告警使用的 logger。
func (d *Doc) SetLogger(l *log.Logger) {
	if l != nil {
		d.logger = l
	}
}

func (d *Doc) logf(format string, args ...any) {
	d.logger.Printf("hexpdf: "+format, args...)
}

// setDimensions 在边距变化后重算可写区域，并把光标夹回区域内。
// 当前已有页面时按该页的实际宽高计算，否则按配置的纸张与方向。
func (d *Doc) setDimensions() {
	w, h := d.geom.pageW, d.geom.pageH
	if d.page == nil {
		w, h = d.size.oriented(d.orient)
	}
	d.geom = computeGeometry(w, h, d.margins)
	d.cursorX, d.cursorY = d.geom.clamp(d.cursorX, d.cursorY)
}

// recalcLineSep 在字体或字号变化后重新询问度量，必须发生在下一行
// 被测量之前。度量失败按降级策略记日志并保持行距为 0。
func (d *Doc) recalcLineSep() {
	sep, err := d.dev.LineHeight(d.font, d.fontSize)
	if err != nil {
		d.logf("line height lookup failed: %v", err)
		sep = 0
	}
	d.lineSep = sep
}

// textWidth 询问度量 oracle。失败时记日志并返回 0（内容会被静默略过，
// 文档保持可续写，这是刻意的 best-effort 策略）。
func (d *Doc) textWidth(text string) float64 {
	w, err := d.dev.TextWidth(d.font, d.fontSize, text)
	if err != nil {
		d.logf("text width lookup failed: %v", err)
		return 0
	}
	return w
}

// ensurePage 保证存在一张打开的页面。文档 Finish 后返回 ErrFinished。
func (d *Doc) ensurePage() error {
	if d.finished {
		return ErrFinished
	}
	if d.page != nil {
		return nil
	}
	return d.openPage()
}

// NewPage 打开新的一页并使其成为当前页。光标回到可写区域左上角，
// 当前字体、字号与颜色会重新作用到新页面上（页面表面不继承样式）。
// 旧页面保持可回写，统一在 Finish 时关闭。
func (d *Doc) NewPage() error {
	if d.finished {
		return ErrFinished
	}
	return d.openPage()
}

func (d *Doc) openPage() error {
	w, h := d.size.oriented(d.orient)
	page, err := d.dev.OpenPage(w, h)
	if err != nil {
		d.page = nil
		return fmt.Errorf("%w: %v", ErrNoPage, err)
	}
	d.page = page
	d.pageNum++
	d.geom = computeGeometry(w, h, d.margins)
	d.pages = append(d.pages, openedPage{surface: page, geom: d.geom})
	d.cursorX = d.geom.contentStartX
	d.cursorY = d.geom.contentStartY
	d.applyStyle()
	return nil
}

// applyStyle 把当前样式状态重新作用到当前页面。
func (d *Doc) applyStyle() {
	if d.page == nil {
		return
	}
	if err := d.page.SetFont(d.font, d.fontSize); err != nil {
		d.logf("set font %q: %v", d.font.Name, err)
	}
	d.page.SetTextColor(d.textColor)
}

// SetCursor 把光标移到当前页上的新位置。
func (d *Doc) SetCursor(x, y float64) {
	d.cursorX = x
	d.cursorY = y
}

// Cursor 返回当前光标位置。
func (d *Doc) Cursor() (x, y float64) { return d.cursorX, d.cursorY }

// PageCount 返回已打开的页数。
func (d *Doc) PageCount() int { return d.pageNum }

// --- 样式 ---

// SetFont 切换当前字体并立即重算行距。
func (d *Doc) SetFont(f renderer.Font) {
	d.font = f
	d.recalcLineSep()
	d.applyStyle()
}

// Font 返回当前字体。
func (d *Doc) Font() renderer.Font { return d.font }

// SetFontSize 切换当前字号（pt）并立即重算行距。
func (d *Doc) SetFontSize(size float64) {
	d.fontSize = size
	d.recalcLineSep()
	d.applyStyle()
}

// FontSize 返回当前字号。
func (d *Doc) FontSize() float64 { return d.fontSize }

// LineSep 返回当前行距（由字体度量与字号推出）。
func (d *Doc) LineSep() float64 { return d.lineSep }

// SetTextColor 设定文本颜色。
func (d *Doc) SetTextColor(c color.Color) {
	d.textColor = c
	if d.page != nil {
		d.page.SetTextColor(c)
	}
}

// NormalStyle 切换到正文字号。
func (d *Doc) NormalStyle() { d.SetFontSize(d.normalSize) }

// Title1Style 切换到一级标题字号。
func (d *Doc) Title1Style() { d.SetFontSize(d.title1Size) }

// Title2Style 切换到二级标题字号。
func (d *Doc) Title2Style() { d.SetFontSize(d.title2Size) }

// SetNormalFontSize 调整 NormalStyle 使用的字号。
func (d *Doc) SetNormalFontSize(size float64) { d.normalSize = size }

// SetTitle1FontSize 调整 Title1Style 使用的字号。
func (d *Doc) SetTitle1FontSize(size float64) { d.title1Size = size }

// SetTitle2FontSize 调整 Title2Style 使用的字号。
func (d *Doc) SetTitle2FontSize(size float64) { d.title2Size = size }

// SetTableCellMargin 调整表格边框与单元格文本之间的留白（pt）。
func (d *Doc) SetTableCellMargin(m float64) { d.cellMargin = m }

// TableCellMargin 返回当前单元格留白。
func (d *Doc) TableCellMargin() float64 { return d.cellMargin }

// --- 页面设置 ---

// SetPageSize 设定纸张尺寸，从下一次开页起生效。
func (d *Doc) SetPageSize(s PageSize) {
	d.size = s
	if d.page == nil {
		d.setDimensions()
	}
}

// SetOrientation 设定页面方向，从下一次开页起生效。
func (d *Doc) SetOrientation(o Orientation) {
	d.orient = o
	if d.page == nil {
		d.setDimensions()
	}
}

// SetMargins 一次设置四边边距并重算可写区域。
func (d *Doc) SetMargins(top, right, bottom, left float64) {
	d.margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	d.setDimensions()
}

// SetTopMargin 设置上边距。
func (d *Doc) SetTopMargin(v float64) { d.margins.Top = v; d.setDimensions() }

// SetRightMargin 设置右边距。
func (d *Doc) SetRightMargin(v float64) { d.margins.Right = v; d.setDimensions() }

// SetBottomMargin 设置下边距。
func (d *Doc) SetBottomMargin(v float64) { d.margins.Bottom = v; d.setDimensions() }

// SetLeftMargin 设置左边距。
func (d *Doc) SetLeftMargin(v float64) { d.margins.Left = v; d.setDimensions() }

// Margins 返回当前边距。
func (d *Doc) Margins() Margins { return d.margins }

// PageWidth 返回当前页宽（pt）。
func (d *Doc) PageWidth() float64 { return d.geom.pageW }

// PageHeight 返回当前页高（pt）。
func (d *Doc) PageHeight() float64 { return d.geom.pageH }

// ContentWidth 返回可写区域宽度。
func (d *Doc) ContentWidth() float64 { return d.geom.contentW }

// ContentHeight 返回可写区域高度。
func (d *Doc) ContentHeight() float64 { return d.geom.contentH }

// --- 页脚与收尾 ---

// SetFooter 附加页脚，在 Finish 时统一作用到所有页面。
func (d *Doc) SetFooter(f *Footer) { d.footer = f }

// Footer 返回当前附加的页脚（可能为 nil）。
func (d *Doc) Footer() *Footer { return d.footer }

// Finish 结束文档并把最终输出写入 w：关闭仍打开的页面，执行一次页脚
// 回写（逐页、恰好一次），然后让 Device 序列化。之后文档不可变。
func (d *Doc) Finish(w io.Writer) error {
	if d.finished {
		return ErrFinished
	}
	if d.page == nil {
		// 空文档也输出一张空白页，保证结果始终是合法文件。
		if err := d.openPage(); err != nil {
			return err
		}
	}
	if d.footer != nil {
		d.applyFooter()
	}
	for i, p := range d.pages {
		if err := p.surface.Close(); err != nil {
			d.logf("closing page %d: %v", i+1, err)
		}
	}
	d.page = nil
	d.finished = true
	return d.dev.Output(w)
}

// checkLinebreak 在光标下移一行后检查是否越过底边，必要时开新页并把
// 光标放回 startx。suppress 生效期间不做任何事。
func (d *Doc) checkLinebreak(startx float64) {
	if d.suppress {
		return
	}
	if d.cursorY-d.lineSep < d.geom.contentEndY {
		if err := d.openPage(); err != nil {
			d.logf("automatic page break failed: %v", err)
			return
		}
		d.cursorX = startx
	}
}
