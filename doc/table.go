package doc

import (
	"fmt"
	"image"
)

// CellKind 区分单元格内容类型。
type CellKind int

const (
	CellText CellKind = iota
	CellImage
)

// Cell 是表格中的一个单元格：一段文本或一张图片。
type Cell struct {
	Kind  CellKind
	Text  string
	Image image.Image
}

// TextCell 构造文本单元格。
func TextCell(text string) Cell { return Cell{Kind: CellText, Text: text} }

// ImageCell 构造图片单元格。
func ImageCell(img image.Image) Cell { return Cell{Kind: CellImage, Image: img} }

// DrawTable 从当前光标高度开始绘制表格并返回其总高度。
//
// rows 中为 nil 的行被跳过但不报错（生成端常用 nil 占位）。列宽为各列
// 的固定宽度（pt），aligns 为各列文本的对齐方式，tableAlign 决定整个
// 表格在可写区域内的水平位置。
//
// 行高采用两趟布局：先用只测量路径对行内每个单元格跑一遍完整的排布
// 得到行高，再真正绘制。断页只发生在行边界：若当前行加上下一个非 nil
// 行放不进本页剩余空间，则先开新页（单行保证整行落在同一页上，行内
// 绝不跨页）。绘制期间自动断页被挂起。
func (d *Doc) DrawTable(rows [][]Cell, widths []float64, aligns []Flag, tableAlign Flag) (float64, error) {
	if err := d.ensurePage(); err != nil {
		return 0, err
	}
	if len(widths) == 0 {
		return 0, fmt.Errorf("%w: no columns", ErrBadTable)
	}
	tableWidth := 0.0
	for i, w := range widths {
		if w <= 0 {
			return 0, fmt.Errorf("%w: column %d width %v", ErrBadTable, i, w)
		}
		tableWidth += w
	}
	if len(aligns) != len(widths) {
		return 0, fmt.Errorf("%w: %d columns but %d alignments", ErrBadTable, len(widths), len(aligns))
	}
	for r, row := range rows {
		if row != nil && len(row) != len(widths) {
			return 0, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadTable, r, len(row), len(widths))
		}
	}

	// 表格整体水平定位，相对可写区域的空余宽度。
	x := d.geom.contentStartX
	if free := d.geom.contentW - tableWidth; free > 0 {
		switch {
		case tableAlign&Center != 0:
			x += free / 2
		case tableAlign&Right != 0:
			x += free
		}
	}

	d.suppress = true
	defer func() { d.suppress = false }()

	y := d.cursorY
	tabHeight := 0.0
	totalHeight := 0.0
	for _, row := range rows {
		if row == nil {
			continue
		}
		rowHeight := d.tableRow(x, y-tabHeight, row, widths, aligns, false)
		// 行边界断页：当前行连同已绘内容放不下时整行搬到新页。
		if y-tabHeight-rowHeight < d.geom.contentEndY {
			if err := d.openPage(); err != nil {
				return totalHeight, err
			}
			y = d.geom.contentStartY
			tabHeight = 0
		}
		d.tableRow(x, y-tabHeight, row, widths, aligns, true)
		tabHeight += rowHeight
		totalHeight += rowHeight
	}
	d.SetCursor(d.geom.contentStartX, y-tabHeight)
	return totalHeight, nil
}

// tableRow 在 (x, top) 处排布一行。emit 为 false 时只测量行高。
// 行高取各单元格内容高度的最大值；emit 时在行高确定后为每个单元格
// 画出四条边框。返回行高。
func (d *Doc) tableRow(x, top float64, row []Cell, widths []float64, aligns []Flag, emit bool) float64 {
	maxH := 0.0
	cx := x
	saveX, saveY := d.cursorX, d.cursorY
	for i, cell := range row {
		h := d.tableCell(cx, top, widths[i], cell, aligns[i], emit)
		if h > maxH {
			maxH = h
		}
		cx += widths[i]
	}
	d.cursorX, d.cursorY = saveX, saveY
	if emit {
		cx = x
		for _, w := range widths {
			d.cellBorder(cx, top, w, maxH)
			cx += w
		}
	}
	return maxH
}

// tableCell 在左上角 (x, top)、宽 w 的单元格内排布内容并返回内容高度。
// 文本基线落点参照首行行高的 0.8 处，使首行落在单元格留白之内。
func (d *Doc) tableCell(x, top, w float64, cell Cell, align Flag, emit bool) float64 {
	switch cell.Kind {
	case CellImage:
		if cell.Image == nil {
			return 0
		}
		b := cell.Image.Bounds()
		imW := float64(b.Dx())
		imH := float64(b.Dy())
		if emit {
			if err := d.page.DrawImage(x+d.cellMargin, top-d.cellMargin-imH, cell.Image, imW, imH); err != nil {
				d.logf("draw table image: %v", err)
			}
		}
		return imH + 2*d.cellMargin
	default:
		d.SetCursor(x+d.cellMargin, top-0.8*d.lineSep)
		return d.drawTextBetween(cell.Text, x+d.cellMargin, x+w-d.cellMargin, align, emit)
	}
}

// cellBorder 绘制一个单元格的四条边框。
func (d *Doc) cellBorder(x, top, w, h float64) {
	lines := [][4]float64{
		{x, top, x + w, top},
		{x, top - h, x + w, top - h},
		{x, top, x, top - h},
		{x + w, top, x + w, top - h},
	}
	for _, l := range lines {
		if err := d.page.DrawLine(l[0], l[1], l[2], l[3]); err != nil {
			d.logf("draw table border: %v", err)
		}
	}
}
