package doc

import "image"

// DrawImage 在当前光标高度放置图片，像素按 1px = 1pt 换算为固有尺寸。
// 水平位置由 flags 决定（相对整页宽度，Center/Right 不受边距影响）；
// 带 Newline 时光标移到图片下方再空一行，否则光标不动。
// 图片超出当前页剩余高度时先开新页再放置。
func (d *Doc) DrawImage(img image.Image, flags Flag) error {
	if err := d.ensurePage(); err != nil {
		return err
	}
	b := img.Bounds()
	imW := float64(b.Dx())
	imH := float64(b.Dy())

	if d.cursorY-imH < d.geom.contentEndY && !d.suppress {
		if err := d.openPage(); err != nil {
			return err
		}
	}

	imgX := d.cursorX
	switch {
	case flags&Center != 0:
		imgX = (d.geom.pageW - imW) / 2
	case flags&Left != 0:
		imgX = d.margins.Left
	case flags&Right != 0:
		imgX = d.geom.pageW - d.margins.Right - imW
	}
	imgY := d.cursorY - imH

	if err := d.page.DrawImage(imgX, imgY, img, imW, imH); err != nil {
		d.logf("draw image: %v", err)
		return nil
	}
	if flags&Newline != 0 {
		d.SetCursor(d.margins.Left, imgY-d.lineSep)
	}
	return nil
}

// DrawImageAt 把光标移到 (x, y) 后放置图片，忽略对齐位。
func (d *Doc) DrawImageAt(x, y float64, img image.Image, flags Flag) error {
	if err := d.ensurePage(); err != nil {
		return err
	}
	d.SetCursor(x, y)
	return d.DrawImage(img, flags&Newline)
}
