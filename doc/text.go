package doc

import "unicode/utf8"

// DrawText 从当前光标开始，在整个可写区域宽度内排布文本。
// 返回排布消耗的总高度（pt，跨页时累计）。排布结束后光标停在最后
// 一行文字的末尾，后续调用可以在同一行继续。
func (d *Doc) DrawText(text string, flags Flag) (float64, error) {
	if err := d.ensurePage(); err != nil {
		return 0, err
	}
	return d.drawTextBetween(text, d.geom.contentStartX, d.geom.contentEndX, flags, true), nil
}

// DrawTextAt 先把光标移到 (x, y) 再排布文本。
func (d *Doc) DrawTextAt(x, y float64, text string, flags Flag) (float64, error) {
	if err := d.ensurePage(); err != nil {
		return 0, err
	}
	d.SetCursor(x, y)
	return d.drawTextBetween(text, d.geom.contentStartX, d.geom.contentEndX, flags, true), nil
}

// drawTextBetween 在 [startx, endx] 水平区间内逐行排布文本。
// emit 为 false 时只测量：光标与高度按完全相同的路径推进，但不触碰
// 页面表面，也不触发自动断页。表格用同一条代码路径先测高再真正绘制，
// 保证两趟结果逐 pt 一致。
//
// 输出一行后光标停在行尾，垂直移动发生在下一个词放不下（软换行）或
// 遇到显式换行标记时。总高度只累计实际产出的文字行，换行本身的垂直
// 移动不计入，这让表格的行高测量只反映内容。
func (d *Doc) drawTextBetween(text string, startx, endx float64, flags Flag, emit bool) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	height := 0.0
	i := 0
	for i < len(tokens) {
		maxLen := endx - d.cursorX
		num := d.makeLine(tokens, i, maxLen)
		switch {
		case num == -1:
			// 显式换行：消费标记，光标回到行首并下移一行。
			i++
			d.linebreak(startx, emit)
		case num == 0 && d.cursorX > startx:
			// 行中已有内容且下一个词放不下：仅换行，不消费词。
			d.linebreak(startx, emit)
		case num == 0:
			// 行首单词仍放不下：强制输出，避免死循环。
			d.drawString(tokens[i].Text, emit)
			i++
			height += d.lineSep
			d.linebreak(startx, emit)
		default:
			line := joinTokens(tokens, i, num)
			if d.cursorX == startx && flags&Left == 0 {
				space := endx - startx - d.textWidth(line)
				switch {
				case flags&Justify != 0:
					// 段落最后一行不拉伸：词流耗尽或紧跟显式换行。
					last := i+num >= len(tokens) || tokens[i+num].Kind == TokenNewline
					runes := utf8.RuneCountInString(line)
					if emit && !last && runes > 1 {
						d.page.SetCharSpacing(space / float64(runes-1))
						d.drawString(line, emit)
						d.page.SetCharSpacing(0)
					} else {
						d.drawString(line, emit)
					}
				case flags&Center != 0:
					d.cursorX += space / 2
					d.drawString(line, emit)
				case flags&Right != 0:
					d.cursorX += space
					d.drawString(line, emit)
				default:
					d.drawString(line, emit)
				}
			} else {
				d.drawString(line, emit)
			}
			i += num
			height += d.lineSep
		}
	}
	return height
}

// linebreak 把光标移到下一行行首，必要时触发自动断页（仅 emit 时）。
func (d *Doc) linebreak(startx float64, emit bool) {
	d.cursorX = startx
	d.cursorY -= d.lineSep
	if emit {
		d.checkLinebreak(startx)
	}
}

// drawString 在当前光标基线处输出一段已定稿的文字并水平推进光标。
// emit 为 false 时只推进。
func (d *Doc) drawString(s string, emit bool) {
	if emit {
		if err := d.page.DrawText(d.cursorX, d.cursorY, s); err != nil {
			d.logf("draw text: %v", err)
		}
	}
	d.cursorX += d.textWidth(s)
}
