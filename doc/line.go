package doc

// makeLine 从 tokens[first] 开始贪婪地收集能放进 maxLen 宽度内的词。
// 返回值有三种含义：
//
//	-1  tokens[first] 是显式换行标记
//	 0  第一个词单独也放不下（调用方决定换行或强制输出）
//	 N  从 first 起连续 N 个词能放下
//
// 每个候选词按“前置一个空格”的宽度参与测量，与后续实际输出的
// 连接方式一致。遇到换行标记即停止，标记本身不被消费。
func (d *Doc) makeLine(tokens []Token, first int, maxLen float64) int {
	if first >= len(tokens) {
		return 0
	}
	if tokens[first].Kind == TokenNewline {
		return -1
	}
	num := 0
	line := ""
	for i := first; i < len(tokens); i++ {
		if tokens[i].Kind == TokenNewline {
			break
		}
		candidate := line + " " + tokens[i].Text
		if d.textWidth(candidate) > maxLen {
			break
		}
		line = candidate
		num++
	}
	return num
}
