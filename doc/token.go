package doc

import "unicode"

// TokenKind 区分普通词与显式换行。换行在分词阶段就被升格为独立的
// 标记类型，后续流程只比较 Kind，绝不再做字符串比较。
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenNewline
)

// Token 是词流中的一个元素：一个词，或一个显式换行标记。
type Token struct {
	Kind TokenKind
	Text string // 仅 TokenWord 有内容
}

// Tokenize 把原始文本切成词流：连续空白折叠为一个分隔，每个字面换行
// 产生一个 TokenNewline。空串或纯空白输入返回空切片，调用方应视作
// 零高度的 no-op。
func Tokenize(text string) []Token {
	var tokens []Token
	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		tokens = append(tokens, Token{Kind: TokenWord, Text: string(word)})
		word = word[:0]
	}
	for _, r := range text {
		switch {
		case r == '\n':
			flush()
			tokens = append(tokens, Token{Kind: TokenNewline})
		case unicode.IsSpace(r):
			flush()
		default:
			word = append(word, r)
		}
	}
	flush()
	return tokens
}

// joinTokens 把从 first 开始的 num 个词用单个空格连接。
func joinTokens(tokens []Token, first, num int) string {
	var b []byte
	for i := first; i < first+num && i < len(tokens); i++ {
		if len(b) > 0 {
			b = append(b, ' ')
		}
		b = append(b, tokens[i].Text...)
	}
	return string(b)
}
