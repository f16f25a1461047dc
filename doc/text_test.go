package doc

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestDrawTextExplicitNewline(t *testing.T) {
	d, dev := newStubDoc()
	h, err := d.DrawTextAt(50, 742, "The quick brown fox\njumps", Left)
	if err != nil {
		t.Fatalf("DrawTextAt: %v", err)
	}
	if !approx(h, 24) {
		t.Fatalf("height = %v, want 24", h)
	}
	p := dev.pages[0]
	if len(p.texts) != 2 {
		t.Fatalf("got %d text ops, want 2", len(p.texts))
	}
	if p.texts[0] != (drawnText{X: 50, Y: 742, Text: "The quick brown fox"}) {
		t.Fatalf("first line = %+v", p.texts[0])
	}
	if p.texts[1] != (drawnText{X: 50, Y: 730, Text: "jumps"}) {
		t.Fatalf("second line = %+v", p.texts[1])
	}
	x, y := d.Cursor()
	if !approx(y, 730) || !approx(x, 50+stubWidth("jumps")) {
		t.Fatalf("cursor = (%v, %v)", x, y)
	}
}

func TestDrawTextSoftWrap(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	// 区间只放得下一个词（两个词宽 20 > 15）。
	h := d.drawTextBetween("one two three", 50, 65, Left, true)
	if !approx(h, 36) {
		t.Fatalf("height = %v, want 36", h)
	}
	p := dev.pages[0]
	want := []drawnText{
		{X: 50, Y: 700, Text: "one"},
		{X: 50, Y: 688, Text: "two"},
		{X: 50, Y: 676, Text: "three"},
	}
	if len(p.texts) != len(want) {
		t.Fatalf("got %d text ops, want %d", len(p.texts), len(want))
	}
	for i, w := range want {
		if p.texts[i] != w {
			t.Errorf("line %d = %+v, want %+v", i, p.texts[i], w)
		}
	}
}

func TestDrawTextOversizedWordTerminates(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	// 单词宽 10 > 5，仍须强制输出并推进。
	h := d.drawTextBetween("overflowing", 50, 55, Left, true)
	if !approx(h, 12) {
		t.Fatalf("height = %v, want 12", h)
	}
	p := dev.pages[0]
	if len(p.texts) != 1 || p.texts[0].Text != "overflowing" {
		t.Fatalf("texts = %+v", p.texts)
	}
	if _, y := d.Cursor(); !approx(y, 688) {
		t.Fatalf("cursorY = %v, want 688", y)
	}
}

func TestDrawTextCenterAndRight(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	d.drawTextBetween("mid", 50, 150, Center, true)
	d.SetCursor(50, 650)
	d.drawTextBetween("end", 50, 150, Right, true)

	p := dev.pages[0]
	// 区间宽 100，词宽 10：居中偏移 45，右对齐偏移 90。
	if !approx(p.texts[0].X, 95) {
		t.Errorf("centered X = %v, want 95", p.texts[0].X)
	}
	if !approx(p.texts[1].X, 140) {
		t.Errorf("right X = %v, want 140", p.texts[1].X)
	}
}

func TestDrawTextJustify(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	// 每行只放得下两个词（三个词宽 30 > 25），最后一行不拉伸。
	d.drawTextBetween("aa bb cc", 50, 75, Justify, true)

	p := dev.pages[0]
	if len(p.texts) != 2 {
		t.Fatalf("got %d lines, want 2", len(p.texts))
	}
	if p.texts[1].Text != "cc" {
		t.Fatalf("last line = %q", p.texts[1].Text)
	}
	// 第一行拉伸后必须恢复默认间距；最后一行不得设置间距。
	if len(p.spacings) != 2 {
		t.Fatalf("spacings = %v", p.spacings)
	}
	wantSpacing := (75 - 50 - stubWidth("aa bb")) / float64(len("aa bb")-1)
	if !approx(p.spacings[0], wantSpacing) {
		t.Errorf("spacing = %v, want %v", p.spacings[0], wantSpacing)
	}
	if p.spacings[1] != 0 {
		t.Errorf("spacing not reset: %v", p.spacings)
	}
}

func TestDrawTextAutomaticPageBreak(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	// 光标贴近底边：下一行后必须翻页。
	d.SetCursor(50, d.geom.contentEndY+13)
	if _, err := d.DrawText("first\nsecond", Left); err != nil {
		t.Fatal(err)
	}
	if len(dev.pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(dev.pages))
	}
	if len(dev.pages[1].texts) != 1 || dev.pages[1].texts[0].Text != "second" {
		t.Fatalf("second page texts = %+v", dev.pages[1].texts)
	}
	if got := dev.pages[1].texts[0].Y; !approx(got, d.geom.contentStartY) {
		t.Errorf("second page line Y = %v, want %v", got, d.geom.contentStartY)
	}
}

func TestDrawTextContinuesOnSameLine(t *testing.T) {
	d, dev := newStubDoc()
	if _, err := d.DrawTextAt(50, 700, "alpha", Left); err != nil {
		t.Fatal(err)
	}
	if _, err := d.DrawText("beta", Left); err != nil {
		t.Fatal(err)
	}
	p := dev.pages[0]
	if len(p.texts) != 2 {
		t.Fatalf("texts = %+v", p.texts)
	}
	if !approx(p.texts[1].Y, 700) {
		t.Errorf("second draw moved to new line: %+v", p.texts[1])
	}
	if !approx(p.texts[1].X, 50+stubWidth("alpha")) {
		t.Errorf("second draw X = %v", p.texts[1].X)
	}
}

func TestMakeLine(t *testing.T) {
	d, _ := newStubDoc()
	tokens := Tokenize("one two\nthree")

	if got := d.makeLine(tokens, 0, 100); got != 2 {
		t.Errorf("wide line = %d, want 2 (stops at newline)", got)
	}
	if got := d.makeLine(tokens, 0, 15); got != 1 {
		t.Errorf("narrow line = %d, want 1", got)
	}
	if got := d.makeLine(tokens, 0, 5); got != 0 {
		t.Errorf("too narrow = %d, want 0", got)
	}
	if got := d.makeLine(tokens, 2, 100); got != -1 {
		t.Errorf("at newline = %d, want -1", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  one \t two\n\nthree ")
	want := []Token{
		{Kind: TokenWord, Text: "one"},
		{Kind: TokenWord, Text: "two"},
		{Kind: TokenNewline},
		{Kind: TokenNewline},
		{Kind: TokenWord, Text: "three"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if Tokenize("   ") != nil {
		t.Error("blank input should yield no tokens")
	}
}
