package canvasdevice

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/heksemann/hexpdf/renderer"
)

func TestParseFontStyle(t *testing.T) {
	cases := []struct {
		in   string
		want canvas.FontStyle
	}{
		{"", canvas.FontRegular},
		{"Bold", canvas.FontBold},
		{"bold italic", canvas.FontBold | canvas.FontItalic},
		{"ExtraBold", canvas.FontExtraBold},
		{"Light", canvas.FontLight},
		{"Oblique", canvas.FontRegular | canvas.FontItalic},
		{"nonsense", canvas.FontRegular},
	}
	for _, tc := range cases {
		if got := parseFontStyle(tc.in); got != tc.want {
			t.Errorf("parseFontStyle(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFontCacheKeyDistinguishesStyles(t *testing.T) {
	a := fontCacheKey(renderer.Font{Name: "X", Src: "x.ttf"})
	b := fontCacheKey(renderer.Font{Name: "X", Src: "x.ttf", Style: "Bold"})
	if a == b {
		t.Error("style must participate in the cache key")
	}
}

func TestOutputWithoutPages(t *testing.T) {
	d := New("")
	if err := d.Output(&bytes.Buffer{}); err == nil {
		t.Fatal("expected error for empty device")
	}
}

func TestLoadFontBytesRequiresBaseDirForRelativePaths(t *testing.T) {
	d := New("")
	if _, err := d.loadFontBytes(renderer.Font{Name: "X", Src: "fonts/x.ttf"}); err == nil {
		t.Fatal("relative path without base dir should fail")
	}
	if _, err := d.loadFontBytes(renderer.Font{Name: "X"}); err == nil {
		t.Fatal("empty src should fail")
	}
	if _, err := d.loadFontBytes(renderer.Font{Name: "X", Src: "built-in:missing"}); err == nil {
		t.Fatal("unknown built-in should fail")
	}
}

func TestPtMmRoundTrip(t *testing.T) {
	const v = 595.2756
	got := v * ptToMm * mmToPt
	if got < v-1e-9 || got > v+1e-9 {
		t.Errorf("round trip = %v", got)
	}
}

// 端到端冒烟：依赖系统字体，环境缺字体时跳过。
func TestRenderSmoke(t *testing.T) {
	dev := New("")
	font := renderer.Font{Name: "DejaVu Sans", Src: "system:DejaVu Sans"}
	if _, err := dev.TextWidth(font, 10, "hello"); err != nil {
		t.Skipf("系统字体不可用: %v", err)
	}
	w, err := dev.TextWidth(font, 10, "hello")
	if err != nil || w <= 0 {
		t.Fatalf("TextWidth = %v, %v", w, err)
	}
	lh, err := dev.LineHeight(font, 10)
	if err != nil || lh <= 0 {
		t.Fatalf("LineHeight = %v, %v", lh, err)
	}

	page, err := dev.OpenPage(595.2756, 841.8898)
	if err != nil {
		t.Fatal(err)
	}
	if err := page.SetFont(font, 10); err != nil {
		t.Fatal(err)
	}
	if err := page.DrawText(50, 700, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := page.DrawLine(50, 650, 200, 650); err != nil {
		t.Fatal(err)
	}
	if err := page.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := dev.Output(&buf); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Errorf("output does not look like a PDF: %q", buf.String()[:min(16, buf.Len())])
	}
}
