package doc

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/heksemann/hexpdf/renderer"
)

// stubDevice 用固定度量记录所有绘制调用：每个词宽 10pt，行距 12pt。
type stubDevice struct {
	pages  []*stubPage
	output int
}

type drawnText struct {
	X, Y float64
	Text string
}

type drawnImage struct {
	X, Y, W, H float64
}

type stubPage struct {
	w, h     float64
	texts    []drawnText
	lines    [][4]float64
	images   []drawnImage
	spacings []float64
	fonts    []renderer.Font
	closed   bool
}

func stubWidth(text string) float64 {
	return 10 * float64(len(strings.Fields(text)))
}

func (d *stubDevice) TextWidth(_ renderer.Font, _ float64, text string) (float64, error) {
	return stubWidth(text), nil
}

func (d *stubDevice) LineHeight(renderer.Font, float64) (float64, error) { return 12, nil }

func (d *stubDevice) OpenPage(w, h float64) (renderer.Page, error) {
	p := &stubPage{w: w, h: h}
	d.pages = append(d.pages, p)
	return p, nil
}

func (d *stubDevice) Output(w io.Writer) error {
	d.output++
	_, err := io.WriteString(w, "%stub-pdf")
	return err
}

func (p *stubPage) SetFont(f renderer.Font, _ float64) error {
	p.fonts = append(p.fonts, f)
	return nil
}

func (p *stubPage) SetTextColor(color.Color) {}

func (p *stubPage) SetCharSpacing(v float64) { p.spacings = append(p.spacings, v) }

func (p *stubPage) DrawText(x, y float64, text string) error {
	p.texts = append(p.texts, drawnText{X: x, Y: y, Text: text})
	return nil
}

func (p *stubPage) DrawLine(x1, y1, x2, y2 float64) error {
	p.lines = append(p.lines, [4]float64{x1, y1, x2, y2})
	return nil
}

func (p *stubPage) DrawImage(x, y float64, _ image.Image, w, h float64) error {
	p.images = append(p.images, drawnImage{X: x, Y: y, W: w, H: h})
	return nil
}

func (p *stubPage) Close() error {
	p.closed = true
	return nil
}

func newStubDoc() (*Doc, *stubDevice) {
	dev := &stubDevice{}
	return New(dev), dev
}
