// Package canvasdevice 基于 github.com/tdewolff/canvas 实现 renderer.Device，
// 最终经 canvas 的 PDF 后端序列化输出。布局侧全部使用 pt，canvas 内部使用
// mm，换算只发生在本包边界。
package canvasdevice

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/heksemann/hexpdf/renderer"
)

const (
	ptToMm = 0.352777
	mmToPt = 1.0 / ptToMm

	borderWidth = 0.2 // mm，表格边框线宽
)

// Device 渲染到内存中的 canvas 页面序列，Output 时一次性写成 PDF。
// 页面在 Close 之后仍保留在内存里，页脚回写依赖这一点。
type Device struct {
	baseDir string

	fontBlobs map[string][]byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily

	pages []*pageSurface
}

var _ renderer.Device = (*Device)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options 配置设备。
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 通过 built-in:<名称> 引用的内置字体
}

// Resource 以字节或路径二选一的方式提供资源。
type Resource struct {
	Bytes []byte
	Path  string
}

// New 创建一个以 baseDir 为资源根目录的设备。
func New(baseDir string) *Device { return NewWithOptions(Options{BaseDir: baseDir}) }

// NewWithOptions 创建带注入资源的设备。
func NewWithOptions(opts Options) *Device {
	d := &Device{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			d.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 失败留到真正使用时报告
			if len(data) > 0 {
				d.fontBlobs[name] = data
			}
		}
	}
	return d
}

// TextWidth 实现 renderer.Metrics。
func (d *Device) TextWidth(font renderer.Font, size float64, text string) (float64, error) {
	face, err := d.fontFace(font, size, canvas.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text) * mmToPt, nil
}

// LineHeight 实现 renderer.Metrics。
func (d *Device) LineHeight(font renderer.Font, size float64) (float64, error) {
	face, err := d.fontFace(font, size, canvas.Black)
	if err != nil {
		return 0, err
	}
	return face.Metrics().LineHeight * mmToPt, nil
}

// OpenPage 实现 renderer.Device。宽高单位为 pt。
func (d *Device) OpenPage(width, height float64) (renderer.Page, error) {
	c := canvas.New(width*ptToMm, height*ptToMm)
	ctx := canvas.NewContext(c)
	p := &pageSurface{
		dev: d,
		c:   c,
		ctx: ctx,
		wMM: width * ptToMm,
		hMM: height * ptToMm,
	}
	d.pages = append(d.pages, p)
	return p, nil
}

// Output 把所有页面写成一份 PDF。
func (d *Device) Output(w io.Writer) error {
	if len(d.pages) == 0 {
		return fmt.Errorf("没有可输出的页面")
	}
	first := d.pages[0]
	writer := pdf.New(w, first.wMM, first.hMM, nil)
	for i, p := range d.pages {
		if i > 0 {
			writer.NewPage(p.wMM, p.hMM)
		}
		p.c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// pageSurface 是一张 canvas 页面。坐标换算：入参 pt，绘制时转 mm；
// canvas 默认坐标系原点即左下角 y 向上，与布局侧约定一致。
type pageSurface struct {
	dev *Device

	c        *canvas.Canvas
	ctx      *canvas.Context
	wMM, hMM float64

	font        renderer.Font
	fontSize    float64
	textColor   color.Color
	charSpacing float64 // pt
	closed      bool
}

var _ renderer.Page = (*pageSurface)(nil)

func (p *pageSurface) SetFont(font renderer.Font, size float64) error {
	// 提前解析，让字体问题在设置时就暴露出来。
	if _, err := p.dev.fontFace(font, size, canvas.Black); err != nil {
		return err
	}
	p.font = font
	p.fontSize = size
	return nil
}

func (p *pageSurface) SetTextColor(c color.Color) { p.textColor = c }

func (p *pageSurface) SetCharSpacing(v float64) { p.charSpacing = v }

func (p *pageSurface) face() (*canvas.FontFace, error) {
	col := p.textColor
	if col == nil {
		col = canvas.Black
	}
	return p.dev.fontFace(p.font, p.fontSize, col)
}

func (p *pageSurface) DrawText(x, y float64, text string) error {
	face, err := p.face()
	if err != nil {
		return err
	}
	if p.charSpacing == 0 {
		p.ctx.DrawText(x*ptToMm, y*ptToMm, canvas.NewTextLine(face, text, canvas.Left))
		return nil
	}
	// 两端对齐的拉伸：逐字符绘制，按间距推进。
	cx := x * ptToMm
	spacing := p.charSpacing * ptToMm
	for _, r := range text {
		s := string(r)
		p.ctx.DrawText(cx, y*ptToMm, canvas.NewTextLine(face, s, canvas.Left))
		cx += face.TextWidth(s) + spacing
	}
	return nil
}

func (p *pageSurface) DrawLine(x1, y1, x2, y2 float64) error {
	p.ctx.SetStrokeColor(canvas.Black)
	p.ctx.SetStrokeWidth(borderWidth)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo((x2-x1)*ptToMm, (y2-y1)*ptToMm)
	p.ctx.DrawPath(x1*ptToMm, y1*ptToMm, path)
	return nil
}

func (p *pageSurface) DrawImage(x, y float64, img image.Image, w, h float64) error {
	if img == nil {
		return fmt.Errorf("图片为空")
	}
	wMM := w * ptToMm
	if wMM <= 0 || img.Bounds().Dx() == 0 {
		return fmt.Errorf("图片尺寸非法: %v x %v", w, h)
	}
	dpmm := float64(img.Bounds().Dx()) / wMM
	p.ctx.DrawImage(x*ptToMm, y*ptToMm, img, canvas.DPMM(dpmm))
	return nil
}

// Close 只做标记：序列化推迟到 Device.Output，之前页脚仍可回写。
func (p *pageSurface) Close() error {
	p.closed = true
	return nil
}

// --- 字体加载，带缓存与系统字体回退 ---

func (d *Device) fontFace(font renderer.Font, size float64, col color.Color) (*canvas.FontFace, error) {
	family, style, err := d.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, col, style, canvas.FontNormal), nil
}

func (d *Device) ensureFontFamily(font renderer.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	d.fontMu.Lock()
	defer d.fontMu.Unlock()

	if entry, ok := d.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := d.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbErr := d.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		d.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	d.fontFamilies[key] = entry
	return family, style, nil
}

func (d *Device) loadFontIntoFamily(family *canvas.FontFamily, font renderer.Font, style canvas.FontStyle) error {
	if name, ok := strings.CutPrefix(font.Src, "system:"); ok {
		return family.LoadSystemFont(name, style)
	}
	data, err := d.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (d *Device) loadFontBytes(font renderer.Font) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := d.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	path := src
	if d.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 system:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.baseDir, path)
	}
	return os.ReadFile(path)
}

func (d *Device) fallback() (*canvas.FontFamily, error) {
	if d.fallbackFamily != nil {
		return d.fallbackFamily, nil
	}
	family := canvas.NewFontFamily("hexpdf-fallback")
	var err error
	for _, name := range []string{"DejaVu Sans", "Liberation Sans", "Arial"} {
		if err = family.LoadSystemFont(name, canvas.FontRegular); err == nil {
			d.fallbackFamily = family
			return family, nil
		}
	}
	return nil, fmt.Errorf("没有可用的回退字体: %w", err)
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font renderer.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
