package doc

import (
	"image/color"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/heksemann/hexpdf/renderer"
)

// Footer 在 Finish 阶段写到每一页底部。三个槽位各自左/中/右对齐，
// 槽内可以用 \n 分成多行，行间向下堆叠。文本中的占位符在写入时替换：
//
//	{PAGE}      当前页码
//	{NUMPAGES}  总页数
//	{DATE}      当天日期（02 Jan 2006）
//	{USER}      当前系统用户名
//
// OmitFirstPage 为 true 时第一页不画页脚；CountFirstPage 为 false 时
// 第一页不参与编号（第二页的 {PAGE} 为 1）。注意两者同时为 false 的
// 组合：第一页仍然画页脚，但它不参与编号，{PAGE} 会显示 0。
type Footer struct {
	Left   string
	Center string
	Right  string

	OmitFirstPage  bool
	CountFirstPage bool

	Font     renderer.Font
	FontSize float64
	Color    color.Color
}

// DefaultFooter 返回惯用的页脚：左侧日期、中间用户名、右侧页码，
// 灰色粗体 8pt，首页不画但参与编号。
func DefaultFooter() *Footer {
	return &Footer{
		Left:           "{DATE}",
		Center:         "{USER}",
		Right:          "Page {PAGE} of {NUMPAGES}",
		OmitFirstPage:  true,
		CountFirstPage: true,
		Font:           renderer.Font{Name: "Times-Bold", Src: "system:Times New Roman", Style: "Bold"},
		FontSize:       8,
		Color:          color.Gray{Y: 128},
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// applyFooter 对所有已打开的页面执行一次页脚回写。此时总页数已定，
// 每页用其打开时的几何信息定位槽位。
func (d *Doc) applyFooter() {
	f := d.footer
	total := d.pageNum
	if !f.CountFirstPage {
		total--
	}
	now := time.Now().Format("02 Jan 2006")
	usr := currentUser()

	for i, p := range d.pages {
		if i == 0 && f.OmitFirstPage {
			continue
		}
		num := i + 1
		if !f.CountFirstPage {
			num = i
		}
		repl := strings.NewReplacer(
			"{PAGE}", strconv.Itoa(num),
			"{NUMPAGES}", strconv.Itoa(total),
			"{DATE}", now,
			"{USER}", usr,
		)
		d.footerPage(p, repl)
	}
}

// footerPage 在单页上写出三个槽位。
func (d *Doc) footerPage(p openedPage, repl *strings.Replacer) {
	if err := p.surface.SetFont(d.footer.Font, d.footer.FontSize); err != nil {
		d.logf("footer font: %v", err)
	}
	if d.footer.Color != nil {
		p.surface.SetTextColor(d.footer.Color)
	}

	lineH, err := d.dev.LineHeight(d.footer.Font, d.footer.FontSize)
	if err != nil {
		d.logf("footer line height: %v", err)
		lineH = d.footer.FontSize * 1.2
	}
	baseY := p.geom.contentEndY - lineH

	d.footerSlot(p, repl.Replace(d.footer.Left), baseY, lineH, Left)
	d.footerSlot(p, repl.Replace(d.footer.Center), baseY, lineH, Center)
	d.footerSlot(p, repl.Replace(d.footer.Right), baseY, lineH, Right)
}

// footerSlot 写出一个槽位，多行文本向下堆叠。
func (d *Doc) footerSlot(p openedPage, text string, y, lineH float64, align Flag) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		w, err := d.dev.TextWidth(d.footer.Font, d.footer.FontSize, line)
		if err != nil {
			d.logf("footer width: %v", err)
			w = 0
		}
		x := p.geom.contentStartX
		switch align {
		case Center:
			x = p.geom.contentStartX + (p.geom.contentEndX-p.geom.contentStartX-w)/2
		case Right:
			x = p.geom.contentEndX - w
		}
		if err := p.surface.DrawText(x, y, line); err != nil {
			d.logf("footer text: %v", err)
		}
		y -= lineH
	}
}
