package dsl

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/heksemann/hexpdf/binding"
	"github.com/heksemann/hexpdf/doc"
	"github.com/heksemann/hexpdf/renderer"
)

// Runner executes a parsed script against a layout document.
type Runner struct {
	doc     *doc.Doc
	data    any
	baseDir string
}

// Run parses nothing: it walks an already-parsed script, applying page
// setup, footer configuration and body commands to d in order. String
// values are interpolated against data before use; baseDir anchors
// relative image paths.
func Run(script *Script, d *doc.Doc, data any, baseDir string) error {
	if script == nil {
		return fmt.Errorf("script is nil")
	}
	r := &Runner{doc: d, data: data, baseDir: baseDir}
	for _, section := range script.Sections {
		var err error
		switch {
		case section.Page != nil:
			err = r.runPage(section.Page)
		case section.Footer != nil:
			err = r.runFooter(section.Footer)
		case section.Body != nil:
			err = r.runBody(section.Body)
		default:
			err = fmt.Errorf("unknown section kind %q", section.Kind())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) interp(s string) string { return binding.Interpolate(s, r.data) }

func (r *Runner) runPage(p *PageSection) error {
	size, ok := doc.PageSizeByName(p.Size)
	if !ok {
		return fmt.Errorf("unknown page size %q", p.Size)
	}
	r.doc.SetPageSize(size)
	if p.Orientation == "landscape" {
		r.doc.SetOrientation(doc.Landscape)
	}
	if p.Block == nil {
		return nil
	}
	for _, st := range p.Block.Statements {
		if st.Assignment == nil {
			return fmt.Errorf("page block only takes assignments")
		}
		if err := r.pageAssign(st.Assignment); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) pageAssign(a *Assignment) error {
	switch a.Key {
	case "margin":
		vals, err := lengthValues(a.Value)
		if err != nil {
			return fmt.Errorf("margin: %w", err)
		}
		m, err := resolveMargin(vals)
		if err != nil {
			return err
		}
		r.doc.SetMargins(m.Top, m.Right, m.Bottom, m.Left)
	case "margin-top":
		v, err := lengthValue(a.Value)
		if err != nil {
			return err
		}
		r.doc.SetTopMargin(v)
	case "margin-right":
		v, err := lengthValue(a.Value)
		if err != nil {
			return err
		}
		r.doc.SetRightMargin(v)
	case "margin-bottom":
		v, err := lengthValue(a.Value)
		if err != nil {
			return err
		}
		r.doc.SetBottomMargin(v)
	case "margin-left":
		v, err := lengthValue(a.Value)
		if err != nil {
			return err
		}
		r.doc.SetLeftMargin(v)
	case "cell-margin":
		v, err := lengthValue(a.Value)
		if err != nil {
			return err
		}
		r.doc.SetTableCellMargin(v)
	default:
		return fmt.Errorf("unknown page property %q", a.Key)
	}
	return nil
}

// resolveMargin applies CSS-style 1/2/3/4-value margin shorthand.
func resolveMargin(vals []float64) (doc.Margins, error) {
	switch len(vals) {
	case 1:
		return doc.Margins{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}, nil
	case 2:
		return doc.Margins{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return doc.Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return doc.Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return doc.Margins{}, fmt.Errorf("margin takes 1 to 4 values, got %d", len(vals))
	}
}

func (r *Runner) runFooter(f *FooterSection) error {
	footer := doc.DefaultFooter()
	footer.Left, footer.Center, footer.Right = "", "", ""
	for _, st := range f.Block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("footer block only takes assignments")
		}
		switch a.Key {
		case "left":
			s, err := stringValue(a.Value)
			if err != nil {
				return err
			}
			footer.Left = r.interp(s)
		case "center":
			s, err := stringValue(a.Value)
			if err != nil {
				return err
			}
			footer.Center = r.interp(s)
		case "right":
			s, err := stringValue(a.Value)
			if err != nil {
				return err
			}
			footer.Right = r.interp(s)
		case "omit-first-page":
			b, err := boolValue(a.Value)
			if err != nil {
				return err
			}
			footer.OmitFirstPage = b
		case "count-first-page":
			b, err := boolValue(a.Value)
			if err != nil {
				return err
			}
			footer.CountFirstPage = b
		case "font":
			s, err := stringValue(a.Value)
			if err != nil {
				return err
			}
			footer.Font = fontRef(s, footer.Font.Style)
		case "font-style":
			s, err := identOrString(a.Value)
			if err != nil {
				return err
			}
			footer.Font.Style = s
		case "size":
			v, err := lengthValue(a.Value)
			if err != nil {
				return err
			}
			footer.FontSize = v
		case "color":
			c, err := colorValue(a.Value)
			if err != nil {
				return err
			}
			footer.Color = c
		default:
			return fmt.Errorf("unknown footer property %q", a.Key)
		}
	}
	r.doc.SetFooter(footer)
	return nil
}

func (r *Runner) runBody(b *BodySection) error {
	for _, st := range b.Block.Statements {
		if st.Assignment != nil {
			return fmt.Errorf("body block only takes commands, got assignment %q at top level", st.Assignment.Key)
		}
		if st.Command == nil {
			continue
		}
		if err := r.runCommand(st.Command); err != nil {
			return fmt.Errorf("%s: %w", st.Command.Pos, err)
		}
	}
	return nil
}

func (r *Runner) runCommand(c *Command) error {
	switch c.Name {
	case "text":
		return r.cmdText(c.Args)
	case "style":
		return r.cmdStyle(c.Args)
	case "font":
		return r.cmdFont(c.Args)
	case "size":
		return r.cmdSize(c.Args)
	case "color":
		return r.cmdColor(c.Args)
	case "cursor":
		return r.cmdCursor(c.Args)
	case "newline":
		return r.cmdNewline(c.Args)
	case "image":
		return r.cmdImage(c.Args)
	case "pagebreak":
		return r.doc.NewPage()
	case "table":
		return r.cmdTable(c.Args, c.Block)
	default:
		return fmt.Errorf("unknown command %q", c.Name)
	}
}

func (r *Runner) cmdText(args []*Lexeme) error {
	if len(args) == 0 || args[0].Type != "String" {
		return fmt.Errorf("text requires a string argument")
	}
	flags := doc.Left
	if len(args) > 1 {
		f, err := parseFlags(args[1:])
		if err != nil {
			return err
		}
		flags = f
	}
	_, err := r.doc.DrawText(r.interp(args[0].Value), flags)
	return err
}

func (r *Runner) cmdStyle(args []*Lexeme) error {
	if len(args) != 1 {
		return fmt.Errorf("style requires one argument")
	}
	switch args[0].Value {
	case "normal":
		r.doc.NormalStyle()
	case "title1":
		r.doc.Title1Style()
	case "title2":
		r.doc.Title2Style()
	default:
		return fmt.Errorf("unknown style %q", args[0].Value)
	}
	return nil
}

func (r *Runner) cmdFont(args []*Lexeme) error {
	if len(args) < 2 || args[0].Type != "String" || args[1].Type != "String" {
		return fmt.Errorf(`font requires "name" "src" [style]`)
	}
	f := renderer.Font{Name: args[0].Value, Src: args[1].Value}
	if len(args) > 2 {
		f.Style = args[2].Value
	}
	r.doc.SetFont(f)
	return nil
}

func (r *Runner) cmdSize(args []*Lexeme) error {
	if len(args) != 1 {
		return fmt.Errorf("size requires one length argument")
	}
	r.doc.SetFontSize(doc.ParseLength(args[0].Value).ToPT())
	return nil
}

func (r *Runner) cmdColor(args []*Lexeme) error {
	if len(args) != 1 {
		return fmt.Errorf("color requires one #hex argument")
	}
	c, err := parseHexColor(args[0].Value)
	if err != nil {
		return err
	}
	r.doc.SetTextColor(c)
	return nil
}

func (r *Runner) cmdCursor(args []*Lexeme) error {
	if len(args) != 2 {
		return fmt.Errorf("cursor requires x and y")
	}
	x := doc.ParseLength(args[0].Value).ToPT()
	y := doc.ParseLength(args[1].Value).ToPT()
	r.doc.SetCursor(x, y)
	return nil
}

func (r *Runner) cmdNewline(args []*Lexeme) error {
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0].Value)
		if err != nil || v < 1 {
			return fmt.Errorf("newline count must be a positive integer")
		}
		n = v
	}
	_, err := r.doc.DrawText(strings.Repeat("\n", n), doc.Left)
	return err
}

func (r *Runner) cmdImage(args []*Lexeme) error {
	if len(args) == 0 || args[0].Type != "String" {
		return fmt.Errorf("image requires a path argument")
	}
	img, err := r.loadImage(r.interp(args[0].Value))
	if err != nil {
		return err
	}
	flags := doc.Flag(0)
	if len(args) > 1 {
		f, err := parseFlags(args[1:])
		if err != nil {
			return err
		}
		flags = f
	}
	return r.doc.DrawImage(img, flags)
}

func (r *Runner) loadImage(path string) (image.Image, error) {
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("relative image path %q needs a base directory", path)
		}
		path = filepath.Join(r.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// cmdTable interprets
//
//	table [100pt 150pt] [left right] center {
//	    row "a" "b"
//	    row "c" "d"
//	}
//
// The first bracket list gives column widths, the optional second one
// per-column alignment, and a trailing ident aligns the whole table.
func (r *Runner) cmdTable(args []*Lexeme, block *Block) error {
	lists, trailing, err := splitBracketLists(args)
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		return fmt.Errorf("table requires a [widths] list")
	}
	widths := make([]float64, 0, len(lists[0]))
	for _, lx := range lists[0] {
		widths = append(widths, doc.ParseLength(lx.Value).ToPT())
	}
	aligns := make([]doc.Flag, len(widths))
	for i := range aligns {
		aligns[i] = doc.Left
	}
	if len(lists) > 1 {
		if len(lists[1]) != len(widths) {
			return fmt.Errorf("alignment list has %d entries, want %d", len(lists[1]), len(widths))
		}
		for i, lx := range lists[1] {
			f, err := parseFlag(lx.Value)
			if err != nil {
				return err
			}
			aligns[i] = f
		}
	}
	tableAlign := doc.Left
	if len(trailing) > 0 {
		f, err := parseFlags(trailing)
		if err != nil {
			return err
		}
		tableAlign = f
	}

	if block == nil {
		return fmt.Errorf("table requires a block of rows")
	}
	var rows [][]doc.Cell
	for _, st := range block.Statements {
		c := st.Command
		if c == nil || c.Name != "row" {
			return fmt.Errorf("table block only takes row commands")
		}
		row := make([]doc.Cell, 0, len(c.Args))
		for _, lx := range c.Args {
			if lx.Type != "String" {
				return fmt.Errorf("row cells must be strings, got %q", lx.Raw)
			}
			row = append(row, doc.TextCell(r.interp(lx.Value)))
		}
		rows = append(rows, row)
	}
	_, err = r.doc.DrawTable(rows, widths, aligns, tableAlign)
	return err
}

// splitBracketLists partitions raw argument lexemes into bracketed lists
// and trailing bare lexemes.
func splitBracketLists(args []*Lexeme) (lists [][]*Lexeme, trailing []*Lexeme, err error) {
	i := 0
	for i < len(args) {
		if args[i].Raw == "[" {
			var list []*Lexeme
			i++
			for i < len(args) && args[i].Raw != "]" {
				if args[i].Raw == "," {
					i++
					continue
				}
				list = append(list, args[i])
				i++
			}
			if i >= len(args) {
				return nil, nil, fmt.Errorf("unterminated [ list")
			}
			i++ // skip ]
			lists = append(lists, list)
			continue
		}
		trailing = append(trailing, args[i])
		i++
	}
	return lists, trailing, nil
}

func parseFlags(args []*Lexeme) (doc.Flag, error) {
	var flags doc.Flag
	for _, lx := range args {
		f, err := parseFlag(lx.Value)
		if err != nil {
			return 0, err
		}
		flags |= f
	}
	return flags, nil
}

func parseFlag(name string) (doc.Flag, error) {
	switch name {
	case "left":
		return doc.Left, nil
	case "right":
		return doc.Right, nil
	case "center":
		return doc.Center, nil
	case "justify":
		return doc.Justify, nil
	case "newline":
		return doc.Newline, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", name)
	}
}

// fontRef builds a font reference from a script value: file paths are
// used as Src directly, anything else resolves through the system fonts.
func fontRef(v, style string) renderer.Font {
	lower := strings.ToLower(v)
	if strings.ContainsAny(v, `/\`) || strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf") {
		name := strings.TrimSuffix(filepath.Base(v), filepath.Ext(v))
		return renderer.Font{Name: name, Src: v, Style: style}
	}
	return renderer.Font{Name: v, Src: "system:" + v, Style: style}
}

// --- assignment value helpers ---

func stringValue(v *Value) (string, error) {
	if v == nil || v.String == nil {
		return "", fmt.Errorf("expected a string value")
	}
	return string(*v.String), nil
}

func identOrString(v *Value) (string, error) {
	switch {
	case v == nil:
		return "", fmt.Errorf("missing value")
	case v.String != nil:
		return string(*v.String), nil
	case v.Ident != nil:
		return *v.Ident, nil
	default:
		return "", fmt.Errorf("expected an identifier or string")
	}
}

func boolValue(v *Value) (bool, error) {
	s, err := identOrString(v)
	if err != nil {
		return false, err
	}
	switch s {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected a boolean, got %q", s)
	}
}

func lengthValue(v *Value) (float64, error) {
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("expected a length value")
	}
	return doc.ParseLength(*v.Number).ToPT(), nil
}

func lengthValues(v *Value) ([]float64, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	if v.Number != nil {
		return []float64{doc.ParseLength(*v.Number).ToPT()}, nil
	}
	if v.Array == nil {
		return nil, fmt.Errorf("expected a length or [lengths]")
	}
	vals := make([]float64, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if item.Number == nil {
			return nil, fmt.Errorf("expected lengths inside [ ]")
		}
		vals = append(vals, doc.ParseLength(*item.Number).ToPT())
	}
	return vals, nil
}

func colorValue(v *Value) (color.Color, error) {
	if v == nil || v.Color == nil {
		return nil, fmt.Errorf("expected a #hex color")
	}
	return parseHexColor(*v.Color)
}

func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	var r, g, b, a uint8 = 0, 0, 0, 255
	parse := func(sub string) (uint8, error) {
		n, err := strconv.ParseUint(sub, 16, 8)
		return uint8(n), err
	}
	var err error
	switch len(hex) {
	case 3:
		if r, err = parse(strings.Repeat(hex[0:1], 2)); err == nil {
			if g, err = parse(strings.Repeat(hex[1:2], 2)); err == nil {
				b, err = parse(strings.Repeat(hex[2:3], 2))
			}
		}
	case 6, 8:
		if r, err = parse(hex[0:2]); err == nil {
			if g, err = parse(hex[2:4]); err == nil {
				if b, err = parse(hex[4:6]); err == nil && len(hex) == 8 {
					a, err = parse(hex[6:8])
				}
			}
		}
	default:
		return nil, fmt.Errorf("bad color %q", s)
	}
	if err != nil {
		return nil, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
