package doc

import (
	"errors"
	"testing"
)

func TestDrawTableSingleCell(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	h, err := d.DrawTable([][]Cell{{TextCell("X")}}, []float64{100}, []Flag{Left}, Left)
	if err != nil {
		t.Fatalf("DrawTable: %v", err)
	}
	if !approx(h, 12) {
		t.Fatalf("height = %v, want 12", h)
	}

	p := dev.pages[0]
	if len(p.lines) != 4 {
		t.Fatalf("got %d border lines, want 4", len(p.lines))
	}
	want := [][4]float64{
		{50, 700, 150, 700},
		{50, 688, 150, 688},
		{50, 700, 50, 688},
		{150, 700, 150, 688},
	}
	for i, w := range want {
		if p.lines[i] != w {
			t.Errorf("border %d = %v, want %v", i, p.lines[i], w)
		}
	}

	if len(p.texts) != 1 {
		t.Fatalf("texts = %+v", p.texts)
	}
	if !approx(p.texts[0].X, 55) || !approx(p.texts[0].Y, 700-0.8*12) {
		t.Errorf("cell text at (%v, %v)", p.texts[0].X, p.texts[0].Y)
	}

	x, y := d.Cursor()
	if !approx(x, 50) || !approx(y, 688) {
		t.Errorf("cursor = (%v, %v), want (50, 688)", x, y)
	}
}

func TestDrawTableRowHeightIsTallestCell(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	// 第二列扣除留白后只放得下一个词，三个词折成三行。
	rows := [][]Cell{{TextCell("solo"), TextCell("one two three")}}
	h, err := d.DrawTable(rows, []float64{100, 25}, []Flag{Left, Left}, Left)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(h, 36) {
		t.Fatalf("height = %v, want 36", h)
	}
	p := dev.pages[0]
	if len(p.lines) != 8 {
		t.Fatalf("got %d border lines, want 8", len(p.lines))
	}
	// 两个单元格共用同一行高。
	if p.lines[1] != [4]float64{50, 664, 150, 664} {
		t.Errorf("first cell bottom = %v", p.lines[1])
	}
}

func TestDrawTableRowNeverSplitsAcrossPages(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	// 剩余空间放得下第一行（12pt），放不下第二行（36pt）。
	d.SetCursor(50, d.geom.contentEndY+20)
	rows := [][]Cell{
		{TextCell("fits")},
		{TextCell("one two three")}, // 列宽下折成三行
	}
	if _, err := d.DrawTable(rows, []float64{25}, []Flag{Left}, Left); err != nil {
		t.Fatal(err)
	}
	if len(dev.pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(dev.pages))
	}
	// 第二行的全部内容都在第二页。
	if len(dev.pages[1].texts) != 3 {
		t.Fatalf("second page texts = %+v", dev.pages[1].texts)
	}
	if got := dev.pages[1].texts[0].Y; !approx(got, d.geom.contentStartY-0.8*12) {
		t.Errorf("second row starts at %v, want top of new page", got)
	}
}

func TestDrawTableCenterAlignment(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	if _, err := d.DrawTable([][]Cell{{TextCell("X")}}, []float64{100}, []Flag{Left}, Center); err != nil {
		t.Fatal(err)
	}
	free := d.geom.contentW - 100
	wantX := d.geom.contentStartX + free/2
	if got := dev.pages[0].lines[0][0]; !approx(got, wantX) {
		t.Errorf("table left edge = %v, want %v", got, wantX)
	}
}

func TestDrawTableSkipsNilRows(t *testing.T) {
	d, dev := newStubDoc()
	if err := d.NewPage(); err != nil {
		t.Fatal(err)
	}
	d.SetCursor(50, 700)
	rows := [][]Cell{nil, {TextCell("a")}, nil}
	h, err := d.DrawTable(rows, []float64{100}, []Flag{Left}, Left)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(h, 12) {
		t.Fatalf("height = %v, want 12", h)
	}
	if len(dev.pages[0].texts) != 1 {
		t.Fatalf("texts = %+v", dev.pages[0].texts)
	}
}

func TestDrawTableValidation(t *testing.T) {
	d, _ := newStubDoc()
	cases := []struct {
		name   string
		rows   [][]Cell
		widths []float64
		aligns []Flag
	}{
		{"no columns", [][]Cell{{TextCell("a")}}, nil, nil},
		{"negative width", [][]Cell{{TextCell("a")}}, []float64{-1}, []Flag{Left}},
		{"align mismatch", [][]Cell{{TextCell("a")}}, []float64{100}, []Flag{Left, Right}},
		{"ragged row", [][]Cell{{TextCell("a"), TextCell("b")}}, []float64{100}, []Flag{Left}},
	}
	for _, tc := range cases {
		if _, err := d.DrawTable(tc.rows, tc.widths, tc.aligns, Left); !errors.Is(err, ErrBadTable) {
			t.Errorf("%s: err = %v, want ErrBadTable", tc.name, err)
		}
	}
}
