package grid

import "testing"

var fullHD = Dimensions{Width: 1920, Height: 1080}

func TestThirds(t *testing.T) {
	c := Default()
	if got := c.ThirdHeight(fullHD); got != 360 {
		t.Fatalf("ThirdHeight = %d, want 360", got)
	}
	if got := c.ThirdWidth(fullHD); got != 640 {
		t.Fatalf("ThirdWidth = %d, want 640", got)
	}

	odd := Dimensions{Width: 1001, Height: 767}
	if got := c.ThirdHeight(odd); got != 255 {
		t.Fatalf("ThirdHeight(767) = %d, want 255", got)
	}
	if got := c.ThirdWidth(odd); got != 333 {
		t.Fatalf("ThirdWidth(1001) = %d, want 333", got)
	}
}

func TestTarget_FullHDPrimaryMonitor(t *testing.T) {
	c := Default()
	tests := []struct {
		cell Cell
		want Rect
	}{
		{TopLeft, Rect{Left: -7, Top: 0, Width: 661, Height: 360}},
		{MidTop, Rect{Left: 640, Top: 0, Width: 640, Height: 360}},
		{TopRight, Rect{Left: 1266, Top: 0, Width: 661, Height: 360}},
		{MidLeft, Rect{Left: -7, Top: 353, Width: 661, Height: 367}},
		{Mid, Rect{Left: 640, Top: 353, Width: 640, Height: 367}},
		{MidRight, Rect{Left: 1266, Top: 353, Width: 661, Height: 367}},
		{BottomLeft, Rect{Left: -7, Top: 713, Width: 661, Height: 333}},
		{MidBottom, Rect{Left: 640, Top: 713, Width: 640, Height: 333}},
		{BottomRight, Rect{Left: 1266, Top: 713, Width: 661, Height: 333}},
	}
	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			got := c.Target(tt.cell, fullHD, 0)
			if got != tt.want {
				t.Fatalf("Target(%s) = %+v, want %+v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestVerticalBandsCoverScreenModuloCorrections(t *testing.T) {
	c := Default()
	for _, d := range []Dimensions{fullHD, {Width: 2560, Height: 1440}, {Width: 1366, Height: 768}, {Width: 800, Height: 601}} {
		top := c.Target(TopLeft, d, 0)
		mid := c.Target(MidLeft, d, 0)
		bottom := c.Target(BottomLeft, d, 0)

		sum := top.Height + mid.Height + bottom.Height
		want := 3*c.ThirdHeight(d) - c.TaskbarHeight - 2*c.BorderOffset
		if sum != want {
			t.Fatalf("%+v: band heights sum to %d, want %d", d, sum, want)
		}
		if mid.Top != top.Top+top.Height+c.BorderOffset {
			t.Fatalf("%+v: mid band starts at %d, want %d", d, mid.Top, top.Top+top.Height+c.BorderOffset)
		}
		if bottom.Top != mid.Top+mid.Height+c.BorderOffset {
			t.Fatalf("%+v: bottom band starts at %d, want %d", d, bottom.Top, mid.Top+mid.Height+c.BorderOffset)
		}
	}
}

func TestScreenIndex(t *testing.T) {
	c := Default()
	tests := []struct {
		left int
		want int
	}{
		{0, 0},
		{-7, 0},
		{1912, 0},
		{1913, 1},
		{3833, 2},
		{-8, -1},
		{-1927, -1},
		{-1928, -2},
	}
	for _, tt := range tests {
		if got := c.ScreenIndex(fullHD, tt.left); got != tt.want {
			t.Errorf("ScreenIndex(left=%d) = %d, want %d", tt.left, got, tt.want)
		}
	}
}

func TestOffset_IdempotentAndStepsByScreenWidth(t *testing.T) {
	c := Default()
	first := c.Offset(fullHD, 100, 640)
	if again := c.Offset(fullHD, 100, 640); again != first {
		t.Fatalf("Offset not stable: %d then %d", first, again)
	}

	prev := c.Offset(fullHD, 0, 640)
	for monitor := 1; monitor < 4; monitor++ {
		left := monitor*fullHD.Width + 50
		got := c.Offset(fullHD, left, 640)
		if got-prev != fullHD.Width {
			t.Fatalf("monitor %d: offset %d, previous %d, want step %d", monitor, got, prev, fullHD.Width)
		}
		prev = got
	}
}

func TestTarget_SecondMonitor(t *testing.T) {
	c := Default()
	got := c.Target(TopLeft, fullHD, 1920+300)
	want := Rect{Left: 1913, Top: 0, Width: 661, Height: 360}
	if got != want {
		t.Fatalf("Target(top-left, second monitor) = %+v, want %+v", got, want)
	}
}

func TestTarget_CustomCalculator(t *testing.T) {
	c := Calculator{}
	got := c.Target(BottomRight, fullHD, 0)
	want := Rect{Left: 1280, Top: 720, Width: 640, Height: 360}
	if got != want {
		t.Fatalf("Target with zero corrections = %+v, want %+v", got, want)
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
	}{
		{"top-left", TopLeft},
		{"TopLeft", TopLeft},
		{"mid_top", MidTop},
		{"MID", Mid},
		{" bottom-right ", BottomRight},
		{"midbottom", MidBottom},
	}
	for _, tt := range tests {
		got, err := ParseCell(tt.in)
		if err != nil {
			t.Fatalf("ParseCell(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCell(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCell("center"); err == nil {
		t.Fatal("expected error for unknown cell")
	}
}

func TestCellNamesRoundTrip(t *testing.T) {
	for _, c := range Cells {
		got, err := ParseCell(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseCell(%q) = %v, %v", c.String(), got, err)
		}
	}
	if len(CellNames()) != 9 {
		t.Fatalf("expected 9 cell names, got %d", len(CellNames()))
	}
}

func TestCellValid(t *testing.T) {
	for _, c := range Cells {
		if !c.Valid() {
			t.Fatalf("%s should be valid", c)
		}
	}
	if Cell(42).Valid() || Cell(-1).Valid() {
		t.Fatal("out-of-range cells should be invalid")
	}
}

func TestDimensionsValid(t *testing.T) {
	if (Dimensions{}).Valid() {
		t.Fatal("zero dimensions should be invalid")
	}
	if (Dimensions{Width: 10, Height: 0}).Valid() {
		t.Fatal("zero height should be invalid")
	}
	if !fullHD.Valid() {
		t.Fatal("1920x1080 should be valid")
	}
}
