package grid

import (
	"fmt"
	"strings"
)

const (
	// DefaultBorderOffset compensates for the invisible border the window
	// manager adds around a frame.
	DefaultBorderOffset = -7
	// DefaultTaskbarHeight is the space reserved at the bottom of the screen.
	DefaultTaskbarHeight = 34
)

// Dimensions is the size of a single screen.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Rect is a move target in screen coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Cell is one of the nine grid positions.
type Cell int

const (
	TopLeft Cell = iota
	MidTop
	TopRight
	MidLeft
	Mid
	MidRight
	BottomLeft
	MidBottom
	BottomRight
)

// Cells lists every cell in row-major order.
var Cells = []Cell{
	TopLeft, MidTop, TopRight,
	MidLeft, Mid, MidRight,
	BottomLeft, MidBottom, BottomRight,
}

var cellNames = map[Cell]string{
	TopLeft:     "top-left",
	MidTop:      "mid-top",
	TopRight:    "top-right",
	MidLeft:     "mid-left",
	Mid:         "mid",
	MidRight:    "mid-right",
	BottomLeft:  "bottom-left",
	MidBottom:   "mid-bottom",
	BottomRight: "bottom-right",
}

func (c Cell) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cell(%d)", int(c))
}

// Valid reports whether c is one of the nine cells.
func (c Cell) Valid() bool {
	_, ok := cellNames[c]
	return ok
}

// ParseCell accepts kebab-case ("top-left"), snake_case or CamelCase names.
func ParseCell(s string) (Cell, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	for cell, name := range cellNames {
		if strings.ReplaceAll(name, "-", "") == norm {
			return cell, nil
		}
	}
	return 0, fmt.Errorf("unknown grid cell %q (want one of %s)", s, strings.Join(CellNames(), ", "))
}

// CellNames returns the kebab-case names in row-major order.
func CellNames() []string {
	names := make([]string, 0, len(Cells))
	for _, c := range Cells {
		names = append(names, c.String())
	}
	return names
}

type verticalBand struct {
	top    int
	height int
}

type horizontalBand struct {
	left  int
	width int
}

// Calculator derives grid cell rectangles from screen dimensions.
// BorderOffset is expected to be negative; a negative offset widens the side
// columns and pulls the lower rows up.
type Calculator struct {
	BorderOffset  int
	TaskbarHeight int
}

// Default returns the calculator tuned for a stock desktop.
func Default() Calculator {
	return Calculator{
		BorderOffset:  DefaultBorderOffset,
		TaskbarHeight: DefaultTaskbarHeight,
	}
}

func (c Calculator) ThirdHeight(d Dimensions) int {
	return d.Height / 3
}

func (c Calculator) ThirdWidth(d Dimensions) int {
	return d.Width / 3
}

// ScreenIndex returns which horizontally-adjacent monitor a window whose frame
// starts at currentLeft is on. Monitors are assumed to share d.Width.
func (c Calculator) ScreenIndex(d Dimensions, currentLeft int) int {
	return floorDiv(currentLeft-c.BorderOffset, d.Width)
}

// Offset shifts x onto the monitor the window currently occupies.
func (c Calculator) Offset(d Dimensions, currentLeft, x int) int {
	return x + d.Width*c.ScreenIndex(d, currentLeft)
}

// Target computes the rectangle for cell. currentLeft is the window's present
// left edge, used only to pick the monitor.
func (c Calculator) Target(cell Cell, d Dimensions, currentLeft int) Rect {
	v := c.vertical(cell, d)
	h := c.horizontal(cell, d, currentLeft)
	return Rect{
		Left:   h.left,
		Top:    v.top,
		Width:  h.width,
		Height: v.height,
	}
}

func (c Calculator) vertical(cell Cell, d Dimensions) verticalBand {
	third := c.ThirdHeight(d)
	switch cell {
	case TopLeft, MidTop, TopRight:
		return verticalBand{top: 0, height: third}
	case MidLeft, Mid, MidRight:
		return verticalBand{
			top:    third + c.BorderOffset,
			height: third - c.BorderOffset,
		}
	default:
		return verticalBand{
			top:    2*third + c.BorderOffset,
			height: third - c.TaskbarHeight - c.BorderOffset,
		}
	}
}

func (c Calculator) horizontal(cell Cell, d Dimensions, currentLeft int) horizontalBand {
	third := c.ThirdWidth(d)
	switch cell {
	case TopLeft, MidLeft, BottomLeft:
		return horizontalBand{
			left:  c.Offset(d, currentLeft, c.BorderOffset),
			width: third - 3*c.BorderOffset,
		}
	case MidTop, Mid, MidBottom:
		return horizontalBand{
			left:  c.Offset(d, currentLeft, third),
			width: third,
		}
	default:
		return horizontalBand{
			left:  c.Offset(d, currentLeft, 2*third+2*c.BorderOffset),
			width: third - 3*c.BorderOffset,
		}
	}
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
