package term

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/minidash/pkg/geo"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/player"
	"github.com/ChicagoDave/minidash/pkg/scene"
)

// CellKind selects the style a cell is drawn with.
type CellKind int

const (
	Empty CellKind = iota
	Ground
	Finish
	Block
	Platform
	Spike
	Hurt
	Contact
	Hero
	Text
)

// Cell is one terminal character.
type Cell struct {
	Rune rune
	Kind CellKind
}

// Grid is a rasterized screen, row-major.
type Grid struct {
	Width, Height int
	Cells         []Cell
}

// NewGrid returns a blank grid.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{Width: w, Height: h, Cells: make([]Cell, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Cell{Rune: ' '}
	}
	return g
}

// At returns the cell at column x, row y; outside the grid it is blank.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return Cell{Rune: ' '}
	}
	return g.Cells[y*g.Width+x]
}

// Set writes c at column x, row y. Writes outside the grid are dropped.
func (g *Grid) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = c
}

// Text writes s starting at column x of row y.
func (g *Grid) Text(x, y int, s string) {
	for _, r := range s {
		g.Set(x, y, Cell{Rune: r, Kind: Text})
		x++
	}
}

// Center writes s centered on row y.
func (g *Grid) Center(y int, s string) {
	g.Text((g.Width-len([]rune(s)))/2, y, s)
}

// Row returns row y as a string.
func (g *Grid) Row(y int) string {
	var b strings.Builder
	for x := 0; x < g.Width; x++ {
		b.WriteRune(g.At(x, y).Rune)
	}
	return b.String()
}

func (g *Grid) String() string {
	rows := make([]string, g.Height)
	for y := range rows {
		rows[y] = g.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Viewport maps world units to cells. Row 0 holds the status line; the
// world fills the remaining rows top to bottom. Terminal cells are about
// twice as tall as wide, so a unit spans twice as many columns as rows.
type Viewport struct {
	RowsPerUnit float64
	ColsPerUnit float64
}

// NewViewport fits a world of the given height into h terminal rows.
func NewViewport(worldHeight float64, h int) Viewport {
	rows := float64(h - 1)
	if rows < 1 || worldHeight <= 0 {
		return Viewport{RowsPerUnit: 1, ColsPerUnit: 2}
	}
	s := rows / worldHeight
	return Viewport{RowsPerUnit: s, ColsPerUnit: 2 * s}
}

// World returns the world point at the center of cell (x, y).
func (v Viewport) World(x, y int) geo.Point {
	return geo.Pt((float64(x)+0.5)/v.ColsPerUnit, (float64(y-1)+0.5)/v.RowsPerUnit)
}

// Rasterize draws a frame into a w×h grid: status line, ground, finish
// line, obstacles and player, plus hurt zones and contacts in debug mode.
func Rasterize(f *scene.Frame, w, h int) *Grid {
	g := NewGrid(w, h)
	if f == nil || w == 0 || h < 2 {
		return g
	}
	v := NewViewport(f.Metadata.WorldHeight, h)
	visible := float64(w) / v.ColsPerUnit

	var onScreen []scene.Entity
	for _, e := range f.Entities {
		if e.Image.X > visible || e.Image.Right() < 0 {
			continue
		}
		onScreen = append(onScreen, e)
	}

	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			pt := v.World(x, y)
			g.Set(x, y, cellAt(f, onScreen, pt))
		}
	}

	g.Text(0, 0, status(f))
	return g
}

func cellAt(f *scene.Frame, ents []scene.Entity, pt geo.Point) Cell {
	if inRect(f.Player.Image, pt) {
		if f.Player.State == player.Dying {
			return Cell{Rune: 'X', Kind: Hero}
		}
		return Cell{Rune: '█', Kind: Hero}
	}
	if f.Metadata.Debug {
		for _, c := range f.Contacts {
			if c.Contains(pt) {
				return Cell{Rune: '*', Kind: Contact}
			}
		}
	}

	best := Cell{Rune: ' '}
	if pt.Y >= f.Metadata.GroundTop {
		best = Cell{Rune: '▓', Kind: Ground}
	}
	for _, e := range ents {
		c, ok := entityCell(e, pt, f.Metadata.Debug)
		if ok && c.Kind > best.Kind {
			best = c
		}
	}
	return best
}

func entityCell(e scene.Entity, pt geo.Point, debug bool) (Cell, bool) {
	switch e.Kind {
	case obstacle.Finish:
		if inRect(e.Image, pt) {
			return Cell{Rune: '┃', Kind: Finish}, true
		}
		return Cell{}, false
	case obstacle.Triangle:
		if e.ImagePolygon.Contains(pt) {
			return Cell{Rune: '▲', Kind: Spike}, true
		}
		if debug && e.HurtPolygon.Contains(pt) {
			return Cell{Rune: '·', Kind: Hurt}, true
		}
		return Cell{}, false
	}

	if inRect(e.Image, pt) {
		if debug && e.Lethal && inRect(e.Hurt, pt) {
			return Cell{Rune: '▒', Kind: Hurt}, true
		}
		if e.Kind == obstacle.PlateformeAir {
			return Cell{Rune: '═', Kind: Platform}, true
		}
		return Cell{Rune: '█', Kind: Block}, true
	}
	if debug && e.Lethal && inRect(e.Hurt, pt) {
		return Cell{Rune: '·', Kind: Hurt}, true
	}
	return Cell{}, false
}

func inRect(r geo.Rect, pt geo.Point) bool {
	return pt.X >= r.X && pt.X < r.Right() && pt.Y >= r.Y && pt.Y < r.Bottom()
}

func status(f *scene.Frame) string {
	s := fmt.Sprintf(" %s  %dm  %s", f.Metadata.Level, f.Metadata.Distance, f.Metadata.State)
	if f.Metadata.Debug {
		s += "  [debug]"
		if f.Metadata.Flash {
			s += " HIT"
		}
	}
	return s
}
