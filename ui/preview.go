package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/video"
)

// halfBlock draws two vertically stacked samples per cell: foreground on top, background below.
const halfBlock = "▀"

// previewRect is where the frame is drawn, in terminal cells. Each cell holds
// one column and two rows of samples.
type previewRect struct {
	x, y       int
	cols, rows int
}

func (r previewRect) empty() bool {
	return r.cols <= 0 || r.rows <= 0
}

func (r previewRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.cols && y >= r.y && y < r.y+r.rows
}

// fitPreview scales a frame of width x height into at most maxCols x maxRows
// cells, keeping the aspect ratio of the frame.
func fitPreview(x, y, maxCols, maxRows, width, height int) previewRect {
	if maxCols <= 0 || maxRows <= 0 || width <= 0 || height <= 0 {
		return previewRect{x: x, y: y}
	}

	scale := math.Min(float64(maxCols)/float64(width), float64(maxRows*2)/float64(height))
	cols := max(1, int(float64(width)*scale))
	rows := max(1, int(float64(height)*scale/2))
	return previewRect{x: x, y: y, cols: min(cols, maxCols), rows: min(rows, maxRows)}
}

// toFrame maps a terminal cell to frame pixel coordinates, clamped to the frame.
func (r previewRect) toFrame(cellX, cellY, width, height int) review.Point {
	fx := (float64(cellX-r.x) + 0.5) * float64(width) / float64(r.cols)
	fy := (float64(cellY-r.y) + 0.5) * float64(height) / float64(r.rows)
	return review.Point{
		X: math.Max(0, math.Min(fx, float64(width))),
		Y: math.Max(0, math.Min(fy, float64(height))),
	}
}

// sampleGrid holds one hex color per sample, rows*2 by cols.
type sampleGrid [][]string

func newSampleGrid(frame *video.Frame, cols, samplesHigh int) sampleGrid {
	scaled := resize.Resize(uint(cols), uint(samplesHigh), frame.Image(), resize.Bilinear)
	bounds := scaled.Bounds()

	grid := make(sampleGrid, samplesHigh)
	for y := range grid {
		grid[y] = make([]string, cols)
		for x := range grid[y] {
			c, _ := colorful.MakeColor(scaled.At(bounds.Min.X+x, bounds.Min.Y+y))
			grid[y][x] = c.Hex()
		}
	}
	return grid
}

func (g sampleGrid) set(x, y int, color string) {
	if y >= 0 && y < len(g) && x >= 0 && x < len(g[y]) {
		g[y][x] = color
	}
}

// brush paints a square of side size centered on (x, y).
func (g sampleGrid) brush(x, y, size int, color string) {
	half := size / 2
	for dy := -half; dy < size-half; dy++ {
		for dx := -half; dx < size-half; dx++ {
			g.set(x+dx, y+dy, color)
		}
	}
}

// line draws a Bresenham line between two samples.
func (g sampleGrid) line(x0, y0, x1, y1, size int, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		g.brush(x0, y0, size, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// overlay draws a shape given in frame coordinates onto the grid.
func (g sampleGrid) overlay(shape review.MarkupShape, frameWidth, frameHeight int) {
	if len(g) == 0 || len(shape.Points) == 0 {
		return
	}

	sx := float64(len(g[0])) / float64(frameWidth)
	sy := float64(len(g)) / float64(frameHeight)
	toSample := func(p review.Point) (int, int) {
		return int(p.X * sx), int(p.Y * sy)
	}

	size := max(1, int(math.Round(float64(shape.Width)*sx)))
	color := shape.Color
	if _, err := colorful.Hex(color); err != nil {
		color = review.DefaultColor
	}

	switch shape.Kind {
	case review.Rectangle:
		if len(shape.Points) < 2 {
			return
		}
		lo, hi := review.NormalizeRect(shape.Points[0], shape.Points[1])
		x0, y0 := toSample(lo)
		x1, y1 := toSample(hi)
		g.line(x0, y0, x1, y0, size, color)
		g.line(x1, y0, x1, y1, size, color)
		g.line(x1, y1, x0, y1, size, color)
		g.line(x0, y1, x0, y0, size, color)
	default:
		px, py := toSample(shape.Points[0])
		g.brush(px, py, size, color)
		for _, p := range shape.Points[1:] {
			x, y := toSample(p)
			g.line(px, py, x, y, size, color)
			px, py = x, y
		}
	}
}

func (g sampleGrid) render() string {
	var b strings.Builder
	for y := 0; y+1 < len(g); y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range g[y] {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(g[y][x])).
				Background(lipgloss.Color(g[y+1][x]))
			b.WriteString(style.Render(halfBlock))
		}
	}
	return b.String()
}

// renderFrame draws the frame scaled into rect with the shapes on top.
func renderFrame(frame *video.Frame, shapes []review.MarkupShape, rect previewRect) string {
	if frame == nil || rect.empty() || frame.Width <= 0 || frame.Height <= 0 {
		return ""
	}

	grid := newSampleGrid(frame, rect.cols, rect.rows*2)
	for _, shape := range shapes {
		grid.overlay(shape, frame.Width, frame.Height)
	}
	return grid.render()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
