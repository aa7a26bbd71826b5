// Package markup turns pointer gestures into finished markup shapes.
package markup

import (
	"fmt"

	"github.com/lepinkainen/framewise/review"
)

// State is the drawing state of a Capture.
type State int

const (
	Idle State = iota
	DrawingFreehand
	DrawingRectangle
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DrawingFreehand:
		return "drawing pen"
	case DrawingRectangle:
		return "drawing rect"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Capture is the shape capture state machine. Tool settings only affect shapes
// begun after they change.
type Capture struct {
	mode  review.ShapeKind
	color string
	width int

	state  State
	shape  review.MarkupShape
	anchor review.Point
}

// NewCapture returns an idle capture with the pen tool, red and width 2.
func NewCapture() *Capture {
	return &Capture{
		mode:  review.Freehand,
		color: review.DefaultColor,
		width: review.DefaultWidth,
	}
}

func (c *Capture) Mode() review.ShapeKind { return c.mode }
func (c *Capture) Color() string          { return c.color }
func (c *Capture) Width() int             { return c.width }
func (c *Capture) State() State           { return c.state }

// SetMode selects the tool for the next shape.
func (c *Capture) SetMode(mode review.ShapeKind) error {
	if _, err := review.ParseShapeKind(string(mode)); err != nil {
		return err
	}
	c.mode = mode
	return nil
}

// SetColor sets the color for the next shape.
func (c *Capture) SetColor(color string) error {
	canonical, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.color = canonical
	return nil
}

// SetWidth sets the stroke width for the next shape, clamped to at least 1.
func (c *Capture) SetWidth(width int) {
	c.width = max(1, width)
}

// Begin starts a shape at p. A shape already in progress is discarded.
func (c *Capture) Begin(p review.Point) {
	c.shape = review.MarkupShape{Kind: c.mode, Color: c.color, Width: c.width}
	c.anchor = p

	switch c.mode {
	case review.Rectangle:
		c.state = DrawingRectangle
		c.shape.Points = []review.Point{p, p}
	default:
		c.state = DrawingFreehand
		c.shape.Points = []review.Point{p}
	}
}

// Extend adds p to the shape in progress. It is a no-op while idle.
func (c *Capture) Extend(p review.Point) {
	switch c.state {
	case DrawingFreehand:
		c.shape.Points = append(c.shape.Points, p)
	case DrawingRectangle:
		lo, hi := review.NormalizeRect(c.anchor, p)
		c.shape.Points = []review.Point{lo, hi}
	}
}

// End finishes the shape in progress and returns it. The points gathered so far
// make up the shape; p itself is not added. While idle End returns false.
func (c *Capture) End(p review.Point) (review.MarkupShape, bool) {
	if c.state == Idle {
		return review.MarkupShape{}, false
	}

	shape := c.shape
	c.reset()
	return shape, true
}

// Cancel discards the shape in progress.
func (c *Capture) Cancel() {
	c.reset()
}

// Preview returns a copy of the shape in progress for rendering.
func (c *Capture) Preview() (review.MarkupShape, bool) {
	if c.state == Idle {
		return review.MarkupShape{}, false
	}
	return c.shape.Clone(), true
}

func (c *Capture) reset() {
	c.state = Idle
	c.shape = review.MarkupShape{}
	c.anchor = review.Point{}
}
