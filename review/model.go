// Package review holds the per-video review model, its JSON document form
// and the store that tracks the active review.
package review

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ShapeKind names a markup shape as it appears in review files.
type ShapeKind string

const (
	// Freehand is a polyline drawn with the pen tool.
	Freehand ShapeKind = "pen"
	// Rectangle is an axis-aligned box given by two opposite corners.
	Rectangle ShapeKind = "rect"
)

// Defaults applied to shapes that omit a color or width.
const (
	DefaultColor = "#ff0000"
	DefaultWidth = 2
)

// ParseShapeKind accepts the two known shape names.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch ShapeKind(s) {
	case Freehand, Rectangle:
		return ShapeKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown shape %q", ErrFormat, s)
	}
}

// Point is a position in frame pixel space. It is encoded as a two-element JSON array.
type Point struct {
	X float64
	Y float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("%w: point: %w", ErrFormat, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: point has %d coordinates", ErrFormat, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// NormalizeRect orders two corners into top-left and bottom-right.
func NormalizeRect(a, b Point) (Point, Point) {
	return Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)}, Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
}

// MarkupShape is a single drawn annotation.
type MarkupShape struct {
	Kind   ShapeKind
	Points []Point
	Color  string
	Width  int
}

// Clone returns a copy with its own point slice.
func (s MarkupShape) Clone() MarkupShape {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// Validate reports shapes that cannot be rendered as their kind demands.
func (s MarkupShape) Validate() error {
	switch s.Kind {
	case Freehand:
		if len(s.Points) == 0 {
			return fmt.Errorf("pen shape has no points")
		}
	case Rectangle:
		if len(s.Points) < 2 {
			return fmt.Errorf("rect shape has %d points, expected 2", len(s.Points))
		}
	default:
		return fmt.Errorf("unknown shape %q", s.Kind)
	}
	if s.Width < 1 {
		return fmt.Errorf("invalid width %d", s.Width)
	}
	return nil
}

// CloneShapes deep-copies a shape list. A nil list yields an empty, non-nil one.
func CloneShapes(shapes []MarkupShape) []MarkupShape {
	out := make([]MarkupShape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// FrameReview is the comment and markups attached to one frame.
type FrameReview struct {
	Comment string
	Markups []MarkupShape
}

// Clone returns a deep copy.
func (f FrameReview) Clone() FrameReview {
	return FrameReview{Comment: f.Comment, Markups: CloneShapes(f.Markups)}
}

// IsEmpty reports whether the frame has neither a comment nor markups.
func (f FrameReview) IsEmpty() bool {
	return f.Comment == "" && len(f.Markups) == 0
}

// ReviewData is the whole review of one video. Frame indices are not checked
// against FrameCount so reviews survive re-encodes that change the length.
type ReviewData struct {
	VideoPath  string
	FPS        float64
	FrameCount int
	Frames     map[int]*FrameReview
}

// New creates an empty review for a video.
func New(videoPath string, fps float64, frameCount int) *ReviewData {
	return &ReviewData{
		VideoPath:  videoPath,
		FPS:        fps,
		FrameCount: frameCount,
		Frames:     make(map[int]*FrameReview),
	}
}

// FrameIndices returns the indices with a frame record, ascending.
func (r *ReviewData) FrameIndices() []int {
	indices := make([]int, 0, len(r.Frames))
	for i := range r.Frames {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// Timestamp returns the time of frame index in seconds using the review's fps.
func (r *ReviewData) Timestamp(index int) (float64, bool) {
	if r.FPS <= 0 {
		return 0, false
	}
	return float64(index) / r.FPS, true
}

// FrameLabel formats a frame for lists, adding its timestamp when fps is known.
func FrameLabel(index int, fps float64) string {
	if fps <= 0 {
		return fmt.Sprintf("Frame %d", index)
	}
	return fmt.Sprintf("Frame %d (%.2fs)", index, float64(index)/fps)
}
