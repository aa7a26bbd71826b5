package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrFormat is returned for documents that are not a well-formed review.
	ErrFormat = errors.New("malformed review document")
	// ErrNotBound is returned by the Store when no review is active.
	ErrNotBound = errors.New("no active review")
)

type document struct {
	VideoPath  string                   `json:"video_path"`
	FPS        float64                  `json:"fps"`
	FrameCount int                      `json:"frame_count"`
	Frames     map[string]frameDocument `json:"frames"`
}

type frameDocument struct {
	Comment string           `json:"comment"`
	Markups []markupDocument `json:"markups"`
}

type markupDocument struct {
	Shape  ShapeKind `json:"shape"`
	Points []Point   `json:"points"`
	Color  string    `json:"color"`
	Width  int       `json:"width"`
}

// Decoding mirrors of the document types. Pointers mark fields whose default is not the zero value.
type documentIn struct {
	VideoPath  string                     `json:"video_path"`
	FPS        float64                    `json:"fps"`
	FrameCount *float64                   `json:"frame_count"`
	Frames     map[string]frameDocumentIn `json:"frames"`
}

type frameDocumentIn struct {
	Comment string             `json:"comment"`
	Markups []markupDocumentIn `json:"markups"`
}

type markupDocumentIn struct {
	Shape  *string  `json:"shape"`
	Points []Point  `json:"points"`
	Color  *string  `json:"color"`
	Width  *float64 `json:"width"`
}

// Marshal encodes a review as an indented JSON document with string frame keys.
func Marshal(r *ReviewData) ([]byte, error) {
	doc := document{
		VideoPath:  r.VideoPath,
		FPS:        r.FPS,
		FrameCount: r.FrameCount,
		Frames:     make(map[string]frameDocument, len(r.Frames)),
	}

	for index, frame := range r.Frames {
		if frame == nil {
			continue
		}
		fd := frameDocument{
			Comment: frame.Comment,
			Markups: make([]markupDocument, 0, len(frame.Markups)),
		}
		for _, shape := range frame.Markups {
			points := shape.Points
			if points == nil {
				points = []Point{}
			}
			fd.Markups = append(fd.Markups, markupDocument{
				Shape:  shape.Kind,
				Points: points,
				Color:  shape.Color,
				Width:  shape.Width,
			})
		}
		doc.Frames[strconv.Itoa(index)] = fd
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a review document, applying defaults for missing fields.
// Frame indices are not checked against frame_count.
func Unmarshal(data []byte) (*ReviewData, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, fmt.Errorf("%w: document is null", ErrFormat)
	}

	var doc documentIn
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	frameCount, err := integral("frame_count", doc.FrameCount, 0)
	if err != nil {
		return nil, err
	}

	r := New(doc.VideoPath, doc.FPS, frameCount)

	for key, fd := range doc.Frames {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: frame key %q is not an integer", ErrFormat, key)
		}
		// "01" and "+1" would overwrite frame 1 in random order
		if strconv.Itoa(index) != key {
			return nil, fmt.Errorf("%w: frame key %q is not in canonical form", ErrFormat, key)
		}

		frame := &FrameReview{
			Comment: fd.Comment,
			Markups: make([]MarkupShape, 0, len(fd.Markups)),
		}
		for i, md := range fd.Markups {
			shape, err := md.shape()
			if err != nil {
				return nil, fmt.Errorf("frame %d markup %d: %w", index, i, err)
			}
			frame.Markups = append(frame.Markups, shape)
		}
		r.Frames[index] = frame
	}

	return r, nil
}

func (md markupDocumentIn) shape() (MarkupShape, error) {
	kind := Freehand
	if md.Shape != nil {
		k, err := ParseShapeKind(*md.Shape)
		if err != nil {
			return MarkupShape{}, err
		}
		kind = k
	}

	color := DefaultColor
	if md.Color != nil {
		color = *md.Color
	}

	width, err := integral("width", md.Width, DefaultWidth)
	if err != nil {
		return MarkupShape{}, err
	}

	points := md.Points
	if points == nil {
		points = []Point{}
	}

	return MarkupShape{Kind: kind, Points: points, Color: color, Width: width}, nil
}

// integral converts a decoded JSON number to int, truncating toward zero.
func integral(field string, v *float64, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || math.Abs(*v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s out of range", ErrFormat, field)
	}
	return int(*v), nil
}
