package session

import (
	"errors"
	"io/fs"
	"os"

	"github.com/lepinkainen/framewise/markup"
	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/video"
)

var (
	// ErrMissingVideoPath is returned when a review file names no video.
	ErrMissingVideoPath = errors.New("review has no video_path")
	// ErrNoActiveReview is returned for operations that need a bound video.
	ErrNoActiveReview = errors.New("no video bound")
)

// ErrorKind groups errors for reporting to the presentation layer.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindOpen
	KindRange
	KindDecode
	KindNotLoaded
	KindFormat
	KindMissingVideoPath
	KindNotBound
	KindNoActiveReview
	KindInvalidColor
	KindIO
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "error",
	KindOpen:             "open",
	KindRange:            "range",
	KindDecode:           "decode",
	KindNotLoaded:        "not loaded",
	KindFormat:           "format",
	KindMissingVideoPath: "missing video path",
	KindNotBound:         "not bound",
	KindNoActiveReview:   "no active review",
	KindInvalidColor:     "invalid color",
	KindIO:               "io",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Classify maps an error onto its ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingVideoPath):
		return KindMissingVideoPath
	case errors.Is(err, ErrNoActiveReview):
		return KindNoActiveReview
	case errors.Is(err, video.ErrOpen):
		return KindOpen
	case errors.Is(err, video.ErrRange):
		return KindRange
	case errors.Is(err, video.ErrDecode):
		return KindDecode
	case errors.Is(err, video.ErrNotLoaded):
		return KindNotLoaded
	case errors.Is(err, review.ErrFormat):
		return KindFormat
	case errors.Is(err, review.ErrNotBound):
		return KindNotBound
	case errors.Is(err, markup.ErrInvalidColor):
		return KindInvalidColor
	}

	var pathErr *fs.PathError
	var linkErr *os.LinkError
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) {
		return KindIO
	}
	return KindUnknown
}
