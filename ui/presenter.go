package ui

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/session"
	"github.com/lepinkainen/framewise/video"
)

// frameView receives session notifications. The model is copied by value on
// every update, so it holds the view by pointer and syncs its widgets from the
// changed flags after each session call.
type frameView struct {
	frame *video.Frame

	comment        string
	commentChanged bool

	checkpoints        []int
	checkpointsChanged bool

	errKind    session.ErrorKind
	errMessage string
	errChanged bool
}

func (v *frameView) FrameLoaded(_ int, frame *video.Frame, shapes []review.MarkupShape, comment string) {
	v.frame = frame
	v.comment = comment
	v.commentChanged = true
}

func (v *frameView) CheckpointsChanged(indices []int) {
	v.checkpoints = indices
	v.checkpointsChanged = true
}

func (v *frameView) Error(kind session.ErrorKind, message string) {
	v.errKind = kind
	v.errMessage = message
	v.errChanged = true
}

// checkpointItem is one reviewed frame in the checkpoint list
type checkpointItem struct {
	index   int
	label   string
	comment string
	shapes  int
}

func newCheckpointItem(index int, fps float64, frame *review.FrameReview) checkpointItem {
	item := checkpointItem{index: index, label: review.FrameLabel(index, fps)}
	if frame != nil {
		item.comment = frame.Comment
		item.shapes = len(frame.Markups)
	}
	return item
}

func (c checkpointItem) FilterValue() string { return c.label }
func (c checkpointItem) Title() string       { return c.label }
func (c checkpointItem) Description() string {
	comment := "(no comment)"
	if c.comment != "" {
		comment, _, _ = strings.Cut(c.comment, "\n")
	}
	if c.shapes == 0 {
		return comment
	}
	return fmt.Sprintf("%s • %d shape(s)", comment, c.shapes)
}
