package review

import "fmt"

// Store owns the active review. It is the only place frame records are created.
// A Store is not safe for concurrent use.
type Store struct {
	active *ReviewData
}

// NewStore returns a store with no active review.
func NewStore() *Store {
	return &Store{}
}

// SetActive replaces the active review wholesale.
func (s *Store) SetActive(r *ReviewData) {
	if r != nil && r.Frames == nil {
		r.Frames = make(map[int]*FrameReview)
	}
	s.active = r
}

// Active returns the active review, or nil.
func (s *Store) Active() *ReviewData {
	return s.active
}

// Frame returns a copy of the record for index, creating an empty record on first touch.
func (s *Store) Frame(index int) (FrameReview, error) {
	frame, err := s.frame(index)
	if err != nil {
		return FrameReview{}, err
	}
	return frame.Clone(), nil
}

// Peek returns a copy of the record for index without creating it.
func (s *Store) Peek(index int) (FrameReview, bool) {
	if s.active == nil {
		return FrameReview{}, false
	}
	frame, ok := s.active.Frames[index]
	if !ok {
		return FrameReview{}, false
	}
	return frame.Clone(), true
}

// UpdateComment replaces the comment of frame index.
func (s *Store) UpdateComment(index int, comment string) error {
	frame, err := s.frame(index)
	if err != nil {
		return err
	}
	frame.Comment = comment
	return nil
}

// UpdateMarkups replaces the markups of frame index with a copy of shapes.
func (s *Store) UpdateMarkups(index int, shapes []MarkupShape) error {
	frame, err := s.frame(index)
	if err != nil {
		return err
	}
	frame.Markups = CloneShapes(shapes)
	return nil
}

// ReviewedFrames returns the indices with a record, ascending. It is empty when nothing is active.
func (s *Store) ReviewedFrames() []int {
	if s.active == nil {
		return []int{}
	}
	return s.active.FrameIndices()
}

func (s *Store) frame(index int) (*FrameReview, error) {
	if s.active == nil {
		return nil, fmt.Errorf("frame %d: %w", index, ErrNotBound)
	}
	frame, ok := s.active.Frames[index]
	if !ok || frame == nil {
		frame = &FrameReview{Markups: []MarkupShape{}}
		s.active.Frames[index] = frame
	}
	return frame, nil
}
