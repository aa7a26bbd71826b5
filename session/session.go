// Package session coordinates frame navigation, annotation capture and
// persistence for one reviewed video.
package session

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lepinkainen/framewise/markup"
	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/video"
)

// DefaultPlaybackFPS is the playback rate used when the video reports no frame rate.
const DefaultPlaybackFPS = 30

// Source is the frame source a Session reads from. *video.Loader implements it.
type Source interface {
	Open(path string) (video.Info, error)
	IsLoaded() bool
	Info() (video.Info, bool)
	ReadFrame(index int) (*video.Frame, error)
	Release() error
}

// Presenter receives everything the Session wants shown.
type Presenter interface {
	FrameLoaded(index int, frame *video.Frame, shapes []review.MarkupShape, comment string)
	CheckpointsChanged(indices []int)
	Error(kind ErrorKind, message string)
}

// State is the playback state of a Session.
type State int

const (
	NoVideo State = iota
	Ready
	Playing
)

func (s State) String() string {
	switch s {
	case NoVideo:
		return "no video"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configure a Session. Zero values select defaults.
type Options struct {
	Logger      *slog.Logger
	Capture     *markup.Capture
	PlaybackFPS float64
}

// Session is the controller for one review. It is not safe for concurrent use;
// all calls are expected from a single event loop.
type Session struct {
	ID string

	source    Source
	store     *review.Store
	capture   *markup.Capture
	presenter Presenter
	logger    *slog.Logger

	playbackFPS float64

	state      State
	info       video.Info
	current    int
	loaded     bool
	pending    review.FrameReview
	loading    bool
	dirty      bool
	reviewPath string
}

// New creates a session in the NoVideo state. A nil presenter discards all notifications.
func New(source Source, presenter Presenter, opts Options) *Session {
	id := uuid.NewString()

	if presenter == nil {
		presenter = nopPresenter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	capture := opts.Capture
	if capture == nil {
		capture = markup.NewCapture()
	}
	playbackFPS := opts.PlaybackFPS
	if playbackFPS <= 0 {
		playbackFPS = DefaultPlaybackFPS
	}

	return &Session{
		ID:          id,
		source:      source,
		store:       review.NewStore(),
		capture:     capture,
		presenter:   presenter,
		logger:      logger.With("session", id),
		playbackFPS: playbackFPS,
	}
}

// BindVideo opens path and starts a fresh review for it. Unsaved edits of the
// previous review are discarded. When opening fails the previous binding is kept.
func (s *Session) BindVideo(path string) error {
	info, err := s.source.Open(path)
	if err != nil {
		return s.fail("bind video", err)
	}

	s.install(review.New(info.Path, info.FPS, info.FrameCount), info, "")
	s.logger.Info("Bound video", "path", info.Path, "frames", info.FrameCount, "fps", info.FPS)
	return s.loadFirst()
}

// BindReview loads a review file and opens the video it names. The review's
// fps and frame_count are replaced by the values measured from the video.
func (s *Session) BindReview(path string) error {
	r, err := review.Load(path)
	if err != nil {
		return s.fail("bind review", err)
	}
	if r.VideoPath == "" {
		return s.fail("bind review", fmt.Errorf("%s: %w", path, ErrMissingVideoPath))
	}

	info, err := s.source.Open(r.VideoPath)
	if err != nil {
		return s.fail("bind review", err)
	}

	if r.FPS != info.FPS || r.FrameCount != info.FrameCount {
		s.logger.Debug("Review metadata differs from video",
			"review_fps", r.FPS, "video_fps", info.FPS,
			"review_frames", r.FrameCount, "video_frames", info.FrameCount)
	}
	r.FPS = info.FPS
	r.FrameCount = info.FrameCount

	s.install(r, info, path)
	s.logger.Info("Bound review", "path", path, "video", r.VideoPath, "checkpoints", len(r.Frames))
	return s.loadFirst()
}

func (s *Session) install(r *review.ReviewData, info video.Info, reviewPath string) {
	s.capture.Cancel()
	s.store.SetActive(r)
	s.info = info
	s.state = Ready
	s.current = 0
	s.loaded = false
	s.pending = review.FrameReview{}
	s.dirty = false
	s.reviewPath = reviewPath
	s.presenter.CheckpointsChanged(s.store.ReviewedFrames())
}

// loadFirst shows frame 0 after a bind without creating a record for it.
func (s *Session) loadFirst() error {
	if s.info.FrameCount == 0 {
		return nil
	}

	frame, err := s.source.ReadFrame(0)
	if err != nil {
		return s.fail("load first frame", err)
	}
	fr, _ := s.store.Peek(0)
	s.show(0, frame, fr)
	return nil
}

// NavigateTo commits the current frame and loads index. On failure the
// session stays on the previous frame with its edits intact.
func (s *Session) NavigateTo(index int) error {
	if s.state == NoVideo {
		return s.fail("navigate", ErrNoActiveReview)
	}

	if err := s.commit(); err != nil {
		return s.fail("navigate", err)
	}

	frame, err := s.source.ReadFrame(index)
	if err != nil {
		return s.fail("navigate", err)
	}

	fr, err := s.store.Frame(index)
	if err != nil {
		return s.fail("navigate", err)
	}

	s.show(index, frame, fr)
	return nil
}

// Step navigates relative to the current frame, clamped to the video.
func (s *Session) Step(delta int) error {
	if s.state == NoVideo {
		return s.fail("navigate", ErrNoActiveReview)
	}
	target := max(0, min(s.current+delta, s.info.LastIndex()))
	if s.loaded && target == s.current {
		return nil
	}
	return s.NavigateTo(target)
}

func (s *Session) show(index int, frame *video.Frame, fr review.FrameReview) {
	s.loading = true
	defer func() { s.loading = false }()

	s.capture.Cancel()
	s.current = index
	s.loaded = true
	s.pending = fr.Clone()

	s.presenter.FrameLoaded(index, frame, review.CloneShapes(fr.Markups), fr.Comment)
	s.presenter.CheckpointsChanged(s.store.ReviewedFrames())
}

// commit writes the pending edits of the current frame to the store. A frame
// without a record and without edits is left untouched.
func (s *Session) commit() error {
	if !s.loaded {
		return nil
	}

	stored, exists := s.store.Peek(s.current)
	if !exists && s.pending.IsEmpty() {
		return nil
	}
	if exists && sameFrame(stored, s.pending) {
		return nil
	}

	if err := s.store.UpdateComment(s.current, s.pending.Comment); err != nil {
		return err
	}
	if err := s.store.UpdateMarkups(s.current, s.pending.Markups); err != nil {
		return err
	}

	s.dirty = true
	s.presenter.CheckpointsChanged(s.store.ReviewedFrames())
	return nil
}

// Commit replaces the pending edits of the current frame and commits them.
func (s *Session) Commit(comment string, shapes []review.MarkupShape) error {
	if s.state == NoVideo {
		return s.fail("commit", ErrNoActiveReview)
	}
	if s.loading || !s.loaded {
		return nil
	}

	s.pending = review.FrameReview{Comment: comment, Markups: review.CloneShapes(shapes)}
	if err := s.commit(); err != nil {
		return s.fail("commit", err)
	}
	return nil
}

// SetComment records an edited comment and writes it straight to the store.
// Calls made while a frame is being loaded are ignored.
func (s *Session) SetComment(text string) {
	if s.loading || !s.loaded || s.pending.Comment == text {
		return
	}

	s.pending.Comment = text
	if err := s.store.UpdateComment(s.current, text); err != nil {
		_ = s.fail("update comment", err)
		return
	}
	s.dirty = true
	s.presenter.CheckpointsChanged(s.store.ReviewedFrames())
}

// SetMarkups replaces the pending shapes of the current frame. They reach the
// store on the next commit. Calls made while a frame is being loaded are ignored.
func (s *Session) SetMarkups(shapes []review.MarkupShape) {
	if s.loading || !s.loaded {
		return
	}
	s.pending.Markups = review.CloneShapes(shapes)
}

// ClearMarkups removes every shape from the current frame, in the pending
// edits and in the store, and drops any shape in progress.
func (s *Session) ClearMarkups() error {
	s.capture.Cancel()
	if s.loading || !s.loaded {
		return nil
	}

	s.pending.Markups = []review.MarkupShape{}
	if err := s.store.UpdateMarkups(s.current, s.pending.Markups); err != nil {
		return s.fail("clear markups", err)
	}
	s.dirty = true
	s.presenter.CheckpointsChanged(s.store.ReviewedFrames())
	return nil
}

// PointerDown starts a shape at p in frame coordinates.
func (s *Session) PointerDown(p review.Point) {
	if s.loading || !s.loaded {
		return
	}
	s.capture.Begin(p)
}

// PointerMove extends the shape in progress.
func (s *Session) PointerMove(p review.Point) {
	if s.loading {
		return
	}
	s.capture.Extend(p)
}

// PointerUp finishes the shape in progress and adds it to the pending edits.
func (s *Session) PointerUp(p review.Point) {
	if s.loading {
		return
	}
	shape, ok := s.capture.End(p)
	if !ok {
		return
	}
	s.pending.Markups = append(s.pending.Markups, shape)
}

// Save commits the current frame and writes the review to path.
func (s *Session) Save(path string) error {
	active := s.store.Active()
	if active == nil {
		return s.fail("save", ErrNoActiveReview)
	}

	if err := s.commit(); err != nil {
		return s.fail("save", err)
	}
	if err := review.Save(path, active); err != nil {
		return s.fail("save", err)
	}

	s.dirty = false
	s.reviewPath = path
	s.logger.Info("Saved review", "path", path, "checkpoints", len(active.Frames))
	return nil
}

// Close releases the video.
func (s *Session) Close() error {
	s.Pause()
	return s.source.Release()
}

// PlaybackInterval is the delay between playback ticks.
func (s *Session) PlaybackInterval() time.Duration {
	fps := s.info.FPS
	if fps <= 0 {
		fps = s.playbackFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// Play starts playback. Playing from the last frame starts over at frame 0.
func (s *Session) Play() error {
	if s.state == NoVideo {
		return s.fail("play", ErrNoActiveReview)
	}
	if s.info.FrameCount == 0 {
		return nil
	}
	if !s.loaded || s.current >= s.info.LastIndex() {
		if err := s.NavigateTo(0); err != nil {
			return err
		}
	}
	s.state = Playing
	return nil
}

// Pause stops playback on the current frame.
func (s *Session) Pause() {
	if s.state == Playing {
		s.state = Ready
	}
}

// TogglePlayback switches between playing and paused.
func (s *Session) TogglePlayback() error {
	if s.state == Playing {
		s.Pause()
		return nil
	}
	return s.Play()
}

// Tick advances playback by one frame. It returns false once playback has
// stopped, either at the last frame or because of an error.
func (s *Session) Tick() (bool, error) {
	if s.state != Playing {
		return false, nil
	}

	next := s.current + 1
	if next >= s.info.FrameCount {
		s.state = Ready
		return false, nil
	}
	if err := s.NavigateTo(next); err != nil {
		s.state = Ready
		return false, err
	}
	if next >= s.info.LastIndex() {
		s.state = Ready
		return false, nil
	}
	return true, nil
}

// State returns the playback state.
func (s *Session) State() State { return s.state }

// Info returns the bound video's metadata.
func (s *Session) Info() (video.Info, bool) {
	return s.info, s.state != NoVideo
}

// Current returns the index of the loaded frame.
func (s *Session) Current() (int, bool) {
	return s.current, s.loaded
}

// Pending returns a copy of the current frame's uncommitted edits.
func (s *Session) Pending() review.FrameReview {
	return s.pending.Clone()
}

// Preview returns the shape being drawn, if any.
func (s *Session) Preview() (review.MarkupShape, bool) {
	return s.capture.Preview()
}

// Capture exposes the tool settings.
func (s *Session) Capture() *markup.Capture { return s.capture }

// ReviewedFrames returns the checkpoint indices.
func (s *Session) ReviewedFrames() []int {
	return s.store.ReviewedFrames()
}

// Review returns the active review. Callers must not modify it.
func (s *Session) Review() *review.ReviewData {
	return s.store.Active()
}

// Dirty reports whether edits were made since the last bind or save.
func (s *Session) Dirty() bool { return s.dirty }

// ReviewPath is the file the review was loaded from or last saved to.
func (s *Session) ReviewPath() string { return s.reviewPath }

func (s *Session) fail(op string, err error) error {
	kind := Classify(err)
	s.logger.Warn("Operation failed", "op", op, "kind", kind.String(), "error", err)
	s.presenter.Error(kind, err.Error())
	return err
}

func sameFrame(a, b review.FrameReview) bool {
	return a.Comment == b.Comment && slices.EqualFunc(a.Markups, b.Markups, func(x, y review.MarkupShape) bool {
		return x.Kind == y.Kind && x.Color == y.Color && x.Width == y.Width && slices.Equal(x.Points, y.Points)
	})
}

type nopPresenter struct{}

func (nopPresenter) FrameLoaded(int, *video.Frame, []review.MarkupShape, string) {}
func (nopPresenter) CheckpointsChanged([]int)                                   {}
func (nopPresenter) Error(ErrorKind, string)                                    {}
