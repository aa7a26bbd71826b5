package video

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen is returned when a video cannot be opened or has no readable video stream.
	ErrOpen = errors.New("unable to open video")
	// ErrRange is returned for frame indices outside [0, FrameCount).
	ErrRange = errors.New("frame index out of range")
	// ErrDecode is returned when a frame in range cannot be decoded.
	ErrDecode = errors.New("unable to decode frame")
	// ErrNotLoaded is returned when frames are requested before a video is opened.
	ErrNotLoaded = errors.New("no video loaded")
)

// Backend opens videos for random-access decoding.
type Backend interface {
	Open(path string) (Stream, error)
}

// Stream is a single opened video.
type Stream interface {
	Info() Info
	// Decode returns the RGB24 pixels of the frame at index.
	Decode(index int) ([]byte, error)
	Close() error
}

// Loader provides random access to the frames of at most one open video.
// The most recently decoded frame is cached; every returned frame is a copy.
type Loader struct {
	backend Backend
	stream  Stream
	info    Info
	cached  *Frame
}

// NewLoader creates a loader that decodes through backend.
func NewLoader(backend Backend) *Loader {
	return &Loader{backend: backend}
}

// Open opens path and makes it the loaded video. The previous video, if any,
// is released once the new one is open. When opening fails the previously
// loaded video stays loaded.
func (l *Loader) Open(path string) (Info, error) {
	stream, err := l.backend.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	_ = l.Release()

	l.stream = stream
	l.info = stream.Info()
	return l.info, nil
}

// IsLoaded reports whether a video is currently open.
func (l *Loader) IsLoaded() bool {
	return l.stream != nil
}

// Info returns the metadata of the loaded video.
func (l *Loader) Info() (Info, bool) {
	if l.stream == nil {
		return Info{}, false
	}
	return l.info, true
}

// ReadFrame decodes the frame at index, serving repeated reads of the same
// index from the cache.
func (l *Loader) ReadFrame(index int) (*Frame, error) {
	if l.stream == nil {
		return nil, ErrNotLoaded
	}
	if index < 0 || index >= l.info.FrameCount {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRange, index, l.info.FrameCount)
	}

	if l.cached != nil && l.cached.Index == index {
		return l.cached.Clone(), nil
	}

	pix, err := l.stream.Decode(index)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrDecode, index, err)
	}
	if want := expectedSize(l.info.Width, l.info.Height); len(pix) != want {
		return nil, fmt.Errorf("%w %d: got %d bytes, expected %d", ErrDecode, index, len(pix), want)
	}

	l.cached = &Frame{Index: index, Width: l.info.Width, Height: l.info.Height, Pix: pix}
	return l.cached.Clone(), nil
}

// Release closes the loaded video and drops the cache. It is safe to call repeatedly.
func (l *Loader) Release() error {
	l.cached = nil
	if l.stream == nil {
		return nil
	}

	err := l.stream.Close()
	l.stream = nil
	l.info = Info{}
	return err
}
