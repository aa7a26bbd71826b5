package video

import (
	"errors"
	"fmt"
	"testing"
)

// fakeBackend serves synthetic videos whose pixels encode the frame index.
type fakeBackend struct {
	videos  map[string]Info
	decodes int
	failAt  int
	short   bool
	closed  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		videos: map[string]Info{
			"a.mp4": {Path: "a.mp4", FrameCount: 5, FPS: 25, Width: 2, Height: 2},
			"b.mp4": {Path: "b.mp4", FrameCount: 3, FPS: 0, Width: 1, Height: 1},
		},
		failAt: -1,
	}
}

func (b *fakeBackend) Open(path string) (Stream, error) {
	info, ok := b.videos[path]
	if !ok {
		return nil, fmt.Errorf("no such file")
	}
	return &fakeStream{backend: b, info: info}, nil
}

type fakeStream struct {
	backend *fakeBackend
	info    Info
}

func (s *fakeStream) Info() Info { return s.info }

func (s *fakeStream) Decode(index int) ([]byte, error) {
	s.backend.decodes++
	if index == s.backend.failAt {
		return nil, fmt.Errorf("corrupt packet")
	}
	size := expectedSize(s.info.Width, s.info.Height)
	if s.backend.short {
		size--
	}
	pix := make([]byte, size)
	for i := range pix {
		pix[i] = byte(index)
	}
	return pix, nil
}

func (s *fakeStream) Close() error {
	s.backend.closed = append(s.backend.closed, s.info.Path)
	return nil
}

func TestLoader_NotLoaded(t *testing.T) {
	l := NewLoader(newFakeBackend())

	if l.IsLoaded() {
		t.Error("IsLoaded() = true before Open")
	}
	if _, ok := l.Info(); ok {
		t.Error("Info() reported a video before Open")
	}
	if _, err := l.ReadFrame(0); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ReadFrame() error = %v, expected ErrNotLoaded", err)
	}
}

func TestLoader_Open(t *testing.T) {
	l := NewLoader(newFakeBackend())

	info, err := l.Open("a.mp4")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if info.FrameCount != 5 || info.FPS != 25 || info.Width != 2 || info.Height != 2 {
		t.Errorf("Open() info = %+v", info)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Open")
	}
}

func TestLoader_OpenFailureKeepsPreviousVideo(t *testing.T) {
	b := newFakeBackend()
	l := NewLoader(b)

	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err := l.Open("missing.mp4")
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("Open() error = %v, expected ErrOpen", err)
	}

	info, ok := l.Info()
	if !ok || info.Path != "a.mp4" {
		t.Errorf("Info() = %+v, %v; expected a.mp4 to stay loaded", info, ok)
	}
	if len(b.closed) != 0 {
		t.Errorf("closed = %v, expected nothing closed", b.closed)
	}
}

func TestLoader_OpenReleasesPrevious(t *testing.T) {
	b := newFakeBackend()
	l := NewLoader(b)

	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := l.ReadFrame(2); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if _, err := l.Open("b.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if len(b.closed) != 1 || b.closed[0] != "a.mp4" {
		t.Errorf("closed = %v, expected [a.mp4]", b.closed)
	}

	// The cache from a.mp4 must not leak into b.mp4.
	frame, err := l.ReadFrame(2)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if frame.Width != 1 || len(frame.Pix) != 3 {
		t.Errorf("ReadFrame() returned %dx%d frame with %d bytes", frame.Width, frame.Height, len(frame.Pix))
	}
}

func TestLoader_ReadFrameRange(t *testing.T) {
	l := NewLoader(newFakeBackend())
	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	tests := []struct {
		name    string
		index   int
		wantErr error
	}{
		{"First frame", 0, nil},
		{"Last frame", 4, nil},
		{"Negative", -1, ErrRange},
		{"Frame count", 5, ErrRange},
		{"Far past end", 1000, ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := l.ReadFrame(tt.index)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadFrame(%d) error = %v, expected %v", tt.index, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFrame(%d) error = %v", tt.index, err)
			}
			if frame.Index != tt.index || frame.Pix[0] != byte(tt.index) {
				t.Errorf("ReadFrame(%d) returned frame %d with pixel %d", tt.index, frame.Index, frame.Pix[0])
			}
		})
	}
}

func TestLoader_CacheReturnsCopies(t *testing.T) {
	b := newFakeBackend()
	l := NewLoader(b)
	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first, err := l.ReadFrame(3)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	first.Pix[0] = 0xff

	second, err := l.ReadFrame(3)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if b.decodes != 1 {
		t.Errorf("decodes = %d, expected the second read to hit the cache", b.decodes)
	}
	if second.Pix[0] != 3 {
		t.Errorf("cached frame was modified through a returned copy: pixel = %d", second.Pix[0])
	}

	if _, err := l.ReadFrame(1); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if _, err := l.ReadFrame(3); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if b.decodes != 3 {
		t.Errorf("decodes = %d, expected the cache to hold a single frame", b.decodes)
	}
}

func TestLoader_DecodeErrors(t *testing.T) {
	b := newFakeBackend()
	l := NewLoader(b)
	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := l.ReadFrame(0); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	b.failAt = 2
	if _, err := l.ReadFrame(2); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadFrame() error = %v, expected ErrDecode", err)
	}

	// A failed decode leaves the previous cache entry usable.
	decodes := b.decodes
	if _, err := l.ReadFrame(0); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if b.decodes != decodes {
		t.Error("expected frame 0 to still be cached after a failed decode")
	}

	b.failAt = -1
	b.short = true
	if _, err := l.ReadFrame(4); !errors.Is(err, ErrDecode) {
		t.Errorf("ReadFrame() with short buffer error = %v, expected ErrDecode", err)
	}
}

func TestLoader_Release(t *testing.T) {
	b := newFakeBackend()
	l := NewLoader(b)

	if err := l.Release(); err != nil {
		t.Errorf("Release() before Open error = %v", err)
	}

	if _, err := l.Open("a.mp4"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if l.IsLoaded() {
		t.Error("IsLoaded() = true after Release")
	}
	if len(b.closed) != 1 {
		t.Errorf("stream closed %d times, expected 1", len(b.closed))
	}
	if _, err := l.ReadFrame(0); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("ReadFrame() after Release error = %v, expected ErrNotLoaded", err)
	}
}

func TestInfo_Timestamp(t *testing.T) {
	tests := []struct {
		name   string
		info   Info
		index  int
		want   float64
		wantOK bool
	}{
		{"25 fps", Info{FPS: 25}, 10, 0.4, true},
		{"Unknown rate", Info{FPS: 0}, 10, 0, false},
		{"First frame", Info{FPS: 30}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.info.Timestamp(tt.index)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Timestamp(%d) = %v, %v, expected %v, %v", tt.index, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFrame_Image(t *testing.T) {
	frame := &Frame{Width: 2, Height: 1, Pix: []byte{10, 20, 30, 40, 50, 60}}
	img := frame.Image()

	r, g, b, a := img.At(1, 0).RGBA()
	if r>>8 != 40 || g>>8 != 50 || b>>8 != 60 || a>>8 != 255 {
		t.Errorf("Image().At(1, 0) = %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}
