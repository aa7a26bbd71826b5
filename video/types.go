package video

import "image"

// Info describes an opened video. It is replaced wholesale each time a video is opened.
type Info struct {
	Path       string
	FrameCount int
	FPS        float64
	Width      int
	Height     int
}

// Timestamp returns the presentation time of the frame in seconds.
// The second return value is false when the frame rate is unknown.
func (i Info) Timestamp(index int) (float64, bool) {
	if i.FPS <= 0 {
		return 0, false
	}
	return float64(index) / i.FPS, true
}

// LastIndex returns the index of the final frame, or -1 for an empty video.
func (i Info) LastIndex() int {
	return i.FrameCount - 1
}

// Frame is one decoded frame stored as packed RGB24 pixels, row-major.
type Frame struct {
	Index  int
	Width  int
	Height int
	Pix    []byte
}

// Clone returns a deep copy that shares no pixel storage with f.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Index: f.Index, Width: f.Width, Height: f.Height, Pix: pix}
}

// Image converts the frame into an image.RGBA for hashing and scaling.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Pix) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// expectedSize is the byte length of one RGB24 frame with the given dimensions.
func expectedSize(width, height int) int {
	return width * height * 3
}
