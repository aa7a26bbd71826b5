package video

import (
	"fmt"

	"github.com/corona10/goimagehash"
)

// PerceptualHash calculates the perceptual hash of a decoded frame
func PerceptualHash(frame *Frame) (*goimagehash.ImageHash, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("cannot hash an empty frame")
	}

	hash, err := goimagehash.PerceptionHash(frame.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}

	return hash, nil
}
