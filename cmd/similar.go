package cmd

import (
	"fmt"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
	"github.com/lepinkainen/framewise/video"
)

// SimilarCmd finds checkpoints that show nearly the same picture, usually the
// same shot annotated twice.
type SimilarCmd struct {
	Review    string `arg:"" name:"review" help:"Review file" type:"existingfile"`
	Threshold int    `help:"Hamming distance threshold for similarity (0-64)" default:"6"`
}

// frameHash is the perceptual hash of one checkpoint frame
type frameHash struct {
	Index int
	Hash  *goimagehash.ImageHash
}

// similarPair is two checkpoints within the threshold
type similarPair struct {
	A, B     int
	Distance int
}

func (cmd *SimilarCmd) Validate() error {
	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("--threshold must be between 0 and 64, got %d", cmd.Threshold)
	}
	return nil
}

// Run hashes every checkpoint frame and reports pairs whose distance is within the threshold.
func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrDiscard()

	r, err := review.Load(cmd.Review)
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}
	indices := r.FrameIndices()
	if len(indices) < 2 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ Need at least 2 checkpoints to compare"))
		return nil
	}

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}
	if _, err := loader.Open(r.VideoPath); err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer func() { _ = loader.Release() }()

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Calculating perceptual hashes for %d checkpoints...", len(indices))))

	bar := progressbar.NewOptions(len(indices),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Hashing frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var hashes []frameHash
	for _, index := range indices {
		hash, err := hashFrame(loader, index)
		_ = bar.Add(1)
		if err != nil {
			logger.Warn("Skipping frame", "frame", index, "error", err)
			fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", review.FrameLabel(index, r.FPS), err)
			continue
		}
		hashes = append(hashes, frameHash{Index: index, Hash: hash})
	}
	_ = bar.Finish()

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Comparing %d frames for similarity (threshold: %d):", len(hashes), cmd.Threshold)))

	pairs := findSimilar(hashes, cmd.Threshold)
	if len(pairs) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No similar checkpoints found within threshold"))
		return nil
	}

	for _, p := range pairs {
		fmt.Printf("🎯 Similar (distance %d): %s ↔ %s\n",
			p.Distance, review.FrameLabel(p.A, r.FPS), review.FrameLabel(p.B, r.FPS))
	}
	return nil
}

func hashFrame(loader *video.Loader, index int) (*goimagehash.ImageHash, error) {
	frame, err := loader.ReadFrame(index)
	if err != nil {
		return nil, err
	}
	return video.PerceptualHash(frame)
}

// findSimilar compares all pairs, keeping the order of hashes
func findSimilar(hashes []frameHash, threshold int) []similarPair {
	var pairs []similarPair
	for i := 0; i < len(hashes); i++ {
		for j := i + 1; j < len(hashes); j++ {
			distance, err := hashes[i].Hash.Distance(hashes[j].Hash)
			if err != nil {
				continue
			}
			if distance <= threshold {
				pairs = append(pairs, similarPair{A: hashes[i].Index, B: hashes[j].Index, Distance: distance})
			}
		}
	}
	return pairs
}
