package cmd

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
)

const excerptLength = 60

// CheckpointsCmd lists the reviewed frames of a review file.
type CheckpointsCmd struct {
	Review string `arg:"" name:"review" help:"Review file" type:"existingfile"`
}

func (cmd *CheckpointsCmd) Run(appCtx *types.AppContext) error {
	r, err := review.Load(cmd.Review)
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Framewise %s", appCtx.VersionOrDefault())))
	fmt.Printf("Video: %s\n", r.VideoPath)

	indices := r.FrameIndices()
	if len(indices) == 0 {
		fmt.Printf("%s\n", ui.InfoStyle.Render("No checkpoints"))
		return nil
	}

	fmt.Printf("%s\n\n", ui.InfoStyle.Render(fmt.Sprintf("%d checkpoint(s):", len(indices))))
	for _, index := range indices {
		fmt.Println(formatCheckpoint(index, r.FPS, r.Frames[index]))
	}
	return nil
}

// formatCheckpoint renders one line: label, shape count and the first line of the comment
func formatCheckpoint(index int, fps float64, frame *review.FrameReview) string {
	line := review.FrameLabel(index, fps)
	if frame == nil {
		return line
	}

	if n := len(frame.Markups); n > 0 {
		line += fmt.Sprintf("  [%d shape(s)]", n)
	}
	if frame.Comment != "" {
		line += "  " + excerpt(frame.Comment, excerptLength)
	}
	return line
}

func excerpt(s string, limit int) string {
	first, _, more := strings.Cut(s, "\n")
	runes := []rune(first)
	if len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	if more {
		return first + " …"
	}
	return first
}
