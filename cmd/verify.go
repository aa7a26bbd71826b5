package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/lepinkainen/framewise/markup"
	"github.com/lepinkainen/framewise/review"
	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
	"github.com/lepinkainen/framewise/video"
)

// fpsTolerance is the frame rate drift accepted between a review and its video
const fpsTolerance = 0.01

// VerifyCmd checks review files against the videos they annotate.
type VerifyCmd struct {
	Reviews []string `arg:"" name:"reviews" help:"Review files to verify" type:"existingfile"`
}

// Run checks every review and reports the problems found in each.
func (cmd *VerifyCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrDiscard()

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Verifying %d review(s)...", len(cmd.Reviews))))

	var verified, failed int
	for _, path := range cmd.Reviews {
		r, err := review.Load(path)
		if err != nil {
			fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", path, err)))
			failed++
			continue
		}

		var info *video.Info
		if r.VideoPath != "" {
			ctx, cancel := context.WithTimeout(context.Background(), backend.Timeout)
			probed, err := backend.ProbeVideo(ctx, r.VideoPath)
			cancel()
			if err != nil {
				logger.Debug("Probe failed", "path", r.VideoPath, "error", err)
			} else {
				info = &probed
			}
		}

		problems := checkReview(r, info)
		if len(problems) == 0 {
			fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s (%d checkpoints)", path, len(r.Frames))))
			verified++
			continue
		}

		fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s", path)))
		for _, problem := range problems {
			fmt.Printf("   - %s\n", problem)
		}
		failed++
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Verified: %d, ❌ Failed: %d", verified, failed)))
	if failed > 0 {
		return fmt.Errorf("%d review(s) failed verification", failed)
	}
	return nil
}

// checkReview lists problems in r. info is the probed video, nil when it could not be opened.
func checkReview(r *review.ReviewData, info *video.Info) []string {
	var problems []string

	switch {
	case r.VideoPath == "":
		problems = append(problems, "video_path is empty")
	case info == nil:
		problems = append(problems, fmt.Sprintf("video %s cannot be opened", r.VideoPath))
	default:
		if r.FrameCount != info.FrameCount {
			problems = append(problems, fmt.Sprintf("frame_count is %d, video has %d frames", r.FrameCount, info.FrameCount))
		}
		if math.Abs(r.FPS-info.FPS) > fpsTolerance {
			problems = append(problems, fmt.Sprintf("fps is %.3f, video runs at %.3f", r.FPS, info.FPS))
		}
	}

	frameCount := r.FrameCount
	if info != nil {
		frameCount = info.FrameCount
	}

	for _, index := range r.FrameIndices() {
		if index < 0 || index >= frameCount {
			problems = append(problems, fmt.Sprintf("frame %d is outside the video (0-%d)", index, frameCount-1))
		}
		for i, shape := range r.Frames[index].Markups {
			if err := shape.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("frame %d markup %d: %v", index, i, err))
			}
			if _, err := markup.ParseColor(shape.Color); err != nil {
				problems = append(problems, fmt.Sprintf("frame %d markup %d: %v", index, i, err))
			}
		}
	}

	return problems
}
