package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
	"github.com/lepinkainen/framewise/video"
)

// InfoCmd prints what the frame loader sees in a video.
type InfoCmd struct {
	Files []string `arg:"" name:"files" help:"Video files to probe" type:"existingfile"`
}

func (cmd *InfoCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrDiscard()

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	var failed int
	for _, file := range cmd.Files {
		if !video.IsVideoFile(file) {
			fmt.Printf("⚠️  %s does not have a video extension, probing anyway\n", file)
		}

		ctx, cancel := context.WithTimeout(context.Background(), backend.Timeout)
		info, err := backend.ProbeVideo(ctx, file)
		cancel()
		if err != nil {
			fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", file, err)))
			logger.Warn("Probe failed", "path", file, "error", err)
			failed++
			continue
		}

		fmt.Println(ui.HeaderStyle.Render(file))
		fmt.Printf("  Frames:     %d\n", info.FrameCount)
		if info.FPS > 0 {
			fmt.Printf("  Frame rate: %.3f fps\n", info.FPS)
			if ts, ok := info.Timestamp(info.LastIndex()); ok && info.FrameCount > 0 {
				fmt.Printf("  Last frame: %.2fs\n", ts)
			}
		} else {
			fmt.Printf("  Frame rate: unknown\n")
		}
		fmt.Printf("  Size:       %dx%d\n", info.Width, info.Height)

		if size, err := video.GetFileSize(file); err == nil {
			fmt.Printf("  File size:  %.1f MB\n", float64(size)/(1024*1024))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be probed", failed, len(cmd.Files))
	}
	return nil
}
