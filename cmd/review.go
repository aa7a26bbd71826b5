package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/ui"
	"github.com/lepinkainen/framewise/utils"
	"github.com/lepinkainen/framewise/video"
)

// ReviewCmd opens the interactive frame review TUI.
type ReviewCmd struct {
	Videos []string `arg:"" optional:"" name:"videos" help:"Video files or directories to review" type:"path"`
	Review string   `name:"review" short:"r" help:"Continue an existing review file" type:"existingfile"`
	Out    string   `name:"out" short:"o" help:"Save the review here (single video only)" type:"path"`
}

// Validate is called by kong after parsing
func (cmd *ReviewCmd) Validate() error {
	if len(cmd.Videos) == 0 && cmd.Review == "" {
		return errors.New("give at least one video or --review")
	}
	return nil
}

func (cmd *ReviewCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()

	videos, err := video.ExpandPaths(cmd.Videos)
	if err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}
	if len(cmd.Videos) > 0 && len(videos) == 0 {
		return errors.New("no video files found")
	}
	if cmd.Out != "" && len(videos) > 1 {
		return errors.New("--out can only be used with a single video")
	}
	warnNetworkFiles(appCtx.LoggerOrDiscard(), videos)

	logger, closeLog, err := sessionLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}
	capture, err := cfg.NewCapture()
	if err != nil {
		return fmt.Errorf("invalid tool settings: %w", err)
	}

	model := ui.NewReviewModel(ui.ReviewModelConfig{
		Source:      loader,
		Capture:     capture,
		Logger:      logger,
		Palette:     cfg.Palette,
		PlaybackFPS: cfg.PlaybackFPS,
		Videos:      videos,
		ReviewPath:  cmd.Review,
		OutPath:     cmd.Out,
		Version:     appCtx.VersionOrDefault(),
	})
	if err := model.Start(); err != nil {
		return fmt.Errorf("failed to start review: %w", err)
	}
	defer func() {
		if err := model.Session().Close(); err != nil {
			logger.Warn("Failed to release video", "error", err)
		}
	}()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(ui.ReviewModel); ok {
		if path := m.Session().ReviewPath(); path != "" {
			fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Review: %s", path)))
		}
	}
	return nil
}

// sessionLogger logs to path, or nowhere when path is empty
func sessionLogger(path, level string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := utils.OpenLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}
