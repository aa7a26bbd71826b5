package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/framewise/config"
	"github.com/lepinkainen/framewise/utils"
	"github.com/lepinkainen/framewise/video"
)

// newBackend checks that the configured ffmpeg binaries exist and returns a decoder for them
func newBackend(cfg *config.Config) (*video.FFmpeg, error) {
	if err := utils.ValidateFFmpegDependencies(cfg.FFmpeg, cfg.FFprobe); err != nil {
		return nil, err
	}
	return video.NewFFmpeg(cfg.FFmpeg, cfg.FFprobe, cfg.DecodeTimeout), nil
}

// newLoader returns a frame loader backed by ffmpeg
func newLoader(cfg *config.Config) (*video.Loader, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	return video.NewLoader(backend), nil
}

// warnNetworkFiles logs files on network mounts, where seeking single frames is slow
func warnNetworkFiles(logger *slog.Logger, files []string) {
	for _, file := range utils.NetworkFiles(files) {
		fmt.Printf("⚠️  %s is on a network drive, frame seeking may be slow\n", file)
		logger.Debug("Network drive detected", "path", file)
	}
}
