package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/framewise/cmd"
	"github.com/lepinkainen/framewise/config"
	"github.com/lepinkainen/framewise/types"
	"github.com/lepinkainen/framewise/utils"
)

var Version = "dev"

type CLI struct {
	Config   string           `name:"config" help:"Configuration file (default: user config dir)" type:"path"`
	LogLevel string           `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFile  string           `name:"log-file" help:"Write review session logs to this file" type:"path"`
	Version  kong.VersionFlag `name:"version" help:"Print version and exit"`

	Review      cmd.ReviewCmd      `cmd:"" help:"Review videos frame by frame with comments and markups"`
	Info        cmd.InfoCmd        `cmd:"" help:"Show frame count, frame rate and size of videos"`
	Checkpoints cmd.CheckpointsCmd `cmd:"" help:"List the reviewed frames of a review file"`
	Note        cmd.NoteCmd        `cmd:"" help:"Comment or mark up a single frame without the TUI"`
	Verify      cmd.VerifyCmd      `cmd:"" help:"Check review files against their videos"`
	Similar     cmd.SimilarCmd     `cmd:"" help:"Find checkpoints showing nearly the same picture"`
}

// newAppContext loads the configuration and applies the global flags on top of it
func newAppContext(cli *CLI) (*types.AppContext, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.LogFile = cli.LogFile
	}

	logger, err := utils.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return &types.AppContext{
		Version: Version,
		Config:  cfg,
		Logger:  logger,
	}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("framewise"),
		kong.Description("Frame-by-frame video review and annotation"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	appCtx, err := newAppContext(&cli)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
