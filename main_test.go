package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestCLI_Structure(t *testing.T) {
	// Test that the CLI struct has the expected commands
	var cli CLI

	// This is a compile-time check - if the struct changes, this will fail
	_ = cli.Review
	_ = cli.Info
	_ = cli.Checkpoints
	_ = cli.Note
	_ = cli.Verify
	_ = cli.Similar
}

func TestKongParsing(t *testing.T) {
	var cli CLI
	parser := kong.Must(&cli)

	if parser == nil {
		t.Error("Kong parser should not be nil")
	}
}

func writeTestFiles(t *testing.T) (videoFile, reviewFile string) {
	t.Helper()

	dir := t.TempDir()
	videoFile = filepath.Join(dir, "take.mp4")
	reviewFile = filepath.Join(dir, "take.mp4.review.json")

	if err := os.WriteFile(videoFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(reviewFile, []byte(`{"video_path": "take.mp4", "frames": {}}`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return videoFile, reviewFile
}

func TestKongParsing_Commands(t *testing.T) {
	videoFile, reviewFile := writeTestFiles(t)

	testCases := []struct {
		name        string
		args        []string
		command     string
		expectError bool
	}{
		{"Review single video", []string{"review", videoFile}, "review", false},
		{"Review several videos", []string{"review", videoFile, filepath.Dir(videoFile)}, "review", false},
		{"Review existing review", []string{"review", "--review", reviewFile}, "review", false},
		{"Review with output", []string{"review", "-o", "notes", videoFile}, "review", false},
		{"Review with nothing", []string{"review"}, "", true},
		{"Review missing review file", []string{"review", "--review", reviewFile + ".missing"}, "", true},
		{"Info", []string{"info", videoFile}, "info", false},
		{"Info missing file", []string{"info", videoFile + ".missing"}, "", true},
		{"Info no files", []string{"info"}, "", true},
		{"Checkpoints", []string{"checkpoints", reviewFile}, "checkpoints", false},
		{"Note", []string{"note", reviewFile, "--frame", "12", "--text", "focus drifts"}, "note", false},
		{"Note with rect", []string{"note", reviewFile, "-f", "3", "--rect", "1,2,30,40"}, "note", false},
		{"Note new review", []string{"note", "new.json", "-f", "0", "--video", videoFile}, "note", false},
		{"Note without frame", []string{"note", reviewFile}, "", true},
		{"Note negative frame", []string{"note", reviewFile, "--frame=-1"}, "", true},
		{"Verify", []string{"verify", reviewFile}, "verify", false},
		{"Similar", []string{"similar", reviewFile}, "similar", false},
		{"Similar with threshold", []string{"similar", "--threshold", "12", reviewFile}, "similar", false},
		{"Similar bad threshold", []string{"similar", "--threshold", "100", reviewFile}, "", true},
		{"Unknown command", []string{"tag", videoFile}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cli CLI
			parser := kong.Must(&cli)

			ctx, err := parser.Parse(tc.args)

			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error for args %v, but parsing succeeded", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for args %v: %v", tc.args, err)
			}
			if !strings.HasPrefix(ctx.Command(), tc.command) {
				t.Errorf("Expected %q command, got %q", tc.command, ctx.Command())
			}
		})
	}
}

func TestKongParsing_GlobalFlags(t *testing.T) {
	videoFile, _ := writeTestFiles(t)

	var cli CLI
	parser := kong.Must(&cli)

	args := []string{"--log-level", "debug", "--log-file", "review.log", "--config", "cfg.yaml", "review", videoFile}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Failed to parse args %v: %v", args, err)
	}

	if cli.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, expected %q", cli.LogLevel, "debug")
	}
	if filepath.Base(cli.LogFile) != "review.log" {
		t.Errorf("LogFile = %q, expected review.log", cli.LogFile)
	}
	if filepath.Base(cli.Config) != "cfg.yaml" {
		t.Errorf("Config = %q, expected cfg.yaml", cli.Config)
	}
	if len(cli.Review.Videos) != 1 || cli.Review.Videos[0] != videoFile {
		t.Errorf("Review.Videos = %v, expected [%s]", cli.Review.Videos, videoFile)
	}
}

func TestKongParsing_NoteFlags(t *testing.T) {
	_, reviewFile := writeTestFiles(t)

	var cli CLI
	parser := kong.Must(&cli)

	args := []string{"note", reviewFile, "--frame", "7", "--text", "hello", "--rect", "1,2,3,4", "--clear"}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Failed to parse args %v: %v", args, err)
	}

	if cli.Note.Frame != 7 {
		t.Errorf("Frame = %d, expected 7", cli.Note.Frame)
	}
	if cli.Note.Text != "hello" {
		t.Errorf("Text = %q, expected %q", cli.Note.Text, "hello")
	}
	if len(cli.Note.Rect) != 4 || cli.Note.Rect[3] != 4 {
		t.Errorf("Rect = %v, expected [1 2 3 4]", cli.Note.Rect)
	}
	if !cli.Note.Clear {
		t.Error("Clear should be set")
	}
}

func TestSimilarCmd_DefaultThreshold(t *testing.T) {
	_, reviewFile := writeTestFiles(t)

	var cli CLI
	parser := kong.Must(&cli)
	if _, err := parser.Parse([]string{"similar", reviewFile}); err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cli.Similar.Threshold != 6 {
		t.Errorf("Expected default threshold 6, got %d", cli.Similar.Threshold)
	}
}

func TestNewAppContext(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("color: \"#00FF00\"\nlog_level: warn\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Run("Flags override config", func(t *testing.T) {
		cli := &CLI{Config: configFile, LogLevel: "debug", LogFile: filepath.Join(dir, "review.log")}
		appCtx, err := newAppContext(cli)
		if err != nil {
			t.Fatalf("newAppContext() error = %v", err)
		}

		if appCtx.Version != Version {
			t.Errorf("Version = %q, expected %q", appCtx.Version, Version)
		}
		if appCtx.Config.Color != "#00ff00" {
			t.Errorf("Config.Color = %q, expected %q", appCtx.Config.Color, "#00ff00")
		}
		if appCtx.Config.LogLevel != "debug" {
			t.Errorf("Config.LogLevel = %q, expected %q", appCtx.Config.LogLevel, "debug")
		}
		if appCtx.Config.LogFile != cli.LogFile {
			t.Errorf("Config.LogFile = %q, expected %q", appCtx.Config.LogFile, cli.LogFile)
		}
		if appCtx.Logger == nil {
			t.Error("Logger should be set")
		}
	})

	t.Run("Config level kept", func(t *testing.T) {
		appCtx, err := newAppContext(&CLI{Config: configFile})
		if err != nil {
			t.Fatalf("newAppContext() error = %v", err)
		}
		if appCtx.Config.LogLevel != "warn" {
			t.Errorf("Config.LogLevel = %q, expected %q", appCtx.Config.LogLevel, "warn")
		}
	})

	t.Run("Unknown log level", func(t *testing.T) {
		if _, err := newAppContext(&CLI{Config: configFile, LogLevel: "loud"}); err == nil {
			t.Error("newAppContext() should reject an unknown log level")
		}
	})

	t.Run("Missing explicit config", func(t *testing.T) {
		if _, err := newAppContext(&CLI{Config: filepath.Join(dir, "missing.yaml")}); err == nil {
			t.Error("newAppContext() should fail for a missing config file")
		}
	})
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	if Version != "dev" {
		t.Logf("Version is %q (expected 'dev' for development builds)", Version)
	}
}
