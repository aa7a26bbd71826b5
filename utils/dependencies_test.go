package utils

import (
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func TestValidateFFmpegDependencies(t *testing.T) {
	// Test when both ffmpeg and ffprobe are available
	ffmpegAvailable := exec.Command("ffmpeg", "-version").Run() == nil
	ffprobeAvailable := exec.Command("ffprobe", "-version").Run() == nil

	err := ValidateFFmpegDependencies("ffmpeg", "ffprobe")
	if ffmpegAvailable && ffprobeAvailable {
		// Both are available, validation should pass
		if err != nil {
			t.Errorf("Expected validation to pass when both ffmpeg and ffprobe are available, got error: %v", err)
		}
		return
	}

	// At least one is missing, validation should fail
	if err == nil {
		t.Fatal("Expected validation to fail when ffmpeg or ffprobe is missing")
	}
	if !strings.Contains(err.Error(), "Install with:") && !strings.Contains(err.Error(), "Download from") {
		t.Errorf("Expected error message to contain installation instructions, got: %v", err)
	}
}

func TestValidateFFmpegDependencies_CustomBinary(t *testing.T) {
	err := ValidateFFmpegDependencies("ffmpeg", "/nonexistent/bin/ffprobe-custom")
	if err == nil {
		t.Fatal("Expected validation to fail for a missing ffprobe binary")
	}

	// The error should name the binary that is missing
	if !strings.Contains(err.Error(), "ffprobe-custom") {
		t.Errorf("Error message should name the missing binary, got: %s", err)
	}
}

func TestGetInstallationInstructions(t *testing.T) {
	instructions := getInstallationInstructions()

	// Test that instructions are not empty
	if instructions == "" {
		t.Error("Installation instructions should not be empty")
	}

	// Test platform-specific instructions
	switch runtime.GOOS {
	case "darwin":
		if !strings.Contains(instructions, "brew install ffmpeg") {
			t.Errorf("Expected macOS instructions to mention brew, got: %s", instructions)
		}
	case "linux":
		if !strings.Contains(instructions, "apt-get install ffmpeg") && !strings.Contains(instructions, "yum install ffmpeg") {
			t.Errorf("Expected Linux instructions to mention package managers, got: %s", instructions)
		}
	case "windows":
		if !strings.Contains(instructions, "ffmpeg.org") && !strings.Contains(instructions, "PATH") {
			t.Errorf("Expected Windows instructions to mention ffmpeg.org and PATH, got: %s", instructions)
		}
	default:
		if !strings.Contains(instructions, "ffmpeg.org") {
			t.Errorf("Expected default instructions to mention ffmpeg.org, got: %s", instructions)
		}
	}
}
