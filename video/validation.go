package video

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".flv", ".mkv", ".avi", ".wmv", ".mpg", ".m4v"}

// IsVideoFile checks if the given file extension is one of known video file extensions
func IsVideoFile(path string) bool {
	ext := filepath.Ext(path)
	ext = strings.ToLower(ext) // handle cases where extension is upper case

	for _, v := range videoExtensions {
		if v == ext {
			return true
		}
	}
	return false
}

// describeProbeFailure turns a failed ffprobe run into a readable error,
// flagging the common corruption indicators.
func describeProbeFailure(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("ffprobe error: %w", err)
	}
	return classifyProbeOutput(string(exitErr.Stderr), err)
}

func classifyProbeOutput(output string, err error) error {
	if strings.Contains(output, "moov atom not found") {
		return fmt.Errorf("video file is corrupted (missing metadata): %s", extractFirstLine(output))
	}
	if strings.Contains(output, "Invalid data found") ||
		strings.Contains(output, "corrupt") ||
		strings.Contains(output, "truncated") ||
		strings.Contains(output, "Invalid argument") {
		return fmt.Errorf("video file is corrupted or invalid: %s", extractFirstLine(output))
	}

	return fmt.Errorf("ffprobe error: %w\nOutput: %s", err, extractFirstLine(output))
}

// extractFirstLine extracts just the first line from a multi-line string
func extractFirstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		return strings.TrimSpace(lines[0])
	}
	return "no additional information available"
}
