package review

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Extension is the suffix used for review files.
const Extension = ".json"

// Load reads and decodes a review file. Comments and trailing commas left by
// hand edits are tolerated.
func Load(path string) (*ReviewData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read review: %w", err)
	}

	r, err := Unmarshal(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Save writes the review to path. The file is replaced atomically so a failed
// write never leaves a truncated review behind.
func Save(path string, r *ReviewData) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	// CreateTemp uses 0600; keep the mode of the review being replaced
	mode := os.FileMode(FileMode)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set review permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write review: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write review: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// FileMode is the permission of newly created review files.
const FileMode = 0644

// OutputPath appends the review extension when path lacks it.
func OutputPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// DefaultPath is the review file name used for a video when none is given.
func DefaultPath(videoPath string) string {
	return videoPath + ".review" + Extension
}
