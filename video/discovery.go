package video

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// FindVideoFilesRecursively scans a directory for video files, sorted by path.
func FindVideoFilesRecursively(directory string) ([]string, error) {
	var files []string
	var err error

	// Use fd if available for better performance, otherwise fall back to filepath.WalkDir
	if isFdAvailable() {
		files, err = findVideoFilesWithFd(directory)
		if err != nil {
			// If fd fails, fall back to the standard method
			files, err = findVideoFilesWithWalkDir(directory)
		}
	} else {
		files, err = findVideoFilesWithWalkDir(directory)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ExpandPaths replaces each directory argument with the video files below it.
// File arguments are kept as given, in order, without duplicates.
func ExpandPaths(paths []string) ([]string, error) {
	var expanded []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			expanded = append(expanded, path)
		}
	}

	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if !fi.IsDir() {
			add(path)
			continue
		}

		files, err := FindVideoFilesRecursively(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		for _, file := range files {
			add(file)
		}
	}

	return expanded, nil
}

// isFdAvailable checks if the 'fd' command is available in PATH
func isFdAvailable() bool {
	_, err := exec.LookPath("fd")
	return err == nil
}

// findVideoFilesWithWalkDir uses filepath.WalkDir to find video files (fallback method)
func findVideoFilesWithWalkDir(directory string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if IsVideoFile(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// findVideoFilesWithFd uses the 'fd' command to efficiently find video files
func findVideoFilesWithFd(directory string) ([]string, error) {
	exts := make([]string, len(videoExtensions))
	for i, ext := range videoExtensions {
		exts[i] = "\\" + ext
	}
	extPattern := "(" + strings.Join(exts, "|") + ")$"

	cmd := exec.Command("fd", "--type", "f", "--ignore-case", "--no-ignore", extPattern, directory)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	var files []string
	for _, line := range lines {
		if line != "" && IsVideoFile(line) {
			files = append(files, line)
		}
	}

	return files, nil
}
