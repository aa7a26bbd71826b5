package ui

import (
	"path/filepath"
	"strings"
)

// optimizePaths finds the common path prefix and returns optimized display paths
// that show only the meaningful differences, keeping the topmost directory for context
func optimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		result := make([]string, len(paths))
		for i, path := range paths {
			result[i] = filepath.Base(path)
		}
		return result
	}

	// Split all paths into components
	pathComponents := make([][]string, len(paths))
	for i, path := range paths {
		pathComponents[i] = strings.Split(filepath.Clean(path), string(filepath.Separator))
	}

	// Find the common prefix length, never consuming a file name
	maxLength := len(pathComponents[0])
	for _, components := range pathComponents[1:] {
		maxLength = min(maxLength, len(components))
	}
	commonPrefixLength := 0
	for i := 0; i < maxLength-1; i++ {
		first := pathComponents[0][i]
		allMatch := true
		for j := 1; j < len(pathComponents); j++ {
			if pathComponents[j][i] != first {
				allMatch = false
				break
			}
		}
		if !allMatch {
			break
		}
		commonPrefixLength = i + 1
	}

	// Generate optimized paths
	result := make([]string, len(paths))
	for i, components := range pathComponents {
		// Keep one level of context above the differences
		startIndex := max(0, commonPrefixLength-1)

		result[i] = filepath.Join(components[startIndex:]...)
		if startIndex > 0 {
			result[i] = "..." + string(filepath.Separator) + result[i]
		}
	}

	return result
}
