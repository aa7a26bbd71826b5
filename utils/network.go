package utils

import (
	"path/filepath"
	"slices"
	"strings"
)

// networkPrefixes are mount roots that usually hold remote filesystems
var networkPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/net/",     // autofs
	"/Volumes/", // macOS network volumes
}

// networkComponents name a remote filesystem when they appear as a whole path element
var networkComponents = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp", "gvfs"}

// IsNetworkDrive reports whether a video probably sits on a network mount,
// where every single-frame seek costs a round trip.
func IsNetworkDrive(filePath string) bool {
	// UNC paths, before filepath.Abs rewrites them
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, `\\`) {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(absPath), "/") {
		part = strings.ToLower(part)
		if slices.ContainsFunc(networkComponents, func(c string) bool {
			return part == c || strings.HasPrefix(part, c+"-") || strings.HasPrefix(part, c+"_")
		}) {
			return true
		}
	}

	return false
}

// NetworkFiles returns the paths for which IsNetworkDrive is true, in order
func NetworkFiles(paths []string) []string {
	var remote []string
	for _, p := range paths {
		if IsNetworkDrive(p) {
			remote = append(remote, p)
		}
	}
	return remote
}
