package watcher

import (
	"path/filepath"
	"strings"
)

type extensionDecision int

const (
	extensionSupported extensionDecision = iota
	// extensionReserved marks sidecar extensions that are dropped without
	// any diagnostic (.ini is reserved for configuration-adjacent files).
	extensionReserved
	extensionUnsupported
)

var supportedExtensions = map[string]struct{}{
	".pdf": {},
	".eml": {},
	".msg": {},
}

func decideExtension(path string) extensionDecision {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ini" {
		return extensionReserved
	}
	if _, ok := supportedExtensions[ext]; ok {
		return extensionSupported
	}
	return extensionUnsupported
}

// Supported reports whether the file at path is a type docsort organizes.
func Supported(path string) bool {
	return decideExtension(path) == extensionSupported
}
