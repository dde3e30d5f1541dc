// Package utils contains general helper functions used across autodoc.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names with fixed meaning across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// DefaultReadmeFileName is the file each processed directory receives.
	DefaultReadmeFileName = "README.md"
	// GoModuleFileName is the Go module manifest consulted for the root label.
	GoModuleFileName = "go.mod"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// JoinRelative appends name to a slash-separated relative directory path,
// treating "." as the root.
func JoinRelative(relativeDirectory, name string) string {
	if relativeDirectory == "" || relativeDirectory == "." {
		return name
	}
	return relativeDirectory + pathSegmentSeparator + name
}

// SplitRelative splits a slash-separated relative path into its segments.
// The root "." yields no segments.
func SplitRelative(relativePath string) []string {
	normalizedPath := strings.Trim(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return nil
	}
	return strings.Split(normalizedPath, pathSegmentSeparator)
}

// IsWithinRoot reports whether candidatePath resolves to root or a descendant of it.
func IsWithinRoot(candidatePath, root string) bool {
	relativePath, relErr := filepath.Rel(filepath.Clean(root), filepath.Clean(candidatePath))
	if relErr != nil {
		return false
	}
	return relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)))
}
