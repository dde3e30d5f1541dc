// Package config loads autodoc configuration and the per-directory ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/autodoc/internal/utils"
)

// LoadGitignoreLines returns the raw lines of the .gitignore held directly in
// absoluteDirectoryPath. A missing file yields no lines and no error; content is
// returned as-is and interpreted by the ignore package.
//
// #nosec G304
func LoadGitignoreLines(absoluteDirectoryPath string) ([]string, error) {
	gitIgnoreFilePath := filepath.Join(absoluteDirectoryPath, utils.GitIgnoreFileName)
	fileHandle, openFileError := os.Open(gitIgnoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, absoluteDirectoryPath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", gitIgnoreFilePath, closeError)
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, absoluteDirectoryPath, scanError)
	}
	return lines, nil
}
