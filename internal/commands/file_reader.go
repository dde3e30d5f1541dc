package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/autodoc/internal/utils"
)

const (
	filePromptFormat      = "`%s`:\n```\n%s\n```"
	readSourceErrorFormat = "read %s: %w"
	undecodableFormat     = "%w: %s"
)

// ErrUndecodable marks a file whose bytes are not UTF-8 text. Such files are
// skipped rather than summarized.
var ErrUndecodable = errors.New("file is not UTF-8 text")

// Source is a file ready to be summarized.
type Source struct {
	RelativePath string
	Content      string
	SizeBytes    int64
	MimeType     string
}

// ReadSource loads the file at path. relativePath names it in prompts and errors.
//
// #nosec G304
func ReadSource(path, relativePath string) (Source, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return Source{}, fmt.Errorf(readSourceErrorFormat, relativePath, readErr)
	}
	if utils.IsBinary(data) {
		return Source{}, fmt.Errorf(undecodableFormat, ErrUndecodable, relativePath)
	}
	return Source{
		RelativePath: relativePath,
		Content:      string(data),
		SizeBytes:    int64(len(data)),
		MimeType:     utils.DetectMimeType(path),
	}, nil
}

// Prompt renders the file as a fenced block tagged with its relative path.
func (source Source) Prompt() string {
	return FormatFilePrompt(source.RelativePath, source.Content)
}

// FormatFilePrompt fences body under the relativePath tag.
func FormatFilePrompt(relativePath, body string) string {
	return fmt.Sprintf(filePromptFormat, relativePath, body)
}
