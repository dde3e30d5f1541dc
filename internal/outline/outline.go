// Package outline extracts the top-level declarations of a source file so that a
// file too large for one prompt can still be summarized by its structure.
package outline

import (
	"path/filepath"
	"strings"
)

const (
	goFileExtension         = ".go"
	pythonFileExtension     = ".py"
	javaScriptFileExtension = ".js"
	outlineIndent           = "  "
)

// Extractor lists declarations for the source languages it supports.
type Extractor interface {
	SupportedExtensions() []string
	Outline(content []byte) ([]string, error)
}

// Registry routes outline requests to language-specific extractors.
type Registry struct {
	extensionToExtractor map[string]Extractor
}

// NewRegistry registers every available extractor. Extractors that need cgo are
// absent from builds without it.
func NewRegistry() *Registry {
	registry := &Registry{extensionToExtractor: map[string]Extractor{}}
	for _, extractor := range []Extractor{newGoExtractor(), NewPythonExtractor(), NewJavaScriptExtractor()} {
		registry.Register(extractor)
	}
	return registry
}

// Register adds extractor for each extension it supports. A nil extractor is skipped.
func (registry *Registry) Register(extractor Extractor) {
	if extractor == nil {
		return
	}
	for _, extension := range extractor.SupportedExtensions() {
		registry.extensionToExtractor[strings.ToLower(extension)] = extractor
	}
}

// Supports reports whether an extractor is registered for filePath.
func (registry *Registry) Supports(filePath string) bool {
	if registry == nil {
		return false
	}
	_, found := registry.extensionToExtractor[strings.ToLower(filepath.Ext(filePath))]
	return found
}

// Outline returns the rendered declaration list of content, or an empty string
// when no extractor handles filePath or nothing was declared.
func (registry *Registry) Outline(filePath string, content []byte) (string, error) {
	if registry == nil {
		return "", nil
	}
	extractor, found := registry.extensionToExtractor[strings.ToLower(filepath.Ext(filePath))]
	if !found {
		return "", nil
	}
	declarations, err := extractor.Outline(content)
	if err != nil {
		return "", err
	}
	return strings.Join(declarations, "\n"), nil
}
