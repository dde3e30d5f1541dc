//go:build !cgo

package outline

// NewPythonExtractor returns nil when cgo is unavailable so the registry skips
// Python outlines on platforms that cannot build the tree-sitter bindings.
func NewPythonExtractor() Extractor {
	return nil
}
