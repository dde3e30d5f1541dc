//go:build !cgo

package outline

// NewJavaScriptExtractor returns nil when cgo is unavailable so the registry
// skips JavaScript outlines on platforms that cannot build the tree-sitter bindings.
func NewJavaScriptExtractor() Extractor {
	return nil
}
