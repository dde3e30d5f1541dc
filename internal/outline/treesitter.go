//go:build cgo

package outline

import sitter "github.com/smacker/go-tree-sitter"

const (
	nameField       = "name"
	parametersField = "parameters"
	bodyField       = "body"
)

func fieldContent(node *sitter.Node, field string, content []byte) string {
	fieldNode := node.ChildByFieldName(field)
	if fieldNode == nil {
		return ""
	}
	return fieldNode.Content(content)
}
