//go:build cgo

package outline

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"
)

const (
	pythonFunctionNodeType  = "function_definition"
	pythonClassNodeType     = "class_definition"
	pythonDecoratedNodeType = "decorated_definition"
	pythonSuperclassesField = "superclasses"
	pythonDefinitionField   = "definition"
)

type pythonExtractor struct {
	parser *sitter.Parser
}

// NewPythonExtractor constructs an Extractor for Python source files.
func NewPythonExtractor() Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &pythonExtractor{parser: parser}
}

func (extractor *pythonExtractor) SupportedExtensions() []string {
	return []string{pythonFileExtension}
}

func (extractor *pythonExtractor) Outline(content []byte) ([]string, error) {
	tree := extractor.parser.Parse(nil, content)
	if tree == nil {
		return nil, fmt.Errorf("parse python source")
	}
	defer tree.Close()
	var declarations []string
	collectPythonDeclarations(tree.RootNode(), content, "", &declarations)
	return declarations, nil
}

func collectPythonDeclarations(node *sitter.Node, content []byte, indent string, declarations *[]string) {
	for index := 0; index < int(node.NamedChildCount()); index++ {
		child := node.NamedChild(index)
		if child.Type() == pythonDecoratedNodeType {
			child = child.ChildByFieldName(pythonDefinitionField)
			if child == nil {
				continue
			}
		}
		switch child.Type() {
		case pythonFunctionNodeType:
			*declarations = append(*declarations, fmt.Sprintf("%sdef %s%s", indent, fieldContent(child, nameField, content), fieldContent(child, parametersField, content)))
		case pythonClassNodeType:
			*declarations = append(*declarations, fmt.Sprintf("%sclass %s%s", indent, fieldContent(child, nameField, content), fieldContent(child, pythonSuperclassesField, content)))
			if body := child.ChildByFieldName(bodyField); body != nil {
				collectPythonDeclarations(body, content, indent+outlineIndent, declarations)
			}
		}
	}
}
