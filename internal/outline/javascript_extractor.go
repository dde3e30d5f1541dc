//go:build cgo

package outline

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

const (
	javaScriptFunctionNodeType   = "function_declaration"
	javaScriptGeneratorNodeType  = "generator_function_declaration"
	javaScriptClassNodeType      = "class_declaration"
	javaScriptMethodNodeType     = "method_definition"
	javaScriptExportNodeType     = "export_statement"
	javaScriptLexicalNodeType    = "lexical_declaration"
	javaScriptVariableNodeType   = "variable_declaration"
	javaScriptDeclaratorNodeType = "variable_declarator"
	javaScriptArrowNodeType      = "arrow_function"
	javaScriptFunctionExprType   = "function_expression"
	javaScriptDeclarationField   = "declaration"
	javaScriptValueField         = "value"
	javaScriptParameterField     = "parameter"
	javaScriptExportedPrefix     = "export "
	javaScriptArrowSuffix        = " =>"
	javaScriptConstantKeyword    = "const"
)

type javaScriptExtractor struct {
	parser *sitter.Parser
}

// NewJavaScriptExtractor constructs an Extractor for JavaScript source files.
func NewJavaScriptExtractor() Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	return &javaScriptExtractor{parser: parser}
}

func (extractor *javaScriptExtractor) SupportedExtensions() []string {
	return []string{javaScriptFileExtension, ".mjs", ".cjs", ".jsx"}
}

func (extractor *javaScriptExtractor) Outline(content []byte) ([]string, error) {
	tree := extractor.parser.Parse(nil, content)
	if tree == nil {
		return nil, fmt.Errorf("parse javascript source")
	}
	defer tree.Close()
	root := tree.RootNode()
	var declarations []string
	for index := 0; index < int(root.NamedChildCount()); index++ {
		child := root.NamedChild(index)
		prefix := ""
		if child.Type() == javaScriptExportNodeType {
			declaration := child.ChildByFieldName(javaScriptDeclarationField)
			if declaration == nil {
				continue
			}
			child = declaration
			prefix = javaScriptExportedPrefix
		}
		declarations = append(declarations, javaScriptDeclarations(child, content, prefix)...)
	}
	return declarations, nil
}

func javaScriptDeclarations(node *sitter.Node, content []byte, prefix string) []string {
	switch node.Type() {
	case javaScriptFunctionNodeType, javaScriptGeneratorNodeType:
		return []string{fmt.Sprintf("%sfunction %s%s", prefix, fieldContent(node, nameField, content), fieldContent(node, parametersField, content))}
	case javaScriptClassNodeType:
		declarations := []string{fmt.Sprintf("%sclass %s", prefix, fieldContent(node, nameField, content))}
		body := node.ChildByFieldName(bodyField)
		if body == nil {
			return declarations
		}
		for index := 0; index < int(body.NamedChildCount()); index++ {
			member := body.NamedChild(index)
			if member.Type() != javaScriptMethodNodeType {
				continue
			}
			declarations = append(declarations, fmt.Sprintf("%s%s%s", outlineIndent, fieldContent(member, nameField, content), fieldContent(member, parametersField, content)))
		}
		return declarations
	case javaScriptLexicalNodeType, javaScriptVariableNodeType:
		keyword := javaScriptConstantKeyword
		if first := node.Child(0); first != nil {
			keyword = first.Content(content)
		}
		var declarations []string
		for index := 0; index < int(node.NamedChildCount()); index++ {
			declarator := node.NamedChild(index)
			if declarator.Type() != javaScriptDeclaratorNodeType {
				continue
			}
			line := fmt.Sprintf("%s%s %s", prefix, keyword, fieldContent(declarator, nameField, content))
			if value := declarator.ChildByFieldName(javaScriptValueField); value != nil {
				switch value.Type() {
				case javaScriptArrowNodeType:
					parameters := fieldContent(value, parametersField, content)
					if parameters == "" {
						parameters = fieldContent(value, javaScriptParameterField, content)
					}
					line += " = " + parameters + javaScriptArrowSuffix
				case javaScriptFunctionExprType:
					line += " = function" + fieldContent(value, parametersField, content)
				}
			}
			declarations = append(declarations, line)
		}
		return declarations
	default:
		return nil
	}
}
