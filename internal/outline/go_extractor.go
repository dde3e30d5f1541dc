package outline

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
)

type goExtractor struct{}

func newGoExtractor() Extractor {
	return goExtractor{}
}

func (goExtractor) SupportedExtensions() []string {
	return []string{goFileExtension}
}

func (goExtractor) Outline(content []byte) ([]string, error) {
	fileSet := token.NewFileSet()
	fileAST, parseError := parser.ParseFile(fileSet, "", content, parser.SkipObjectResolution)
	if parseError != nil {
		return nil, fmt.Errorf("parse go source: %w", parseError)
	}

	declarations := []string{"package " + fileAST.Name.Name}
	for _, declaration := range fileAST.Decls {
		switch typed := declaration.(type) {
		case *ast.FuncDecl:
			signature := *typed
			signature.Body = nil
			signature.Doc = nil
			rendered, renderError := renderGoNode(fileSet, &signature)
			if renderError != nil {
				return nil, renderError
			}
			declarations = append(declarations, rendered)
		case *ast.GenDecl:
			declarations = append(declarations, goGenDeclarations(typed)...)
		}
	}
	return declarations, nil
}

func goGenDeclarations(declaration *ast.GenDecl) []string {
	var declarations []string
	for _, specification := range declaration.Specs {
		switch typed := specification.(type) {
		case *ast.TypeSpec:
			declarations = append(declarations, fmt.Sprintf("type %s %s", typed.Name.Name, goTypeKind(typed.Type)))
		case *ast.ValueSpec:
			names := make([]string, 0, len(typed.Names))
			for _, name := range typed.Names {
				names = append(names, name.Name)
			}
			declarations = append(declarations, fmt.Sprintf("%s %s", declaration.Tok.String(), strings.Join(names, ", ")))
		}
	}
	return declarations
}

func goTypeKind(expression ast.Expr) string {
	switch expression.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		return "interface"
	case *ast.FuncType:
		return "func"
	case *ast.MapType:
		return "map"
	case *ast.ArrayType:
		return "slice"
	case *ast.ChanType:
		return "chan"
	default:
		return "alias"
	}
}

func renderGoNode(fileSet *token.FileSet, node any) (string, error) {
	var buffer bytes.Buffer
	if err := printer.Fprint(&buffer, fileSet, node); err != nil {
		return "", fmt.Errorf("render go declaration: %w", err)
	}
	return strings.Join(strings.Fields(buffer.String()), " "), nil
}
