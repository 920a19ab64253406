package parsers

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Adapter extracts imports and top-level declarations from one grammar
// family. Implementations hold no per-call state and are safe for
// concurrent use.
type Adapter interface {
	Imports(tree *Tree) []codemap.Import
	Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration
}

// For returns the adapter for lang.
func For(lang codemap.Language) (Adapter, error) {
	switch lang {
	case codemap.Rust:
		return NewRustAdapter(), nil
	case codemap.TypeScript, codemap.Tsx:
		return NewTypeScriptAdapter(), nil
	case codemap.JavaScript, codemap.Jsx:
		return NewJavaScriptAdapter(), nil
	case codemap.Python:
		return NewPythonAdapter(), nil
	case codemap.Go:
		return NewGoAdapter(), nil
	}
	return nil, fmt.Errorf("%w: %q", codemap.ErrUnsupportedLanguage, lang)
}

// docsFor runs the extractor only when documentation was requested.
func docsFor(docs DocExtractor, opts codemap.ExtractOptions, node *sitter.Node, source []byte) *string {
	if !opts.IncludeDocs || docs == nil {
		return nil
	}
	return docs.Doc(node, source)
}

func header(name string, vis codemap.Visibility, node *sitter.Node) codemap.Header {
	return codemap.Header{Name: name, Visibility: vis, Location: location(node)}
}
