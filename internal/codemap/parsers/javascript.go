package parsers

import "github.com/mvp-joe/pith/internal/codemap"

// JavaScriptAdapter extracts JavaScript and JSX declarations. Field and
// constant types are always empty.
type JavaScriptAdapter struct {
	walker ecmaWalker
}

// NewJavaScriptAdapter creates a new JavaScript adapter.
func NewJavaScriptAdapter() *JavaScriptAdapter {
	return &JavaScriptAdapter{walker: ecmaWalker{typed: false, docs: jsDocs}}
}

func (a *JavaScriptAdapter) Imports(tree *Tree) []codemap.Import {
	return a.walker.imports(tree)
}

func (a *JavaScriptAdapter) Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	return a.walker.declarations(tree, opts)
}
