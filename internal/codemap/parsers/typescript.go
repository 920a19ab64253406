package parsers

import "github.com/mvp-joe/pith/internal/codemap"

// TypeScriptAdapter extracts TypeScript and TSX declarations, including
// interfaces, type aliases and enums.
type TypeScriptAdapter struct {
	walker ecmaWalker
}

// NewTypeScriptAdapter creates a new TypeScript adapter.
func NewTypeScriptAdapter() *TypeScriptAdapter {
	return &TypeScriptAdapter{walker: ecmaWalker{typed: true, docs: jsDocs}}
}

func (a *TypeScriptAdapter) Imports(tree *Tree) []codemap.Import {
	return a.walker.imports(tree)
}

func (a *TypeScriptAdapter) Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	return a.walker.declarations(tree, opts)
}
