package parsers

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// PythonAdapter extracts module-level functions, classes and constants.
// Visibility follows the underscore naming convention.
type PythonAdapter struct {
	docs DocExtractor
}

// NewPythonAdapter creates a new Python adapter.
func NewPythonAdapter() *PythonAdapter {
	return &PythonAdapter{docs: pythonDocs{}}
}

// Imports returns one Import per imported module. `from x import *` yields
// the wildcard item.
func (a *PythonAdapter) Imports(tree *Tree) []codemap.Import {
	src := tree.Source
	var imports []codemap.Import

	eachTopLevel(tree, func(n *sitter.Node) {
		if n.HasError() {
			return
		}
		switch n.Kind() {
		case "import_statement":
			for _, name := range fieldNodes(n, "name") {
				imports = append(imports, codemap.Import{Source: pythonImportName(name, src)})
			}
		case "import_from_statement":
			imp := codemap.Import{Source: fieldText(n, "module_name", src)}
			if hasToken(n, "wildcard_import") {
				imp.Items = []string{codemap.WildcardImport}
			} else {
				for _, name := range fieldNodes(n, "name") {
					imp.Items = append(imp.Items, pythonImportName(name, src))
				}
			}
			imports = append(imports, imp)
		case "future_import_statement":
			imp := codemap.Import{Source: "__future__"}
			for _, name := range fieldNodes(n, "name") {
				imp.Items = append(imp.Items, pythonImportName(name, src))
			}
			imports = append(imports, imp)
		}
	})
	return imports
}

// pythonImportName drops any `as` alias.
func pythonImportName(n *sitter.Node, src []byte) string {
	if n.Kind() == "aliased_import" {
		return fieldText(n, "name", src)
	}
	return nodeText(n, src)
}

// Declarations returns functions, classes and ALL_CAPS constants in source order.
func (a *PythonAdapter) Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	src := tree.Source
	var decls []codemap.Declaration

	eachTopLevel(tree, func(n *sitter.Node) {
		def := n
		if n.Kind() == "decorated_definition" {
			if def = n.ChildByFieldName("definition"); def == nil {
				return
			}
		}

		switch def.Kind() {
		case "function_definition":
			if fn, ok := a.function(def, src, opts); ok {
				decls = append(decls, fn)
			}
		case "class_definition":
			if cls, ok := a.class(def, src, opts); ok {
				decls = append(decls, cls)
			}
		case "expression_statement":
			if c, ok := a.constant(def, src); ok {
				decls = append(decls, c)
			}
		}
	})
	return decls
}

func (a *PythonAdapter) function(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Function, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Function{}, false
	}

	return codemap.Function{
		Header:    header(name, Resolve(codemap.Python, Signal{Name: name}), n),
		Signature: Signature(src, n, body, nil),
		IsAsync:   hasToken(n, "async"),
		Doc:       docsFor(a.docs, opts, n, src),
	}, true
}

func (a *PythonAdapter) class(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Class, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Class{}, false
	}

	cls := codemap.Class{
		Header: header(name, Resolve(codemap.Python, Signal{Name: name}), n),
		Doc:    docsFor(a.docs, opts, n, src),
	}

	for _, m := range namedChildren(body) {
		def := m
		if m.Kind() == "decorated_definition" {
			if def = m.ChildByFieldName("definition"); def == nil {
				continue
			}
		}
		switch def.Kind() {
		case "function_definition":
			if fn, ok := a.function(def, src, opts); ok {
				cls.Members = append(cls.Members, fn)
			}
		case "expression_statement":
			if field, ok := a.classField(def, src); ok {
				cls.Fields = append(cls.Fields, field)
			}
		}
	}
	return cls, true
}

// assignmentTarget returns the assignment inside an expression statement
// when its left side is a plain identifier.
func assignmentTarget(stmt *sitter.Node, src []byte) (*sitter.Node, string) {
	if stmt.HasError() || stmt.NamedChildCount() != 1 {
		return nil, ""
	}
	assign := stmt.NamedChild(0)
	if assign == nil || assign.Kind() != "assignment" {
		return nil, ""
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return nil, ""
	}
	return assign, nodeText(left, src)
}

func (a *PythonAdapter) classField(stmt *sitter.Node, src []byte) (codemap.Field, bool) {
	assign, name := assignmentTarget(stmt, src)
	if assign == nil {
		return codemap.Field{}, false
	}
	return codemap.Field{
		Name:       name,
		Type:       collapseSpace(fieldText(assign, "type", src)),
		Visibility: Resolve(codemap.Python, Signal{Name: name}),
	}, true
}

var constName = regexp.MustCompile(`^_*[A-Z][A-Z0-9_]*$`)

func (a *PythonAdapter) constant(stmt *sitter.Node, src []byte) (codemap.Const, bool) {
	assign, name := assignmentTarget(stmt, src)
	if assign == nil || !constName.MatchString(name) {
		return codemap.Const{}, false
	}
	return codemap.Const{
		Header: header(name, Resolve(codemap.Python, Signal{Name: name}), stmt),
		Type:   collapseSpace(fieldText(assign, "type", src)),
	}, true
}
