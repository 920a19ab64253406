package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// ecmaWalker is the traversal shared by the TypeScript and JavaScript
// adapters. Both grammars use the same node kinds for everything the walker
// visits; typed controls whether type annotations are captured.
type ecmaWalker struct {
	typed bool
	docs  DocExtractor
}

type ecmaContext struct {
	lang codemap.Language
	src  []byte
	opts codemap.ExtractOptions
}

func (w *ecmaWalker) imports(tree *Tree) []codemap.Import {
	src := tree.Source
	var imports []codemap.Import
	eachTopLevel(tree, func(n *sitter.Node) {
		if n.Kind() != "import_statement" || n.HasError() {
			return
		}
		if imp, ok := ecmaImport(n, src); ok {
			imports = append(imports, imp)
		}
	})
	return imports
}

// ecmaImport reads one import statement. A default binding becomes
// "default", a namespace binding "*", and aliases are dropped.
func ecmaImport(n *sitter.Node, src []byte) (codemap.Import, bool) {
	source := unquote(fieldText(n, "source", src))
	if source == "" {
		// import fs = require("fs")
		if req := findChildByType(n, "import_require_clause"); req != nil {
			source = unquote(fieldText(req, "source", src))
		}
	}
	if source == "" {
		return codemap.Import{}, false
	}

	var items []string
	clause := findChildByType(n, "import_clause")
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			items = append(items, codemap.DefaultImport)
		case "namespace_import":
			items = append(items, codemap.WildcardImport)
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := fieldText(spec, "name", src)
				if name == "" {
					name = nodeText(spec, src)
				}
				items = append(items, unquote(name))
			}
		}
	}
	return codemap.Import{Source: source, Items: items}, true
}

func (w *ecmaWalker) declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	ctx := ecmaContext{lang: tree.Language, src: tree.Source, opts: opts}
	var decls []codemap.Declaration

	eachTopLevel(tree, func(n *sitter.Node) {
		if n.Kind() == "export_statement" {
			decls = w.export(ctx, n, decls)
			return
		}
		decls = w.declaration(ctx, n, n, "", decls)
	})
	return decls
}

func (w *ecmaWalker) export(ctx ecmaContext, n *sitter.Node, decls []codemap.Declaration) []codemap.Declaration {
	prefix := "export "
	if hasToken(n, "default") {
		prefix = "export default "
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		return w.declaration(ctx, decl, n, prefix, decls)
	}

	value := n.ChildByFieldName("value")
	if value == nil || prefix != "export default " {
		return decls
	}
	switch value.Kind() {
	case "function_expression", "function", "arrow_function", "generator_function":
		if fn, ok := w.function(ctx, value, n, prefix, "default"); ok {
			decls = append(decls, fn)
		}
	case "class", "class_expression":
		if cls, ok := w.class(ctx, value, n, true, "default"); ok {
			decls = append(decls, cls)
		}
	}
	return decls
}

// declaration handles one declaration node. anchor is the outermost node
// (the export statement when exported) and prefix is "" for unexported ones.
func (w *ecmaWalker) declaration(ctx ecmaContext, n, anchor *sitter.Node, prefix string, decls []codemap.Declaration) []codemap.Declaration {
	exported := prefix != ""

	switch n.Kind() {
	case "function_declaration", "generator_function_declaration", "function_signature":
		if fn, ok := w.function(ctx, n, anchor, prefix, ""); ok {
			decls = append(decls, fn)
		}
	case "class_declaration", "abstract_class_declaration":
		if cls, ok := w.class(ctx, n, anchor, exported, ""); ok {
			decls = append(decls, cls)
		}
	case "interface_declaration":
		if iface, ok := w.iface(ctx, n, anchor, exported); ok {
			decls = append(decls, iface)
		}
	case "type_alias_declaration":
		name := fieldText(n, "name", ctx.src)
		if name != "" && !brokenHeader(n, nil) {
			decls = append(decls, codemap.TypeAlias{
				Header: header(name, Resolve(ctx.lang, Signal{Exported: exported}), n),
				Target: collapseSpace(fieldText(n, "value", ctx.src)),
			})
		}
	case "enum_declaration":
		if enum, ok := w.enum(ctx, n, anchor, exported); ok {
			decls = append(decls, enum)
		}
	case "lexical_declaration", "variable_declaration":
		decls = w.lexical(ctx, n, anchor, prefix, decls)
	case "ambient_declaration":
		for _, inner := range namedChildren(n) {
			decls = w.declaration(ctx, inner, anchor, prefix, decls)
		}
	}
	return decls
}

// function handles declarations, overload signatures and anonymous default
// exports. fallback names a function that has no name of its own.
func (w *ecmaWalker) function(ctx ecmaContext, n, anchor *sitter.Node, prefix, fallback string) (codemap.Function, bool) {
	name := fieldText(n, "name", ctx.src)
	if name == "" {
		name = fallback
	}
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Function{}, false
	}

	return codemap.Function{
		Header:    header(name, Resolve(ctx.lang, Signal{Exported: prefix != ""}), n),
		Signature: prefix + Signature(ctx.src, n, body, nil),
		IsAsync:   hasToken(n, "async"),
		Doc:       docsFor(w.docs, ctx.opts, anchor, ctx.src),
	}, true
}

func (w *ecmaWalker) class(ctx ecmaContext, n, anchor *sitter.Node, exported bool, fallback string) (codemap.Class, bool) {
	name := fieldText(n, "name", ctx.src)
	if name == "" {
		name = fallback
	}
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Class{}, false
	}

	cls := codemap.Class{
		Header: header(name, Resolve(ctx.lang, Signal{Exported: exported}), n),
		Doc:    docsFor(w.docs, ctx.opts, anchor, ctx.src),
	}

	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "method_definition", "method_signature", "abstract_method_signature":
			if fn, ok := w.method(ctx, m); ok {
				cls.Members = append(cls.Members, fn)
			}
		case "public_field_definition", "field_definition":
			if field, ok := w.field(ctx, m); ok {
				cls.Fields = append(cls.Fields, field)
			}
		}
	}
	return cls, true
}

func (w *ecmaWalker) method(ctx ecmaContext, m *sitter.Node) (codemap.Function, bool) {
	name := fieldText(m, "name", ctx.src)
	body := m.ChildByFieldName("body")
	if name == "" || brokenHeader(m, body) {
		return codemap.Function{}, false
	}

	modifier := nodeText(findChildByType(m, "accessibility_modifier"), ctx.src)
	return codemap.Function{
		Header:    header(name, Resolve(ctx.lang, Signal{Member: true, Modifier: modifier, Name: name}), m),
		Signature: Signature(ctx.src, m, body, nil),
		IsAsync:   hasToken(m, "async"),
		Doc:       docsFor(w.docs, ctx.opts, m, ctx.src),
	}, true
}

func (w *ecmaWalker) field(ctx ecmaContext, m *sitter.Node) (codemap.Field, bool) {
	if m.HasError() {
		return codemap.Field{}, false
	}
	name := fieldText(m, "name", ctx.src)
	if name == "" {
		name = fieldText(m, "property", ctx.src)
	}
	if name == "" {
		return codemap.Field{}, false
	}

	modifier := nodeText(findChildByType(m, "accessibility_modifier"), ctx.src)
	return codemap.Field{
		Name:       name,
		Type:       w.annotation(m.ChildByFieldName("type"), ctx.src),
		Visibility: Resolve(ctx.lang, Signal{Member: true, Modifier: modifier, Name: name}),
	}, true
}

// annotation returns a type annotation without its leading colon, or "" for
// untyped grammars.
func (w *ecmaWalker) annotation(t *sitter.Node, src []byte) string {
	if !w.typed || t == nil {
		return ""
	}
	text := collapseSpace(nodeText(t, src))
	return strings.TrimSpace(strings.TrimPrefix(text, ":"))
}

func (w *ecmaWalker) iface(ctx ecmaContext, n, anchor *sitter.Node, exported bool) (codemap.Interface, bool) {
	name := fieldText(n, "name", ctx.src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Interface{}, false
	}

	var members []string
	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "property_signature", "method_signature", "call_signature", "construct_signature", "index_signature":
			if !m.HasError() {
				members = append(members, strings.TrimRight(collapseSpace(nodeText(m, ctx.src)), ",;"))
			}
		}
	}

	return codemap.Interface{
		Header:  header(name, Resolve(ctx.lang, Signal{Exported: exported}), n),
		Members: members,
		Doc:     docsFor(w.docs, ctx.opts, anchor, ctx.src),
	}, true
}

func (w *ecmaWalker) enum(ctx ecmaContext, n, anchor *sitter.Node, exported bool) (codemap.Enum, bool) {
	name := fieldText(n, "name", ctx.src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Enum{}, false
	}

	var variants []string
	for _, v := range namedChildren(body) {
		if v.Kind() == "comment" || v.HasError() {
			continue
		}
		variants = append(variants, collapseSpace(nodeText(v, ctx.src)))
	}

	return codemap.Enum{
		Header:   header(name, Resolve(ctx.lang, Signal{Exported: exported}), n),
		Variants: variants,
		Doc:      docsFor(w.docs, ctx.opts, anchor, ctx.src),
	}, true
}

// lexical turns function-valued bindings into functions and top-level
// `const` bindings into constants. Destructuring patterns are skipped.
func (w *ecmaWalker) lexical(ctx ecmaContext, n, anchor *sitter.Node, prefix string, decls []codemap.Declaration) []codemap.Declaration {
	keyword := ""
	if first := n.Child(0); first != nil {
		keyword = first.Kind()
	}
	vis := Resolve(ctx.lang, Signal{Exported: prefix != ""})

	for _, d := range findChildrenByType(n, "variable_declarator") {
		nameNode := d.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" || d.IsError() {
			continue
		}
		name := nodeText(nameNode, ctx.src)
		value := d.ChildByFieldName("value")

		if value != nil && isFunctionValue(value.Kind()) {
			body := value.ChildByFieldName("body")
			if brokenHeader(value, body) {
				continue
			}
			sig := prefix + keyword + " " + name
			if t := d.ChildByFieldName("type"); t != nil && w.typed {
				sig += collapseSpace(nodeText(t, ctx.src))
			}
			sig += " = " + Signature(ctx.src, value, body, nil)
			decls = append(decls, codemap.Function{
				Header:    header(name, vis, n),
				Signature: sig,
				IsAsync:   hasToken(value, "async"),
				Doc:       docsFor(w.docs, ctx.opts, anchor, ctx.src),
			})
			continue
		}

		if keyword == "const" {
			decls = append(decls, codemap.Const{
				Header: header(name, vis, n),
				Type:   w.annotation(d.ChildByFieldName("type"), ctx.src),
			})
		}
	}
	return decls
}

func isFunctionValue(kind string) bool {
	switch kind {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}
