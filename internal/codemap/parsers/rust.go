package parsers

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// RustAdapter extracts Rust items. Methods from impl blocks are merged into
// the struct or enum they implement.
type RustAdapter struct {
	docs DocExtractor
}

// NewRustAdapter creates a new Rust adapter.
func NewRustAdapter() *RustAdapter {
	return &RustAdapter{docs: rustDocs}
}

// Imports returns `use` and `extern crate` items in source order.
func (a *RustAdapter) Imports(tree *Tree) []codemap.Import {
	src := tree.Source
	var imports []codemap.Import

	eachTopLevel(tree, func(n *sitter.Node) {
		switch n.Kind() {
		case "use_declaration":
			if n.HasError() {
				return
			}
			if imp, ok := parseRustUse(fieldText(n, "argument", src)); ok {
				imports = append(imports, imp)
			}
		case "extern_crate_declaration":
			if name := fieldText(n, "name", src); name != "" {
				imports = append(imports, codemap.Import{Source: name})
			}
		}
	})
	return imports
}

// parseRustUse splits a use tree into its path and items. Aliases are kept
// as written (`bar as baz`).
func parseRustUse(arg string) (codemap.Import, bool) {
	arg = collapseSpace(arg)
	if arg == "" {
		return codemap.Import{}, false
	}

	if open := strings.Index(arg, "{"); open >= 0 {
		closeIdx := strings.LastIndex(arg, "}")
		if closeIdx < open {
			return codemap.Import{}, false
		}
		source := strings.TrimSuffix(strings.TrimSpace(arg[:open]), "::")
		var items []string
		for _, item := range splitTopLevel(arg[open+1:closeIdx], ',') {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return codemap.Import{Source: source, Items: items}, true
	}

	if i := strings.LastIndex(arg, "::"); i >= 0 {
		return codemap.Import{Source: arg[:i], Items: []string{strings.TrimSpace(arg[i+2:])}}, true
	}
	return codemap.Import{Source: arg}, true
}

// splitTopLevel splits s on sep outside of any brace nesting.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{', '(', '<', '[':
			depth++
		case '}', ')', '>', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// Declarations returns top-level items in source order.
func (a *RustAdapter) Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	src := tree.Source
	methods := newMethodSet()
	var decls []codemap.Declaration

	eachTopLevel(tree, func(n *sitter.Node) {
		var (
			decl codemap.Declaration
			ok   bool
		)
		switch n.Kind() {
		case "function_item":
			decl, ok = a.function(n, src, opts)
		case "struct_item":
			decl, ok = a.structItem(n, src, opts)
		case "enum_item":
			decl, ok = a.enumItem(n, src, opts)
		case "trait_item":
			decl, ok = a.traitItem(n, src, opts)
		case "type_item":
			decl, ok = a.typeItem(n, src)
		case "const_item", "static_item":
			decl, ok = a.constItem(n, src)
		case "impl_item":
			typeName, fns := a.implItem(n, src, opts)
			methods.add(typeName, fns...)
		}
		if ok {
			decls = append(decls, decl)
		}
	})

	return methods.attach(decls)
}

func (a *RustAdapter) visibility(n *sitter.Node, src []byte) codemap.Visibility {
	modifier := nodeText(findChildByType(n, "visibility_modifier"), src)
	return Resolve(codemap.Rust, Signal{Modifier: modifier})
}

func (a *RustAdapter) function(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Function, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Function{}, false
	}

	return codemap.Function{
		Header:    header(name, a.visibility(n, src), n),
		Signature: Signature(src, n, body, findChildByType(n, "where_clause")),
		IsAsync:   rustAsync(n, src),
		Doc:       docsFor(a.docs, opts, n, src),
	}, true
}

func rustAsync(n *sitter.Node, src []byte) bool {
	mods := findChildByType(n, "function_modifiers")
	if mods == nil {
		return false
	}
	if hasToken(mods, "async") {
		return true
	}
	for _, word := range strings.Fields(nodeText(mods, src)) {
		if word == "async" {
			return true
		}
	}
	return false
}

func (a *RustAdapter) structItem(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Struct, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Struct{}, false
	}

	var fields []codemap.Field
	if body != nil {
		switch body.Kind() {
		case "field_declaration_list":
			fields = a.namedFields(body, src)
		case "ordered_field_declaration_list":
			fields = a.tupleFields(body, src)
		}
	}

	return codemap.Struct{
		Header: header(name, a.visibility(n, src), n),
		Fields: fields,
		Doc:    docsFor(a.docs, opts, n, src),
	}, true
}

func (a *RustAdapter) namedFields(list *sitter.Node, src []byte) []codemap.Field {
	var fields []codemap.Field
	for _, fd := range namedChildren(list) {
		if fd.Kind() != "field_declaration" || fd.HasError() {
			continue
		}
		name := fieldText(fd, "name", src)
		if name == "" {
			continue
		}
		fields = append(fields, codemap.Field{
			Name:       name,
			Type:       collapseSpace(fieldText(fd, "type", src)),
			Visibility: a.visibility(fd, src),
		})
	}
	return fields
}

// tupleFields names positional fields by index.
func (a *RustAdapter) tupleFields(list *sitter.Node, src []byte) []codemap.Field {
	var (
		fields   []codemap.Field
		modifier string
	)
	for _, c := range namedChildren(list) {
		switch c.Kind() {
		case "visibility_modifier":
			modifier = nodeText(c, src)
			continue
		case "attribute_item", "line_comment", "block_comment":
			continue
		}
		if c.IsError() {
			modifier = ""
			continue
		}
		fields = append(fields, codemap.Field{
			Name:       strconv.Itoa(len(fields)),
			Type:       collapseSpace(nodeText(c, src)),
			Visibility: Resolve(codemap.Rust, Signal{Modifier: modifier}),
		})
		modifier = ""
	}
	return fields
}

func (a *RustAdapter) enumItem(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Enum, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Enum{}, false
	}

	var variants []string
	for _, v := range namedChildren(body) {
		if v.Kind() == "enum_variant" && !v.HasError() {
			variants = append(variants, collapseSpace(nodeText(v, src)))
		}
	}

	return codemap.Enum{
		Header:   header(name, a.visibility(n, src), n),
		Variants: variants,
		Doc:      docsFor(a.docs, opts, n, src),
	}, true
}

func (a *RustAdapter) traitItem(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Trait, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Trait{}, false
	}

	var methods []string
	for _, item := range namedChildren(body) {
		switch item.Kind() {
		case "function_signature_item":
			if !item.HasError() {
				methods = append(methods, Signature(src, item, nil, findChildByType(item, "where_clause")))
			}
		case "function_item":
			itemBody := item.ChildByFieldName("body")
			if !brokenHeader(item, itemBody) {
				methods = append(methods, Signature(src, item, itemBody, findChildByType(item, "where_clause")))
			}
		}
	}

	return codemap.Trait{
		Header:  header(name, a.visibility(n, src), n),
		Methods: methods,
		Doc:     docsFor(a.docs, opts, n, src),
	}, true
}

func (a *RustAdapter) typeItem(n *sitter.Node, src []byte) (codemap.TypeAlias, bool) {
	name := fieldText(n, "name", src)
	if name == "" || brokenHeader(n, nil) {
		return codemap.TypeAlias{}, false
	}
	return codemap.TypeAlias{
		Header: header(name, a.visibility(n, src), n),
		Target: collapseSpace(fieldText(n, "type", src)),
	}, true
}

func (a *RustAdapter) constItem(n *sitter.Node, src []byte) (codemap.Const, bool) {
	name := fieldText(n, "name", src)
	if name == "" || brokenHeader(n, n.ChildByFieldName("value")) {
		return codemap.Const{}, false
	}
	return codemap.Const{
		Header: header(name, a.visibility(n, src), n),
		Type:   collapseSpace(fieldText(n, "type", src)),
	}, true
}

// implItem returns the implemented type's name and the block's functions.
func (a *RustAdapter) implItem(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (string, []codemap.Function) {
	typeName := rustTypeName(n.ChildByFieldName("type"), src)
	body := n.ChildByFieldName("body")
	if typeName == "" || body == nil {
		return "", nil
	}

	var fns []codemap.Function
	for _, item := range namedChildren(body) {
		if item.Kind() != "function_item" {
			continue
		}
		if fn, ok := a.function(item, src, opts); ok {
			fns = append(fns, fn)
		}
	}
	return typeName, fns
}

// rustTypeName resolves `Point`, `Wrapper<T>` and `crate::geo::Point` to the
// bare type name.
func rustTypeName(t *sitter.Node, src []byte) string {
	if t == nil {
		return ""
	}
	switch t.Kind() {
	case "type_identifier":
		return nodeText(t, src)
	case "generic_type":
		return rustTypeName(t.ChildByFieldName("type"), src)
	case "scoped_type_identifier":
		return fieldText(t, "name", src)
	}
	return ""
}
