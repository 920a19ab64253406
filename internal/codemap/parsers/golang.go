package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// GoAdapter extracts Go declarations. Methods are attached to the struct
// named by their receiver; methods on other types are dropped.
type GoAdapter struct {
	docs DocExtractor
}

// NewGoAdapter creates a new Go adapter.
func NewGoAdapter() *GoAdapter {
	return &GoAdapter{docs: goDocs}
}

// Imports returns one Import per import spec. Dot imports carry the
// wildcard item; named and blank imports are whole-module imports.
func (a *GoAdapter) Imports(tree *Tree) []codemap.Import {
	src := tree.Source
	var imports []codemap.Import

	eachTopLevel(tree, func(n *sitter.Node) {
		if n.Kind() != "import_declaration" {
			return
		}
		for _, spec := range goSpecs(n, "import_spec", "import_spec_list") {
			if spec.HasError() {
				continue
			}
			path := unquote(fieldText(spec, "path", src))
			if path == "" {
				continue
			}
			imp := codemap.Import{Source: path}
			if name := spec.ChildByFieldName("name"); name != nil && name.Kind() == "dot" {
				imp.Items = []string{codemap.WildcardImport}
			}
			imports = append(imports, imp)
		}
	})
	return imports
}

// goSpecs flattens single and parenthesized spec forms.
func goSpecs(decl *sitter.Node, specKind, listKind string) []*sitter.Node {
	var specs []*sitter.Node
	for _, c := range namedChildren(decl) {
		switch c.Kind() {
		case specKind:
			specs = append(specs, c)
		case listKind:
			specs = append(specs, findChildrenByType(c, specKind)...)
		}
	}
	return specs
}

// grouped reports whether a declaration uses the parenthesized form.
func grouped(decl *sitter.Node) bool {
	if hasToken(decl, "(") {
		return true
	}
	for _, c := range namedChildren(decl) {
		if strings.HasSuffix(c.Kind(), "_list") {
			return true
		}
	}
	return false
}

// goMethod is a method seen at position at in the declaration stream.
type goMethod struct {
	receiver string
	fn       codemap.Function
	at       int
}

// Declarations returns top-level declarations in source order. Methods join
// their receiver's struct. Methods on other named types declared in the file
// stay top-level functions at their own position; methods whose receiver is
// not declared in the file are dropped.
func (a *GoAdapter) Declarations(tree *Tree, opts codemap.ExtractOptions) []codemap.Declaration {
	src := tree.Source
	methods := newMethodSet()
	var decls []codemap.Declaration
	var seen []goMethod

	eachTopLevel(tree, func(n *sitter.Node) {
		switch n.Kind() {
		case "function_declaration":
			if fn, ok := a.function(n, src, opts); ok {
				decls = append(decls, fn)
			}
		case "method_declaration":
			if fn, ok := a.function(n, src, opts); ok {
				recv := goReceiverType(n.ChildByFieldName("receiver"), src)
				methods.add(recv, fn)
				seen = append(seen, goMethod{receiver: recv, fn: fn, at: len(decls)})
			}
		case "type_declaration":
			decls = a.typeDecl(n, src, opts, decls)
		case "const_declaration":
			decls = a.valueDecl(n, "const_spec", src, decls)
		case "var_declaration":
			decls = a.valueDecl(n, "var_spec", src, decls)
		}
	})

	return goFreeMethods(methods.attach(decls), seen)
}

// goFreeMethods inserts methods whose receiver is a declared non-struct type
// into decls at the position they appeared in the source.
func goFreeMethods(decls []codemap.Declaration, seen []goMethod) []codemap.Declaration {
	owners := make(map[string]bool)
	for _, d := range decls {
		if alias, ok := d.(codemap.TypeAlias); ok {
			owners[alias.Name] = true
		}
	}

	var free []goMethod
	for _, m := range seen {
		if owners[m.receiver] {
			free = append(free, m)
		}
	}
	if len(free) == 0 {
		return decls
	}

	out := make([]codemap.Declaration, 0, len(decls)+len(free))
	next := 0
	for i, d := range decls {
		for next < len(free) && free[next].at == i {
			out = append(out, free[next].fn)
			next++
		}
		out = append(out, d)
	}
	for ; next < len(free); next++ {
		out = append(out, free[next].fn)
	}
	return out
}

func (a *GoAdapter) function(n *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Function, bool) {
	name := fieldText(n, "name", src)
	body := n.ChildByFieldName("body")
	if name == "" || brokenHeader(n, body) {
		return codemap.Function{}, false
	}

	return codemap.Function{
		Header:    header(name, Resolve(codemap.Go, Signal{Name: name}), n),
		Signature: Signature(src, n, body, nil),
		Doc:       docsFor(a.docs, opts, n, src),
	}, true
}

// goReceiverType resolves `(c *Cfg)`, `(c Cfg)` and `(l *List[T])` to the
// receiver's type name.
func goReceiverType(receiver *sitter.Node, src []byte) string {
	if receiver == nil {
		return ""
	}
	param := findChildByType(receiver, "parameter_declaration")
	if param == nil {
		return ""
	}
	t := param.ChildByFieldName("type")
	for t != nil {
		switch t.Kind() {
		case "type_identifier":
			return nodeText(t, src)
		case "pointer_type", "parenthesized_type":
			t = t.NamedChild(0)
		case "generic_type":
			t = t.ChildByFieldName("type")
		default:
			return ""
		}
	}
	return ""
}

func (a *GoAdapter) typeDecl(n *sitter.Node, src []byte, opts codemap.ExtractOptions, decls []codemap.Declaration) []codemap.Declaration {
	isGroup := grouped(n)
	for _, spec := range namedChildren(n) {
		if spec.Kind() != "type_spec" && spec.Kind() != "type_alias" {
			continue
		}
		outer := n
		if isGroup {
			outer = spec
		}
		if decl, ok := a.typeSpec(spec, outer, src, opts); ok {
			decls = append(decls, decl)
		}
	}
	return decls
}

// typeSpec maps a spec to Struct, Interface or TypeAlias. outer is the node
// that carries the doc comment and location.
func (a *GoAdapter) typeSpec(spec, outer *sitter.Node, src []byte, opts codemap.ExtractOptions) (codemap.Declaration, bool) {
	name := fieldText(spec, "name", src)
	typ := spec.ChildByFieldName("type")
	if name == "" || typ == nil || brokenHeader(spec, typ) {
		return nil, false
	}
	h := header(name, Resolve(codemap.Go, Signal{Name: name}), outer)

	switch typ.Kind() {
	case "struct_type":
		return codemap.Struct{
			Header: h,
			Fields: a.structFields(typ, src),
			Doc:    docsFor(a.docs, opts, outer, src),
		}, true
	case "interface_type":
		var members []string
		for _, m := range namedChildren(typ) {
			if m.Kind() == "comment" || m.HasError() {
				continue
			}
			members = append(members, collapseSpace(nodeText(m, src)))
		}
		return codemap.Interface{
			Header:  h,
			Members: members,
			Doc:     docsFor(a.docs, opts, outer, src),
		}, true
	}

	return codemap.TypeAlias{
		Header: h,
		Target: collapseSpace(nodeText(typ, src)),
	}, true
}

func (a *GoAdapter) structFields(st *sitter.Node, src []byte) []codemap.Field {
	var fields []codemap.Field
	for _, fd := range findChildrenByType(findChildByType(st, "field_declaration_list"), "field_declaration") {
		if fd.HasError() {
			continue
		}
		typ := collapseSpace(fieldText(fd, "type", src))
		names := fieldNodes(fd, "name")
		if len(names) == 0 {
			if hasToken(fd, "*") {
				typ = "*" + typ
			}
			embedded := goEmbeddedName(typ)
			fields = append(fields, codemap.Field{
				Name:       embedded,
				Type:       typ,
				Visibility: Resolve(codemap.Go, Signal{Name: embedded}),
			})
			continue
		}
		for _, nameNode := range names {
			name := nodeText(nameNode, src)
			fields = append(fields, codemap.Field{
				Name:       name,
				Type:       typ,
				Visibility: Resolve(codemap.Go, Signal{Name: name}),
			})
		}
	}
	return fields
}

// goEmbeddedName is the implicit field name of an embedded type:
// `*pkg.Reader[T]` is named Reader.
func goEmbeddedName(typ string) string {
	name := strings.TrimLeft(typ, "*")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// valueDecl maps const and var specs to Const declarations, one per name.
func (a *GoAdapter) valueDecl(n *sitter.Node, specKind string, src []byte, decls []codemap.Declaration) []codemap.Declaration {
	isGroup := grouped(n)
	for _, spec := range goSpecs(n, specKind, specKind+"_list") {
		if spec.HasError() {
			continue
		}
		outer := n
		if isGroup {
			outer = spec
		}
		typ := collapseSpace(fieldText(spec, "type", src))
		for _, nameNode := range fieldNodes(spec, "name") {
			name := nodeText(nameNode, src)
			if name == "_" {
				continue
			}
			decls = append(decls, codemap.Const{
				Header: header(name, Resolve(codemap.Go, Signal{Name: name}), outer),
				Type:   typ,
			})
		}
	}
	return decls
}
