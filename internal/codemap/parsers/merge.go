package parsers

import (
	"github.com/mvp-joe/pith/internal/codemap"
)

// methodSet accumulates methods declared outside their type's body (Rust
// impl blocks, Go receivers) keyed by type name, in source order.
type methodSet struct {
	byType map[string][]codemap.Function
}

func newMethodSet() *methodSet {
	return &methodSet{byType: make(map[string][]codemap.Function)}
}

func (m *methodSet) add(typeName string, fns ...codemap.Function) {
	if typeName == "" || len(fns) == 0 {
		return
	}
	m.byType[typeName] = append(m.byType[typeName], fns...)
}

// attach returns decls with every collected method appended to the struct or
// enum of the same name. Methods for types not declared in decls are dropped.
// Declarations are copied, never modified in place.
func (m *methodSet) attach(decls []codemap.Declaration) []codemap.Declaration {
	if len(m.byType) == 0 {
		return decls
	}

	out := make([]codemap.Declaration, len(decls))
	for i, d := range decls {
		switch d := d.(type) {
		case codemap.Struct:
			if fns, ok := m.byType[d.Name]; ok {
				d.Methods = appendFunctions(d.Methods, fns)
			}
			out[i] = d
		case codemap.Enum:
			if fns, ok := m.byType[d.Name]; ok {
				d.Methods = appendFunctions(d.Methods, fns)
			}
			out[i] = d
		default:
			out[i] = d
		}
	}
	return out
}

func appendFunctions(dst, src []codemap.Function) []codemap.Function {
	merged := make([]codemap.Function, 0, len(dst)+len(src))
	merged = append(merged, dst...)
	return append(merged, src...)
}
