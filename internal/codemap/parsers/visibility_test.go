package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Test Plan for Resolve:
// - Rust keyword visibility: none, pub, restricted forms
// - ECMAScript export visibility and class member visibility
// - Python underscore conventions; dunder names are private like any __name
// - Go capitalization, including non-ASCII identifiers

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang codemap.Language
		sig  Signal
		want codemap.Visibility
	}{
		{"rust none", codemap.Rust, Signal{}, codemap.Private},
		{"rust pub", codemap.Rust, Signal{Modifier: "pub"}, codemap.Public},
		{"rust crate", codemap.Rust, Signal{Modifier: "pub(crate)"}, codemap.Crate},
		{"rust super", codemap.Rust, Signal{Modifier: "pub(super)"}, codemap.Crate},
		{"rust in path", codemap.Rust, Signal{Modifier: "pub(in crate::a)"}, codemap.Crate},
		{"ts exported", codemap.TypeScript, Signal{Exported: true}, codemap.Public},
		{"ts local", codemap.Tsx, Signal{}, codemap.Private},
		{"js exported", codemap.Jsx, Signal{Exported: true}, codemap.Public},
		{"member default", codemap.TypeScript, Signal{Member: true, Name: "load"}, codemap.Public},
		{"member private", codemap.TypeScript, Signal{Member: true, Modifier: "private", Name: "x"}, codemap.Private},
		{"member protected", codemap.TypeScript, Signal{Member: true, Modifier: "protected", Name: "x"}, codemap.Private},
		{"member hash", codemap.JavaScript, Signal{Member: true, Name: "#x"}, codemap.Private},
		{"python public", codemap.Python, Signal{Name: "run"}, codemap.Public},
		{"python single", codemap.Python, Signal{Name: "_helper"}, codemap.Protected},
		{"python double", codemap.Python, Signal{Name: "__secret"}, codemap.Private},
		{"python dunder", codemap.Python, Signal{Name: "__init__"}, codemap.Private},
		{"go upper", codemap.Go, Signal{Name: "Valid"}, codemap.Public},
		{"go lower", codemap.Go, Signal{Name: "valid"}, codemap.Private},
		{"go underscore", codemap.Go, Signal{Name: "_"}, codemap.Private},
		{"go unicode", codemap.Go, Signal{Name: "Ärger"}, codemap.Public},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.lang, tt.sig))
		})
	}
}
