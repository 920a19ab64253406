package parsers

import (
	"testing"

	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// extract parses src and runs the language adapter over it.
func extract(t *testing.T, lang codemap.Language, src string, opts codemap.ExtractOptions) ([]codemap.Import, []codemap.Declaration) {
	t.Helper()

	tree, err := Parse([]byte(src), lang)
	require.NoError(t, err)
	defer tree.Close()

	adapter, err := For(lang)
	require.NoError(t, err)

	return adapter.Imports(tree), adapter.Declarations(tree, opts)
}

func allOpts() codemap.ExtractOptions {
	return codemap.ExtractOptions{IncludePrivate: true}
}

func docOpts() codemap.ExtractOptions {
	return codemap.ExtractOptions{IncludePrivate: true, IncludeDocs: true}
}

func names(decls []codemap.Declaration) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.Head().Name)
	}
	return out
}

func byName(t *testing.T, decls []codemap.Declaration, name string) codemap.Declaration {
	t.Helper()
	for _, d := range decls {
		if d.Head().Name == name {
			return d
		}
	}
	require.Failf(t, "declaration not found", "no declaration named %q in %v", name, names(decls))
	return nil
}

func functionNames(fns []codemap.Function) []string {
	out := make([]string, 0, len(fns))
	for _, f := range fns {
		out = append(out, f.Name)
	}
	return out
}

// spyDocs records how often documentation was requested.
type spyDocs struct {
	calls int
}

func (s *spyDocs) Doc(_ *sitter.Node, _ []byte) *string {
	s.calls++
	doc := "spy"
	return &doc
}
