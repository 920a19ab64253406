package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Test Plan for Parse:
// - Every supported language has a grammar and an adapter
// - Clean sources report no syntax error
// - Invalid UTF-8 is a parse failure with a line number
// - Unknown languages wrap ErrUnsupportedLanguage
// - Syntax errors are located on the right line
// - A panic while visiting one top-level node skips only that node

func TestParse_AllLanguages(t *testing.T) {
	t.Parallel()

	sources := map[codemap.Language]string{
		codemap.Rust:       "fn main() {}\n",
		codemap.TypeScript: "export const x: number = 1;\n",
		codemap.Tsx:        "export const A = () => <div />;\n",
		codemap.JavaScript: "export function f() {}\n",
		codemap.Jsx:        "const A = () => <p>hi</p>;\n",
		codemap.Python:     "def f():\n    pass\n",
		codemap.Go:         "package main\n\nfunc main() {}\n",
	}

	for _, lang := range codemap.Languages {
		src, ok := sources[lang]
		require.True(t, ok, "missing sample for %s", lang)

		tree, err := Parse([]byte(src), lang)
		require.NoError(t, err, lang)
		assert.Nil(t, tree.SyntaxError(), lang)
		assert.Equal(t, lang, tree.Language)
		tree.Close()

		_, err = For(lang)
		assert.NoError(t, err, lang)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("fn a() {}\nfn b() { \xff }\n"), codemap.Rust)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "UTF-8")
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("int main() {}"), codemap.Language("c"))
	assert.ErrorIs(t, err, codemap.ErrUnsupportedLanguage)

	_, err = For(codemap.Language("c"))
	assert.ErrorIs(t, err, codemap.ErrUnsupportedLanguage)
}

func TestTree_SyntaxErrorLine(t *testing.T) {
	t.Parallel()

	src := "def ok():\n    pass\n\ndef broken(:\n    pass\n"
	tree, err := Parse([]byte(src), codemap.Python)
	require.NoError(t, err)
	defer tree.Close()

	perr := tree.SyntaxError()
	require.NotNil(t, perr)
	assert.Equal(t, 4, perr.Line)
}

func TestEachTopLevel_SkipsPanickingNode(t *testing.T) {
	t.Parallel()

	tree, err := Parse([]byte("def a():\n    pass\n\ndef b():\n    pass\n\ndef c():\n    pass\n"), codemap.Python)
	require.NoError(t, err)
	defer tree.Close()

	var visited []string
	eachTopLevel(tree, func(n *sitter.Node) {
		name := fieldText(n, "name", tree.Source)
		if name == "b" {
			panic("boom")
		}
		visited = append(visited, name)
	})

	assert.Equal(t, []string{"a", "c"}, visited)
}
