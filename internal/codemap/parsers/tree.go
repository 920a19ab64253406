// Package parsers turns source text into declarations. It owns the
// tree-sitter grammars, one Adapter per language family, and the shared
// services adapters use to build signatures, docs and visibility.
package parsers

import (
	"bytes"
	"fmt"
	"sync"
	"unicode/utf8"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/pith/internal/codemap"
)

// ParseError describes why a syntax tree could not be acquired, or where the
// first syntax error in a best-effort tree sits. Line is 1-indexed, 0 if unknown.
type ParseError struct {
	Message string
	Line    int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d", e.Message, e.Line)
	}
	return e.Message
}

// Tree is a parsed file: the concrete syntax tree plus the text it spans.
type Tree struct {
	tree     *sitter.Tree
	Source   []byte
	Language codemap.Language
}

// Root returns the root node of the tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// SyntaxError reports the first ERROR or MISSING node in the tree, or nil
// when the tree is clean.
func (t *Tree) SyntaxError() *ParseError {
	root := t.Root()
	if !root.HasError() {
		return nil
	}
	if bad := firstErrorNode(root); bad != nil {
		msg := "syntax error"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %s", bad.Kind())
		}
		return &ParseError{Message: msg, Line: int(bad.StartPosition().Row) + 1}
	}
	return &ParseError{Message: "syntax error", Line: int(root.StartPosition().Row) + 1}
}

// firstErrorNode finds the earliest error in document order, descending only
// into subtrees that report errors.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

var (
	grammarsOnce sync.Once
	grammars     map[codemap.Language]*sitter.Language
)

func loadGrammars() {
	load := func(ptr unsafe.Pointer) *sitter.Language {
		return sitter.NewLanguage(ptr)
	}
	js := load(javascript.Language())
	grammars = map[codemap.Language]*sitter.Language{
		codemap.Rust:       load(rust.Language()),
		codemap.TypeScript: load(typescript.LanguageTypescript()),
		codemap.Tsx:        load(typescript.LanguageTSX()),
		codemap.JavaScript: js,
		codemap.Jsx:        js,
		codemap.Python:     load(python.Language()),
		codemap.Go:         load(golang.Language()),
	}
}

// Grammar returns the tree-sitter grammar for lang.
func Grammar(lang codemap.Language) (*sitter.Language, error) {
	grammarsOnce.Do(loadGrammars)
	g, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", codemap.ErrUnsupportedLanguage, lang)
	}
	return g, nil
}

// Parse builds a syntax tree for source. Malformed input still yields a
// best-effort tree; check Tree.SyntaxError for the first problem. The
// returned error is a *ParseError when no tree could be produced at all,
// or wraps codemap.ErrUnsupportedLanguage.
func Parse(source []byte, lang codemap.Language) (*Tree, error) {
	grammar, err := Grammar(lang)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(source) {
		return nil, &ParseError{Message: "source is not valid UTF-8", Line: invalidUTF8Line(source)}
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to initialize %s parser: %v", lang, err)}
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to parse %s source", lang)}
	}

	return &Tree{tree: tree, Source: source, Language: lang}, nil
}

func invalidUTF8Line(source []byte) int {
	line := 1
	for i := 0; i < len(source); {
		r, size := utf8.DecodeRune(source[i:])
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		i += size
	}
	return bytes.Count(source, []byte{'\n'}) + 1
}
