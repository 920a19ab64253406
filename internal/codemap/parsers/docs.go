package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DocExtractor finds the documentation attached to a declaration node.
// It returns nil when the node has none.
type DocExtractor interface {
	Doc(node *sitter.Node, source []byte) *string
}

// commentDocs collects the contiguous run of doc comments directly above a
// node. Only siblings are considered, so the node passed in must be the
// outermost node of the declaration (the export statement, the type
// declaration, and so on).
type commentDocs struct {
	// comment reports whether a node kind is a comment at all.
	comment func(kind string) bool
	// marker reports whether comment text is documentation and returns it
	// stripped of comment syntax. Block comments end the run.
	marker func(text string) (doc string, block bool, ok bool)
	// skip reports sibling kinds that sit between docs and the declaration
	// without breaking the run, such as attributes.
	skip func(kind string) bool
}

func (c commentDocs) Doc(node *sitter.Node, source []byte) *string {
	var lines []string
	anchor := node.StartPosition().Row

	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if lastRow(prev)+1 < anchor {
			break
		}
		kind := prev.Kind()
		if c.skip != nil && c.skip(kind) {
			anchor = prev.StartPosition().Row
			continue
		}
		if !c.comment(kind) {
			break
		}
		doc, block, ok := c.marker(nodeText(prev, source))
		if !ok {
			break
		}
		lines = append(lines, doc)
		anchor = prev.StartPosition().Row
		if block {
			break
		}
	}

	if len(lines) == 0 {
		return nil
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	doc := strings.Join(lines, "\n")
	return &doc
}

// rustDocs reads `///` line docs and `/** */` block docs, looking past attributes.
var rustDocs = commentDocs{
	comment: func(kind string) bool { return kind == "line_comment" || kind == "block_comment" },
	marker: func(text string) (string, bool, bool) {
		text = strings.TrimRight(text, "\r\n")
		switch {
		case strings.HasPrefix(text, "////"):
			return "", false, false
		case strings.HasPrefix(text, "///"):
			return strings.TrimSpace(strings.TrimPrefix(text, "///")), false, true
		case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/"):
			return stripBlockDoc(text), true, true
		}
		return "", false, false
	},
	skip: func(kind string) bool { return kind == "attribute_item" },
}

// goDocs reads the comment group directly above a declaration.
var goDocs = commentDocs{
	comment: func(kind string) bool { return kind == "comment" },
	marker: func(text string) (string, bool, bool) {
		if strings.HasPrefix(text, "//") {
			line := strings.TrimPrefix(text, "//")
			return strings.TrimPrefix(strings.TrimRight(line, "\r\n"), " "), false, true
		}
		if strings.HasPrefix(text, "/*") {
			body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
			return strings.TrimSpace(body), true, true
		}
		return "", false, false
	},
}

// jsDocs reads a single `/** */` block above a declaration.
var jsDocs = commentDocs{
	comment: func(kind string) bool { return kind == "comment" },
	marker: func(text string) (string, bool, bool) {
		if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") {
			return stripBlockDoc(text), true, true
		}
		return "", false, false
	},
	skip: func(kind string) bool { return kind == "decorator" },
}

// stripBlockDoc removes `/** */` delimiters and the leading `*` gutter.
func stripBlockDoc(text string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		out = append(out, strings.TrimPrefix(line, " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// pythonDocs reads the docstring: a string literal that is the first
// statement of the definition body.
type pythonDocs struct{}

func (pythonDocs) Doc(node *sitter.Node, source []byte) *string {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for _, stmt := range namedChildren(body) {
		if stmt.Kind() == "comment" {
			continue
		}
		if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return nil
		}
		str := stmt.NamedChild(0)
		if str == nil || str.Kind() != "string" {
			return nil
		}
		doc := stripDocstring(nodeText(str, source))
		return &doc
	}
	return nil
}

// stripDocstring removes string prefixes and quotes, keeping inner formatting.
func stripDocstring(text string) string {
	text = strings.TrimLeft(text, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(text) >= 2*len(q) && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			text = text[len(q) : len(text)-len(q)]
			break
		}
	}
	return strings.TrimSpace(text)
}
