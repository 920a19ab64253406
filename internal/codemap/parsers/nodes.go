package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pith/internal/codemap"
)

// nodeText returns the source text a node spans.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// fieldText returns the text of the named field of node, or "".
func fieldText(node *sitter.Node, field string, source []byte) string {
	return nodeText(node.ChildByFieldName(field), source)
}

// location converts a node span to a 1-indexed inclusive line range.
func location(node *sitter.Node) codemap.Location {
	start := int(node.StartPosition().Row) + 1
	end := int(node.EndPosition().Row) + 1
	// A span ending at column 0 stops at the end of the previous line.
	if node.EndPosition().Column == 0 && end > start {
		end--
	}
	return codemap.Location{StartLine: start, EndLine: end}
}

// lastRow is the 0-indexed row on which the node's text actually ends.
func lastRow(node *sitter.Node) uint {
	end := node.EndPosition()
	if end.Column == 0 && end.Row > node.StartPosition().Row {
		return end.Row - 1
	}
	return end.Row
}

// children returns every child of node, named or not.
// eachTopLevel calls fn for every child of the tree root. A panic while
// handling one child skips that child only.
func eachTopLevel(tree *Tree, fn func(n *sitter.Node)) {
	for _, n := range children(tree.Root()) {
		visit(n, fn)
	}
}

func visit(n *sitter.Node, fn func(n *sitter.Node)) {
	defer func() {
		_ = recover()
	}()
	fn(n)
}

func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// namedChildren returns the named children of node.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// findChildByType finds the first child node with the given kind.
func findChildByType(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range children(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given kind.
func findChildrenByType(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	for _, child := range children(node) {
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// fieldNodes returns every child stored under a repeated field name.
func fieldNodes(node *sitter.Node, field string) []*sitter.Node {
	cursor := node.Walk()
	defer cursor.Close()

	found := node.ChildrenByFieldName(field, cursor)
	out := make([]*sitter.Node, 0, len(found))
	for i := range found {
		out = append(out, &found[i])
	}
	return out
}

// hasToken reports whether node has a direct child of the given kind.
func hasToken(node *sitter.Node, kind string) bool {
	return findChildByType(node, kind) != nil
}

// brokenHeader reports whether anything before body carries a syntax error.
// A nil body means the whole node is the header.
func brokenHeader(node, body *sitter.Node) bool {
	if node.IsError() || node.IsMissing() {
		return true
	}
	if body == nil {
		return node.HasError()
	}
	for _, child := range children(node) {
		if child.StartByte() >= body.StartByte() {
			break
		}
		if child.HasError() || child.IsMissing() {
			return true
		}
	}
	return false
}

// collapseSpace joins all whitespace runs into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// unquote strips one layer of matching string quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
