package parsers

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Signature renders the declared form of node: its text up to body, with
// whitespace collapsed onto one line. When clause is non-nil (a Rust where
// clause) it is rendered as a second line. A nil body renders the whole node.
func Signature(source []byte, node, body, clause *sitter.Node) string {
	end := node.EndByte()
	if body != nil && body.StartByte() >= node.StartByte() && body.StartByte() <= end {
		end = body.StartByte()
	}

	if clause != nil && clause.StartByte() >= node.StartByte() && clause.EndByte() <= end {
		head := FormatSignature(string(source[node.StartByte():clause.StartByte()]))
		where := FormatSignature(string(source[clause.StartByte():end]))
		if where == "" {
			return head
		}
		return head + "\n" + where
	}

	return FormatSignature(string(source[node.StartByte():end]))
}

var (
	danglingComma = regexp.MustCompile(`,\s*\n\s*([)\]>}])`)
	openBreak     = regexp.MustCompile(`([(\[])[ \t]*\n\s*`)
	closeBreak    = regexp.MustCompile(`[ \t]*\n\s*([)\]])`)
)

// FormatSignature normalizes header text: line breaks just inside brackets
// are dropped, other whitespace runs become one space, and trailing body
// openers or terminators are trimmed. Text on a single line, such as a
// default value, is kept as written.
func FormatSignature(text string) string {
	s := danglingComma.ReplaceAllString(text, "$1")
	s = openBreak.ReplaceAllString(s, "$1")
	s = closeBreak.ReplaceAllString(s, "$1")
	s = collapseSpace(s)
	return trimTerminators(s)
}

var terminators = []string{"=>", "{", ";", ":", "=", ","}

func trimTerminators(s string) string {
	for {
		trimmed := strings.TrimSpace(s)
		for _, t := range terminators {
			if strings.HasSuffix(trimmed, t) {
				trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, t))
				break
			}
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
