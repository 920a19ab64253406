// Package output renders codemaps as markdown-style text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Format selects a rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options controls rendering.
type Options struct {
	Format Format
	// PublicOnly hides non-public declarations, fields and methods.
	PublicOnly bool
	// Summary appends the token summary.
	Summary bool
}

// Summary totals token counts across files.
type Summary struct {
	TotalTokens int            `json:"total_tokens"`
	Files       map[string]int `json:"files"`
	ParseErrors int            `json:"parse_errors,omitempty"`
}

// Summarize sums the token counts of cms.
func Summarize(cms []*codemap.Codemap) Summary {
	s := Summary{Files: make(map[string]int, len(cms))}
	for _, cm := range cms {
		s.TotalTokens += cm.TokenCount
		s.Files[cm.Path] = cm.TokenCount
		if cm.Failed() {
			s.ParseErrors++
		}
	}
	return s
}

// Write renders cms to w in the configured format.
func Write(w io.Writer, cms []*codemap.Codemap, opts Options) error {
	if opts.Format == FormatJSON {
		return WriteJSON(w, cms, opts)
	}
	return WriteText(w, cms, opts)
}

// WriteText writes every codemap as text, separated by horizontal rules.
func WriteText(w io.Writer, cms []*codemap.Codemap, opts Options) error {
	var b strings.Builder
	for i, cm := range cms {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(Text(cm, opts.PublicOnly))
	}
	if opts.Summary {
		s := Summarize(cms)
		if len(cms) > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "Total: %d tokens across %d files", s.TotalTokens, len(s.Files))
		if s.ParseErrors > 0 {
			fmt.Fprintf(&b, " (%d with parse errors)", s.ParseErrors)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type document struct {
	Codemaps []*codemap.Codemap `json:"codemaps"`
	Summary  *Summary           `json:"summary,omitempty"`
}

// WriteJSON writes {"codemaps": [...], "summary": {...}} as indented JSON.
func WriteJSON(w io.Writer, cms []*codemap.Codemap, opts Options) error {
	doc := document{Codemaps: make([]*codemap.Codemap, 0, len(cms))}
	for _, cm := range cms {
		if opts.PublicOnly {
			cm = cm.PublicOnly()
		}
		doc.Codemaps = append(doc.Codemaps, normalize(cm))
	}
	if opts.Summary {
		s := Summarize(cms)
		doc.Summary = &s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode codemaps: %w", err)
	}
	return nil
}

// normalize replaces nil slices so JSON shows [] rather than null.
func normalize(cm *codemap.Codemap) *codemap.Codemap {
	if cm.Imports != nil && cm.Declarations != nil {
		return cm
	}
	out := *cm
	if out.Imports == nil {
		out.Imports = []codemap.Import{}
	}
	if out.Declarations == nil {
		out.Declarations = []codemap.Declaration{}
	}
	return &out
}
