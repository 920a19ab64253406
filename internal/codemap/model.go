// Package codemap defines the language-agnostic declaration model produced
// for each source file: imports, top-level declarations and their members.
package codemap

import (
	"fmt"
)

// Visibility is how broadly a declaration is exposed.
// The zero value is Private.
type Visibility int

const (
	Private Visibility = iota
	Public
	Crate
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "pub"
	case Crate:
		return "pub(crate)"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// MarshalText encodes the visibility using its display form.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts the display form produced by MarshalText.
func (v *Visibility) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pub", "public":
		*v = Public
	case "pub(crate)", "crate":
		*v = Crate
	case "protected":
		*v = Protected
	case "private", "":
		*v = Private
	default:
		return fmt.Errorf("unknown visibility %q", string(b))
	}
	return nil
}

// Location is a 1-indexed inclusive line span.
type Location struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// Lines returns the number of lines covered by the span.
func (l Location) Lines() int {
	return l.EndLine - l.StartLine + 1
}

func (l Location) String() string {
	if l.StartLine == l.EndLine {
		return fmt.Sprintf("line %d", l.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", l.StartLine, l.EndLine)
}

// Field is a named member of a struct or class. Type is captured as written
// and is empty when the language carries no annotation.
type Field struct {
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// Import is one import statement. Items is empty for whole-module imports.
// The entries "default" and "*" mark default and wildcard imports.
type Import struct {
	Source string   `json:"source"`
	Items  []string `json:"items,omitempty"`
}

const (
	DefaultImport  = "default"
	WildcardImport = "*"
)

// Kind tags a Declaration variant.
type Kind string

const (
	KindFunction  Kind = "function"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindTrait     Kind = "trait"
	KindTypeAlias Kind = "type_alias"
	KindConst     Kind = "const"
	KindInterface Kind = "interface"
	KindClass     Kind = "class"
)

// Header holds what every declaration carries.
type Header struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Location   Location   `json:"location"`
}

// Head returns the shared declaration header.
func (h Header) Head() Header { return h }

// Declaration is the closed set of top-level constructs a file can declare.
// Implementations are Function, Struct, Enum, Trait, TypeAlias, Const,
// Interface and Class.
type Declaration interface {
	Head() Header
	Kind() Kind
	declaration()
}

// Function is a free function, or a method when nested in a Struct, Enum or Class.
type Function struct {
	Header
	Signature string  `json:"signature"`
	IsAsync   bool    `json:"is_async,omitempty"`
	Doc       *string `json:"doc,omitempty"`
}

type Struct struct {
	Header
	Fields  []Field    `json:"fields,omitempty"`
	Methods []Function `json:"methods,omitempty"`
	Doc     *string    `json:"doc,omitempty"`
}

// Enum variants are rendered as literal source text including associated data.
type Enum struct {
	Header
	Variants []string   `json:"variants,omitempty"`
	Methods  []Function `json:"methods,omitempty"`
	Doc      *string    `json:"doc,omitempty"`
}

// Trait methods are signature text only.
type Trait struct {
	Header
	Methods []string `json:"methods,omitempty"`
	Doc     *string  `json:"doc,omitempty"`
}

type TypeAlias struct {
	Header
	Target string `json:"target,omitempty"`
}

type Const struct {
	Header
	Type string `json:"type,omitempty"`
}

// Interface members are signature text only.
type Interface struct {
	Header
	Members []string `json:"members,omitempty"`
	Doc     *string  `json:"doc,omitempty"`
}

type Class struct {
	Header
	Fields  []Field    `json:"fields,omitempty"`
	Members []Function `json:"members,omitempty"`
	Doc     *string    `json:"doc,omitempty"`
}

func (Function) Kind() Kind  { return KindFunction }
func (Struct) Kind() Kind    { return KindStruct }
func (Enum) Kind() Kind      { return KindEnum }
func (Trait) Kind() Kind     { return KindTrait }
func (TypeAlias) Kind() Kind { return KindTypeAlias }
func (Const) Kind() Kind     { return KindConst }
func (Interface) Kind() Kind { return KindInterface }
func (Class) Kind() Kind     { return KindClass }

func (Function) declaration()  {}
func (Struct) declaration()    {}
func (Enum) declaration()      {}
func (Trait) declaration()     {}
func (TypeAlias) declaration() {}
func (Const) declaration()     {}
func (Interface) declaration() {}
func (Class) declaration()     {}

// ExtractOptions controls what the engine captures for a file.
type ExtractOptions struct {
	// IncludeDocs enables documentation extraction. When false the
	// documentation extractor is never invoked.
	IncludeDocs bool `json:"include_docs"`
	// IncludePrivate keeps every declaration regardless of visibility.
	IncludePrivate bool `json:"include_private"`
}

// DefaultExtractOptions captures everything except documentation.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{IncludePrivate: true}
}

// Codemap is the extraction result for one file.
type Codemap struct {
	Path         string        `json:"path"`
	Language     Language      `json:"language"`
	Imports      []Import      `json:"imports"`
	Declarations []Declaration `json:"declarations"`
	TokenCount   int           `json:"token_count"`
	ParseError   string        `json:"parse_error,omitempty"`
}

// New returns an empty codemap for path. Imports and Declarations are
// empty, non-nil slices so every codemap serializes with the same shape.
func New(path string, lang Language) *Codemap {
	return &Codemap{
		Path:         path,
		Language:     lang,
		Imports:      []Import{},
		Declarations: []Declaration{},
	}
}

// Failed reports whether tree acquisition failed for this file.
func (c *Codemap) Failed() bool {
	return c.ParseError != ""
}

// DeclarationCount counts declarations plus their nested members.
func (c *Codemap) DeclarationCount() int {
	n := 0
	for _, d := range c.Declarations {
		n++
		switch d := d.(type) {
		case Struct:
			n += len(d.Fields) + len(d.Methods)
		case Enum:
			n += len(d.Variants) + len(d.Methods)
		case Trait:
			n += len(d.Methods)
		case Interface:
			n += len(d.Members)
		case Class:
			n += len(d.Fields) + len(d.Members)
		}
	}
	return n
}
