package parsers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Signal is the language-specific evidence a visibility decision is made on.
// Adapters fill in only the parts their language has.
type Signal struct {
	// Modifier is a visibility keyword as written: `pub(crate)` in Rust,
	// `private` or `protected` on an ECMAScript class member.
	Modifier string
	// Exported marks an ECMAScript declaration under an export statement.
	Exported bool
	// Member marks a class member rather than a top-level declaration.
	Member bool
	// Name is the declared identifier, for convention-based languages.
	Name string
}

// Resolve maps a visibility signal to the shared Visibility for lang.
func Resolve(lang codemap.Language, s Signal) codemap.Visibility {
	switch lang {
	case codemap.Rust:
		return keywordVisibility(s.Modifier)
	case codemap.TypeScript, codemap.Tsx, codemap.JavaScript, codemap.Jsx:
		if s.Member {
			return memberVisibility(s.Modifier, s.Name)
		}
		return exportVisibility(s.Exported)
	case codemap.Python:
		return underscoreVisibility(s.Name)
	case codemap.Go:
		return caseVisibility(s.Name)
	}
	return codemap.Private
}

// keywordVisibility: no modifier is private, bare `pub` is public and any
// restricted form such as `pub(crate)` or `pub(super)` is crate-scoped.
func keywordVisibility(modifier string) codemap.Visibility {
	m := strings.Join(strings.Fields(modifier), "")
	switch {
	case m == "":
		return codemap.Private
	case m == "pub":
		return codemap.Public
	case strings.HasPrefix(m, "pub("), m == "crate":
		return codemap.Crate
	}
	return codemap.Private
}

func exportVisibility(exported bool) codemap.Visibility {
	if exported {
		return codemap.Public
	}
	return codemap.Private
}

// memberVisibility handles class members, which are public unless marked
// private or protected or named with a `#` private identifier.
func memberVisibility(modifier, name string) codemap.Visibility {
	switch strings.TrimSpace(modifier) {
	case "private", "protected":
		return codemap.Private
	}
	if strings.HasPrefix(name, "#") {
		return codemap.Private
	}
	return codemap.Public
}

// underscoreVisibility: `_name` is protected and any `__name`, dunder
// names such as `__init__` included, is private.
func underscoreVisibility(name string) codemap.Visibility {
	switch {
	case strings.HasPrefix(name, "__"):
		return codemap.Private
	case strings.HasPrefix(name, "_"):
		return codemap.Protected
	}
	return codemap.Public
}

// caseVisibility: an upper-case first letter exports the identifier.
func caseVisibility(name string) codemap.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	if r != utf8.RuneError && unicode.IsUpper(r) {
		return codemap.Public
	}
	return codemap.Private
}
