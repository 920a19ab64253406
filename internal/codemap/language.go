package codemap

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedLanguage is returned when a file or tag has no adapter.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language identifies the grammar used to extract a file.
type Language string

const (
	Rust       Language = "rust"
	TypeScript Language = "typescript"
	Tsx        Language = "tsx"
	JavaScript Language = "javascript"
	Jsx        Language = "jsx"
	Python     Language = "python"
	Go         Language = "go"
)

// Languages lists every supported language in display order.
var Languages = []Language{Rust, TypeScript, Tsx, JavaScript, Jsx, Python, Go}

var extensions = map[string]Language{
	".rs":  Rust,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": Tsx,
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": Jsx,
	".py":  Python,
	".pyi": Python,
	".go":  Go,
}

var aliases = map[string]Language{
	"rs":         Rust,
	"ts":         TypeScript,
	"js":         JavaScript,
	"py":         Python,
	"golang":     Go,
	"node":       JavaScript,
	"python3":    Python,
	"ecmascript": JavaScript,
}

// LanguageFromPath detects the language of a file by its extension.
func LanguageFromPath(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ParseLanguage resolves a language tag or one of its aliases.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, lang := range Languages {
		if string(lang) == key {
			return lang, nil
		}
	}
	if lang, ok := aliases[key]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Extensions returns the file extensions mapped to lang, sorted.
func (l Language) Extensions() []string {
	var exts []string
	for ext, lang := range extensions {
		if lang == l {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Valid reports whether l is one of the supported tags.
func (l Language) Valid() bool {
	for _, lang := range Languages {
		if lang == l {
			return true
		}
	}
	return false
}

func (l Language) String() string {
	return string(l)
}
