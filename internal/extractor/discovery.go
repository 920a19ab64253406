package extractor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds source files under a root using include and ignore globs.
// Patterns are matched against slash-separated paths relative to the root.
type Discovery struct {
	root    string
	include []compiledPattern
	ignore  []compiledPattern
}

// NewDiscovery compiles the include and ignore patterns. An empty include
// list matches every file.
func NewDiscovery(root string, include, ignore []string) (*Discovery, error) {
	d := &Discovery{root: root}

	var err error
	if d.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if d.ignore, err = compilePatterns(ignore); err != nil {
		return nil, err
	}
	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

// Discover walks the root and returns matching file paths, joined onto the
// root as given, in lexical order. When the root is a file it is returned
// as the only result, without pattern checks.
func (d *Discovery) Discover() ([]string, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", d.root, err)
	}
	if !info.IsDir() {
		return []string{d.root}, nil
	}

	files := []string{}
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if entry.IsDir() {
			if d.ignored(relPath + "/**") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.ignored(relPath) || !d.included(relPath) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", d.root, err)
	}
	return files, nil
}

// Rel returns path relative to the root in slash form, or the base name
// when the root is the file itself.
func (d *Discovery) Rel(path string) string {
	rel, err := filepath.Rel(d.root, path)
	if err != nil || rel == "." {
		return filepath.ToSlash(filepath.Base(path))
	}
	return filepath.ToSlash(rel)
}

// Ignored reports whether a root-relative path is excluded.
func (d *Discovery) Ignored(relPath string) bool {
	return d.ignored(relPath) || d.ignored(relPath+"/**")
}

func (d *Discovery) ignored(relPath string) bool {
	return matchesAnyPattern(relPath, d.ignore)
}

func (d *Discovery) included(relPath string) bool {
	if len(d.include) == 0 {
		return true
	}
	return matchesAnyPattern(relPath, d.include)
}

// matchesAnyPattern checks path against each pattern. Root-level paths
// also match "**/"-prefixed patterns with the prefix removed, so "**/*.go"
// covers "main.go" as well as "cmd/main.go".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if strings.Contains(strings.TrimSuffix(path, "/**"), "/") {
		return false
	}
	for _, cp := range patterns {
		if !strings.HasPrefix(cp.pattern, "**/") {
			continue
		}
		simplified, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/')
		if err == nil && simplified.Match(path) {
			return true
		}
	}
	return false
}
