package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/tokens"
)

// Test Plan for CLI commands:
// - loadProject resolves directories and files and applies .pith/config.yml
// - codemap renders text and JSON for a project, honoring config filters
// - tokens counts raw files, per file and in total, in text and JSON
// - languages lists every language with its extensions
// - init writes a config file once and refuses to overwrite it
// - version prints build information

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func sampleProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"src/lib.rs":            "pub struct Point { pub x: i32 }\nimpl Point { pub fn norm(&self) -> i32 { 0 } }\nfn private_helper() {}\n",
		"web/app.ts":            "export function greet(name: string): string { return name; }\n",
		"node_modules/dep/x.js": "export const x = 1;\n",
		"README.md":             "# sample\n",
	})
}

func runCodemapFor(t *testing.T, root string, asJSON bool) string {
	t.Helper()

	p, err := loadProject(root)
	require.NoError(t, err)
	engine, cache, err := newEngine(p.cfg)
	require.NoError(t, err)
	defer cache.Close()

	var out bytes.Buffer
	r := &codemapRunner{project: p, engine: engine, json: asJSON, quiet: true, out: &out, errOut: io.Discard}
	require.NoError(t, r.render(context.Background()))
	return out.String()
}

func TestLoadProject(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)

	p, err := loadProject(root)
	require.NoError(t, err)
	assert.True(t, p.isDir)
	assert.Equal(t, root, p.root)

	file := filepath.Join(root, "src", "lib.rs")
	p, err = loadProject(file)
	require.NoError(t, err)
	assert.False(t, p.isDir)
	assert.Equal(t, file, p.target)
	assert.Equal(t, filepath.Dir(file), p.root)

	_, err = loadProject(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestCodemap_Text(t *testing.T) {
	t.Parallel()

	out := runCodemapFor(t, sampleProject(t), false)

	assert.Contains(t, out, "## src/lib.rs")
	assert.Contains(t, out, "#### struct Point (line 1)")
	assert.Contains(t, out, "- pub fn norm(&self) -> i32 (line 2)")
	assert.Contains(t, out, "private_helper")
	assert.Contains(t, out, "## web/app.ts")
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, out, "across 2 files")
}

func TestCodemap_JSONWithConfig(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".pith"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pith", "config.yml"),
		[]byte("extract:\n  include_private: false\n  languages: [rust]\n"), 0644))

	out := runCodemapFor(t, root, true)

	var doc struct {
		Codemaps []*codemap.Codemap `json:"codemaps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Codemaps, 1)
	assert.Equal(t, "src/lib.rs", doc.Codemaps[0].Path)
	require.Len(t, doc.Codemaps[0].Declarations, 1)
	assert.Equal(t, "Point", doc.Codemaps[0].Declarations[0].Head().Name)
}

func TestTokens(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	p, err := loadProject(root)
	require.NoError(t, err)

	report, err := countTokens(p, tokens.EstimateCounter{})
	require.NoError(t, err)
	assert.Len(t, report.Files, 2)
	assert.Equal(t, []string{"src/lib.rs", "web/app.ts"}, report.order)
	assert.Equal(t, report.Files["src/lib.rs"]+report.Files["web/app.ts"], report.TotalTokens)

	var text bytes.Buffer
	require.NoError(t, writeTokenReport(&text, report, false, true))
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "src/lib.rs"))
	assert.Contains(t, lines[2], "across 2 files (estimate)")

	var js bytes.Buffer
	require.NoError(t, writeTokenReport(&js, report, true, false))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.EqualValues(t, report.TotalTokens, decoded["total_tokens"])
	assert.NotContains(t, decoded, "order")
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer
	require.NoError(t, writeLanguages(&text, false))
	assert.Contains(t, text.String(), "rust")
	assert.Contains(t, text.String(), ".cjs .js .mjs")
	assert.Len(t, strings.Split(strings.TrimSpace(text.String()), "\n"), len(codemap.Languages))

	var js bytes.Buffer
	require.NoError(t, writeLanguages(&js, true))
	var infos []languageInfo
	require.NoError(t, json.Unmarshal(js.Bytes(), &infos))
	require.Len(t, infos, len(codemap.Languages))
	assert.Equal(t, codemap.Rust, infos[0].Language)
	assert.Equal(t, []string{".rs"}, infos[0].Extensions)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Pith dev")
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", root})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "config.yml")
	assert.FileExists(t, filepath.Join(root, ".pith", "config.yml"))

	rootCmd.SetArgs([]string{"init", root})
	assert.Error(t, rootCmd.Execute())
}
