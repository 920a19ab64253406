package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/config"
	"github.com/mvp-joe/pith/internal/extractor"
)

// Test Plan for the pith_codemap tool:
// - NewServer registers the tool
// - A directory request returns JSON codemaps and a token summary
// - include_private=false hides private declarations
// - The languages argument filters files
// - Missing path, unknown languages and paths outside the root are tool errors
// - Non-map arguments are a tool error, not a system error

func projectFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"src/lib.rs":   "pub fn run() {}\nfn hidden() {}\n",
		"app/main.py":  "def main():\n    pass\n",
		"pkg/pkg.go":   "package pkg\n\nfunc Exported() {}\n",
		"notes/readme": "not code\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

type toolResponse struct {
	Codemaps []*codemap.Codemap `json:"codemaps"`
	Summary  struct {
		TotalTokens int            `json:"total_tokens"`
		Files       map[string]int `json:"files"`
	} `json:"summary"`
}

func callTool(t *testing.T, root string, args any) *mcp.CallToolResult {
	t.Helper()

	handler := createCodemapHandler(extractor.New(), root, config.Default())
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	require.NoError(t, err, "should not return system error")
	require.NotNil(t, result)
	return result
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) toolResponse {
	t.Helper()

	require.False(t, result.IsError, "should not be error result")
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")

	var response toolResponse
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), &response))
	return response
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.True(t, result.IsError, "should be error result")
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return textContent.Text
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	s := NewServer(t.TempDir(), "test", config.Default(), extractor.New())
	require.NotNil(t, s)
	assert.NotNil(t, s.mcp)
}

func TestCodemapHandler_Directory(t *testing.T) {
	t.Parallel()

	root := projectFixture(t)
	response := decodeResult(t, callTool(t, root, map[string]any{"path": "."}))

	var paths []string
	for _, cm := range response.Codemaps {
		paths = append(paths, cm.Path)
	}
	assert.Equal(t, []string{"app/main.py", "pkg/pkg.go", "src/lib.rs"}, paths)
	assert.Len(t, response.Summary.Files, 3)
	assert.Positive(t, response.Summary.TotalTokens)

	rust := response.Codemaps[2]
	require.Len(t, rust.Declarations, 2)
	assert.Equal(t, "hidden", rust.Declarations[1].Head().Name)
}

func TestCodemapHandler_PublicOnly(t *testing.T) {
	t.Parallel()

	root := projectFixture(t)
	response := decodeResult(t, callTool(t, root, map[string]any{
		"path":            "src",
		"include_private": false,
	}))

	require.Len(t, response.Codemaps, 1)
	assert.Equal(t, "lib.rs", response.Codemaps[0].Path)
	require.Len(t, response.Codemaps[0].Declarations, 1)
	assert.Equal(t, "run", response.Codemaps[0].Declarations[0].Head().Name)
}

func TestCodemapHandler_LanguageFilter(t *testing.T) {
	t.Parallel()

	root := projectFixture(t)
	response := decodeResult(t, callTool(t, root, map[string]any{
		"path":      ".",
		"languages": []any{"golang"},
	}))

	require.Len(t, response.Codemaps, 1)
	assert.Equal(t, "pkg/pkg.go", response.Codemaps[0].Path)
}

func TestCodemapHandler_Errors(t *testing.T) {
	t.Parallel()

	root := projectFixture(t)

	assert.Contains(t, errorText(t, callTool(t, root, map[string]any{})), "path parameter is required")
	assert.Contains(t, errorText(t, callTool(t, root, map[string]any{"path": "../elsewhere"})), "outside the project root")
	assert.Contains(t, errorText(t, callTool(t, root, map[string]any{"path": ".", "languages": []any{"cobol"}})), "unsupported language")
	assert.Contains(t, errorText(t, callTool(t, root, "invalid string instead of map")), "invalid arguments format")
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "work", "project")

	got, err := resolvePath(root, "src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "lib.rs"), got)

	got, err = resolvePath(root, ".")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = resolvePath(root, "/etc/passwd")
	assert.Error(t, err)

	_, err = resolvePath(root, "src/../../other")
	assert.Error(t, err)
}
