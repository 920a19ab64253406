package mcp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/config"
	"github.com/mvp-joe/pith/internal/extractor"
	"github.com/mvp-joe/pith/internal/output"
)

// CodemapToolName is the registered name of the codemap tool.
const CodemapToolName = "pith_codemap"

// codemapArgs are the pith_codemap tool arguments. Nil pointers fall back
// to the project configuration.
type codemapArgs struct {
	Path           string   `json:"path"`
	IncludeDocs    *bool    `json:"include_docs"`
	IncludePrivate *bool    `json:"include_private"`
	Languages      []string `json:"languages"`
}

// AddCodemapTool registers the pith_codemap tool with an MCP server. Paths
// in requests resolve against root and may not leave it.
func AddCodemapTool(s *server.MCPServer, engine *extractor.Engine, root string, cfg *config.Config) {
	tool := mcp.NewTool(
		CodemapToolName,
		mcp.WithDescription("Extract a structural codemap (imports, functions, types, signatures and line ranges) for a file or directory. Supports Rust, TypeScript, JavaScript, Python and Go. Returns JSON with a token count per file."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File or directory to map, relative to the project root (e.g., 'src', 'internal/server/handler.go')")),
		mcp.WithBoolean("include_docs",
			mcp.Description("Include doc comments and docstrings (default from project config)")),
		mcp.WithBoolean("include_private",
			mcp.Description("Include private declarations and members (default from project config)")),
		mcp.WithArray("languages",
			mcp.Description("Restrict to these languages, e.g. ['rust', 'go']. Leave empty for all."),
			mcp.Items(map[string]any{"type": "string"})),
	)

	s.AddTool(tool, createCodemapHandler(engine, root, cfg))
}

// createCodemapHandler creates the handler function for the pith_codemap tool.
func createCodemapHandler(engine *extractor.Engine, root string, cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args codemapArgs
		if err := bindArguments(argsMap, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		target, err := resolvePath(root, args.Path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		opts := extractor.BatchOptions{
			Root:    target,
			Include: cfg.Paths.Include,
			Ignore:  cfg.Paths.Ignore,
			Workers: cfg.Workers,
			Extract: cfg.ExtractOptions(),
		}
		if args.IncludeDocs != nil {
			opts.Extract.IncludeDocs = *args.IncludeDocs
		}
		if args.IncludePrivate != nil {
			opts.Extract.IncludePrivate = *args.IncludePrivate
		}

		names := args.Languages
		if names == nil {
			names = cfg.Extract.Languages
		}
		for _, name := range names {
			lang, err := codemap.ParseLanguage(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			opts.Languages = append(opts.Languages, lang)
		}

		cms, err := engine.ExtractDir(ctx, opts, nil)
		if err != nil {
			return nil, fmt.Errorf("codemap extraction failed: %w", err)
		}

		var buf bytes.Buffer
		if err := output.WriteJSON(&buf, cms, output.Options{Summary: true}); err != nil {
			return nil, err
		}

		// Return as text result (mcp-go convention)
		return mcp.NewToolResultText(buf.String()), nil
	}
}

// resolvePath joins path onto root and rejects results outside root.
func resolvePath(root, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the project root", path)
	}
	return path, nil
}
