package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pith/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing codemaps to coding assistants",
	Long: `Start a Model Context Protocol (MCP) server on stdio for the project in the
current directory.

The server provides the pith_codemap tool, which returns the JSON codemap of
a file or directory inside the project.

Example:
  pith mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	p, err := loadProject("")
	if err != nil {
		return err
	}

	engine, cache, err := newEngine(p.cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	fmt.Fprintf(os.Stderr, "Pith MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n\n", p.root)

	server := mcp.NewServer(p.root, Version, p.cfg, engine)
	if err := server.Serve(context.Background()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
