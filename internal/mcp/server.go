// Package mcp serves codemaps over the Model Context Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/pith/internal/config"
	"github.com/mvp-joe/pith/internal/extractor"
)

// Server manages the MCP server lifecycle.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates an MCP server exposing the codemap tool for the project
// rooted at root.
func NewServer(root, version string, cfg *config.Config, engine *extractor.Engine) *Server {
	s := server.NewMCPServer(
		"pith",
		version,
		server.WithToolCapabilities(true),
	)
	AddCodemapTool(s, engine, root, cfg)

	return &Server{mcp: s}
}

// Serve runs the server on stdio until the client disconnects, a signal
// arrives, or ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
