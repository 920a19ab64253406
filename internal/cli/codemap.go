package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/extractor"
	"github.com/mvp-joe/pith/internal/output"
	"github.com/mvp-joe/pith/internal/watcher"
)

var codemapFlags struct {
	json           bool
	includeDocs    bool
	includePrivate bool
	languages      []string
	encoding       string
	watch          bool
	quiet          bool
}

// codemapCmd represents the codemap command
var codemapCmd = &cobra.Command{
	Use:   "codemap [path]",
	Short: "Print the codemap of a file or directory",
	Long: `Codemap parses source files and prints their imports and declarations
(functions, structs, enums, traits, interfaces, classes, type aliases and
constants) with signatures and line ranges. Bodies are omitted.

Settings come from .pith/config.yml in the target directory, PITH_* environment
variables, and the flags below (flags win).

Examples:
  # Map the current directory
  pith codemap

  # Public API of a crate, with doc comments, as JSON
  pith codemap src --include-private=false --include-docs --json

  # Only Go and Python files, regenerated on every change
  pith codemap . --lang go,python --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCodemap,
}

func init() {
	rootCmd.AddCommand(codemapCmd)
	codemapCmd.Flags().BoolVar(&codemapFlags.json, "json", false, "Emit JSON instead of text")
	codemapCmd.Flags().BoolVar(&codemapFlags.includeDocs, "include-docs", false, "Include doc comments and docstrings")
	codemapCmd.Flags().BoolVar(&codemapFlags.includePrivate, "include-private", true, "Include private declarations and members")
	codemapCmd.Flags().StringSliceVar(&codemapFlags.languages, "lang", nil, "Restrict to these languages (e.g. rust,ts,py)")
	codemapCmd.Flags().StringVar(&codemapFlags.encoding, "encoding", "", "Token encoding: cl100k_base or o200k_base")
	codemapCmd.Flags().BoolVarP(&codemapFlags.watch, "watch", "w", false, "Regenerate the codemap when files change")
	codemapCmd.Flags().BoolVarP(&codemapFlags.quiet, "quiet", "q", false, "Disable progress output")
}

func runCodemap(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p, err := loadProject(firstArg(args))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("include-docs") {
		p.cfg.Extract.IncludeDocs = codemapFlags.includeDocs
	}
	if flags.Changed("include-private") {
		p.cfg.Extract.IncludePrivate = codemapFlags.includePrivate
	}
	if flags.Changed("lang") {
		p.cfg.Extract.Languages = codemapFlags.languages
	}
	if flags.Changed("encoding") {
		p.cfg.Tokens.Encoding = codemapFlags.encoding
	}

	engine, cache, err := newEngine(p.cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	r := &codemapRunner{
		project: p,
		engine:  engine,
		json:    codemapFlags.json,
		quiet:   codemapFlags.quiet,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	if err := r.render(ctx); err != nil {
		return err
	}
	if !codemapFlags.watch {
		return nil
	}
	return r.watch(ctx)
}

// codemapRunner extracts and renders one project, once or on every change.
type codemapRunner struct {
	project *project
	engine  *extractor.Engine
	json    bool
	quiet   bool
	out     io.Writer
	errOut  io.Writer
}

func (r *codemapRunner) render(ctx context.Context) error {
	opts, err := r.project.batchOptions()
	if err != nil {
		return err
	}

	cms, err := r.engine.ExtractDir(ctx, opts, newProgressReporter(r.quiet, r.errOut))
	if err != nil {
		return err
	}

	format := output.FormatText
	if r.json {
		format = output.FormatJSON
	}
	return output.Write(r.out, cms, output.Options{Format: format, Summary: true})
}

// watch re-renders after each debounced batch of changes until ctx ends.
func (r *codemapRunner) watch(ctx context.Context) error {
	p := r.project
	discovery, err := extractor.NewDiscovery(p.root, p.cfg.Paths.Include, p.cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	opts := watcher.Options{
		Match: func(path string) bool {
			if !p.isDir {
				return path == p.target
			}
			_, ok := codemap.LanguageFromPath(path)
			return ok && !discovery.Ignored(discovery.Rel(path))
		},
		SkipDir: func(path string) bool {
			return discovery.Ignored(discovery.Rel(path))
		},
	}

	w, err := watcher.New(p.root, opts)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(files []string) {
		log.Printf("%d files changed, regenerating...\n", len(files))
		if !r.json {
			fmt.Fprintf(r.out, "\n<!-- regenerated %s -->\n\n", time.Now().Format(time.TimeOnly))
		}
		if err := r.render(ctx); err != nil {
			log.Printf("Warning: regeneration failed: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	if !r.quiet {
		fmt.Fprintf(r.errOut, "Watching %s for changes (Ctrl+C to stop)\n", p.root)
	}
	<-ctx.Done()
	return nil
}
