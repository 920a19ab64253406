package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mvp-joe/pith/internal/config"
	"github.com/mvp-joe/pith/internal/extractor"
	"github.com/mvp-joe/pith/internal/tokens"
)

// project is the resolved target of one command invocation.
type project struct {
	root   string // directory whose .pith/config.yml applies
	target string // file or directory to process
	isDir  bool
	cfg    *config.Config
}

// loadProject resolves arg (default ".") and loads the configuration that
// governs it. A file target uses its directory's configuration.
func loadProject(arg string) (*project, error) {
	if arg == "" {
		arg = "."
	}
	target, err := filepath.Abs(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
	}

	root := target
	if !info.IsDir() {
		root = filepath.Dir(target)
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		log.Printf("Config: docs=%v private=%v encoding=%s workers=%d cache=%d\n",
			cfg.Extract.IncludeDocs, cfg.Extract.IncludePrivate, cfg.Tokens.Encoding, cfg.Workers, cfg.Cache.Size)
	}

	return &project{root: root, target: target, isDir: info.IsDir(), cfg: cfg}, nil
}

// newEngine builds an extraction engine from the project configuration.
// The returned cache may be nil and must be closed by the caller.
func newEngine(cfg *config.Config) (*extractor.Engine, *extractor.Cache, error) {
	counter, err := tokens.NewCounter(cfg.Tokens.Encoding)
	if err != nil {
		return nil, nil, err
	}
	cache, err := extractor.NewCache(cfg.Cache.Size)
	if err != nil {
		return nil, nil, err
	}
	return extractor.New(extractor.WithCounter(counter), extractor.WithCache(cache)), cache, nil
}

// batchOptions converts the project configuration into extractor options.
func (p *project) batchOptions() (extractor.BatchOptions, error) {
	langs, err := p.cfg.LanguageFilter()
	if err != nil {
		return extractor.BatchOptions{}, err
	}
	return extractor.BatchOptions{
		Root:      p.target,
		Include:   p.cfg.Paths.Include,
		Ignore:    p.cfg.Paths.Ignore,
		Languages: langs,
		Extract:   p.cfg.ExtractOptions(),
		Workers:   p.cfg.Workers,
	}, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
