package extractor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/output"
)

// BatchOptions controls ExtractDir.
type BatchOptions struct {
	Root    string
	Include []string
	Ignore  []string
	// Languages restricts extraction; empty means every supported language.
	Languages []codemap.Language
	Extract   codemap.ExtractOptions
	// Workers bounds concurrent files; zero means GOMAXPROCS.
	Workers int
}

// ExtractDir discovers files under opts.Root and extracts each one. Files
// with an unknown extension are skipped. A file that cannot be read yields
// a codemap carrying the read error. Results are sorted by path.
func (e *Engine) ExtractDir(ctx context.Context, opts BatchOptions, progress Progress) ([]*codemap.Codemap, error) {
	if progress == nil {
		progress = NoOpProgress{}
	}
	start := time.Now()

	discovery, err := NewDiscovery(opts.Root, opts.Include, opts.Ignore)
	if err != nil {
		return nil, err
	}
	paths, err := discovery.Discover()
	if err != nil {
		return nil, err
	}

	type job struct {
		path string
		rel  string
		lang codemap.Language
	}
	jobs := make([]job, 0, len(paths))
	for _, path := range paths {
		lang, ok := codemap.LanguageFromPath(path)
		if !ok || !wanted(lang, opts.Languages) {
			continue
		}
		jobs = append(jobs, job{path: path, rel: discovery.Rel(path), lang: lang})
	}
	progress.OnDiscoveryComplete(len(jobs))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*codemap.Codemap, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cm, err := e.extractPath(j.path, j.rel, j.lang, opts.Extract)
			if err != nil {
				return err
			}
			results[i] = cm
			progress.OnFileProcessed(j.rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *codemap.Codemap) int {
		return strings.Compare(a.Path, b.Path)
	})

	stats := Stats{Files: len(results), Duration: time.Since(start)}
	for _, cm := range results {
		stats.Tokens += cm.TokenCount
		if cm.Failed() {
			stats.ParseErrors++
		}
	}
	progress.OnComplete(stats)

	return results, nil
}

// ExtractFile reads path and extracts it, detecting the language from the
// extension and reporting the codemap under rel.
func (e *Engine) ExtractFile(path, rel string, opts codemap.ExtractOptions) (*codemap.Codemap, error) {
	lang, ok := codemap.LanguageFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", codemap.ErrUnsupportedLanguage, path)
	}
	return e.extractPath(path, rel, lang, opts)
}

func (e *Engine) extractPath(path, rel string, lang codemap.Language, opts codemap.ExtractOptions) (*codemap.Codemap, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		cm := codemap.New(rel, lang)
		cm.ParseError = fmt.Sprintf("failed to read file: %v", err)
		cm.TokenCount = e.counter.Count(output.Text(cm, false))
		return cm, nil
	}
	return e.Extract(rel, content, lang, opts)
}

func wanted(lang codemap.Language, filter []codemap.Language) bool {
	return len(filter) == 0 || slices.Contains(filter, lang)
}
