// Package extractor turns source files into codemaps. Extract handles one
// file in memory; ExtractDir discovers and extracts a whole tree.
package extractor

import (
	"fmt"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/codemap/parsers"
	"github.com/mvp-joe/pith/internal/output"
	"github.com/mvp-joe/pith/internal/tokens"
)

// Engine extracts codemaps. It holds no per-file state and is safe for
// concurrent use.
type Engine struct {
	counter tokens.Counter
	cache   *Cache
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCounter sets the token counter used for Codemap.TokenCount.
func WithCounter(counter tokens.Counter) EngineOption {
	return func(e *Engine) {
		if counter != nil {
			e.counter = counter
		}
	}
}

// WithCache memoizes results by path, content and options.
func WithCache(cache *Cache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// New creates an engine. Without WithCounter, token counts use the
// character heuristic.
func New(opts ...EngineOption) *Engine {
	e := &Engine{counter: tokens.EstimateCounter{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the codemap for one file. The only error is an
// unsupported language; parse failures are reported in Codemap.ParseError.
func (e *Engine) Extract(path string, content []byte, lang codemap.Language, opts codemap.ExtractOptions) (*codemap.Codemap, error) {
	adapter, err := parsers.For(lang)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = cacheKey(path, content, lang, opts)
		if cm, ok := e.cache.get(key); ok {
			return cm, nil
		}
	}

	cm := extract(adapter, path, content, lang, opts)
	if !opts.IncludePrivate {
		cm = cm.PublicOnly()
	}
	cm.TokenCount = e.counter.Count(output.Text(cm, false))

	if e.cache != nil {
		e.cache.set(key, cm)
	}
	return cm, nil
}

// extract runs the adapter and converts tree failures and adapter panics
// into a ParseError on the returned codemap.
func extract(adapter parsers.Adapter, path string, content []byte, lang codemap.Language, opts codemap.ExtractOptions) (cm *codemap.Codemap) {
	cm = codemap.New(path, lang)

	defer func() {
		if r := recover(); r != nil {
			cm = codemap.New(path, lang)
			cm.ParseError = fmt.Sprintf("extraction failed: %v", r)
		}
	}()

	tree, err := parsers.Parse(content, lang)
	if err != nil {
		cm.ParseError = err.Error()
		return cm
	}
	defer tree.Close()

	if perr := tree.SyntaxError(); perr != nil {
		cm.ParseError = perr.Error()
	}

	if imports := adapter.Imports(tree); imports != nil {
		cm.Imports = imports
	}
	if decls := adapter.Declarations(tree, opts); decls != nil {
		cm.Declarations = decls
	}
	return cm
}
