package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/tokens"
)

var (
	// ErrInvalidEncoding indicates an unknown tokenizer encoding
	ErrInvalidEncoding = errors.New("invalid token encoding")

	// ErrInvalidLanguage indicates an unsupported language in extract.languages
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptyInclude indicates that no include patterns were configured
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheSize indicates a negative cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete. Every
// problem is reported; use errors.Is with the sentinels above to test for one.
func Validate(cfg *Config) error {
	var errs []error

	for _, name := range cfg.Extract.Languages {
		if _, err := codemap.ParseLanguage(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q (valid: %v)", ErrInvalidLanguage, name, codemap.Languages))
		}
	}

	errs = append(errs, validatePaths(&cfg.Paths)...)

	if _, err := tokens.ParseEncoding(cfg.Tokens.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q (valid: %v)", ErrInvalidEncoding, cfg.Tokens.Encoding, tokens.Encodings))
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if cfg.Cache.Size < 0 {
		errs = append(errs, fmt.Errorf("%w: cache.size cannot be negative, got %d", ErrInvalidCacheSize, cfg.Cache.Size))
	}

	return errors.Join(errs...)
}

func validatePaths(cfg *PathsConfig) []error {
	var errs []error

	if len(cfg.Include) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one pattern required", ErrEmptyInclude))
	}

	for _, pattern := range append(append([]string(nil), cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return errs
}
