// Package config loads pith settings.
//
// Settings come from, highest priority first:
//  1. Environment variables (PITH_*, nested keys joined with "_")
//  2. Project config (<root>/.pith/config.yml or config.yaml)
//  3. User config (~/.pith/config.yml)
//  4. Built-in defaults
//
// Command-line flags are applied by the CLI on top of the loaded result.
package config

import (
	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/tokens"
)

// Config represents the complete pith configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Tokens  TokensConfig  `yaml:"tokens" mapstructure:"tokens"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Workers int           `yaml:"workers" mapstructure:"workers"` // 0 means GOMAXPROCS
}

// ExtractConfig controls what a codemap contains.
type ExtractConfig struct {
	IncludeDocs    bool     `yaml:"include_docs" mapstructure:"include_docs"`
	IncludePrivate bool     `yaml:"include_private" mapstructure:"include_private"`
	Languages      []string `yaml:"languages" mapstructure:"languages"` // empty means all
}

// PathsConfig defines which files to extract and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// TokensConfig selects the tokenizer used for token counts.
type TokensConfig struct {
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// CacheConfig bounds the in-memory extraction cache.
type CacheConfig struct {
	Size int `yaml:"size" mapstructure:"size"` // entries, 0 disables
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			IncludeDocs:    false,
			IncludePrivate: true,
		},
		Paths: PathsConfig{
			Include: DefaultIncludePatterns(),
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"target/**",
				"dist/**",
				"build/**",
				"__pycache__/**",
				".venv/**",
			},
		},
		Tokens: TokensConfig{
			Encoding: string(tokens.DefaultEncoding),
		},
		Cache: CacheConfig{
			Size: 1024,
		},
	}
}

// DefaultIncludePatterns returns one "**/*<ext>" pattern per extension of
// every supported language.
func DefaultIncludePatterns() []string {
	var patterns []string
	for _, lang := range codemap.Languages {
		for _, ext := range lang.Extensions() {
			patterns = append(patterns, "**/*"+ext)
		}
	}
	return patterns
}

// ExtractOptions converts the extract section into engine options.
func (c *Config) ExtractOptions() codemap.ExtractOptions {
	return codemap.ExtractOptions{
		IncludeDocs:    c.Extract.IncludeDocs,
		IncludePrivate: c.Extract.IncludePrivate,
	}
}

// LanguageFilter parses extract.languages. A nil result means no filter.
func (c *Config) LanguageFilter() ([]codemap.Language, error) {
	if len(c.Extract.Languages) == 0 {
		return nil, nil
	}
	langs := make([]codemap.Language, 0, len(c.Extract.Languages))
	for _, name := range c.Extract.Languages {
		lang, err := codemap.ParseLanguage(name)
		if err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}
