package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".pith"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	// Priority: defaults → user file → project file → environment (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	homeDir string
}

// NewLoader creates a loader for the project rooted at rootDir. The user
// config is looked up under the current user's home directory.
func NewLoader(rootDir string) Loader {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &loader{rootDir: rootDir, homeDir: home}
}

// Load resolves the configuration and validates it.
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix("PITH")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., PITH_TOKENS_ENCODING)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	setDefaults(v)

	if l.homeDir != "" {
		if err := mergeFile(v, filepath.Join(l.homeDir, DirName)); err != nil {
			return nil, err
		}
	}
	if err := mergeFile(v, filepath.Join(l.rootDir, DirName)); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile merges dir/config.yml or dir/config.yaml into v. A missing
// file is not an error.
func mergeFile(v *viper.Viper, dir string) error {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to open config file: %w", err)
		}
		err = v.MergeConfig(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// bindEnvVars binds every key so env-only values survive Unmarshal.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("extract.include_docs")
	v.BindEnv("extract.include_private")
	v.BindEnv("extract.languages")
	v.BindEnv("paths.include")
	v.BindEnv("paths.ignore")
	v.BindEnv("tokens.encoding")
	v.BindEnv("cache.size")
	v.BindEnv("workers")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extract.include_docs", defaults.Extract.IncludeDocs)
	v.SetDefault("extract.include_private", defaults.Extract.IncludePrivate)
	v.SetDefault("extract.languages", defaults.Extract.Languages)

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("tokens.encoding", defaults.Tokens.Encoding)
	v.SetDefault("cache.size", defaults.Cache.Size)
	v.SetDefault("workers", defaults.Workers)
}

// LoadConfig is a convenience function that loads config for the current
// working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration for a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
