// Package config handles configuration loading and validation for chaosimg.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ChaosImg/pkg/cipher"
	"ChaosImg/pkg/cipher/acm"
	"ChaosImg/pkg/cipher/duffing"
)

// Config is the complete chaosimg configuration.
type Config struct {
	Cipher   CipherConfig   `toml:"cipher" json:"cipher" yaml:"cipher"`
	Analysis AnalysisConfig `toml:"analysis" json:"analysis" yaml:"analysis"`
	Output   OutputConfig   `toml:"output" json:"output" yaml:"output"`
	Logging  LoggingConfig  `toml:"logging" json:"logging" yaml:"logging"`
	History  HistoryConfig  `toml:"history" json:"history" yaml:"history"`
	Watch    WatchConfig    `toml:"watch" json:"watch" yaml:"watch"`
}

// CipherConfig selects the scheme and the constants of both cipher stages.
// Changing a constant changes the cipher: images encrypted under one set
// only decrypt under the same set.
type CipherConfig struct {
	Scheme   string  `toml:"scheme" json:"scheme" yaml:"scheme"`
	CatA     int     `toml:"cat_a" json:"cat_a" yaml:"cat_a"`
	CatB     int     `toml:"cat_b" json:"cat_b" yaml:"cat_b"`
	DuffingA float64 `toml:"duffing_a" json:"duffing_a" yaml:"duffing_a"`
	DuffingB float64 `toml:"duffing_b" json:"duffing_b" yaml:"duffing_b"`
	WarmUp   int     `toml:"warmup" json:"warmup" yaml:"warmup"`
}

// AnalysisConfig controls the statistics run by analyze and compare.
type AnalysisConfig struct {
	// Samples is the number of pixel pairs drawn per correlation direction
	Samples int `toml:"samples" json:"samples" yaml:"samples"`
	// Seed fixes correlation sampling; 0 seeds from the clock
	Seed uint64 `toml:"seed" json:"seed" yaml:"seed"`
}

// OutputConfig controls where and under which names results are written.
type OutputConfig struct {
	Dir           string `toml:"dir" json:"dir" yaml:"dir"`
	EncryptPrefix string `toml:"encrypt_prefix" json:"encrypt_prefix" yaml:"encrypt_prefix"`
	DecryptPrefix string `toml:"decrypt_prefix" json:"decrypt_prefix" yaml:"decrypt_prefix"`
	// Resize squares non-square inputs to min(w,h); when false they are rejected
	Resize bool `toml:"resize" json:"resize" yaml:"resize"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `toml:"level" json:"level" yaml:"level"`
	Format   string `toml:"format" json:"format" yaml:"format"`
	Output   string `toml:"output" json:"output" yaml:"output"`
	FilePath string `toml:"file" json:"file" yaml:"file"`
}

// HistoryConfig controls the operation history database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// WatchConfig controls hot-folder encryption.
type WatchConfig struct {
	DebounceMs int  `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
	Recursive  bool `toml:"recursive" json:"recursive" yaml:"recursive"`
}

// Pipeline returns the cipher pipeline described by the [cipher] section.
func (c *Config) Pipeline() cipher.Pipeline {
	return cipher.Pipeline{
		CatMap: acm.Map{A: c.Cipher.CatA, B: c.Cipher.CatB},
		Duffing: duffing.Params{
			A:      c.Cipher.DuffingA,
			B:      c.Cipher.DuffingB,
			WarmUp: c.Cipher.WarmUp,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the output directory and the parents of the
// history database and log file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Output.Dir}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Logging.Output == "file" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ChaosImgDir returns the base chaosimg directory, ~/.chaosimg unless
// CHAOSIMG_DATA_DIR is set.
func ChaosImgDir() string {
	if envDir := os.Getenv("CHAOSIMG_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chaosimg"
	}
	return filepath.Join(home, ".chaosimg")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ChaosImgDir(), "config.toml")
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with CHAOSIMG_ and use underscores.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("CHAOSIMG_SCHEME"); v != "" {
		c.Cipher.Scheme = v
	}
	if v := os.Getenv("CHAOSIMG_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}

	// Logging overrides
	if v := os.Getenv("CHAOSIMG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHAOSIMG_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CHAOSIMG_LOG_PATH"); v != "" {
		c.Logging.Output = "file"
		c.Logging.FilePath = v
	}

	// History overrides
	if v := os.Getenv("CHAOSIMG_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("CHAOSIMG_HISTORY_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHAOSIMG_HISTORY_ENABLED: %w", err)
		}
		c.History.Enabled = enabled
	}

	if v := os.Getenv("CHAOSIMG_ANALYSIS_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHAOSIMG_ANALYSIS_SAMPLES: %w", err)
		}
		c.Analysis.Samples = n
	}
	if v := os.Getenv("CHAOSIMG_ANALYSIS_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHAOSIMG_ANALYSIS_SEED: %w", err)
		}
		c.Analysis.Seed = n
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
