// Package config loads the settings shared by the edittree commands.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cours-de-latin/edittree"
	"github.com/cours-de-latin/edittree/conllu"
	"gopkg.in/yaml.v3"
)

// Config contains all settings. Safe to read concurrently; not safe to
// modify after creation.
type Config struct {
	// Backoff selects the fallback used for degenerate lemmas.
	Backoff BackoffConfig `yaml:"backoff"`

	// Feature is the CoNLL-U MISC feature holding edit tree labels.
	Feature string `yaml:"feature"`

	// Workers bounds the number of sentences processed in parallel.
	// 0 means one per CPU.
	Workers int `yaml:"workers"`

	// BatchSize is the number of sentences read before a parallel pass.
	BatchSize int `yaml:"batch_size"`

	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// BackoffConfig describes an edittree.BackoffStrategy.
type BackoffConfig struct {
	// Strategy is one of "form", "constant" or "vocabulary".
	Strategy string `yaml:"strategy"`
	// Literal is the fallback of the constant strategy.
	Literal string `yaml:"literal"`
	// Vocabulary is the form<TAB>lemma file of the vocabulary strategy.
	Vocabulary string `yaml:"vocabulary"`
}

// ServerConfig contains the REST server settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxBatch caps the number of pairs in one batch request.
	MaxBatch int `yaml:"max_batch"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backoff:   BackoffConfig{Strategy: "form"},
		Feature:   conllu.DefaultFeature,
		Workers:   0,
		BatchSize: 1024,
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxBatch:       10000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load returns the defaults, overlaid with the YAML file at path (when
// path is not empty) and then with environment variables, and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from EDITTREE_* environment variables.
// Unparsable numbers are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EDITTREE_BACKOFF"); v != "" {
		c.Backoff.Strategy = v
	}
	if v := os.Getenv("EDITTREE_BACKOFF_LITERAL"); v != "" {
		c.Backoff.Literal = v
	}
	if v := os.Getenv("EDITTREE_VOCABULARY"); v != "" {
		c.Backoff.Vocabulary = v
	}
	if v := os.Getenv("EDITTREE_FEATURE"); v != "" {
		c.Feature = v
	}
	if v := os.Getenv("EDITTREE_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Workers = i
		}
	}
	if v := os.Getenv("EDITTREE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("EDITTREE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	kind, err := edittree.ParseBackoffKind(c.Backoff.Strategy)
	if err != nil {
		return err
	}
	if kind == edittree.BackoffVocabulary && c.Backoff.Vocabulary == "" {
		return fmt.Errorf("backoff strategy vocabulary requires a vocabulary file")
	}
	if c.Feature == "" || strings.ContainsAny(c.Feature, "|=\t\n") {
		return fmt.Errorf("invalid MISC feature name %q", c.Feature)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1")
	}
	if c.Server.MaxBatch < 1 {
		return fmt.Errorf("server.max_batch must be >= 1")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// BackoffStrategy builds the configured strategy, loading the vocabulary
// file if needed.
func (c Config) BackoffStrategy() (edittree.BackoffStrategy, error) {
	kind, err := edittree.ParseBackoffKind(c.Backoff.Strategy)
	if err != nil {
		return edittree.BackoffStrategy{}, err
	}

	switch kind {
	case edittree.BackoffConstant:
		return edittree.ConstantBackoff(c.Backoff.Literal), nil
	case edittree.BackoffVocabulary:
		vocab, err := edittree.LoadVocabulary(c.Backoff.Vocabulary)
		if err != nil {
			return edittree.BackoffStrategy{}, err
		}
		return edittree.VocabularyBackoff(vocab), nil
	}
	return edittree.FormBackoff(), nil
}

// Logger returns a logger writing to w as configured.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
