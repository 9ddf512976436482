package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cours-de-latin/edittree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "edit_tree", cfg.Feature)

	b, err := cfg.BackoffStrategy()
	require.NoError(t, err)
	assert.Equal(t, edittree.BackoffForm, b.Kind())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "edittree.yaml", `
backoff:
  strategy: constant
  literal: "_"
feature: lemma_tree
workers: 4
server:
  addr: ":9090"
  allowed_origins: ["https://example.org"]
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lemma_tree", cfg.Feature)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1024, cfg.BatchSize, "unset values keep their default")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowedOrigins)

	b, err := cfg.BackoffStrategy()
	require.NoError(t, err)
	assert.Equal(t, "_", b.Degenerate("Haus"))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EDITTREE_FEATURE", "tree")
	t.Setenv("EDITTREE_WORKERS", "7")
	t.Setenv("EDITTREE_ADDR", ":1234")
	t.Setenv("EDITTREE_BACKOFF", "constant")
	t.Setenv("EDITTREE_BACKOFF_LITERAL", "?")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Feature)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, ":1234", cfg.Server.Addr)
	assert.Equal(t, edittree.ConstantBackoff("?"), mustBackoff(t, cfg))
}

func mustBackoff(t *testing.T, cfg Config) edittree.BackoffStrategy {
	t.Helper()
	b, err := cfg.BackoffStrategy()
	require.NoError(t, err)
	return b
}

func TestLoadVocabularyBackoff(t *testing.T) {
	vocab := writeFile(t, "vocab.tsv", "was\tbe\n")
	path := writeFile(t, "edittree.yaml", "backoff:\n  strategy: vocabulary\n  vocabulary: "+vocab+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	b := mustBackoff(t, cfg)
	assert.Equal(t, "be", b.Degenerate("was"))
	assert.Equal(t, "is", b.Degenerate("is"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "workers: [1"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeFile(t, "vocab.yaml", "backoff:\n  strategy: vocabulary\n"))
	assert.ErrorContains(t, err, "requires a vocabulary file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backoff", func(c *Config) { c.Backoff.Strategy = "lemma" }},
		{"empty feature", func(c *Config) { c.Feature = "" }},
		{"feature with separator", func(c *Config) { c.Feature = "a|b" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero max batch", func(c *Config) { c.Server.MaxBatch = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "form", "walking")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "walking", rec["form"])
}
