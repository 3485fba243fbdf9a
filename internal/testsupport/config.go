// Package testsupport provides shared helpers for package tests: temp-dir
// configs and deterministic synthetic audio fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"foley/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "ledger.db")
	cfg.Curation.GeneratorTimeoutSeconds = 5
	cfg.Enhancement.TimeoutSeconds = 5
	cfg.Interpolation.TimeoutSeconds = 5

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithVariationCount overrides the curation variation count.
func WithVariationCount(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Curation.VariationCount = n
	}
}

// WithParallelism overrides the batch curation worker count.
func WithParallelism(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Curation.Parallelism = n
	}
}
