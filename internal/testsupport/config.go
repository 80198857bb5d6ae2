package testsupport

import (
	"path/filepath"
	"testing"

	"vidvault/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.BuildDir = filepath.Join(base, "build")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Access.Salt = "test-salt"
	// Keep key derivation fast in tests.
	cfg.Access.Iterations = 1000

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}

// WithSalt overrides the access salt on the test config.
func WithSalt(salt string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Access.Salt = salt
	}
}

// WithPartSize overrides the batch size used by tagging preparation.
func WithPartSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tagging.PartSize = size
	}
}
