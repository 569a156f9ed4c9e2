package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/drift/internal/adapters/config"
	"go.trai.ch/drift/internal/adapters/logger"
	"go.trai.ch/drift/internal/core/domain"
)

func newLoader() *config.Loader {
	log := logger.New()
	log.SetOutput(os.Stderr)
	return config.NewLoader(log)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestLoader_Load_MissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := newLoader().Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, domain.DefaultDebounce, cfg.Debounce)
	assert.Equal(t, domain.DefaultCacheBudget, cfg.CacheBudget)
	assert.Equal(t, domain.DefaultSnapshotTTL, cfg.SnapshotTTL)
	assert.Equal(t, domain.DefaultIncludes, cfg.Include)
	assert.Equal(t, domain.DefaultExcludes, cfg.Exclude)
	assert.Equal(t, domain.SeverityError, cfg.SeverityFor(domain.RuleAccessibility))
	assert.Equal(t, domain.SeverityWarning, cfg.SeverityFor(domain.RuleSpacing))
}

func TestLoader_Load_FullFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
version: "1"
include:
  - "src/**/*.tsx"
exclude:
  - "src/generated/**"
watch:
  debounce: 150ms
cache:
  budget: 1048576
  snapshotTTL: 12h
  parallelism: 2
  extractTimeout: 1s
  maxFileSize: 2048
  revalidate: true
  history: 25
style:
  spacingGrid: 8
  naming: PascalCase
rules:
  inline-style: "off"
  spacing-violation: error
`)

	cfg, err := newLoader().Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.tsx"}, cfg.Include)
	assert.Equal(t, []string{"src/generated/**"}, cfg.Exclude)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, int64(1048576), cfg.CacheBudget)
	assert.Equal(t, 12*time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, time.Second, cfg.ExtractTimeout)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.True(t, cfg.RevalidateOnLoad)
	assert.Equal(t, 25, cfg.History)
	assert.Equal(t, 8, cfg.SpacingGrid)
	assert.Equal(t, domain.NamingPascal, cfg.Naming)
	assert.Equal(t, domain.SeverityOff, cfg.SeverityFor(domain.RuleInlineStyle))
	assert.Equal(t, domain.SeverityError, cfg.SeverityFor(domain.RuleSpacing))
	// Unconfigured rules keep their defaults.
	assert.Equal(t, domain.SeverityError, cfg.SeverityFor(domain.RuleAccessibility))
}

func TestLoader_Load_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "bad yaml",
			content: "include: [unclosed",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad severity",
			content: "rules:\n  inline-style: loud\n",
			wantErr: domain.ErrInvalidSeverity,
		},
		{
			name:    "bad naming",
			content: "style:\n  naming: SHOUTY_CASE\n",
			wantErr: domain.ErrInvalidNaming,
		},
		{
			name:    "bad duration",
			content: "watch:\n  debounce: soon\n",
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := newLoader().Load(root)
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_DiscoverRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))
	writeConfig(t, root, "version: \"1\"\n")

	found, err := newLoader().DiscoverRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestLoader_DiscoverRoot_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	found, err := newLoader().DiscoverRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, found)
}
