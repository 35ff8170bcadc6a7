package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, name string, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, "independent", cfg.Overlap)
	assert.Equal(t, 64*1024, cfg.Oracle.MaxSnippetBytes)
	assert.Contains(t, cfg.ExcludeDirs, "__pycache__")
}

func TestLoadYAMLFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".commentscan.yaml", `
workers: 3
overlap: dedupe
exclude_dirs: [build, dist]
oracle:
  max_depth: 50
  parse_timeout: 2s
  cache_size: 0
`)

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "dedupe", cfg.Overlap)
	assert.Equal(t, []string{"build", "dist"}, cfg.ExcludeDirs)
	assert.Equal(t, 50, cfg.Oracle.MaxDepth)
	assert.Equal(t, 2*time.Second, cfg.Oracle.ParseTimeout)
	assert.Equal(t, 0, cfg.OracleOptions().CacheSize)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".commentscan.yaml", "workers: 3\n")
	t.Setenv("COMMENTSCAN_WORKERS", "7")
	t.Setenv("COMMENTSCAN_ORACLE_MAX_DEPTH", "12")

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 12, cfg.Oracle.MaxDepth)
}

func TestChangedFlagOverridesEnv(t *testing.T) {
	t.Setenv("COMMENTSCAN_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "table", "")
	flags.Int("workers", 0, "")
	require.NoError(t, flags.Parse([]string{"--workers", "5"}))

	cfg, err := Load(Options{Dir: t.TempDir(), Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 5, cfg.Workers)
}

func TestExplicitMissingFileFails(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Format = "xml"
	var configErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Equal(t, "format", configErr.Field)

	cfg = Default()
	cfg.Overlap = "merge"
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Equal(t, "overlap", configErr.Field)

	cfg = Default()
	cfg.Workers = -1
	require.ErrorAs(t, cfg.Validate(), &configErr)
	assert.Equal(t, "workers", configErr.Field)
}
